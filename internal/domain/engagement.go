package domain

// LikeStatus is the like count of a post together with whether the
// requesting visitor has liked it.
type LikeStatus struct {
	Likes int64 `json:"likes"`
	Liked bool  `json:"liked"`
}

// RateLimitResult is the outcome of a fixed-window rate-limit check.
// ResetIn is the number of seconds until the current window expires.
type RateLimitResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetIn   int64 `json:"resetIn"`
}

// VisitorTotal is the all-time unique visitor estimate after a track
// call. Total comes from a HyperLogLog, so it is an estimate with
// roughly 0.81% standard error, not an exact count.
type VisitorTotal struct {
	Total int64 `json:"total"`
	IsNew bool  `json:"isNew"`
}
