package redis

import (
	"fmt"
	"time"
)

// Key prefixes for the engagement features. Keys are shared with the
// website's previous deployments, so the shapes are load-bearing.
const (
	prefixRateLimit = "rate:"
	prefixLikes     = "likes:"
	prefixUserLikes = "user_likes:"
	prefixReading   = "reading:"
	prefixPopular   = "popular:"
	prefixVisitors  = "visitors:"
	prefixPresence  = "presence:"
	prefixRecent    = "recent:"
	prefixViews     = "views:"
	prefixPostData  = "post:data:"
)

// TTLs.
const (
	TTLReadingProgress = 30 * 24 * time.Hour
	TTLPopularWeek     = 7 * 24 * time.Hour
	TTLVisitorsDaily   = 2 * 24 * time.Hour
	TTLPresence        = 60 * time.Second
	TTLRecent          = 30 * 24 * time.Hour
	TTLDefaultCache    = time.Hour
)

// PresenceStaleness is the horizon beyond which a presence entry no
// longer counts as an active reader.
const PresenceStaleness = 30 * time.Second

// RecentMaxEntries caps the per-user recently-viewed list.
const RecentMaxEntries = 10

func KeyRateLimit(identifier string) string { return prefixRateLimit + identifier }

func KeyLikes(slug string) string { return prefixLikes + slug }

func KeyUserLikes(userHash string) string { return prefixUserLikes + userHash }

func KeyReading(userHash, slug string) string {
	return fmt.Sprintf("%s%s:%s", prefixReading, userHash, slug)
}

func KeyPopularAll() string { return prefixPopular + "all" }

func KeyPopularWeek(week string) string { return prefixPopular + "week:" + week }

func KeyVisitorsDaily(date string) string { return prefixVisitors + "daily:" + date }

func KeyVisitorsTotal() string { return prefixVisitors + "total" }

func KeyPresence(slug string) string { return prefixPresence + slug }

func KeyRecent(userHash string) string { return prefixRecent + userHash }

func KeyViews(slug string) string { return prefixViews + slug }

func KeyPostData(slug string) string { return prefixPostData + slug }
