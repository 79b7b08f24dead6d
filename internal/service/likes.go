package service

import (
	"context"

	"portfolio-engagement/internal/domain"
	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// LikeService maintains a per-post like counter and a per-visitor
// membership set of liked posts. The two must move together: the
// counter changes by exactly one whenever membership changes.
type LikeService struct {
	store   *redis.Client
	log     *logger.Logger
	metrics *metrics.Collector
}

// NewLikeService creates a new like service. A nil store means every
// call degrades to defaults.
func NewLikeService(store *redis.Client, log *logger.Logger, metrics *metrics.Collector) *LikeService {
	return &LikeService{store: store, log: log, metrics: metrics}
}

func (s *LikeService) degrade(err error, msg string) {
	if err != nil {
		s.log.WithError(err).Warn(msg)
	}
	s.metrics.RecordDegradation("likes")
}

// Likes returns the like count for a post, 0 for posts never liked.
func (s *LikeService) Likes(ctx context.Context, slug string) Outcome[int64] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(int64(0))
	}

	likes, err := s.store.GetInt(ctx, redis.KeyLikes(slug))
	if err != nil {
		s.degrade(err, "failed to get likes")
		return degraded(int64(0))
	}
	if likes < 0 {
		likes = 0
	}
	return ok(likes)
}

// HasLiked reports whether the visitor has liked the post.
func (s *LikeService) HasLiked(ctx context.Context, slug, userHash string) Outcome[bool] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(false)
	}

	liked, err := s.store.SIsMember(ctx, redis.KeyUserLikes(userHash), slug)
	if err != nil {
		s.degrade(err, "failed to check user like")
		return degraded(false)
	}
	return ok(liked)
}

// Toggle flips the visitor's like on a post and returns the new state.
//
// The membership check and the counter mutation are separate commands,
// so concurrent toggles by the same visitor on the same post can race.
// A double-click toggling twice nets back to the original state, which
// is why the sequence is left untransacted.
func (s *LikeService) Toggle(ctx context.Context, slug, userHash string) Outcome[domain.LikeStatus] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(domain.LikeStatus{})
	}

	userLikesKey := redis.KeyUserLikes(userHash)
	likesKey := redis.KeyLikes(slug)

	liked, err := s.store.SIsMember(ctx, userLikesKey, slug)
	if err != nil {
		s.degrade(err, "failed to check like membership")
		return degraded(domain.LikeStatus{})
	}

	if liked {
		if err := s.store.SRem(ctx, userLikesKey, slug); err != nil {
			s.degrade(err, "failed to remove like membership")
			return degraded(domain.LikeStatus{})
		}
		likes, err := s.store.Decr(ctx, likesKey)
		if err != nil {
			s.degrade(err, "failed to decrement likes")
			return degraded(domain.LikeStatus{})
		}
		// The stored counter can dip below zero under the race above;
		// the reported count is floored.
		if likes < 0 {
			likes = 0
		}
		return ok(domain.LikeStatus{Likes: likes, Liked: false})
	}

	if _, err := s.store.SAdd(ctx, userLikesKey, slug); err != nil {
		s.degrade(err, "failed to add like membership")
		return degraded(domain.LikeStatus{})
	}
	likes, err := s.store.Incr(ctx, likesKey)
	if err != nil {
		s.degrade(err, "failed to increment likes")
		return degraded(domain.LikeStatus{})
	}
	return ok(domain.LikeStatus{Likes: likes, Liked: true})
}
