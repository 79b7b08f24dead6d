package service

import (
	"context"
	"time"

	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// RecentService keeps a per-visitor ranked list of recently viewed
// posts, capped at the ten most recent. Re-viewing a post refreshes
// its recency without duplicating it.
type RecentService struct {
	store   *redis.Client
	log     *logger.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// NewRecentService creates a new recently-viewed tracker.
func NewRecentService(store *redis.Client, log *logger.Logger, metrics *metrics.Collector) *RecentService {
	return &RecentService{store: store, log: log, metrics: metrics, now: time.Now}
}

func (s *RecentService) degrade(err error, msg string) {
	if err != nil {
		s.log.WithError(err).Warn(msg)
	}
	s.metrics.RecordDegradation("recently_viewed")
}

// Add upserts the slug with the current timestamp, trims the list to
// its cap, and refreshes the 30-day TTL.
func (s *RecentService) Add(ctx context.Context, userHash, slug string) Outcome[bool] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(false)
	}

	key := redis.KeyRecent(userHash)

	if err := s.store.ZAdd(ctx, key, float64(s.now().UnixMilli()), slug); err != nil {
		s.degrade(err, "failed to add recently viewed")
		return degraded(false)
	}
	// Drop everything below the top N by rank.
	if err := s.store.ZRemRangeByRank(ctx, key, 0, -(redis.RecentMaxEntries + 1)); err != nil {
		s.degrade(err, "failed to trim recently viewed")
		return degraded(false)
	}
	if err := s.store.Expire(ctx, key, redis.TTLRecent); err != nil {
		s.degrade(err, "failed to expire recently viewed")
		return degraded(false)
	}
	return ok(true)
}

// List returns up to limit slugs, most recently viewed first.
func (s *RecentService) List(ctx context.Context, userHash string, limit int64) Outcome[[]string] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded([]string{})
	}

	slugs, err := s.store.ZRevRange(ctx, redis.KeyRecent(userHash), 0, limit-1)
	if err != nil {
		s.degrade(err, "failed to list recently viewed")
		return degraded([]string{})
	}
	if slugs == nil {
		slugs = []string{}
	}
	return ok(slugs)
}
