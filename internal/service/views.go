package service

import (
	"context"

	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// ViewService maintains a plain per-post view counter with no expiry.
// The counter lives in its own namespace, separate from the generic
// post cache.
type ViewService struct {
	store   *redis.Client
	log     *logger.Logger
	metrics *metrics.Collector
}

// NewViewService creates a new view counter.
func NewViewService(store *redis.Client, log *logger.Logger, metrics *metrics.Collector) *ViewService {
	return &ViewService{store: store, log: log, metrics: metrics}
}

func (s *ViewService) degrade(err error, msg string) {
	if err != nil {
		s.log.WithError(err).Warn(msg)
	}
	s.metrics.RecordDegradation("views")
}

// Views returns the view count for a post, 0 for posts never viewed.
func (s *ViewService) Views(ctx context.Context, slug string) Outcome[int64] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(int64(0))
	}

	views, err := s.store.GetInt(ctx, redis.KeyViews(slug))
	if err != nil {
		s.degrade(err, "failed to get view count")
		return degraded(int64(0))
	}
	return ok(views)
}

// Increment bumps the view counter and returns the new count.
func (s *ViewService) Increment(ctx context.Context, slug string) Outcome[int64] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(int64(0))
	}

	views, err := s.store.Incr(ctx, redis.KeyViews(slug))
	if err != nil {
		s.degrade(err, "failed to increment view count")
		return degraded(int64(0))
	}
	return ok(views)
}
