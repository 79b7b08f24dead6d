package service

import (
	"context"

	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// ProgressService stores per-(visitor, post) reading progress as a
// plain 0..100 integer. Saves overwrite and refresh a 30-day TTL.
// Range validation happens at the HTTP boundary, not here.
type ProgressService struct {
	store   *redis.Client
	log     *logger.Logger
	metrics *metrics.Collector
}

// NewProgressService creates a new reading progress service.
func NewProgressService(store *redis.Client, log *logger.Logger, metrics *metrics.Collector) *ProgressService {
	return &ProgressService{store: store, log: log, metrics: metrics}
}

func (s *ProgressService) degrade(err error, msg string) {
	if err != nil {
		s.log.WithError(err).Warn(msg)
	}
	s.metrics.RecordDegradation("reading_progress")
}

// Save overwrites the visitor's progress on a post.
func (s *ProgressService) Save(ctx context.Context, slug, userHash string, progress int) Outcome[int] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(progress)
	}

	key := redis.KeyReading(userHash, slug)
	if err := s.store.Set(ctx, key, progress, redis.TTLReadingProgress); err != nil {
		s.degrade(err, "failed to save reading progress")
		return degraded(progress)
	}
	return ok(progress)
}

// Get returns the visitor's progress on a post, 0 when never saved.
func (s *ProgressService) Get(ctx context.Context, slug, userHash string) Outcome[int] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(0)
	}

	progress, err := s.store.GetInt(ctx, redis.KeyReading(userHash, slug))
	if err != nil {
		s.degrade(err, "failed to get reading progress")
		return degraded(0)
	}
	return ok(int(progress))
}
