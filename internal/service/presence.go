package service

import (
	"context"
	"strconv"
	"time"

	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// PresenceService tracks who is currently reading a post: a ranked set
// of visitor hashes scored by last-seen time in milliseconds. Nothing
// sweeps the set in the background; both reads and writes prune stale
// entries opportunistically. Clients poll roughly every 15 seconds, so
// the 30-second staleness window tolerates one missed beat.
type PresenceService struct {
	store   *redis.Client
	log     *logger.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// NewPresenceService creates a new presence tracker.
func NewPresenceService(store *redis.Client, log *logger.Logger, metrics *metrics.Collector) *PresenceService {
	return &PresenceService{store: store, log: log, metrics: metrics, now: time.Now}
}

func (s *PresenceService) degrade(err error, msg string) {
	if err != nil {
		s.log.WithError(err).Warn(msg)
	}
	s.metrics.RecordDegradation("presence")
}

// Update records the visitor as active on the post and returns the
// active reader count after pruning.
func (s *PresenceService) Update(ctx context.Context, slug, userHash string) Outcome[int64] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(int64(0))
	}

	key := redis.KeyPresence(slug)
	nowMs := s.now().UnixMilli()

	if err := s.store.ZAdd(ctx, key, float64(nowMs), userHash); err != nil {
		s.degrade(err, "failed to update presence")
		return degraded(int64(0))
	}
	if err := s.prune(ctx, key, nowMs); err != nil {
		s.degrade(err, "failed to prune presence")
		return degraded(int64(0))
	}
	if err := s.store.Expire(ctx, key, redis.TTLPresence); err != nil {
		s.degrade(err, "failed to expire presence key")
		return degraded(int64(0))
	}

	count, err := s.store.ZCard(ctx, key)
	if err != nil {
		s.degrade(err, "failed to count presence")
		return degraded(int64(0))
	}
	return ok(count)
}

// ActiveReaders returns the number of visitors active on the post
// within the staleness window.
func (s *PresenceService) ActiveReaders(ctx context.Context, slug string) Outcome[int64] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(int64(0))
	}

	key := redis.KeyPresence(slug)
	if err := s.prune(ctx, key, s.now().UnixMilli()); err != nil {
		s.degrade(err, "failed to prune presence")
		return degraded(int64(0))
	}

	count, err := s.store.ZCard(ctx, key)
	if err != nil {
		s.degrade(err, "failed to count active readers")
		return degraded(int64(0))
	}
	return ok(count)
}

func (s *PresenceService) prune(ctx context.Context, key string, nowMs int64) error {
	cutoff := nowMs - redis.PresenceStaleness.Milliseconds()
	return s.store.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff, 10))
}
