package service

import (
	"context"
	"strconv"
	"time"

	"portfolio-engagement/internal/domain"
	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// RateLimitService implements a fixed-window counter per identifier.
// It is not a sliding window: a burst straddling a window boundary can
// admit up to twice the limit. The limiter fails open; if the store is
// down every request is allowed.
type RateLimitService struct {
	store   *redis.Client
	log     *logger.Logger
	metrics *metrics.Collector
}

// NewRateLimitService creates a new rate limiter.
func NewRateLimitService(store *redis.Client, log *logger.Logger, metrics *metrics.Collector) *RateLimitService {
	return &RateLimitService{store: store, log: log, metrics: metrics}
}

func (s *RateLimitService) degrade(err error, limit int64) Outcome[domain.RateLimitResult] {
	if err != nil {
		s.log.WithError(err).Warn("rate limit check failed, allowing request")
	}
	s.metrics.RecordDegradation("rate_limit")
	return degraded(domain.RateLimitResult{Allowed: true, Remaining: limit, ResetIn: 0})
}

// Check counts a request against the identifier's current window.
func (s *RateLimitService) Check(ctx context.Context, identifier string, limit int64, window time.Duration) Outcome[domain.RateLimitResult] {
	if s.store == nil {
		return s.degrade(nil, limit)
	}

	key := redis.KeyRateLimit(identifier)
	windowSeconds := int64(window.Seconds())

	current, err := s.store.Get(ctx, key)
	if err == redis.Nil {
		// First request of a fresh window.
		if err := s.store.Set(ctx, key, 1, window); err != nil {
			return s.degrade(err, limit)
		}
		return ok(domain.RateLimitResult{Allowed: true, Remaining: limit - 1, ResetIn: windowSeconds})
	}
	if err != nil {
		return s.degrade(err, limit)
	}

	count, err := strconv.ParseInt(current, 10, 64)
	if err != nil {
		return s.degrade(err, limit)
	}

	resetIn := windowSeconds
	if ttl, err := s.store.TTL(ctx, key); err == nil && ttl > 0 {
		resetIn = int64(ttl.Seconds())
	}

	if count >= limit {
		return ok(domain.RateLimitResult{Allowed: false, Remaining: 0, ResetIn: resetIn})
	}

	if _, err := s.store.Incr(ctx, key); err != nil {
		return s.degrade(err, limit)
	}
	return ok(domain.RateLimitResult{Allowed: true, Remaining: limit - count - 1, ResetIn: resetIn})
}
