package service

import (
	"context"
	"encoding/json"
	"time"

	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// CacheService is a generic read-through cache over the store. It is a
// transparent optimization only; a failing store never fails a caller,
// it just means every read hits the fetcher.
type CacheService struct {
	store   *redis.Client
	log     *logger.Logger
	metrics *metrics.Collector
}

// NewCacheService creates a new cache service.
func NewCacheService(store *redis.Client, log *logger.Logger, metrics *metrics.Collector) *CacheService {
	return &CacheService{store: store, log: log, metrics: metrics}
}

// Cached returns the value stored under key, or calls fetch, stores the
// result for ttl (DefaultCacheTTL when ttl <= 0), and returns it.
// Fetcher errors propagate; store errors do not.
func Cached[T any](ctx context.Context, c *CacheService, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	if ttl <= 0 {
		ttl = redis.TTLDefaultCache
	}

	if c.store == nil {
		c.metrics.RecordDegradation("cache")
		return fetch(ctx)
	}

	raw, err := c.store.Get(ctx, key)
	if err == nil && raw != "" {
		var value T
		if unmarshalErr := json.Unmarshal([]byte(raw), &value); unmarshalErr == nil {
			return value, nil
		}
		c.log.WithField("key", key).Warn("corrupt cache entry, refetching")
	} else if err != nil && err != redis.Nil {
		c.log.WithError(err).Warn("cache read failed, falling back to fetcher")
		c.metrics.RecordDegradation("cache")
	}

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	if data, marshalErr := json.Marshal(value); marshalErr == nil {
		if setErr := c.store.Set(ctx, key, string(data), ttl); setErr != nil {
			c.log.WithError(setErr).Warn("cache write failed")
		}
	}
	return value, nil
}

// CachePostData stores a serialized post under its slug.
func (c *CacheService) CachePostData(ctx context.Context, slug string, data interface{}, ttl time.Duration) Outcome[bool] {
	if ttl <= 0 {
		ttl = redis.TTLDefaultCache
	}
	if c.store == nil {
		c.metrics.RecordDegradation("cache")
		return degraded(false)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		c.log.WithError(err).Warn("failed to marshal post data")
		return degraded(false)
	}
	if err := c.store.Set(ctx, redis.KeyPostData(slug), string(raw), ttl); err != nil {
		c.log.WithError(err).Warn("failed to cache post data")
		c.metrics.RecordDegradation("cache")
		return degraded(false)
	}
	return ok(true)
}

// PostData loads a cached post into dest, reporting whether it was found.
func (c *CacheService) PostData(ctx context.Context, slug string, dest interface{}) Outcome[bool] {
	if c.store == nil {
		c.metrics.RecordDegradation("cache")
		return degraded(false)
	}

	raw, err := c.store.Get(ctx, redis.KeyPostData(slug))
	if err == redis.Nil {
		return ok(false)
	}
	if err != nil {
		c.log.WithError(err).Warn("failed to read cached post data")
		c.metrics.RecordDegradation("cache")
		return degraded(false)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.log.WithError(err).Warn("corrupt cached post data")
		return ok(false)
	}
	return ok(true)
}

// Invalidate removes cache entries.
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) Outcome[bool] {
	if c.store == nil {
		c.metrics.RecordDegradation("cache")
		return degraded(false)
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.log.WithError(err).Warn("cache invalidation failed")
		c.metrics.RecordDegradation("cache")
		return degraded(false)
	}
	return ok(true)
}
