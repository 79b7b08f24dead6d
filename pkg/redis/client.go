package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client is a thin wrapper around go-redis exposing only the primitives
// the engagement features use. A nil *Client is a valid "store not
// configured" handle; callers are expected to check for it and degrade.
type Client struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewClient connects to Redis using the endpoint URL and access token
// pair. The token is applied as the connection password when the URL
// itself does not carry one.
func NewClient(url, token string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if opts.Password == "" {
		opts.Password = token
	}

	opts.PoolSize = 50
	opts.MinIdleConns = 5
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, log: log}, nil
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Nil is the sentinel returned when a key does not exist.
const Nil = redis.Nil

// logOp records timing for a single store operation. Only the key prefix
// is logged, never a full key, since keys can embed visitor hashes.
func (c *Client) logOp(op, key string, start time.Time, err error) {
	dur := time.Since(start)
	if err != nil && err != redis.Nil {
		c.log.Info("redis_"+op,
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
		return
	}
	c.log.Debug("redis_"+op,
		zap.String("key_prefix", prefixForLog(key)),
		zap.Duration("duration", dur))
}

// Get retrieves a string value. Returns Nil when the key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Result()
	c.logOp("get", key, start, err)
	return val, err
}

// GetInt retrieves an integer counter, treating a missing key as 0.
func (c *Client) GetInt(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Int64()
	c.logOp("get", key, start, err)
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// Set stores a value with the given TTL (0 = no expiry).
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := c.rdb.Set(ctx, key, value, ttl).Err()
	c.logOp("set", key, start, err)
	return err
}

// Incr increments an integer counter, creating it at 1.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	v, err := c.rdb.Incr(ctx, key).Result()
	c.logOp("incr", key, start, err)
	return v, err
}

// Decr decrements an integer counter.
func (c *Client) Decr(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	v, err := c.rdb.Decr(ctx, key).Result()
	c.logOp("decr", key, start, err)
	return v, err
}

// Delete removes keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.rdb.Del(ctx, keys...).Err()
	if len(keys) > 0 {
		c.logOp("del", keys[0], start, err)
	}
	return err
}

// Expire sets a TTL on a key.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	start := time.Now()
	err := c.rdb.Expire(ctx, key, ttl).Err()
	c.logOp("expire", key, start, err)
	return err
}

// TTL returns the remaining lifetime of a key. Negative values follow
// Redis semantics (-1 no expiry, -2 missing key).
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	start := time.Now()
	d, err := c.rdb.TTL(ctx, key).Result()
	c.logOp("ttl", key, start, err)
	return d, err
}

// SAdd adds members to a set, returning how many were newly added.
func (c *Client) SAdd(ctx context.Context, key string, members ...interface{}) (int64, error) {
	start := time.Now()
	n, err := c.rdb.SAdd(ctx, key, members...).Result()
	c.logOp("sadd", key, start, err)
	return n, err
}

// SRem removes members from a set.
func (c *Client) SRem(ctx context.Context, key string, members ...interface{}) error {
	start := time.Now()
	err := c.rdb.SRem(ctx, key, members...).Err()
	c.logOp("srem", key, start, err)
	return err
}

// SIsMember checks set membership.
func (c *Client) SIsMember(ctx context.Context, key string, member interface{}) (bool, error) {
	start := time.Now()
	ok, err := c.rdb.SIsMember(ctx, key, member).Result()
	c.logOp("sismember", key, start, err)
	return ok, err
}

// SCard returns the cardinality of a set.
func (c *Client) SCard(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	n, err := c.rdb.SCard(ctx, key).Result()
	c.logOp("scard", key, start, err)
	return n, err
}

// ZAdd upserts a member with a score into a sorted set.
func (c *Client) ZAdd(ctx context.Context, key string, score float64, member string) error {
	start := time.Now()
	err := c.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
	c.logOp("zadd", key, start, err)
	return err
}

// ZCard returns the cardinality of a sorted set.
func (c *Client) ZCard(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	n, err := c.rdb.ZCard(ctx, key).Result()
	c.logOp("zcard", key, start, err)
	return n, err
}

// ZRemRangeByScore removes members with scores in [min, max].
func (c *Client) ZRemRangeByScore(ctx context.Context, key, min, max string) error {
	start := time.Now()
	err := c.rdb.ZRemRangeByScore(ctx, key, min, max).Err()
	c.logOp("zremrangebyscore", key, start, err)
	return err
}

// ZRemRangeByRank removes members by rank range.
func (c *Client) ZRemRangeByRank(ctx context.Context, key string, startRank, stopRank int64) error {
	start := time.Now()
	err := c.rdb.ZRemRangeByRank(ctx, key, startRank, stopRank).Err()
	c.logOp("zremrangebyrank", key, start, err)
	return err
}

// ZRevRange returns members ordered by descending score.
func (c *Client) ZRevRange(ctx context.Context, key string, startRank, stopRank int64) ([]string, error) {
	start := time.Now()
	vals, err := c.rdb.ZRevRange(ctx, key, startRank, stopRank).Result()
	c.logOp("zrevrange", key, start, err)
	return vals, err
}

// PFAdd feeds elements into a HyperLogLog estimator.
func (c *Client) PFAdd(ctx context.Context, key string, elements ...interface{}) error {
	start := time.Now()
	err := c.rdb.PFAdd(ctx, key, elements...).Err()
	c.logOp("pfadd", key, start, err)
	return err
}

// PFCount returns the estimated cardinality of a HyperLogLog.
// The estimate carries roughly 0.81% standard error.
func (c *Client) PFCount(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	n, err := c.rdb.PFCount(ctx, key).Result()
	c.logOp("pfcount", key, start, err)
	return n, err
}

// prefixForLog returns a safe prefix of a key to avoid logging visitor hashes.
func prefixForLog(key string) string {
	if len(key) <= 16 {
		return key
	}
	return key[:16] + "…"
}
