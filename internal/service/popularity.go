package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// likeWeight makes a like worth five views in the popularity score,
// rewarding the stronger engagement signal over passive traffic.
const likeWeight = 5

// PopularityService maintains two ranked sets of posts by weighted
// score: a permanent all-time set and a per-week set expiring after
// seven days. Scores are recomputed and overwritten on every event,
// never incremented.
type PopularityService struct {
	store   *redis.Client
	log     *logger.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// NewPopularityService creates a new popularity ranker.
func NewPopularityService(store *redis.Client, log *logger.Logger, metrics *metrics.Collector) *PopularityService {
	return &PopularityService{store: store, log: log, metrics: metrics, now: time.Now}
}

func (s *PopularityService) degrade(err error, msg string) {
	if err != nil {
		s.log.WithError(err).Warn(msg)
	}
	s.metrics.RecordDegradation("popularity")
}

// Record writes the post's current score into both ranked sets.
func (s *PopularityService) Record(ctx context.Context, slug string, views, likes int64) Outcome[float64] {
	score := float64(views + likes*likeWeight)

	if s.store == nil {
		s.degrade(nil, "")
		return degraded(score)
	}

	if err := s.store.ZAdd(ctx, redis.KeyPopularAll(), score, slug); err != nil {
		s.degrade(err, "failed to record all-time popularity")
		return degraded(score)
	}

	weeklyKey := redis.KeyPopularWeek(weekKey(s.now()))
	if err := s.store.ZAdd(ctx, weeklyKey, score, slug); err != nil {
		s.degrade(err, "failed to record weekly popularity")
		return degraded(score)
	}
	if err := s.store.Expire(ctx, weeklyKey, redis.TTLPopularWeek); err != nil {
		s.degrade(err, "failed to expire weekly popularity")
		return degraded(score)
	}

	return ok(score)
}

// Popular returns up to limit slugs ordered most popular first. A
// timeframe of "week" reads the current week's bucket; anything else
// reads the all-time set. A week with no events yet yields an empty
// list.
func (s *PopularityService) Popular(ctx context.Context, limit int64, timeframe string) Outcome[[]string] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded([]string{})
	}

	key := redis.KeyPopularAll()
	if timeframe == "week" {
		key = redis.KeyPopularWeek(weekKey(s.now()))
	}

	slugs, err := s.store.ZRevRange(ctx, key, 0, limit-1)
	if err != nil {
		s.degrade(err, "failed to get popular posts")
		return degraded([]string{})
	}
	if slugs == nil {
		slugs = []string{}
	}
	return ok(slugs)
}

// weekKey buckets a time into "<year>-<week>" using a simplified week
// number, ceil((dayOfMonth - weekday + 1) / 7) with weekday Sunday=0.
// This is deliberately not ISO-8601; the buckets are only a rough
// "this week" filter and changing the formula would reshuffle them.
func weekKey(t time.Time) string {
	week := int(math.Ceil(float64(t.Day()-int(t.Weekday())+1) / 7))
	return fmt.Sprintf("%d-%d", t.Year(), week)
}
