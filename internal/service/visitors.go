package service

import (
	"context"
	"time"

	"portfolio-engagement/internal/domain"
	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// VisitorService counts unique visitors two ways: an exact per-day set
// for "today", and a HyperLogLog for the all-time total so the exact
// set never has to grow without bound. The total is therefore an
// estimate (~0.81% standard error), which the API documents.
type VisitorService struct {
	store   *redis.Client
	log     *logger.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// NewVisitorService creates a new visitor counter.
func NewVisitorService(store *redis.Client, log *logger.Logger, metrics *metrics.Collector) *VisitorService {
	return &VisitorService{store: store, log: log, metrics: metrics, now: time.Now}
}

func (s *VisitorService) degrade(err error, msg string) {
	if err != nil {
		s.log.WithError(err).Warn(msg)
	}
	s.metrics.RecordDegradation("visitors")
}

func (s *VisitorService) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// Track records a visit. IsNew is true only for the visitor's first
// occurrence today; only then is the hash fed into the all-time
// estimator, so repeat daily visits never inflate the total.
func (s *VisitorService) Track(ctx context.Context, userHash string) Outcome[domain.VisitorTotal] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(domain.VisitorTotal{})
	}

	dailyKey := redis.KeyVisitorsDaily(s.today())
	totalKey := redis.KeyVisitorsTotal()

	added, err := s.store.SAdd(ctx, dailyKey, userHash)
	if err != nil {
		s.degrade(err, "failed to track visitor")
		return degraded(domain.VisitorTotal{})
	}
	if err := s.store.Expire(ctx, dailyKey, redis.TTLVisitorsDaily); err != nil {
		s.degrade(err, "failed to expire daily visitor set")
		return degraded(domain.VisitorTotal{})
	}

	isNew := added == 1
	if isNew {
		if err := s.store.PFAdd(ctx, totalKey, userHash); err != nil {
			s.degrade(err, "failed to add visitor to estimator")
			return degraded(domain.VisitorTotal{})
		}
	}

	total, err := s.store.PFCount(ctx, totalKey)
	if err != nil {
		s.degrade(err, "failed to count total visitors")
		return degraded(domain.VisitorTotal{})
	}

	return ok(domain.VisitorTotal{Total: total, IsNew: isNew})
}

// Today returns the exact number of unique visitors seen today.
func (s *VisitorService) Today(ctx context.Context) Outcome[int64] {
	if s.store == nil {
		s.degrade(nil, "")
		return degraded(int64(0))
	}

	count, err := s.store.SCard(ctx, redis.KeyVisitorsDaily(s.today()))
	if err != nil {
		s.degrade(err, "failed to count today's visitors")
		return degraded(int64(0))
	}
	return ok(count)
}
