package container

import (
	"portfolio-engagement/internal/config"
	"portfolio-engagement/internal/metrics"
	"portfolio-engagement/internal/service"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// Services bundles every feature module.
type Services struct {
	Likes      *service.LikeService
	Views      *service.ViewService
	Popularity *service.PopularityService
	Presence   *service.PresenceService
	Progress   *service.ProgressService
	Recent     *service.RecentService
	Visitors   *service.VisitorService
	RateLimit  *service.RateLimitService
	Cache      *service.CacheService
}

// Container is the dependency-composition root. The store client is
// constructed exactly once here and injected into every feature module;
// it stays nil when the connection pair is not configured, in which
// case all features run degraded.
type Container struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    *redis.Client
	Metrics  *metrics.Collector
	Services *Services
}

// New wires the application dependencies.
func New(cfg *config.Config, log *logger.Logger) (*Container, error) {
	var store *redis.Client
	if cfg.RedisConfigured() {
		client, err := redis.NewClient(cfg.RedisURL, cfg.RedisToken, log.Logger)
		if err != nil {
			log.WithError(err).Warn("failed to connect to Redis, engagement features disabled")
		} else {
			store = client
			log.Info("Redis client initialized")
		}
	} else {
		log.Info("Redis not configured, engagement features disabled")
	}

	collector := metrics.NewCollector()

	return &Container{
		Config:   cfg,
		Logger:   log,
		Store:    store,
		Metrics:  collector,
		Services: newServices(store, log, collector),
	}, nil
}

// NewWithStore wires the container around an existing store client.
// Tests use it to substitute an in-process fake.
func NewWithStore(cfg *config.Config, log *logger.Logger, store *redis.Client) *Container {
	collector := metrics.NewCollector()
	return &Container{
		Config:   cfg,
		Logger:   log,
		Store:    store,
		Metrics:  collector,
		Services: newServices(store, log, collector),
	}
}

func newServices(store *redis.Client, log *logger.Logger, collector *metrics.Collector) *Services {
	return &Services{
		Likes:      service.NewLikeService(store, log, collector),
		Views:      service.NewViewService(store, log, collector),
		Popularity: service.NewPopularityService(store, log, collector),
		Presence:   service.NewPresenceService(store, log, collector),
		Progress:   service.NewProgressService(store, log, collector),
		Recent:     service.NewRecentService(store, log, collector),
		Visitors:   service.NewVisitorService(store, log, collector),
		RateLimit:  service.NewRateLimitService(store, log, collector),
		Cache:      service.NewCacheService(store, log, collector),
	}
}

// Close releases held resources.
func (c *Container) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}
