package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"portfolio-engagement/internal/config"
	"portfolio-engagement/internal/container"
	"portfolio-engagement/internal/handler"
	"portfolio-engagement/internal/middleware"
	"portfolio-engagement/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"store":       cfg.RedisConfigured(),
	}).Info("Starting engagement API")

	deps, err := container.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	router := setupRouter(deps)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server listening on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shut down HTTP server")
	}
	if err := deps.Close(); err != nil {
		log.WithError(err).Error("Failed to close store connection")
	}

	log.Info("Shutdown complete")
}

// setupRouter configures and returns the HTTP router.
func setupRouter(deps *container.Container) *chi.Mux {
	cfg := deps.Config
	log := deps.Logger
	svc := deps.Services

	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins)))
	r.Use(middleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(30 * time.Second))
	r.Use(deps.Metrics.Middleware)

	healthHandler := handler.NewHealthHandler(deps.Store, log)
	likesHandler := handler.NewLikesHandler(svc.Likes, svc.Views, svc.Popularity, log)
	viewsHandler := handler.NewViewsHandler(svc.Views, svc.Likes, svc.Popularity, svc.Recent, log)
	popularHandler := handler.NewPopularHandler(svc.Popularity, log)
	presenceHandler := handler.NewPresenceHandler(svc.Presence, log)
	progressHandler := handler.NewProgressHandler(svc.Progress, log)
	recentHandler := handler.NewRecentHandler(svc.Recent, log)
	visitorsHandler := handler.NewVisitorsHandler(svc.Visitors, log)
	rateLimitHandler := handler.NewRateLimitHandler(svc.RateLimit, log)

	healthHandler.RegisterRoutes(r)
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		likesHandler.RegisterRoutes(r)
		viewsHandler.RegisterRoutes(r)
		popularHandler.RegisterRoutes(r)
		presenceHandler.RegisterRoutes(r)
		progressHandler.RegisterRoutes(r)
		recentHandler.RegisterRoutes(r)
		visitorsHandler.RegisterRoutes(r)
		rateLimitHandler.RegisterRoutes(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Endpoint not found","type":"not_found"}`))
	})

	log.Info("Router configured")
	return r
}
