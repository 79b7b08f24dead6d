package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// HealthHandler reports service and store health. A missing or
// unreachable store still reports healthy, since every feature runs in
// degraded mode without it.
type HealthHandler struct {
	store *redis.Client
	log   *logger.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{store: store, log: log}
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	storeStatus := "not_configured"
	if h.store != nil {
		storeStatus = "ok"
		if err := h.store.Health(r.Context()); err != nil {
			h.log.WithError(err).Warn("store health check failed")
			storeStatus = "unreachable"
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"store":     storeStatus,
		"timestamp": time.Now().UTC(),
	})
}

// RegisterRoutes mounts the health route.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Check)
}
