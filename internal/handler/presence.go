package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio-engagement/internal/identity"
	"portfolio-engagement/internal/service"
	"portfolio-engagement/pkg/logger"
)

// PresenceHandler serves the active-readers endpoints.
type PresenceHandler struct {
	presence *service.PresenceService
	log      *logger.Logger
}

// NewPresenceHandler creates a new presence handler.
func NewPresenceHandler(presence *service.PresenceService, log *logger.Logger) *PresenceHandler {
	return &PresenceHandler{presence: presence, log: log}
}

// Get handles GET /presence/{slug}.
func (h *PresenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	count := h.presence.ActiveReaders(r.Context(), slug)
	respondJSON(w, http.StatusOK, map[string]int64{"count": count.Value})
}

// Update handles POST /presence/{slug}, the heartbeat clients send
// while a post is open.
func (h *PresenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	userHash := identity.ClientHash(r)

	count := h.presence.Update(r.Context(), slug, userHash)
	respondJSON(w, http.StatusOK, map[string]int64{"count": count.Value})
}

// RegisterRoutes mounts the presence routes.
func (h *PresenceHandler) RegisterRoutes(r chi.Router) {
	r.Route("/presence/{slug}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/", h.Update)
	})
}
