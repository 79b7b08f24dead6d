package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio-engagement/internal/identity"
	"portfolio-engagement/internal/service"
	"portfolio-engagement/pkg/logger"
)

// VisitorsHandler serves the unique-visitor endpoints.
type VisitorsHandler struct {
	visitors *service.VisitorService
	log      *logger.Logger
}

// NewVisitorsHandler creates a new visitors handler.
func NewVisitorsHandler(visitors *service.VisitorService, log *logger.Logger) *VisitorsHandler {
	return &VisitorsHandler{visitors: visitors, log: log}
}

// Today handles GET /visitors, the exact count of today's uniques.
func (h *VisitorsHandler) Today(w http.ResponseWriter, r *http.Request) {
	today := h.visitors.Today(r.Context())
	respondJSON(w, http.StatusOK, map[string]int64{"today": today.Value})
}

// Track handles POST /visitors. The returned total is the all-time
// HyperLogLog estimate, not an exact count.
func (h *VisitorsHandler) Track(w http.ResponseWriter, r *http.Request) {
	userHash := identity.ClientHash(r)
	total := h.visitors.Track(r.Context(), userHash)
	respondJSON(w, http.StatusOK, total.Value)
}

// RegisterRoutes mounts the visitor routes.
func (h *VisitorsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/visitors", func(r chi.Router) {
		r.Get("/", h.Today)
		r.Post("/", h.Track)
	})
}
