package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio-engagement/internal/identity"
	"portfolio-engagement/internal/service"
	"portfolio-engagement/pkg/errors"
	"portfolio-engagement/pkg/logger"
)

// ProgressHandler serves the reading-progress endpoints.
type ProgressHandler struct {
	progress *service.ProgressService
	log      *logger.Logger
}

// NewProgressHandler creates a new reading-progress handler.
func NewProgressHandler(progress *service.ProgressService, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, log: log}
}

type saveProgressRequest struct {
	Progress *int `json:"progress"`
}

// Get handles GET /reading-progress/{slug}.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	userHash := identity.ClientHash(r)

	progress := h.progress.Get(r.Context(), slug, userHash)
	respondJSON(w, http.StatusOK, map[string]int{"progress": progress.Value})
}

// Save handles POST /reading-progress/{slug}. Progress outside [0,100]
// is rejected here at the boundary; the service itself stores whatever
// it is given.
func (h *ProgressHandler) Save(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	userHash := identity.ClientHash(r)

	var req saveProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Progress == nil {
		respondError(w, errors.NewValidationError("Invalid progress value"))
		return
	}
	if *req.Progress < 0 || *req.Progress > 100 {
		respondError(w, errors.NewValidationError("Invalid progress value"))
		return
	}

	saved := h.progress.Save(r.Context(), slug, userHash, *req.Progress)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"progress": saved.Value,
	})
}

// RegisterRoutes mounts the reading-progress routes.
func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.Route("/reading-progress/{slug}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/", h.Save)
	})
}
