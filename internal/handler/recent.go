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

const defaultRecentLimit = 5

// RecentHandler serves the recently-viewed endpoints.
type RecentHandler struct {
	recent *service.RecentService
	log    *logger.Logger
}

// NewRecentHandler creates a new recently-viewed handler.
func NewRecentHandler(recent *service.RecentService, log *logger.Logger) *RecentHandler {
	return &RecentHandler{recent: recent, log: log}
}

type addRecentRequest struct {
	Slug string `json:"slug"`
}

// List handles GET /recently-viewed?limit=.
func (h *RecentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), defaultRecentLimit)
	userHash := identity.ClientHash(r)

	posts := h.recent.List(r.Context(), userHash, limit)
	respondJSON(w, http.StatusOK, map[string][]string{"posts": posts.Value})
}

// Add handles POST /recently-viewed.
func (h *RecentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addRecentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Slug == "" {
		respondError(w, errors.NewValidationError("Slug is required"))
		return
	}

	userHash := identity.ClientHash(r)
	h.recent.Add(r.Context(), userHash, req.Slug)

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RegisterRoutes mounts the recently-viewed routes.
func (h *RecentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/recently-viewed", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Add)
	})
}
