package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"portfolio-engagement/internal/service"
	"portfolio-engagement/pkg/logger"
)

const defaultPopularLimit = 5

// PopularHandler serves the popularity ranking endpoint.
type PopularHandler struct {
	popularity *service.PopularityService
	log        *logger.Logger
}

// NewPopularHandler creates a new popular-posts handler.
func NewPopularHandler(popularity *service.PopularityService, log *logger.Logger) *PopularHandler {
	return &PopularHandler{popularity: popularity, log: log}
}

// Get handles GET /popular?limit=&timeframe=all|week.
func (h *PopularHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), defaultPopularLimit)
	timeframe := r.URL.Query().Get("timeframe")
	if timeframe != "week" {
		timeframe = "all"
	}

	posts := h.popularity.Popular(r.Context(), limit, timeframe)
	respondJSON(w, http.StatusOK, map[string][]string{"posts": posts.Value})
}

// RegisterRoutes mounts the popular route.
func (h *PopularHandler) RegisterRoutes(r chi.Router) {
	r.Get("/popular", h.Get)
}

// parseLimit parses a limit query parameter, falling back on garbage or
// non-positive values.
func parseLimit(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
