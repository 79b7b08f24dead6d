package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio-engagement/internal/identity"
	"portfolio-engagement/internal/service"
	"portfolio-engagement/pkg/logger"
)

// LikesHandler serves the like endpoints.
type LikesHandler struct {
	likes      *service.LikeService
	views      *service.ViewService
	popularity *service.PopularityService
	log        *logger.Logger
}

// NewLikesHandler creates a new likes handler.
func NewLikesHandler(likes *service.LikeService, views *service.ViewService, popularity *service.PopularityService, log *logger.Logger) *LikesHandler {
	return &LikesHandler{likes: likes, views: views, popularity: popularity, log: log}
}

// Get handles GET /likes/{slug}.
func (h *LikesHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	userHash := identity.ClientHash(r)

	likes := h.likes.Likes(r.Context(), slug)
	liked := h.likes.HasLiked(r.Context(), slug, userHash)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"likes": likes.Value,
		"liked": liked.Value,
	})
}

// Toggle handles POST /likes/{slug}. The popularity score is rewritten
// after the toggle so rankings track like changes immediately.
func (h *LikesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	userHash := identity.ClientHash(r)

	status := h.likes.Toggle(ctx, slug, userHash)

	if !status.Degraded {
		views := h.views.Views(ctx, slug)
		h.popularity.Record(ctx, slug, views.Value, status.Value.Likes)
	}

	respondJSON(w, http.StatusOK, status.Value)
}

// RegisterRoutes mounts the like routes.
func (h *LikesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/likes/{slug}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/", h.Toggle)
	})
}
