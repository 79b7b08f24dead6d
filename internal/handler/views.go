package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio-engagement/internal/identity"
	"portfolio-engagement/internal/service"
	"portfolio-engagement/pkg/logger"
)

// ViewsHandler serves the view-count endpoints.
type ViewsHandler struct {
	views      *service.ViewService
	likes      *service.LikeService
	popularity *service.PopularityService
	recent     *service.RecentService
	log        *logger.Logger
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(views *service.ViewService, likes *service.LikeService, popularity *service.PopularityService, recent *service.RecentService, log *logger.Logger) *ViewsHandler {
	return &ViewsHandler{views: views, likes: likes, popularity: popularity, recent: recent, log: log}
}

// Get handles GET /views/{slug}.
func (h *ViewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	views := h.views.Views(r.Context(), slug)
	respondJSON(w, http.StatusOK, map[string]int64{"views": views.Value})
}

// Increment handles POST /views/{slug}. Besides bumping the counter it
// rewrites the post's popularity score and records the post in the
// caller's recently-viewed list.
func (h *ViewsHandler) Increment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	userHash := identity.ClientHash(r)

	views := h.views.Increment(ctx, slug)

	if !views.Degraded {
		likes := h.likes.Likes(ctx, slug)
		h.popularity.Record(ctx, slug, views.Value, likes.Value)
		h.recent.Add(ctx, userHash, slug)
	}

	respondJSON(w, http.StatusOK, map[string]int64{"views": views.Value})
}

// RegisterRoutes mounts the view routes.
func (h *ViewsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/views/{slug}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/", h.Increment)
	})
}
