package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolio-engagement/internal/identity"
	"portfolio-engagement/internal/service"
	"portfolio-engagement/pkg/logger"
)

// Contact-form limiter defaults: 5 requests per hour per visitor.
const (
	rateLimitNamespace = "contact:"
	rateLimitMax       = 5
	rateLimitWindow    = time.Hour
)

// RateLimitHandler serves the rate-limit check endpoint used by the
// contact form before sending mail.
type RateLimitHandler struct {
	limiter *service.RateLimitService
	log     *logger.Logger
}

// NewRateLimitHandler creates a new rate-limit handler.
func NewRateLimitHandler(limiter *service.RateLimitService, log *logger.Logger) *RateLimitHandler {
	return &RateLimitHandler{limiter: limiter, log: log}
}

// Check handles POST /rate-limit. Exceeding the limit is a first-class
// outcome reported as 429, not a server failure.
func (h *RateLimitHandler) Check(w http.ResponseWriter, r *http.Request) {
	identifier := rateLimitNamespace + identity.ClientHash(r)
	result := h.limiter.Check(r.Context(), identifier, rateLimitMax, rateLimitWindow)

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rateLimitMax))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Value.Remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.Value.ResetIn, 10))

	if !result.Value.Allowed {
		respondJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":   "Too many requests. Please try again later.",
			"resetIn": result.Value.ResetIn,
		})
		return
	}

	respondJSON(w, http.StatusOK, result.Value)
}

// RegisterRoutes mounts the rate-limit route.
func (h *RateLimitHandler) RegisterRoutes(r chi.Router) {
	r.Post("/rate-limit", h.Check)
}
