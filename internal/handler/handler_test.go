package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-engagement/internal/config"
	"portfolio-engagement/internal/container"
	"portfolio-engagement/pkg/logger"
	"portfolio-engagement/pkg/redis"
)

// newTestRouter wires the full engagement API against an in-process
// Redis. The returned miniredis handle allows direct store inspection.
func newTestRouter(t *testing.T) (*miniredis.Miniredis, *chi.Mux) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	log := logger.NewNop()
	client, err := redis.NewClient("redis://"+mr.Addr(), "", log.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, routerFor(container.NewWithStore(&config.Config{}, log, client))
}

// newDegradedRouter wires the API with no store at all.
func newDegradedRouter(t *testing.T) *chi.Mux {
	t.Helper()
	log := logger.NewNop()
	return routerFor(container.NewWithStore(&config.Config{}, log, nil))
}

func routerFor(deps *container.Container) *chi.Mux {
	svc := deps.Services
	log := deps.Logger

	r := chi.NewRouter()
	NewLikesHandler(svc.Likes, svc.Views, svc.Popularity, log).RegisterRoutes(r)
	NewViewsHandler(svc.Views, svc.Likes, svc.Popularity, svc.Recent, log).RegisterRoutes(r)
	NewPopularHandler(svc.Popularity, log).RegisterRoutes(r)
	NewPresenceHandler(svc.Presence, log).RegisterRoutes(r)
	NewProgressHandler(svc.Progress, log).RegisterRoutes(r)
	NewRecentHandler(svc.Recent, log).RegisterRoutes(r)
	NewVisitorsHandler(svc.Visitors, log).RegisterRoutes(r)
	NewRateLimitHandler(svc.RateLimit, log).RegisterRoutes(r)
	NewHealthHandler(deps.Store, log).RegisterRoutes(r)
	return r
}

// doJSON performs a request as a given client address and decodes the
// JSON response into a generic map.
func doJSON(t *testing.T, router *chi.Mux, method, path, clientIP, body string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	decoded := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&decoded))
	return rec.Code, decoded
}

func TestViewsEndpoint_ThreeDistinctCallers(t *testing.T) {
	_, router := newTestRouter(t)

	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		code, body := doJSON(t, router, http.MethodPost, "/views/my-post", ip, "")
		assert.Equal(t, http.StatusOK, code)
		assert.NotZero(t, body["views"])
	}

	code, body := doJSON(t, router, http.MethodGet, "/views/my-post", "203.0.113.9", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["views"])

	// Each caller's recently-viewed list picked up the post.
	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		code, body := doJSON(t, router, http.MethodGet, "/recently-viewed?limit=10", ip, "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, []interface{}{"my-post"}, body["posts"])
	}

	// And the view events fed the popularity ranking.
	code, body = doJSON(t, router, http.MethodGet, "/popular?limit=5&timeframe=all", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"my-post"}, body["posts"])
}

func TestLikesEndpoint_ToggleAndStatus(t *testing.T) {
	_, router := newTestRouter(t)

	code, body := doJSON(t, router, http.MethodGet, "/likes/my-post", "203.0.113.1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["likes"])
	assert.Equal(t, false, body["liked"])

	code, body = doJSON(t, router, http.MethodPost, "/likes/my-post", "203.0.113.1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["likes"])
	assert.Equal(t, true, body["liked"])

	// Another visitor sees the count but not the liked bit.
	code, body = doJSON(t, router, http.MethodGet, "/likes/my-post", "203.0.113.2", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["likes"])
	assert.Equal(t, false, body["liked"])

	// Toggling back returns to the original state.
	code, body = doJSON(t, router, http.MethodPost, "/likes/my-post", "203.0.113.1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["likes"])
	assert.Equal(t, false, body["liked"])
}

func TestProgressEndpoint_ValidationAndRoundTrip(t *testing.T) {
	_, router := newTestRouter(t)

	code, body := doJSON(t, router, http.MethodPost, "/reading-progress/my-post", "203.0.113.1", `{"progress":150}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["error"])

	code, _ = doJSON(t, router, http.MethodPost, "/reading-progress/my-post", "203.0.113.1", `{"progress":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, router, http.MethodPost, "/reading-progress/my-post", "203.0.113.1", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = doJSON(t, router, http.MethodPost, "/reading-progress/my-post", "203.0.113.1", `{"progress":45}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 45, body["progress"])

	code, body = doJSON(t, router, http.MethodGet, "/reading-progress/my-post", "203.0.113.1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 45, body["progress"])

	// A different visitor has no progress on the post.
	code, body = doJSON(t, router, http.MethodGet, "/reading-progress/my-post", "203.0.113.2", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["progress"])
}

func TestRateLimitEndpoint_Exhaustion(t *testing.T) {
	_, router := newTestRouter(t)

	for i := 0; i < 5; i++ {
		code, body := doJSON(t, router, http.MethodPost, "/rate-limit", "203.0.113.1", "")
		assert.Equal(t, http.StatusOK, code, "call %d", i+1)
		assert.Equal(t, true, body["allowed"], "call %d", i+1)
	}

	code, body := doJSON(t, router, http.MethodPost, "/rate-limit", "203.0.113.1", "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.NotEmpty(t, body["error"])
	assert.NotZero(t, body["resetIn"])

	// A different visitor is unaffected.
	code, _ = doJSON(t, router, http.MethodPost, "/rate-limit", "203.0.113.2", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRateLimitEndpoint_Headers(t *testing.T) {
	_, router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/rate-limit", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestPresenceEndpoint(t *testing.T) {
	_, router := newTestRouter(t)

	code, body := doJSON(t, router, http.MethodGet, "/presence/my-post", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["count"])

	code, body = doJSON(t, router, http.MethodPost, "/presence/my-post", "203.0.113.1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])

	code, body = doJSON(t, router, http.MethodPost, "/presence/my-post", "203.0.113.2", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["count"])

	code, body = doJSON(t, router, http.MethodGet, "/presence/my-post", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["count"])
}

func TestVisitorsEndpoint(t *testing.T) {
	_, router := newTestRouter(t)

	code, body := doJSON(t, router, http.MethodPost, "/visitors", "203.0.113.1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["isNew"])
	assert.EqualValues(t, 1, body["total"])

	code, body = doJSON(t, router, http.MethodPost, "/visitors", "203.0.113.1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["isNew"])

	code, body = doJSON(t, router, http.MethodPost, "/visitors", "203.0.113.2", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["isNew"])

	code, body = doJSON(t, router, http.MethodGet, "/visitors", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["today"])
}

func TestRecentlyViewedEndpoint(t *testing.T) {
	_, router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodPost, "/recently-viewed", "203.0.113.1", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := doJSON(t, router, http.MethodPost, "/recently-viewed", "203.0.113.1", `{"slug":"post-a"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, body = doJSON(t, router, http.MethodGet, "/recently-viewed?limit=5", "203.0.113.1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"post-a"}, body["posts"])

	// Another visitor has an empty list.
	code, body = doJSON(t, router, http.MethodGet, "/recently-viewed", "203.0.113.2", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["posts"])
}

func TestUnconfiguredStore_AllEndpointsServeDefaults(t *testing.T) {
	router := newDegradedRouter(t)

	cases := []struct {
		method string
		path   string
		body   string
		key    string
	}{
		{http.MethodGet, "/likes/my-post", "", "likes"},
		{http.MethodPost, "/likes/my-post", "", "likes"},
		{http.MethodGet, "/views/my-post", "", "views"},
		{http.MethodPost, "/views/my-post", "", "views"},
		{http.MethodGet, "/popular", "", "posts"},
		{http.MethodGet, "/presence/my-post", "", "count"},
		{http.MethodPost, "/presence/my-post", "", "count"},
		{http.MethodGet, "/reading-progress/my-post", "", "progress"},
		{http.MethodGet, "/recently-viewed", "", "posts"},
		{http.MethodGet, "/visitors", "", "today"},
		{http.MethodPost, "/visitors", "", "total"},
		{http.MethodPost, "/rate-limit", "", "allowed"},
	}

	for _, tc := range cases {
		code, body := doJSON(t, router, tc.method, tc.path, "203.0.113.1", tc.body)
		assert.Equal(t, http.StatusOK, code, "%s %s", tc.method, tc.path)
		assert.Contains(t, body, tc.key, "%s %s", tc.method, tc.path)
	}

	// The rate limiter fails open.
	_, body := doJSON(t, router, http.MethodPost, "/rate-limit", "203.0.113.1", "")
	assert.Equal(t, true, body["allowed"])
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestRouter(t)

	code, body := doJSON(t, router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ok", body["store"])
}

func TestHealthEndpoint_WithoutStore(t *testing.T) {
	router := newDegradedRouter(t)

	code, body := doJSON(t, router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "not_configured", body["store"])
}
