package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() { c.RecordDegradation("likes") })
}

func TestHandlerExposesDegradationCounter(t *testing.T) {
	c := NewCollector()
	c.RecordDegradation("likes")
	c.RecordDegradation("likes")
	c.RecordDegradation("views")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `engagement_store_degraded_total{feature="likes"} 2`)
	assert.Contains(t, body, `engagement_store_degraded_total{feature="views"} 1`)
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	c := NewCollector()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	c.Middleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	metricsRec := httptest.NewRecorder()
	c.Handler().ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := metricsRec.Body.String()
	assert.Contains(t, body, `engagement_http_requests_total{method="GET",status="404"} 1`)
	assert.Contains(t, body, "engagement_http_request_duration_seconds_count 1")
}
