// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records the service's Prometheus metrics.
// A nil *Collector is safe to call; every method no-ops.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	degradedTotal   *prometheus.CounterVec
}

// NewCollector creates a Collector backed by its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "engagement_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		degradedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_store_degraded_total",
			Help: "Feature calls that fell back to a safe default because the store was unavailable.",
		}, []string{"feature"}),
	}

	c.registry.MustRegister(c.requestsTotal, c.requestDuration, c.degradedTotal)
	return c
}

// RecordDegradation counts a feature call that returned its fallback value.
func (c *Collector) RecordDegradation(feature string) {
	if c == nil {
		return
	}
	c.degradedTotal.WithLabelValues(feature).Inc()
}

// Handler serves the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		c.requestsTotal.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		c.requestDuration.Observe(time.Since(start).Seconds())
	})
}
