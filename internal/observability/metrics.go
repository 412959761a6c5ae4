package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. Each instance owns
// its registry so several can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	authRejections  *prometheus.CounterVec
	feedCache       *prometheus.CounterVec
}

// NewMetrics initializes collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "starbite_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "starbite_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "starbite_http_errors_total",
			Help: "HTTP errors by code",
		}, []string{"route", "method", "code"}),
		authRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "starbite_auth_rejections_total",
			Help: "Requests rejected by an authentication guard",
		}, []string{"guard", "reason"}),
		feedCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "starbite_feed_cache_lookups_total",
			Help: "Home feed cache lookups by result",
		}, []string{"result"}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(route, method, code).Inc()
}

// RecordAuthRejection counts guard rejections.
func (m *Metrics) RecordAuthRejection(guard, reason string) {
	if m == nil {
		return
	}
	m.authRejections.WithLabelValues(guard, reason).Inc()
}

// RecordFeedCache counts home feed cache hits and misses.
func (m *Metrics) RecordFeedCache(result string) {
	if m == nil {
		return
	}
	m.feedCache.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
