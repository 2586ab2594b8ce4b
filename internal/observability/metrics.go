package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates in-process request and dependency counters. Label
// values for route must be route templates (e.g. /api/v1/items/{id}),
// never raw request paths, so cardinality stays bounded.
type Metrics struct {
	RequestCount     *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	HealthStatus     prometheus.Gauge
	CacheOps         *prometheus.CounterVec

	registry *prometheus.Registry
	handler  http.Handler
}

func NewMetrics() *Metrics {
	return &Metrics{
		RequestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status_class"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"route", "method"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		HealthStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "app_health_status",
				Help: "Application health status (1 = healthy, 0 = unhealthy)",
			},
		),
		CacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Total cache store operations",
			},
			[]string{"operation", "status"},
		),
	}
}

// RecordRequest increments the request counter and observes the latency
// histogram for one completed request.
func (m *Metrics) RecordRequest(route, method string, statusCode int, duration time.Duration) {
	m.RequestCount.WithLabelValues(route, method, StatusClass(statusCode)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordCacheOp counts one cache store operation outcome.
func (m *Metrics) RecordCacheOp(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CacheOps.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) SetHealthStatus(healthy bool) {
	if healthy {
		m.HealthStatus.Set(1)
	} else {
		m.HealthStatus.Set(0)
	}
}

// StatusClass collapses an HTTP status code to its class label
// (2xx, 4xx, 5xx, ...).
func StatusClass(statusCode int) string {
	if statusCode < 100 || statusCode > 599 {
		return "5xx"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}

func (m *Metrics) Handler() http.Handler {
	if m.handler != nil {
		return m.handler
	}
	return promhttp.Handler()
}

// Register registers all metrics with a private registry so the
// exposition contains only this service's samples.
func (m *Metrics) Register() error {
	m.registry = prometheus.NewRegistry()

	collectors := []prometheus.Collector{
		m.RequestCount,
		m.RequestDuration,
		m.RequestsInFlight,
		m.HealthStatus,
		m.CacheOps,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}

	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return nil
}
