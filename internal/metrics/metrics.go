// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for expand and geocode requests.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics for the server. Collectors are
// registered on a private registry so tests can create as many as they
// like.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	ExpandOutcomes  *prometheus.CounterVec
	GeocodeOutcomes *prometheus.CounterVec
	OperatorRecords prometheus.Gauge
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carriermap_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carriermap_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ExpandOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carriermap_expand_total",
			Help: "Link expansion requests by outcome",
		}, []string{"outcome"}),
		GeocodeOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carriermap_geocode_total",
			Help: "Reverse geocoding requests by outcome",
		}, []string{"outcome"}),
		OperatorRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "carriermap_operator_records",
			Help: "Number of operator records in the last loaded artifact",
		}),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Expand counts a link expansion outcome.
func (m *Metrics) Expand(outcome string) {
	m.ExpandOutcomes.WithLabelValues(outcome).Inc()
}

// Geocode counts a geocoding outcome.
func (m *Metrics) Geocode(outcome string) {
	m.GeocodeOutcomes.WithLabelValues(outcome).Inc()
}

// SetOperatorRecords sets the artifact size gauge.
func (m *Metrics) SetOperatorRecords(n int) {
	m.OperatorRecords.Set(float64(n))
}
