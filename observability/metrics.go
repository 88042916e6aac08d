package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the road report service.
type Metrics struct {
	ReportsCreated   *prometheus.CounterVec // labels: type
	ReportsReviewed  *prometheus.CounterVec // labels: outcome={verified,rejected}
	RateLimited      prometheus.Counter
	RouteComparisons *prometheus.CounterVec // labels: fallback={true,false}

	// Upstream (OSRM / Nominatim) metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: service, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: service
	GeocodeCache     *prometheus.CounterVec   // labels: method={search,reverse}, result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsCreated,
		m.ReportsReviewed,
		m.RateLimited,
		m.RouteComparisons,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build many.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartroad",
			Name:      "reports_created_total",
			Help:      "Hazard reports submitted, by hazard type.",
		}, []string{"type"}),
		ReportsReviewed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartroad",
			Name:      "reports_reviewed_total",
			Help:      "Admin review decisions, by outcome.",
		}, []string{"outcome"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smartroad",
			Name:      "reports_rate_limited_total",
			Help:      "Report submissions rejected by the daily limit.",
		}),
		RouteComparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartroad",
			Name:      "route_comparisons_total",
			Help:      "Fastest vs safest comparisons, by whether sample routes were used.",
		}, []string{"fallback"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartroad",
			Name:      "upstream_requests_total",
			Help:      "Requests to routing and geocoding APIs by service and outcome.",
		}, []string{"service", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "smartroad",
			Name:      "upstream_duration_seconds",
			Help:      "Routing and geocoding API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"service"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartroad",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
	}
}
