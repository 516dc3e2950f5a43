// Package metrics provides Prometheus metrics for the standards graph service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Query facade metrics
	QueriesTotal      *prometheus.CounterVec
	QueryDuration     *prometheus.HistogramVec
	QueryWarningsTotal prometheus.Counter
	TraversalsTotal   prometheus.Counter

	// Graph size metrics
	FrameworksTotal    prometheus.Gauge
	ItemsTotal         prometheus.Gauge
	ComponentsTotal    prometheus.Gauge
	RelationshipsTotal prometheus.Gauge

	// Ingest metrics
	LoadDuration         prometheus.Histogram
	SkippedRelationships prometheus.Counter

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// NewMetrics creates and registers all Prometheus metrics on the default
// registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics on the given registerer. Tests use a
// fresh registry per instance.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standardsgraph_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "standardsgraph_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "standardsgraph_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.QueriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standardsgraph_queries_total",
			Help: "Total number of graph query operations",
		},
		[]string{"operation", "status"},
	)

	m.QueryDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "standardsgraph_query_duration_seconds",
			Help:    "Duration of graph query operations in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	m.QueryWarningsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "standardsgraph_query_warnings_total",
			Help: "Total number of data-integrity warnings returned with query results",
		},
	)

	m.TraversalsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "standardsgraph_traversals_total",
			Help: "Total number of closure traversals executed",
		},
	)

	m.FrameworksTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "standardsgraph_frameworks_total",
			Help: "Number of standards frameworks in the loaded graph",
		},
	)

	m.ItemsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "standardsgraph_items_total",
			Help: "Number of standards framework items in the loaded graph",
		},
	)

	m.ComponentsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "standardsgraph_components_total",
			Help: "Number of learning components in the loaded graph",
		},
	)

	m.RelationshipsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "standardsgraph_relationships_total",
			Help: "Number of relationships in the loaded graph",
		},
	)

	m.LoadDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "standardsgraph_load_duration_seconds",
			Help:    "Duration of dataset bulk loads in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	m.SkippedRelationships = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "standardsgraph_skipped_relationships_total",
			Help: "Relationship rows excluded at load time",
		},
	)

	m.ServerUptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "standardsgraph_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	go m.updateUptime()

	return m
}

// updateUptime periodically updates the server uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request with its status
func (m *Metrics) RecordHTTPRequest(route string, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordQuery records a facade query operation
func (m *Metrics) RecordQuery(operation string, status string, duration time.Duration, warnings int) {
	m.QueriesTotal.WithLabelValues(operation, status).Inc()
	m.QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if warnings > 0 {
		m.QueryWarningsTotal.Add(float64(warnings))
	}
}

// UpdateGraphStats updates the graph size gauges after a load
func (m *Metrics) UpdateGraphStats(frameworks, items, components, relationships int) {
	m.FrameworksTotal.Set(float64(frameworks))
	m.ItemsTotal.Set(float64(items))
	m.ComponentsTotal.Set(float64(components))
	m.RelationshipsTotal.Set(float64(relationships))
}
