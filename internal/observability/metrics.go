package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ocean_hazard"

// Metrics holds the Prometheus counters, histograms, and gauges for the forecast pipeline.
type Metrics struct {
	EventsGenerated *prometheus.CounterVec // labels: hazard
	AlertsGenerated *prometheus.CounterVec // labels: hazard, severity
	EventsPublished prometheus.Counter
	AlertsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
	InvalidEvents   prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Refresh cycle metrics.
	CycleDuration prometheus.Histogram
	LastCycleTime prometheus.Gauge

	// HTTP API metrics.
	APIRequests *prometheus.CounterVec // labels: route, code
	APICache    *prometheus.CounterVec // labels: result={hit,miss}
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_generated_total",
			Help:      "Hazard events generated by hazard type.",
		}, []string{"hazard"}),
		AlertsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_generated_total",
			Help:      "CAP alerts derived from events by hazard type and severity.",
		}, []string{"hazard", "severity"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total events written to the events topic.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Total alerts written to the alerts topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total failed publish attempts.",
		}),
		InvalidEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_events_total",
			Help:      "Generated events dropped for failing invariant checks.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete generate-and-publish refresh cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		LastCycleTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time of the last successfully published cycle.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Forecast API requests by route and status code.",
		}, []string{"route", "code"}),
		APICache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_cache_total",
			Help:      "Seeded API response cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.EventsGenerated,
		m.AlertsGenerated,
		m.EventsPublished,
		m.AlertsPublished,
		m.PublishErrors,
		m.InvalidEvents,
		m.PipelineRunning,
		m.CycleDuration,
		m.LastCycleTime,
		m.APIRequests,
		m.APICache,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}
