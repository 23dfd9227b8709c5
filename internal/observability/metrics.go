package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "building_report"

// Metrics holds the Prometheus counters, histograms, and gauges for the report service.
type Metrics struct {
	Searches       *prometheus.CounterVec // labels: outcome={success,unresolvable,superseded}
	SearchDuration prometheus.Histogram
	Resolutions    *prometheus.CounterVec // labels: source={geocoder,parser}
	CascadeWinner  *prometheus.CounterVec // labels: strategy={exact,street_prefix,borough_cross_match,none}

	// Collaborator metrics.
	CollaboratorRequests *prometheus.CounterVec   // labels: collaborator={geocoder,violations,taxlots}, outcome={success,error,empty}
	CollaboratorDuration *prometheus.HistogramVec // labels: collaborator
	GeocodeCache         *prometheus.CounterVec   // labels: result={hit,miss}
	GeocodeEnabled       prometheus.Gauge

	RegistryEntries prometheus.Gauge
	ActiveSessions  prometheus.Gauge
	SinkPublishes   *prometheus.CounterVec // labels: sink={kafka,sqlite}, outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Searches,
		m.SearchDuration,
		m.Resolutions,
		m.CascadeWinner,
		m.CollaboratorRequests,
		m.CollaboratorDuration,
		m.GeocodeCache,
		m.GeocodeEnabled,
		m.RegistryEntries,
		m.ActiveSessions,
		m.SinkPublishes,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Address searches by outcome.",
		}, []string{"outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end duration of a search, from raw text to assembled report.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "address_resolutions_total",
			Help:      "Resolved addresses by resolution source.",
		}, []string{"source"}),
		CascadeWinner: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_winner_total",
			Help:      "Violation cascade runs by winning strategy.",
		}, []string{"strategy"}),
		CollaboratorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaborator_requests_total",
			Help:      "External data requests by collaborator and outcome.",
		}, []string{"collaborator", "outcome"}),
		CollaboratorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collaborator_duration_seconds",
			Help:      "External data request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"collaborator"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when network geocoding is enabled, 0 when only the parser is used.",
		}),
		RegistryEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_entries",
			Help:      "Entries in the loaded rent-stabilization registry.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Search sessions currently held in memory.",
		}),
		SinkPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_publishes_total",
			Help:      "Report publications by sink and outcome.",
		}, []string{"sink", "outcome"}),
	}
}
