// Package metrics exposes the engine's lazily-constructed, process-wide
// Prometheus registry of append-only counters and histograms, and the
// bounded alert-history singleton.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every metric the ensemble and engine emit. It is
// constructed once per process (or once per test via NewRegistry with a
// fresh prometheus.Registry) rather than registered at package-init time,
// so tests never collide on the default global registerer.
type Registry struct {
	DecisionsTotal     *prometheus.CounterVec
	AlgorithmWeight    *prometheus.GaugeVec
	TrustScore         *prometheus.GaugeVec
	RewardImmediate    prometheus.Histogram
	RewardDeferred     prometheus.Histogram
	EventLatencyMs     prometheus.Histogram
	SnapshotLoadErrors prometheus.Counter
	SnapshotSaveErrors prometheus.Counter
	SanitizationEvents *prometheus.CounterVec
	ColdStartActive    *prometheus.GaugeVec
	StateChangesTotal  *prometheus.CounterVec
}

// NewRegistry registers every metric against reg and returns the bound
// collectors.
func NewRegistry(reg *prometheus.Registry) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "amas",
			Subsystem: "ensemble",
			Name:      "decisions_total",
			Help:      "Total strategy decisions made, by winning algorithm.",
		}, []string{"algorithm"}),

		AlgorithmWeight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "amas",
			Subsystem: "ensemble",
			Name:      "algorithm_weight",
			Help:      "Most recent trust*confidence weight contributed by each algorithm.",
		}, []string{"algorithm"}),

		TrustScore: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "amas",
			Subsystem: "ensemble",
			Name:      "trust_score",
			Help:      "Current EMA-derived trust score per algorithm.",
		}, []string{"algorithm"}),

		RewardImmediate: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "amas",
			Subsystem: "reward",
			Name:      "immediate",
			Help:      "Distribution of per-event immediate reward values.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		}),

		RewardDeferred: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "amas",
			Subsystem: "reward",
			Name:      "deferred",
			Help:      "Distribution of session-end deferred composite reward values.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		}),

		EventLatencyMs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "amas",
			Subsystem: "engine",
			Name:      "event_latency_ms",
			Help:      "Wall-clock time to process one event through the full pipeline.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
		}),

		SnapshotLoadErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "amas",
			Subsystem: "engine",
			Name:      "snapshot_load_errors_total",
			Help:      "Total snapshot load failures surfaced by the persistence collaborator.",
		}),

		SnapshotSaveErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "amas",
			Subsystem: "engine",
			Name:      "snapshot_save_errors_total",
			Help:      "Total snapshot save failures surfaced by the persistence collaborator.",
		}),

		SanitizationEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "amas",
			Subsystem: "linalg",
			Name:      "sanitization_events_total",
			Help:      "Total input sanitization repairs, by kind (raw_event).",
		}, []string{"kind"}),

		ColdStartActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "amas",
			Subsystem: "coldstart",
			Name:      "active",
			Help:      "Whether a user is currently in the scripted cold-start probe phase (1) or not (0).",
		}, []string{"user_id"}),

		StateChangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "amas",
			Subsystem: "engine",
			Name:      "state_changes_total",
			Help:      "Total notable user-state transitions recorded to the in-memory audit ring, by field.",
		}, []string{"field"}),
	}
}
