package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// reconciliation and scoring service.
type Metrics struct {
	SourceRecordsLoaded   *prometheus.CounterVec // labels: source={gov,assessments,profiles,vic}
	SourceRecordsRejected *prometheus.CounterVec // labels: source, reason={malformed,empty_key}
	IndexBuilds           prometheus.Counter
	IndexCollisions       prometheus.Counter
	IndexReady            prometheus.Gauge

	// Reconciliation metrics.
	ResolveTotal *prometheus.CounterVec // labels: layer={alias,name,slug,profile,orphan}

	// Scoring metrics.
	ScoreRequests prometheus.Counter
	ScoreDuration prometheus.Histogram
	KnowledgeGaps *prometheus.CounterVec // labels: criterion={impact,invasiveness}

	// Photo enrichment metrics.
	PhotoLookups *prometheus.CounterVec // labels: outcome={success,empty,error}
	PhotoCache   *prometheus.CounterVec // labels: result={hit,miss}
	PhotoEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SourceRecordsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weed_priority",
			Name:      "source_records_loaded_total",
			Help:      "Source records accepted per collection.",
		}, []string{"source"}),
		SourceRecordsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weed_priority",
			Name:      "source_records_rejected_total",
			Help:      "Source records rejected per collection and reason.",
		}, []string{"source", "reason"}),
		IndexBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weed_priority",
			Name:      "index_builds_total",
			Help:      "Total reconciliation index builds.",
		}),
		IndexCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weed_priority",
			Name:      "index_collisions_total",
			Help:      "Normalized name keys claimed by more than one species during index construction.",
		}),
		IndexReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weed_priority",
			Name:      "index_ready",
			Help:      "1 when a reconciliation index has been built and is serving.",
		}),
		ResolveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weed_priority",
			Name:      "resolve_total",
			Help:      "Species resolutions by the fallback layer that matched.",
		}, []string{"layer"}),
		ScoreRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weed_priority",
			Name:      "score_requests_total",
			Help:      "Priority scoring recomputes.",
		}),
		ScoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weed_priority",
			Name:      "score_duration_seconds",
			Help:      "Duration of one full candidate-list scoring pass.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		KnowledgeGaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weed_priority",
			Name:      "knowledge_gaps_total",
			Help:      "Scored candidates missing all data for a criterion.",
		}, []string{"criterion"}),
		PhotoLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weed_priority",
			Name:      "photo_lookups_total",
			Help:      "Photo provider lookups by outcome.",
		}, []string{"outcome"}),
		PhotoCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weed_priority",
			Name:      "photo_cache_total",
			Help:      "Photo cache lookups by result.",
		}, []string{"result"}),
		PhotoEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weed_priority",
			Name:      "photo_enabled",
			Help:      "1 when photo enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.SourceRecordsLoaded,
		m.SourceRecordsRejected,
		m.IndexBuilds,
		m.IndexCollisions,
		m.IndexReady,
		m.ResolveTotal,
		m.ScoreRequests,
		m.ScoreDuration,
		m.KnowledgeGaps,
		m.PhotoLookups,
		m.PhotoCache,
		m.PhotoEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SourceRecordsLoaded:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weed_priority", Name: "source_records_loaded_total"}, []string{"source"}),
		SourceRecordsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weed_priority", Name: "source_records_rejected_total"}, []string{"source", "reason"}),
		IndexBuilds:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weed_priority", Name: "index_builds_total"}),
		IndexCollisions:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weed_priority", Name: "index_collisions_total"}),
		IndexReady:            prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weed_priority", Name: "index_ready"}),
		ResolveTotal:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weed_priority", Name: "resolve_total"}, []string{"layer"}),
		ScoreRequests:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weed_priority", Name: "score_requests_total"}),
		ScoreDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weed_priority", Name: "score_duration_seconds"}),
		KnowledgeGaps:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weed_priority", Name: "knowledge_gaps_total"}, []string{"criterion"}),
		PhotoLookups:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weed_priority", Name: "photo_lookups_total"}, []string{"outcome"}),
		PhotoCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weed_priority", Name: "photo_cache_total"}, []string{"result"}),
		PhotoEnabled:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weed_priority", Name: "photo_enabled"}),
	}
}
