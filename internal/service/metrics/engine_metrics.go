package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ExplorationAnalyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "synapse",
			Subsystem: "exploration",
			Name:      "analyses_total",
			Help:      "Front-card analyses by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	RecommendationRefreshes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "synapse",
			Subsystem: "recommendation",
			Name:      "refreshes_total",
			Help:      "Recommendation slot refreshes",
		},
	)

	SnapshotBuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "synapse",
			Subsystem: "aggregation",
			Name:      "snapshot_build_seconds",
			Help:      "Wall time of one full fan-out run",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	StaleResultsDiscarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "synapse",
			Subsystem: "engine",
			Name:      "stale_results_total",
			Help:      "Async results discarded because their generation was superseded",
		},
		[]string{"component"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ExplorationAnalyses,
			RecommendationRefreshes,
			SnapshotBuildDuration,
			StaleResultsDiscarded,
		)
	})
}
