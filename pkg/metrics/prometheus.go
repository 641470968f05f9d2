package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.MetricsRecorder using Prometheus.
type Recorder struct {
	predictionCalls *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictionCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synapse_prediction_calls_total",
				Help: "Total prediction calls by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synapse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synapse_cache_requests_total",
				Help: "Cache lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "synapse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPredictionCall records one prediction call outcome for a source.
func (r *Recorder) RecordPredictionCall(source, outcome string) {
	r.predictionCalls.WithLabelValues(source, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheLookup records a cache hit or miss for a cache kind.
func (r *Recorder) RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheHits.WithLabelValues(kind, result).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
