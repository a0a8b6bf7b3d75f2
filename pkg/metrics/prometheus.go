package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	aggregations   *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

var (
	defaultRecorder *Recorder
	defaultOnce     sync.Once
)

// New returns the process-wide Prometheus recorder. Collectors register with
// the default registry once.
func New() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = NewWithRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRecorder
}

// NewWithRegistry registers collectors with reg. Tests pass a fresh registry.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		aggregations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "semidash_aggregations_total",
				Help: "Aggregation runs by cohort and outcome (live, demo, panic)",
			},
			[]string{"cohort", "outcome"},
		),
		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "semidash_upstream_errors_total",
				Help: "Failed upstream calls by source",
			},
			[]string{"source"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "semidash_cache_lookups_total",
				Help: "Snapshot cache lookups by result",
			},
			[]string{"result"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "semidash_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
	}
}

// RecordAggregation records the outcome of one aggregation run.
func (r *Recorder) RecordAggregation(cohort, outcome string) {
	r.aggregations.WithLabelValues(cohort, outcome).Inc()
}

// RecordUpstreamError records a failed upstream call.
func (r *Recorder) RecordUpstreamError(source string) {
	r.upstreamErrors.WithLabelValues(source).Inc()
}

// RecordCache records a cache hit or miss.
func (r *Recorder) RecordCache(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
