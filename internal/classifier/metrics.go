package classifier

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the classification engine.
type Metrics struct {
	ClassificationsTotal *prometheus.CounterVec
	Confidence           *prometheus.HistogramVec
	TierPanicsTotal      *prometheus.CounterVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CachePurgesTotal prometheus.Counter
}

// NewMetrics creates and registers the engine metrics once per process.
//
// Metrics:
//   - lintfix_classifications_total{method} - decisions by answering tier
//   - lintfix_classification_confidence{method} - confidence distribution
//   - lintfix_tier_panics_total{tier} - recovered tier panics
//   - lintfix_decision_cache_hits_total - decision cache hits
//   - lintfix_decision_cache_misses_total - decision cache misses
//   - lintfix_decision_cache_purges_total - purges after a mutation
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			ClassificationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lintfix_classifications_total",
					Help: "Total number of classifications by method",
				},
				[]string{"method"},
			),

			Confidence: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "lintfix_classification_confidence",
					Help:    "Confidence of returned classifications",
					Buckets: []float64{0.1, 0.3, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
				},
				[]string{"method"},
			),

			TierPanicsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lintfix_tier_panics_total",
					Help: "Total number of recovered tier panics",
				},
				[]string{"tier"},
			),

			CacheHitsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "lintfix_decision_cache_hits_total",
					Help: "Total number of decision cache hits",
				},
			),

			CacheMissesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "lintfix_decision_cache_misses_total",
					Help: "Total number of decision cache misses",
				},
			),

			CachePurgesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "lintfix_decision_cache_purges_total",
					Help: "Total number of decision cache purges",
				},
			),
		}
	})
	return globalMetrics
}
