package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTransformMetrics() {
	r.TransformsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphkit_transforms_total",
			Help: "Total number of transform executions",
		},
		[]string{"transform", "status"},
	)

	r.TransformDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphkit_transform_duration_seconds",
			Help:    "Transform execution latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"transform"},
	)

	r.ProviderCallsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphkit_provider_calls_total",
			Help: "Total number of upstream provider calls",
		},
		[]string{"provider", "status"},
	)

	r.CacheLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphkit_cache_lookups_total",
			Help: "Total number of transform cache lookups",
		},
		[]string{"result"},
	)

	r.CacheEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphkit_cache_entries",
			Help: "Current number of live transform cache entries",
		},
	)
}
