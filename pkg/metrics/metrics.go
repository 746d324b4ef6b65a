package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osintdash/graphkit/pkg/graph"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordTransform records one transform execution
func (r *Registry) RecordTransform(transformID, status string, duration time.Duration) {
	r.TransformsTotal.WithLabelValues(transformID, status).Inc()
	r.TransformDuration.WithLabelValues(transformID).Observe(duration.Seconds())
}

// RecordProviderCall records one upstream provider call
func (r *Registry) RecordProviderCall(provider, status string) {
	r.ProviderCallsTotal.WithLabelValues(provider, status).Inc()
}

// RecordCacheLookup records a transform cache hit or miss
func (r *Registry) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// UpdateGraphMetrics refreshes the graph gauges from the store
func (r *Registry) UpdateGraphMetrics(store *graph.Store) {
	nodes, edges := store.Counts()
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
	for entityType, count := range store.CountsByType() {
		r.GraphNodesByType.WithLabelValues(string(entityType)).Set(float64(count))
	}
}

// UpdateSystemMetrics refreshes uptime and runtime gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
}

// Handler returns the Prometheus scrape handler for this registry
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
