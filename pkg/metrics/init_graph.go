package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphkit_graph_nodes_total",
			Help: "Current number of nodes in the graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphkit_graph_edges_total",
			Help: "Current number of edges in the graph",
		},
	)

	r.GraphNodesByType = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graphkit_graph_nodes_by_type",
			Help: "Current number of nodes per entity type",
		},
		[]string{"type"},
	)
}
