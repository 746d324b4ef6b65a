// Package layout computes node positions for bulk operations: the circular
// auto layout and the centroid used by "center view". Manual drags override
// whatever a layout produced until the next auto-layout run.
package layout

import (
	"math"

	"github.com/osintdash/graphkit/pkg/graph"
)

// Config configures layout parameters.
type Config struct {
	Radius float64 // distance from the center for circular placement
}

// DefaultRadius is used when a config leaves Radius zero.
const DefaultRadius = 300

// Circular returns positions on a circle of the configured radius around
// center: node i sits at angle 2π·i/n. Deterministic for a fixed input
// order. A single node lands at angle 0, radius away from the center.
func Circular(cfg Config, center graph.Position, n int) []graph.Position {
	if n <= 0 {
		return nil
	}
	radius := cfg.Radius
	if radius == 0 {
		radius = DefaultRadius
	}

	angleStep := 2 * math.Pi / float64(n)
	positions := make([]graph.Position, n)
	for i := range positions {
		angle := float64(i) * angleStep
		positions[i] = graph.Position{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return positions
}

// Apply runs the circular auto layout over every node in the store, in
// insertion order, discarding any manually dragged positions.
func Apply(cfg Config, store *graph.Store, center graph.Position) error {
	nodes := store.Nodes()
	positions := Circular(cfg, center, len(nodes))
	for i, node := range nodes {
		if err := store.UpdateNodePosition(node.ID, positions[i]); err != nil {
			return err
		}
	}
	return nil
}

// Centroid returns the mean position of the given nodes. The second return
// is false for an empty graph.
func Centroid(nodes []*graph.Node) (graph.Position, bool) {
	if len(nodes) == 0 {
		return graph.Position{}, false
	}
	var sumX, sumY float64
	for _, node := range nodes {
		sumX += node.Position.X
		sumY += node.Position.Y
	}
	n := float64(len(nodes))
	return graph.Position{X: sumX / n, Y: sumY / n}, true
}
