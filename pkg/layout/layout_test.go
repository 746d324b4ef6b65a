package layout

import (
	"math"
	"testing"

	"github.com/osintdash/graphkit/pkg/graph"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCircular_SingleNode(t *testing.T) {
	center := graph.Position{X: 400, Y: 300}
	positions := Circular(Config{Radius: 200}, center, 1)
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	// Angle 0: straight right of center.
	if !approxEqual(positions[0].X, 600) || !approxEqual(positions[0].Y, 300) {
		t.Errorf("unexpected position %+v", positions[0])
	}
}

func TestCircular_Deterministic(t *testing.T) {
	center := graph.Position{}
	for _, n := range []int{1, 4, 10} {
		positions := Circular(Config{Radius: 100}, center, n)
		if len(positions) != n {
			t.Fatalf("n=%d: got %d positions", n, len(positions))
		}
		for i, pos := range positions {
			angle := 2 * math.Pi * float64(i) / float64(n)
			wantX := 100 * math.Cos(angle)
			wantY := 100 * math.Sin(angle)
			if !approxEqual(pos.X, wantX) || !approxEqual(pos.Y, wantY) {
				t.Errorf("n=%d node %d: got (%f,%f) want (%f,%f)", n, i, pos.X, pos.Y, wantX, wantY)
			}
		}
	}
}

func TestCircular_FourNodesAtQuadrants(t *testing.T) {
	positions := Circular(Config{Radius: 100}, graph.Position{}, 4)
	want := []graph.Position{{X: 100, Y: 0}, {X: 0, Y: 100}, {X: -100, Y: 0}, {X: 0, Y: -100}}
	for i := range want {
		if !approxEqual(positions[i].X, want[i].X) || !approxEqual(positions[i].Y, want[i].Y) {
			t.Errorf("node %d: got %+v want %+v", i, positions[i], want[i])
		}
	}
}

func TestApply_OverridesManualPositions(t *testing.T) {
	store := graph.NewStore()
	var ids []string
	for _, v := range []string{"a.com", "b.com", "c.com"} {
		node := graph.NewNode(graph.EntityDomain, v, "")
		node.Position = graph.Position{X: 9999, Y: 9999} // manual drag remnant
		if err := store.AddNode(node); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, node.ID)
	}

	center := graph.Position{X: 0, Y: 0}
	if err := Apply(Config{Radius: 50}, store, center); err != nil {
		t.Fatal(err)
	}

	for _, id := range ids {
		node, err := store.Node(id)
		if err != nil {
			t.Fatal(err)
		}
		dist := math.Hypot(node.Position.X, node.Position.Y)
		if !approxEqual(dist, 50) {
			t.Errorf("node %s not on the circle: distance %f", id, dist)
		}
	}
}

func TestCentroid(t *testing.T) {
	if _, ok := Centroid(nil); ok {
		t.Error("empty graph should have no centroid")
	}

	nodes := []*graph.Node{
		{Position: graph.Position{X: 0, Y: 0}},
		{Position: graph.Position{X: 100, Y: 50}},
		{Position: graph.Position{X: 200, Y: 100}},
	}
	centroid, ok := Centroid(nodes)
	if !ok {
		t.Fatal("expected a centroid")
	}
	if !approxEqual(centroid.X, 100) || !approxEqual(centroid.Y, 50) {
		t.Errorf("unexpected centroid %+v", centroid)
	}
}
