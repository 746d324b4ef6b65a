package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintdash/graphkit/pkg/canvas"
	"github.com/osintdash/graphkit/pkg/graph"
)

func buildTestGraph(t *testing.T) (*graph.Store, *graph.Node, *graph.Node) {
	t.Helper()
	s := graph.NewStore()

	a := graph.NewNode(graph.EntityDomain, "example.com", "example.com")
	a.Position = graph.Position{X: 100, Y: 100}
	b := graph.NewNode(graph.EntityIP, "93.184.216.34", "93.184.216.34")
	b.Position = graph.Position{X: 300, Y: 100}
	require.NoError(t, s.AddNode(a))
	require.NoError(t, s.AddNode(b))
	require.NoError(t, s.AddEdge(&graph.Edge{
		ID:       "e1",
		SourceID: a.ID,
		TargetID: b.ID,
		Label:    "DNS Resolve",
	}))
	return s, a, b
}

func TestBuildResolvesEdgesThroughNodes(t *testing.T) {
	s, a, b := buildTestGraph(t)
	view := canvas.NewViewport(800, 600)

	frame := Build(s, view, Options{})

	require.Len(t, frame.Nodes, 2)
	require.Len(t, frame.Edges, 1)

	edge := frame.Edges[0]
	assert.Equal(t, a.Position.X, edge.X1)
	assert.Equal(t, b.Position.X, edge.X2)
	assert.Equal(t, "DNS Resolve", edge.Label)
	assert.Equal(t, (a.Position.X+b.Position.X)/2, edge.LabelX)

	// Arrowhead stops short of the target disc.
	assert.Less(t, edge.ArrowX, edge.X2)
	assert.Greater(t, edge.ArrowX, edge.LabelX)
}

func TestBuildAppliesViewTransform(t *testing.T) {
	s, a, _ := buildTestGraph(t)
	view := canvas.NewViewport(800, 600)
	view.Scale = 2.0
	view.OffsetX = 50
	view.OffsetY = -10

	frame := Build(s, view, Options{})

	require.Len(t, frame.Nodes, 2)
	assert.Equal(t, a.Position.X*2+50, frame.Nodes[0].X)
	assert.Equal(t, a.Position.Y*2-10, frame.Nodes[0].Y)
}

func TestBuildMarksSelectionHoverAndRisk(t *testing.T) {
	s, a, b := buildTestGraph(t)

	risky := graph.NewNode(graph.EntityVulnerability, "CVE-2024-0001", "CVE-2024-0001")
	risky.Risk = &graph.RiskMetadata{Level: graph.RiskCritical, Source: "threatfox"}
	require.NoError(t, s.AddNode(risky))

	frame := Build(s, canvas.NewViewport(800, 600), Options{
		SelectedID: a.ID,
		HoveredID:  b.ID,
	})

	require.Len(t, frame.Nodes, 3)
	assert.True(t, frame.Nodes[0].Selected)
	assert.False(t, frame.Nodes[0].Hovered)
	assert.True(t, frame.Nodes[1].Hovered)
	assert.Equal(t, graph.RiskCritical, frame.Nodes[2].Badge)
	assert.Equal(t, graph.RiskLevel(""), frame.Nodes[0].Badge)
}

func TestBuildSkipsDanglingEdgeEndpoints(t *testing.T) {
	s, _, _ := buildTestGraph(t)
	frame := Build(s, canvas.NewViewport(800, 600), Options{})
	require.Len(t, frame.Edges, 1)
}

func TestBuildMenuOverlay(t *testing.T) {
	s, a, _ := buildTestGraph(t)

	menu := &canvas.ContextMenu{
		NodeID: a.ID,
		Screen: graph.Position{X: 120, Y: 80},
		Entries: []canvas.MenuEntry{
			{ID: "dns_resolve", Label: "DNS Resolve", Icon: "🌐"},
			{ID: canvas.MenuDelete, Label: "Delete", Icon: "✕"},
		},
	}

	frame := Build(s, canvas.NewViewport(800, 600), Options{Menu: menu})

	require.NotNil(t, frame.Menu)
	assert.Equal(t, 120.0, frame.Menu.X)
	assert.Equal(t, "example.com", frame.Menu.Title)
	require.Len(t, frame.Menu.Entries, 2)
	assert.Equal(t, canvas.MenuDelete, frame.Menu.Entries[1].ID)
}

func TestGridFollowsPan(t *testing.T) {
	view := canvas.NewViewport(800, 600)
	base := buildGrid(view)
	require.NotEmpty(t, base)

	view.Pan(15, 0)
	panned := buildGrid(view)

	// Vertical lines shift with the pan offset.
	assert.InDelta(t, base[0].X1+15, panned[0].X1, 1e-9)

	// A full grid step of pan wraps back to the same phase.
	view = canvas.NewViewport(800, 600)
	view.Pan(gridSpacing, 0)
	wrapped := buildGrid(view)
	assert.InDelta(t, base[0].X1, wrapped[0].X1, 1e-9)
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", TruncateLabel("short"))

	long := strings.Repeat("a", 25)
	got := TruncateLabel(long)
	assert.Equal(t, strings.Repeat("a", MaxLabelRunes)+"…", got)
	assert.Len(t, []rune(got), MaxLabelRunes+1)

	exact := strings.Repeat("b", MaxLabelRunes)
	assert.Equal(t, exact, TruncateLabel(exact))
}

func TestRasterizerPaintsFrame(t *testing.T) {
	frame := &Frame{
		Width:  40,
		Height: 10,
		Nodes: []NodeOp{
			{X: 10, Y: 4, Radius: 4, Glyph: "🌐", Label: "example.com", Color: "#6FA8DC"},
		},
		Edges: []EdgeOp{
			{X1: 2, Y1: 4, X2: 18, Y2: 4, ArrowX: 16, ArrowY: 4, Label: "DNS", LabelX: 10, LabelY: 3, Color: "#5A6270"},
		},
		Notice: "expansion failed",
	}

	out := NewRasterizer(40, 10).Render(frame)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, out, "🌐")
	assert.Contains(t, out, "example.com")
	assert.Contains(t, out, "expansion failed")
}
