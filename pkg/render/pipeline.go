package render

import (
	"math"

	"github.com/osintdash/graphkit/pkg/canvas"
	"github.com/osintdash/graphkit/pkg/graph"
)

// MaxLabelRunes caps node labels on the surface; longer labels get an
// ellipsis.
const MaxLabelRunes = 20

// gridSpacing is the world-space distance between background grid lines.
const gridSpacing = 80.0

// Options carries the per-frame interaction state the pipeline needs beyond
// the graph itself.
type Options struct {
	SelectedID string
	HoveredID  string
	Menu       *canvas.ContextMenu
	Busy       bool
	Notice     string
}

// Build flattens the current graph and view into a display list. Everything
// is transformed into screen space here; backends only paint.
func Build(store *graph.Store, view *canvas.Viewport, opts Options) *Frame {
	frame := &Frame{
		Width:  view.Width,
		Height: view.Height,
		Busy:   opts.Busy,
		Notice: opts.Notice,
	}

	frame.Grid = buildGrid(view)

	nodes := store.Nodes()
	// Edges reference nodes by id; resolve through one index instead of
	// walking the node list per edge.
	byID := make(map[string]*graph.Node, len(nodes))
	for _, node := range nodes {
		byID[node.ID] = node
	}

	for _, edge := range store.Edges() {
		source, ok := byID[edge.SourceID]
		if !ok {
			continue
		}
		target, ok := byID[edge.TargetID]
		if !ok {
			continue
		}
		frame.Edges = append(frame.Edges, buildEdge(view, edge, source, target))
	}

	for _, node := range nodes {
		frame.Nodes = append(frame.Nodes, buildNode(view, node, opts))
	}

	if opts.Menu != nil {
		menu := &MenuOp{X: opts.Menu.Screen.X, Y: opts.Menu.Screen.Y}
		if node, ok := byID[opts.Menu.NodeID]; ok {
			menu.Title = TruncateLabel(node.Label)
		}
		for _, entry := range opts.Menu.Entries {
			menu.Entries = append(menu.Entries, MenuEntryOp{ID: entry.ID, Label: entry.Label, Icon: entry.Icon})
		}
		frame.Menu = menu
	}

	return frame
}

// buildGrid emits vertical and horizontal lines spaced by the grid step,
// parallaxed by the current pan and zoom: the lines move with the world.
func buildGrid(view *canvas.Viewport) []GridLineOp {
	var ops []GridLineOp
	step := gridSpacing * view.Scale
	if step < 8 {
		// Grid would be denser than it is useful; coarsen it.
		step *= 4
	}

	offsetX := math.Mod(view.OffsetX, step)
	if offsetX < 0 {
		offsetX += step
	}
	offsetY := math.Mod(view.OffsetY, step)
	if offsetY < 0 {
		offsetY += step
	}

	for x := offsetX; x <= view.Width; x += step {
		ops = append(ops, GridLineOp{X1: x, Y1: 0, X2: x, Y2: view.Height})
	}
	for y := offsetY; y <= view.Height; y += step {
		ops = append(ops, GridLineOp{X1: 0, Y1: y, X2: view.Width, Y2: y})
	}
	return ops
}

func buildEdge(view *canvas.Viewport, edge *graph.Edge, source, target *graph.Node) EdgeOp {
	from := view.ToScreen(source.Position)
	to := view.ToScreen(target.Position)

	angle := math.Atan2(to.Y-from.Y, to.X-from.X)

	// The arrowhead sits just outside the target disc so it stays visible.
	targetRadius := target.EffectiveStyle().Radius / 2 * view.Scale
	arrowX := to.X - math.Cos(angle)*(targetRadius+2)
	arrowY := to.Y - math.Sin(angle)*(targetRadius+2)

	color := edge.Style.Color
	if color == "" {
		color = "#5A6270"
	}

	return EdgeOp{
		X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y,
		ArrowX: arrowX, ArrowY: arrowY, ArrowAngle: angle,
		Label:  edge.Label,
		LabelX: (from.X + to.X) / 2,
		LabelY: (from.Y + to.Y) / 2,
		Color:  color,
	}
}

func buildNode(view *canvas.Viewport, node *graph.Node, opts Options) NodeOp {
	pos := view.ToScreen(node.Position)
	style := node.EffectiveStyle()

	op := NodeOp{
		X:        pos.X,
		Y:        pos.Y,
		Radius:   style.Radius / 2 * view.Scale,
		Glyph:    style.Glyph,
		Label:    TruncateLabel(node.Label),
		Color:    style.Color,
		Selected: node.ID == opts.SelectedID,
		Hovered:  node.ID == opts.HoveredID,
	}
	if node.Risk != nil {
		op.Badge = node.Risk.Level
	}
	return op
}

// TruncateLabel shortens a label to MaxLabelRunes runes plus an ellipsis.
func TruncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= MaxLabelRunes {
		return label
	}
	return string(runes[:MaxLabelRunes]) + "…"
}
