// Package render rebuilds the drawing of the whole graph after every state
// change: grid, edges, nodes, selection and menus are flattened into a
// display list of screen-space primitives, which a backend (the terminal
// rasterizer here) then paints.
package render

import "github.com/osintdash/graphkit/pkg/graph"

// GridLineOp is one background grid line in screen space.
type GridLineOp struct {
	X1, Y1, X2, Y2 float64
}

// EdgeOp is one rendered edge: a straight line, an arrowhead near the
// target and a label at the midpoint.
type EdgeOp struct {
	X1, Y1, X2, Y2   float64
	ArrowX, ArrowY   float64
	ArrowAngle       float64 // radians, direction of travel
	Label            string
	LabelX, LabelY   float64
	Color            string
}

// NodeOp is one rendered node disc.
type NodeOp struct {
	X, Y     float64
	Radius   float64 // screen-space
	Glyph    string
	Label    string // already truncated for display
	Color    string
	Selected bool
	Hovered  bool
	Badge    graph.RiskLevel // "" for no badge
}

// MenuOp is the context-menu overlay.
type MenuOp struct {
	X, Y    float64
	Title   string
	Entries []MenuEntryOp
}

// MenuEntryOp is one row of the menu overlay.
type MenuEntryOp struct {
	ID    string
	Label string
	Icon  string
}

// Frame is one complete redraw of the surface.
type Frame struct {
	Width, Height float64
	Grid          []GridLineOp
	Edges         []EdgeOp
	Nodes         []NodeOp
	Menu          *MenuOp
	Busy          bool
	Notice        string // transient user-facing message, e.g. a failed expansion
}
