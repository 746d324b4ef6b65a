// Package canvas turns raw pointer input into selection, drag, pan, zoom and
// context-menu actions, and owns the world-to-screen view transform.
package canvas

import (
	"github.com/osintdash/graphkit/pkg/graph"
)

// Zoom bounds and per-notch factors.
const (
	MinScale      = 0.1
	MaxScale      = 3.0
	ZoomOutFactor = 0.9
	ZoomInFactor  = 1.1
)

// Viewport maps world coordinates to screen coordinates: screen = world ×
// scale + offset. Node positions live in world space; input arrives in
// screen space and is inverse-transformed before hit testing, so the two
// are always comparable.
type Viewport struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
	Scale   float64
}

// NewViewport creates a viewport at 1:1 scale with no pan.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height, Scale: 1.0}
}

// ToScreen converts a world position to screen space.
func (v *Viewport) ToScreen(world graph.Position) graph.Position {
	return graph.Position{
		X: world.X*v.Scale + v.OffsetX,
		Y: world.Y*v.Scale + v.OffsetY,
	}
}

// ToWorld converts a screen position to world space.
func (v *Viewport) ToWorld(screen graph.Position) graph.Position {
	return graph.Position{
		X: (screen.X - v.OffsetX) / v.Scale,
		Y: (screen.Y - v.OffsetY) / v.Scale,
	}
}

// ScreenCenter returns the center of the viewport in screen space.
func (v *Viewport) ScreenCenter() graph.Position {
	return graph.Position{X: v.Width / 2, Y: v.Height / 2}
}

// WorldCenter returns the world position currently mapped to the viewport
// center.
func (v *Viewport) WorldCenter() graph.Position {
	return v.ToWorld(v.ScreenCenter())
}

// Zoom applies one wheel notch: a positive delta shrinks the view, a
// negative one grows it. The scale is clamped to [MinScale, MaxScale] and
// the viewport state never leaves that range.
func (v *Viewport) Zoom(delta float64) {
	switch {
	case delta > 0:
		v.Scale *= ZoomOutFactor
	case delta < 0:
		v.Scale *= ZoomInFactor
	}
	if v.Scale < MinScale {
		v.Scale = MinScale
	}
	if v.Scale > MaxScale {
		v.Scale = MaxScale
	}
}

// CenterOn recomputes the pan offset so the given world position maps to
// the viewport center, leaving the zoom scale and every node untouched.
func (v *Viewport) CenterOn(world graph.Position) {
	center := v.ScreenCenter()
	v.OffsetX = center.X - world.X*v.Scale
	v.OffsetY = center.Y - world.Y*v.Scale
}

// Pan shifts the view offset by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}
