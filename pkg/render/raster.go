package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/osintdash/graphkit/pkg/graph"
)

// Rasterizer paints a Frame onto a character-cell surface. Frame
// coordinates are cell coordinates: the viewport should be sized to the
// terminal, one unit per column and row.
type Rasterizer struct {
	cols, rows int
	chars      [][]rune
	colors     [][]string
}

// NewRasterizer creates a surface of the given size.
func NewRasterizer(cols, rows int) *Rasterizer {
	r := &Rasterizer{cols: cols, rows: rows}
	r.chars = make([][]rune, rows)
	r.colors = make([][]string, rows)
	for y := range r.chars {
		r.chars[y] = make([]rune, cols)
		r.colors[y] = make([]string, cols)
	}
	return r
}

var badgeColors = map[graph.RiskLevel]string{
	graph.RiskLow:      "#2EC27E",
	graph.RiskMedium:   "#F7B64F",
	graph.RiskHigh:     "#F2815C",
	graph.RiskCritical: "#F25C5C",
}

const (
	gridColor   = "#2A2F3A"
	labelColor  = "#9AA4B2"
	glowColor   = "#FFFFFF"
	noticeColor = "#F25C5C"
)

// Render paints the frame and returns the styled text for the terminal.
func (r *Rasterizer) Render(frame *Frame) string {
	r.clear()

	for _, line := range frame.Grid {
		r.line(line.X1, line.Y1, line.X2, line.Y2, '·', gridColor)
	}
	for _, edge := range frame.Edges {
		r.line(edge.X1, edge.Y1, edge.X2, edge.Y2, '•', edge.Color)
		r.set(int(edge.ArrowX), int(edge.ArrowY), arrowRune(edge.ArrowAngle), edge.Color)
		r.text(int(edge.LabelX-float64(len(edge.Label))/2), int(edge.LabelY), edge.Label, labelColor)
	}
	for _, node := range frame.Nodes {
		r.node(node)
	}
	if frame.Menu != nil {
		r.menu(frame.Menu)
	}
	if frame.Busy {
		r.text(1, 0, "⋯ expanding", "#F7B64F")
	}
	if frame.Notice != "" {
		r.text(1, r.rows-1, frame.Notice, noticeColor)
	}

	return r.flush()
}

func (r *Rasterizer) node(op NodeOp) {
	x, y := int(op.X), int(op.Y)

	color := op.Color
	glyph := []rune(op.Glyph)
	ch := '●'
	if len(glyph) > 0 {
		ch = glyph[0]
	}

	// The disc collapses to a ring of cells around the glyph.
	ring := int(math.Max(1, op.Radius/4))
	if op.Selected || op.Hovered {
		for dx := -ring; dx <= ring; dx++ {
			r.set(x+dx, y-1, '▔', glowColor)
			r.set(x+dx, y+1, '▁', glowColor)
		}
		r.set(x-ring-1, y, '▏', glowColor)
		r.set(x+ring+1, y, '▕', glowColor)
	}
	r.set(x, y, ch, color)

	if op.Badge != "" {
		r.set(x+1, y-1, '▪', badgeColors[op.Badge])
	}
	r.text(x-len(op.Label)/2, y+2, op.Label, labelColor)
}

func (r *Rasterizer) menu(menu *MenuOp) {
	x, y := int(menu.X), int(menu.Y)
	width := len(menu.Title)
	for _, entry := range menu.Entries {
		if w := len(entry.Label) + 4; w > width {
			width = w
		}
	}

	r.text(x, y, "┌"+strings.Repeat("─", width)+"┐", labelColor)
	r.text(x, y+1, "│"+pad(menu.Title, width)+"│", glowColor)
	for i, entry := range menu.Entries {
		row := entry.Icon + " " + entry.Label
		r.text(x, y+2+i, "│"+pad(row, width)+"│", labelColor)
	}
	r.text(x, y+2+len(menu.Entries), "└"+strings.Repeat("─", width)+"┘", labelColor)
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// arrowRune picks the head glyph closest to the travel direction.
func arrowRune(angle float64) rune {
	// Normalize to [0, 2π).
	for angle < 0 {
		angle += 2 * math.Pi
	}
	octant := int(math.Round(angle/(math.Pi/4))) % 8
	heads := []rune{'▶', '◢', '▼', '◣', '◀', '◤', '▲', '◥'}
	return heads[octant]
}

func (r *Rasterizer) clear() {
	for y := range r.chars {
		for x := range r.chars[y] {
			r.chars[y][x] = ' '
			r.colors[y][x] = ""
		}
	}
}

func (r *Rasterizer) set(x, y int, ch rune, color string) {
	if x < 0 || x >= r.cols || y < 0 || y >= r.rows {
		return
	}
	r.chars[y][x] = ch
	r.colors[y][x] = color
}

func (r *Rasterizer) text(x, y int, s string, color string) {
	for i, ch := range []rune(s) {
		r.set(x+i, y, ch, color)
	}
}

// line draws with a shallow DDA walk; cells already holding a node glyph
// keep it (nodes are painted after edges anyway).
func (r *Rasterizer) line(x1, y1, x2, y2 float64, ch rune, color string) {
	dx := x2 - x1
	dy := y2 - y1
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		r.set(int(x1), int(y1), ch, color)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		r.set(int(x1+dx*t), int(y1+dy*t), ch, color)
	}
}

func (r *Rasterizer) flush() string {
	var b strings.Builder
	for y := 0; y < r.rows; y++ {
		var runStart int
		runColor := r.colors[y][0]
		flushRun := func(end int) {
			segment := string(r.chars[y][runStart:end])
			if runColor == "" {
				b.WriteString(segment)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(segment))
			}
		}
		for x := 1; x < r.cols; x++ {
			if r.colors[y][x] != runColor {
				flushRun(x)
				runStart = x
				runColor = r.colors[y][x]
			}
		}
		flushRun(r.cols)
		if y < r.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
