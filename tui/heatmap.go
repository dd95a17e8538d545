// ABOUTME: Character heatmap that stands in for the chart library in the terminal.
// ABOUTME: Draws the grid trace as a density ramp, then overlay points and liminal circles on top.
package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/2389-research/tauplane/chart"
)

// ramp maps normalized values to characters, low to high.
const ramp = " .:-=+*#%@"

// ErrNoGridTrace is returned when a panel has nothing to draw a heatmap from.
var ErrNoGridTrace = errors.New("no surface or contour trace to draw")

type overlayPoint struct {
	x, y float64
	mark rune
}

// Heatmap is a size-independent snapshot of one panel's figure.
type Heatmap struct {
	Title    string
	X, Y     []float64
	Z        [][]float64
	Min, Max float64
	XTicks   []string
	points   []overlayPoint
	circles  []chart.Shape
}

// NewHeatmap extracts the first grid trace plus overlays and validates the grid shape.
// An empty grid is a blank panel: axes and overlays render without shading.
func NewHeatmap(traces []chart.Trace, layout chart.Layout) (*Heatmap, error) {
	var base *chart.Trace
	for i := range traces {
		if traces[i].Type == chart.TraceSurface || traces[i].Type == chart.TraceContour {
			base = &traces[i]
			break
		}
	}
	if base == nil {
		return nil, ErrNoGridTrace
	}
	if len(base.Z) > 0 {
		if len(base.Z) != len(base.Y) {
			return nil, fmt.Errorf("grid has %d rows for %d y values", len(base.Z), len(base.Y))
		}
		for i, row := range base.Z {
			if len(row) != len(base.X) {
				return nil, fmt.Errorf("grid row %d has %d columns for %d x values", i, len(row), len(base.X))
			}
		}
	}

	h := &Heatmap{X: base.X, Y: base.Y, Z: base.Z, circles: layout.Shapes}
	if layout.Title != nil {
		h.Title = layout.Title.Text
	}
	switch {
	case layout.XAxis != nil:
		h.XTicks = layout.XAxis.TickText
	case layout.Scene != nil:
		h.XTicks = layout.Scene.XAxis.TickText
	}

	h.Min, h.Max = math.Inf(1), math.Inf(-1)
	for _, row := range base.Z {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			h.Min = math.Min(h.Min, v)
			h.Max = math.Max(h.Max, v)
		}
	}
	if math.IsInf(h.Min, 1) {
		h.Min, h.Max = 0, 0
	}

	for _, t := range traces {
		if t.Type != chart.TraceScatter && t.Type != chart.TraceScatter3D {
			continue
		}
		mark := markFor(t)
		for i := 0; i < min(len(t.X), len(t.Y)); i++ {
			h.points = append(h.points, overlayPoint{x: t.X[i], y: t.Y[i], mark: mark})
		}
	}
	return h, nil
}

func markFor(t chart.Trace) rune {
	if t.Marker == nil || !strings.Contains(t.Mode, "markers") {
		return '·'
	}
	switch t.Marker.Symbol {
	case "x":
		return 'x'
	case "cross":
		return '+'
	case "star":
		return '*'
	default:
		return '•'
	}
}

// Render draws the heatmap into width×height cells. Row 0 is the largest y.
func (h *Heatmap) Render(width, height int) []string {
	width, height = max(width, 2), max(height, 2)
	cells := make([][]rune, height)
	for r := range cells {
		cells[r] = make([]rune, width)
		for c := range cells[r] {
			cells[r][c] = ' '
		}
	}

	nx, ny := len(h.X), len(h.Y)
	if nx > 0 && ny > 0 && len(h.Z) > 0 {
		for r := 0; r < height; r++ {
			i := (height - 1 - r) * (ny - 1) / (height - 1)
			for c := 0; c < width; c++ {
				j := c * (nx - 1) / (width - 1)
				cells[r][c] = h.shade(h.Z[i][j])
			}
		}
	}

	plot := func(x, y float64, mark rune) {
		c, r, ok := h.cell(x, y, width, height)
		if ok {
			cells[r][c] = mark
		}
	}
	for _, s := range h.circles {
		cx, cy, rad := (s.X0+s.X1)/2, (s.Y0+s.Y1)/2, s.Radius()
		for k := 0; k < 96; k++ {
			a := 2 * math.Pi * float64(k) / 96
			plot(cx+rad*math.Cos(a), cy+rad*math.Sin(a), 'o')
		}
	}
	for _, p := range h.points {
		plot(p.x, p.y, p.mark)
	}

	lines := make([]string, 0, height+1)
	for _, row := range cells {
		lines = append(lines, string(row))
	}
	if axis := h.axisLine(width); axis != "" {
		lines = append(lines, axis)
	}
	return lines
}

func (h *Heatmap) shade(v float64) rune {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ' '
	}
	if h.Max <= h.Min {
		return rune(ramp[len(ramp)/2])
	}
	idx := int((v - h.Min) / (h.Max - h.Min) * float64(len(ramp)-1))
	return rune(ramp[max(0, min(idx, len(ramp)-1))])
}

// cell maps data coordinates onto the grid's extent.
func (h *Heatmap) cell(x, y float64, width, height int) (int, int, bool) {
	if len(h.X) < 2 || len(h.Y) < 2 || math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	x0, x1 := h.X[0], h.X[len(h.X)-1]
	y0, y1 := h.Y[0], h.Y[len(h.Y)-1]
	if x1 == x0 || y1 == y0 {
		return 0, 0, false
	}
	c := int(math.Round((x - x0) / (x1 - x0) * float64(width-1)))
	r := height - 1 - int(math.Round((y-y0)/(y1-y0)*float64(height-1)))
	if c < 0 || c >= width || r < 0 || r >= height {
		return 0, 0, false
	}
	return c, r, true
}

// axisLine places the first, middle, and last tick labels under the grid.
func (h *Heatmap) axisLine(width int) string {
	if len(h.XTicks) == 0 {
		return ""
	}
	first, mid, last := h.XTicks[0], h.XTicks[len(h.XTicks)/2], h.XTicks[len(h.XTicks)-1]
	line := []rune(strings.Repeat(" ", width))
	put := func(at int, s string) {
		for i, r := range []rune(s) {
			if at+i >= 0 && at+i < width {
				line[at+i] = r
			}
		}
	}
	put(0, first)
	put(width/2-len([]rune(mid))/2, mid)
	put(width-len([]rune(last)), last)
	return string(line)
}

// Legend describes the value range the ramp spans.
func (h *Heatmap) Legend() string {
	return fmt.Sprintf("%q %.3g … %q %.3g", ramp[1:2], h.Min, ramp[len(ramp)-1:], h.Max)
}
