// ABOUTME: Declarative trace, layout, and shape descriptors consumed by the charting library.
// ABOUTME: Field names and JSON tags follow the Plotly figure schema; values are plain data.
package chart

import (
	"encoding/json"

	"github.com/2389-research/tauplane/plane"
)

// Trace kinds used by the explorer.
const (
	TraceSurface   = "surface"
	TraceContour   = "contour"
	TraceScatter   = "scatter"
	TraceScatter3D = "scatter3d"
)

// Line styles a trace or shape outline.
type Line struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width,omitempty"`
	Dash  string `json:"dash,omitempty"`
}

// Marker styles scatter points.
type Marker struct {
	Color  string `json:"color,omitempty"`
	Size   int    `json:"size,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// Font sets a text size and color.
type Font struct {
	Size  int    `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// Contours controls contour coloring and labels.
type Contours struct {
	Coloring   string `json:"coloring,omitempty"`
	ShowLabels bool   `json:"showlabels,omitempty"`
	LabelFont  *Font  `json:"labelfont,omitempty"`
}

// Trace is one drawable data series. Z is a matrix for surfaces/contours and
// a single row for scatter3d overlays (see FlatZ).
type Trace struct {
	Type       string       `json:"type"`
	Mode       string       `json:"mode,omitempty"`
	Name       string       `json:"name,omitempty"`
	X          plane.Vector `json:"x"`
	Y          plane.Vector `json:"y"`
	Z          plane.Matrix `json:"-"`
	FlatZ      plane.Vector `json:"-"`
	ColorScale string       `json:"colorscale,omitempty"`
	ShowScale  bool         `json:"showscale,omitempty"`
	Contours   *Contours    `json:"contours,omitempty"`
	Line       *Line        `json:"line,omitempty"`
	Marker     *Marker      `json:"marker,omitempty"`
}

// MarshalJSON emits Z (matrix) or FlatZ (row) under the single "z" key.
func (t Trace) MarshalJSON() ([]byte, error) {
	type alias Trace
	out := struct {
		alias
		Z any `json:"z,omitempty"`
	}{alias: alias(t)}
	switch {
	case t.Z != nil:
		out.Z = t.Z
	case t.FlatZ != nil:
		out.Z = t.FlatZ
	}
	return json.Marshal(out)
}

// Is3D reports whether the trace lives in a 3D scene.
func (t Trace) Is3D() bool {
	return t.Type == TraceSurface || t.Type == TraceScatter3D
}

// Title is an axis or plot title.
type Title struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

// Axis configures one axis, 2D or inside a 3D scene.
type Axis struct {
	Title           Title     `json:"title"`
	TickMode        string    `json:"tickmode,omitempty"`
	TickVals        []float64 `json:"tickvals,omitempty"`
	TickText        []string  `json:"ticktext,omitempty"`
	ZeroLine        bool      `json:"zeroline,omitempty"`
	ZeroLineColor   string    `json:"zerolinecolor,omitempty"`
	GridColor       string    `json:"gridcolor,omitempty"`
	BackgroundColor string    `json:"backgroundcolor,omitempty"`
	ScaleAnchor     string    `json:"scaleanchor,omitempty"`
	ScaleRatio      float64   `json:"scaleratio,omitempty"`
}

// AspectRatio sets a 3D scene's box proportions.
type AspectRatio struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Scene holds the three axes of a 3D view.
type Scene struct {
	AspectRatio AspectRatio `json:"aspectratio"`
	XAxis       Axis        `json:"xaxis"`
	YAxis       Axis        `json:"yaxis"`
	ZAxis       Axis        `json:"zaxis"`
}

// Margin is the space around the plotting area.
type Margin struct {
	L   int `json:"l"`
	R   int `json:"r"`
	B   int `json:"b"`
	T   int `json:"t"`
	Pad int `json:"pad,omitempty"`
}

// Shape is a layout-level annotation drawn in data coordinates.
type Shape struct {
	Type      string  `json:"type"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X0        float64 `json:"x0"`
	Y0        float64 `json:"y0"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	Line      Line    `json:"line"`
	FillColor string  `json:"fillcolor"`
	Name      string  `json:"name,omitempty"`
}

// Radius returns half the shape's horizontal extent.
func (s Shape) Radius() float64 {
	return (s.X1 - s.X0) / 2
}

// Layout describes one panel. Scene is set for 3D panels, XAxis/YAxis for the 2D panel.
type Layout struct {
	Title        *Title  `json:"title,omitempty"`
	AutoSize     bool    `json:"autosize"`
	Margin       Margin  `json:"margin"`
	Font         *Font   `json:"font,omitempty"`
	Scene        *Scene  `json:"scene,omitempty"`
	XAxis        *Axis   `json:"xaxis,omitempty"`
	YAxis        *Axis   `json:"yaxis,omitempty"`
	Shapes       []Shape `json:"shapes,omitempty"`
	PaperBGColor string  `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string  `json:"plot_bgcolor,omitempty"`
}

// Figure is what a panel hands to the charting library.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}
