// ABOUTME: Builds the phase-surface, magnitude-surface, and 2D contour trace lists from one response.
// ABOUTME: Zeta critical line/zeros and general-function critical points are appended to all three lists.
package chart

import (
	"math"

	"github.com/2389-research/tauplane/plane"
)

// MagnitudeFloor replaces non-positive magnitudes so a log transform stays defined.
const MagnitudeFloor = 1e-10

// TraceSet holds one trace list per panel.
type TraceSet struct {
	Phase     []Trace
	Magnitude []Trace
	Plane2D   []Trace
}

// OverlayCount returns how many traces follow the base trace in each list.
func (s TraceSet) OverlayCount() int {
	return max(0, len(s.Plane2D)-1)
}

// BuildTraces derives the three trace lists from a response. It does not mutate resp.
func BuildTraces(resp *plane.PlotResponse, mode plane.PlaneMode, view plane.ViewKind) TraceSet {
	set := TraceSet{
		Phase: []Trace{{
			Type:       TraceSurface,
			Name:       "Phase",
			X:          resp.X,
			Y:          resp.Y,
			Z:          resp.Phase,
			ColorScale: "Viridis",
			ShowScale:  true,
		}},
		Magnitude: []Trace{{
			Type:       TraceSurface,
			Name:       "Magnitude",
			X:          resp.X,
			Y:          resp.Y,
			Z:          resp.Magnitude,
			ColorScale: "Plasma",
			ShowScale:  true,
		}},
		Plane2D: []Trace{contourTrace(resp, mode, view)},
	}

	switch resp.Shape() {
	case plane.ShapeZeta:
		set.appendOverlay(
			overlayTrace("lines", "Critical Line", resp.CriticalLine.X, resp.CriticalLine.Y),
			func(t *Trace, is3D bool) {
				if is3D {
					t.Line = &Line{Color: "red", Width: 4}
				} else {
					t.Line = &Line{Color: "red", Width: 2}
				}
			},
		)
		set.appendOverlay(
			overlayTrace("markers", "Zeros", resp.Zeros.X, resp.Zeros.Y),
			func(t *Trace, is3D bool) {
				if is3D {
					t.Marker = &Marker{Color: "black", Size: 5, Symbol: "circle"}
				} else {
					t.Marker = &Marker{Color: "black", Size: 8, Symbol: "x"}
				}
			},
		)
	case plane.ShapeGeneral:
		points := resp.Analysis.CriticalPoints
		if len(points) == 0 {
			break
		}
		x := make(plane.Vector, len(points))
		y := make(plane.Vector, len(points))
		for i, p := range points {
			x[i], y[i] = p.TauReal, p.TauImag
		}
		set.appendOverlay(
			overlayTrace("markers", "Critical Points", x, y),
			func(t *Trace, is3D bool) {
				if is3D {
					t.Marker = &Marker{Color: "red", Size: 6, Symbol: "cross"}
				} else {
					t.Marker = &Marker{Color: "red", Size: 8, Symbol: "star"}
				}
			},
		)
	}
	return set
}

// appendOverlay adds the same overlay to every list: flattened onto z = 0 in the 3D
// panels and at native coordinates in the 2D panel.
func (s *TraceSet) appendOverlay(base Trace, style func(t *Trace, is3D bool)) {
	flat := base
	flat.Type = TraceScatter3D
	flat.FlatZ = make(plane.Vector, min(len(base.X), len(base.Y)))
	style(&flat, true)

	native := base
	native.Type = TraceScatter
	style(&native, false)

	s.Phase = append(s.Phase, flat)
	s.Magnitude = append(s.Magnitude, flat)
	s.Plane2D = append(s.Plane2D, native)
}

func overlayTrace(mode, name string, x, y plane.Vector) Trace {
	return Trace{Mode: mode, Name: name, X: x, Y: y}
}

func contourTrace(resp *plane.PlotResponse, mode plane.PlaneMode, view plane.ViewKind) Trace {
	t := Trace{
		Type:      TraceContour,
		X:         resp.X,
		Y:         resp.Y,
		ShowScale: true,
		Contours:  &Contours{Coloring: "heatmap"},
	}

	switch view {
	case plane.ViewImag:
		t.Name, t.ColorScale, t.Z = "Imaginary Part", "RdBu", orEmpty(resp.Imag)
	case plane.ViewMagnitude:
		t.Name, t.ColorScale, t.Z = "Magnitude (Log Scale)", "Viridis", GuardMagnitude(resp.Magnitude)
	case plane.ViewPhase:
		t.Name, t.ColorScale, t.Z = "Phase", "Jet", resp.Phase
	default:
		t.Name, t.ColorScale, t.Z = "Real Part", "RdBu", orEmpty(resp.Real)
	}

	if mode == plane.PlaneZ {
		t.Contours = &Contours{
			Coloring:   "heatmap",
			ShowLabels: true,
			LabelFont:  &Font{Size: 10, Color: "rgba(0,0,0,0.5)"},
		}
	}
	return t
}

// GuardMagnitude returns a copy of m with non-positive entries raised to MagnitudeFloor.
// NaN entries stay NaN so masked grid points remain gaps.
func GuardMagnitude(m plane.Matrix) plane.Matrix {
	return m.Map(func(v float64) float64 {
		if math.IsNaN(v) {
			return v
		}
		return math.Max(v, MagnitudeFloor)
	})
}

func orEmpty(m plane.Matrix) plane.Matrix {
	if m == nil {
		return plane.Matrix{}
	}
	return m
}
