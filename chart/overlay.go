// ABOUTME: Liminal-zone overlay shapes for the compactified (z) plane's 2D view.
// ABOUTME: Boundary circle, fixed half-range circle, live analysis-radius circle, and origin marker.
package chart

import (
	"math"

	"github.com/2389-research/tauplane/plane"
)

// OriginMarkerRadius is the radius of the disk marking the compactified point at infinity.
const OriginMarkerRadius = 0.05

// minLiminalRadius is where a non-positive liminal radius is clamped to.
const minLiminalRadius = 0.1

// ClampLiminalRadius forces rho into (0, r].
func ClampLiminalRadius(rho, r float64) float64 {
	if math.IsNaN(rho) || rho <= 0 {
		return math.Min(minLiminalRadius, r)
	}
	return math.Min(rho, r)
}

// LiminalOverlay returns the 2D overlay shapes for range bound r and liminal radius rho.
// Shapes are ordered back to front. Only the z plane gets overlays.
func LiminalOverlay(mode plane.PlaneMode, r, rho float64) []Shape {
	if mode != plane.PlaneZ || !(r > 0) {
		return nil
	}
	rho = ClampLiminalRadius(rho, r)

	return []Shape{
		circle(r, Line{Color: "rgba(0,0,0,0.5)", Width: 2, Dash: "dot"}, "rgba(0,0,0,0)", "Boundary (±δ)"),
		circle(r/2, Line{Color: "rgba(255,0,0,0.7)", Width: 2}, "rgba(255,0,0,0.1)", "Liminal Zone (ε)"),
		circle(rho, Line{Color: "rgba(0,0,255,0.7)", Width: 2, Dash: "dash"}, "rgba(0,0,255,0.05)", "Analysis Radius (ε)"),
		circle(OriginMarkerRadius, Line{Color: "black", Width: 2}, "black", "Origin (±∞)"),
	}
}

func circle(radius float64, line Line, fill, name string) Shape {
	return Shape{
		Type:      "circle",
		XRef:      "x",
		YRef:      "y",
		X0:        -radius,
		Y0:        -radius,
		X1:        radius,
		Y1:        radius,
		Line:      line,
		FillColor: fill,
		Name:      name,
	}
}
