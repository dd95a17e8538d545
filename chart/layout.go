// ABOUTME: Builds the phase, magnitude, and 2D panel layouts for a plane mode and view.
// ABOUTME: Layouts are pure values; z-plane ticks and overlays derive from the request's own range.
package chart

import (
	"github.com/2389-research/tauplane/plane"
)

// LayoutParams are the request-derived inputs every layout shares.
type LayoutParams struct {
	Mode          plane.PlaneMode
	Range         float64
	LiminalRadius float64
}

// ParamsFor takes the layout inputs from the request itself, so ticks and overlays
// can never disagree with the range the data was computed over.
func ParamsFor(req plane.PlotRequest) LayoutParams {
	return LayoutParams{
		Mode:          req.Plane,
		Range:         req.Range,
		LiminalRadius: req.LiminalRadius,
	}
}

// Target names the panel a layout is built for.
type Target struct {
	surface string
	view    plane.ViewKind
}

var (
	// TargetPhase is the 3D phase surface panel.
	TargetPhase = Target{surface: "phase"}
	// TargetMagnitude is the 3D magnitude surface panel.
	TargetMagnitude = Target{surface: "magnitude"}
)

// Target2D is the 2D contour panel showing the given view.
func Target2D(view plane.ViewKind) Target {
	return Target{view: view}
}

// Is2D reports whether the target is the 2D contour panel.
func (t Target) Is2D() bool {
	return t.surface == ""
}

// Layouts holds one layout per panel.
type Layouts struct {
	Phase     Layout
	Magnitude Layout
	Plane2D   Layout
}

// BuildLayouts builds all three panel layouts from one request.
func BuildLayouts(req plane.PlotRequest, view plane.ViewKind) Layouts {
	p := ParamsFor(req)
	return Layouts{
		Phase:     BuildLayout(p, TargetPhase),
		Magnitude: BuildLayout(p, TargetMagnitude),
		Plane2D:   BuildLayout(p, Target2D(view)),
	}
}

// BuildLayout returns the layout for one panel.
func BuildLayout(p LayoutParams, target Target) Layout {
	if target.Is2D() {
		return build2DLayout(p, target.view)
	}
	return buildSurfaceLayout(p, target.surface)
}

// AxisTitles returns the x and y axis titles for a plane mode.
func AxisTitles(mode plane.PlaneMode) (string, string) {
	switch mode {
	case plane.PlaneW:
		return "w_x (Re(w) = log|τ|)", "w_y (Im(w) = arg(τ))"
	case plane.PlaneZ:
		return "τ_x (Direct)", "τ_y (Direct)"
	default:
		return "τ_x", "τ_y"
	}
}

// ViewTitle is the 2D panel's title for a view.
func ViewTitle(view plane.ViewKind) string {
	switch view {
	case plane.ViewReal:
		return "Real Part"
	case plane.ViewImag:
		return "Imaginary Part"
	case plane.ViewMagnitude:
		return "Magnitude"
	case plane.ViewPhase:
		return "Phase"
	default:
		return "Function Values"
	}
}

// applyTicks switches an axis to the explicit compactified tick list in z mode.
func applyTicks(a *Axis, p LayoutParams) {
	a.TickMode = "auto"
	if !p.Mode.Compactified() {
		return
	}
	ticks := CompactTicks(p.Range, TickCount)
	if len(ticks) == 0 {
		return
	}
	a.TickMode = "array"
	a.TickVals, a.TickText = splitTicks(ticks)
}

func buildSurfaceLayout(p LayoutParams, surface string) Layout {
	xTitle, yTitle := AxisTitles(p.Mode)
	zTitle := "Log Magnitude"
	if surface == "phase" {
		zTitle = "Phase"
	}

	sceneAxis := func(title string) Axis {
		return Axis{
			Title:           Title{Text: title},
			BackgroundColor: "rgb(230, 230,230)",
			GridColor:       "rgb(255, 255, 255)",
			ZeroLineColor:   "rgb(255, 255, 255)",
		}
	}
	x, y := sceneAxis(xTitle), sceneAxis(yTitle)
	applyTicks(&x, p)
	applyTicks(&y, p)

	return Layout{
		AutoSize: true,
		Margin:   Margin{L: 50, R: 50, B: 50, T: 50, Pad: 4},
		Scene: &Scene{
			AspectRatio: AspectRatio{X: 1, Y: 1, Z: 0.7},
			XAxis:       x,
			YAxis:       y,
			ZAxis:       sceneAxis(zTitle),
		},
		PaperBGColor: "rgba(0,0,0,0)",
		PlotBGColor:  "rgba(0,0,0,0)",
	}
}

func build2DLayout(p LayoutParams, view plane.ViewKind) Layout {
	xTitle, yTitle := AxisTitles(p.Mode)
	titleFont := &Font{Size: 12}

	x := Axis{
		Title:         Title{Text: xTitle, Font: titleFont},
		ZeroLine:      true,
		ZeroLineColor: "rgba(0,0,0,0.2)",
		GridColor:     "rgba(200,200,200,0.2)",
	}
	y := x
	y.Title = Title{Text: yTitle, Font: titleFont}
	// Equal aspect keeps the liminal circles circular at any panel size.
	y.ScaleAnchor = "x"
	y.ScaleRatio = 1
	applyTicks(&x, p)
	applyTicks(&y, p)

	return Layout{
		Title:        &Title{Text: ViewTitle(view)},
		AutoSize:     true,
		Margin:       Margin{L: 60, R: 60, B: 60, T: 40},
		Font:         &Font{Size: 11},
		XAxis:        &x,
		YAxis:        &y,
		Shapes:       LiminalOverlay(p.Mode, p.Range, p.LiminalRadius),
		PaperBGColor: "rgba(0,0,0,0)",
		PlotBGColor:  "rgba(245,245,245,0.8)",
	}
}
