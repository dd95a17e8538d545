// ABOUTME: Enumerations for the coordinate interpretation (plane mode), 2D view kind, and plot type.
// ABOUTME: Parses both short names ("z") and the compute service's wire names ("z_plane").
package plane

import (
	"fmt"
	"strings"
)

// PlaneMode selects which coordinate interpretation is applied to the numeric grid.
type PlaneMode string

const (
	// PlaneTau is the direct parameter plane with linear axes.
	PlaneTau PlaneMode = "tau"
	// PlaneW is the log-polar reparametrization w = log|τ| + i·arg(τ).
	PlaneW PlaneMode = "w"
	// PlaneZ is the compactified plane: origin is the point at infinity.
	PlaneZ PlaneMode = "z"
)

// PlaneModes lists every plane mode in selector order.
var PlaneModes = []PlaneMode{PlaneTau, PlaneW, PlaneZ}

// ParsePlaneMode accepts "tau", "w", "z" and their "_plane" suffixed wire forms.
func ParsePlaneMode(s string) (PlaneMode, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_plane") {
	case "tau", "τ":
		return PlaneTau, nil
	case "w":
		return PlaneW, nil
	case "z":
		return PlaneZ, nil
	default:
		return "", fmt.Errorf("unknown plane mode %q: expected tau, w, or z", s)
	}
}

// Wire returns the name the compute service expects in the plane query parameter.
func (m PlaneMode) Wire() string {
	return string(m) + "_plane"
}

// UnmarshalText accepts every spelling ParsePlaneMode does and stores the canonical mode.
func (m *PlaneMode) UnmarshalText(text []byte) error {
	parsed, err := ParsePlaneMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Compactified reports whether axes use the one-point compactification labels.
func (m PlaneMode) Compactified() bool {
	return m == PlaneZ
}

// Next cycles through PlaneModes.
func (m PlaneMode) Next() PlaneMode {
	for i, p := range PlaneModes {
		if p == m {
			return PlaneModes[(i+1)%len(PlaneModes)]
		}
	}
	return PlaneTau
}

// ViewKind selects which scalar field of the response the 2D contour shows.
type ViewKind string

const (
	ViewReal      ViewKind = "real"
	ViewImag      ViewKind = "imag"
	ViewMagnitude ViewKind = "magnitude"
	ViewPhase     ViewKind = "phase"
)

// ViewKinds lists every 2D view in selector order.
var ViewKinds = []ViewKind{ViewReal, ViewImag, ViewMagnitude, ViewPhase}

// ParseViewKind accepts the four view names; "mag" is accepted for magnitude.
func ParseViewKind(s string) (ViewKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "real":
		return ViewReal, nil
	case "imag", "imaginary":
		return ViewImag, nil
	case "magnitude", "mag":
		return ViewMagnitude, nil
	case "phase":
		return ViewPhase, nil
	default:
		return "", fmt.Errorf("unknown view kind %q: expected real, imag, magnitude, or phase", s)
	}
}

// UnmarshalText accepts every spelling ParseViewKind does and stores the canonical view.
func (v *ViewKind) UnmarshalText(text []byte) error {
	parsed, err := ParseViewKind(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Next cycles through ViewKinds.
func (v ViewKind) Next() ViewKind {
	for i, k := range ViewKinds {
		if k == v {
			return ViewKinds[(i+1)%len(ViewKinds)]
		}
	}
	return ViewReal
}

// PlotType is the response discriminator, also sent as the plot_type query parameter.
type PlotType string

const (
	PlotZeta        PlotType = "zeta"
	PlotGeneralFunc PlotType = "general_func"
)
