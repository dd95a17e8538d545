// ABOUTME: ConfigState holds the current value of every control in the explorer.
// ABOUTME: It is plain data; snapshots are copied by value into each orchestration cycle.
package plane

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// FunctionSource says where the active function comes from.
type FunctionSource string

const (
	// SourcePreset means FunctionText mirrors a preset chosen from the selector.
	SourcePreset FunctionSource = "preset"
	// SourceCustom means FunctionText was typed by the user.
	SourceCustom FunctionSource = "custom"
	// SourceZeta selects the dedicated Riemann zeta plot type.
	SourceZeta FunctionSource = "zeta"
)

// ZetaIdentifier is the function name that maps to the zeta plot type and display form.
const ZetaIdentifier = "zeta"

// Validation errors returned by ConfigState.Validate.
var (
	ErrInvalidRange      = errors.New("range bound must be a positive finite number")
	ErrInvalidResolution = errors.New("resolution must be at least 2 points")
	ErrEmptyFunction     = errors.New("function expression must not be empty")
	ErrInvalidZeroCount  = errors.New("zero count must not be negative")
	ErrInvalidExtent     = errors.New("critical-line extent must be positive")
)

// ConfigState is the value of every control at one instant.
type ConfigState struct {
	Range              float64        `json:"range" yaml:"range"`
	Points             int            `json:"points" yaml:"points"`
	Plane              PlaneMode      `json:"plane" yaml:"plane"`
	View               ViewKind       `json:"view" yaml:"view"`
	FunctionSource     FunctionSource `json:"function_source" yaml:"function_source"`
	FunctionText       string         `json:"function_text" yaml:"function_text"`
	NumZeros           int            `json:"num_zeros" yaml:"num_zeros"`
	CriticalLineExtent int            `json:"t_max_crit" yaml:"t_max_crit"`
	LiminalRadius      float64        `json:"liminal_radius" yaml:"liminal_radius"`
}

// DefaultConfig returns the control values shown on first load.
func DefaultConfig() ConfigState {
	return ConfigState{
		Range:              3.0,
		Points:             100,
		Plane:              PlaneTau,
		View:               ViewReal,
		FunctionSource:     SourcePreset,
		FunctionText:       "z^2",
		NumZeros:           5,
		CriticalLineExtent: 50,
		LiminalRadius:      1.0,
	}
}

// IsZeta reports whether the zeta plot type is selected.
func (c ConfigState) IsZeta() bool {
	return c.FunctionSource == SourceZeta
}

// Canonical returns a copy with Plane and View rewritten to their canonical names.
// Values that do not parse are left as they are for Validate to report.
func (c ConfigState) Canonical() ConfigState {
	if m, err := ParsePlaneMode(string(c.Plane)); err == nil {
		c.Plane = m
	}
	if v, err := ParseViewKind(string(c.View)); err == nil {
		c.View = v
	}
	return c
}

// Validate checks the fields a request is built from.
func (c ConfigState) Validate() error {
	if c.Range <= 0 || math.IsNaN(c.Range) || math.IsInf(c.Range, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidRange, c.Range)
	}
	if c.Points < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidResolution, c.Points)
	}
	if _, err := ParsePlaneMode(string(c.Plane)); err != nil {
		return err
	}
	if _, err := ParseViewKind(string(c.View)); err != nil {
		return err
	}
	if c.IsZeta() {
		if c.NumZeros < 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidZeroCount, c.NumZeros)
		}
		if c.CriticalLineExtent <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidExtent, c.CriticalLineExtent)
		}
		return nil
	}
	if strings.TrimSpace(c.FunctionText) == "" {
		return ErrEmptyFunction
	}
	return nil
}

// RangeDisplay formats the range control the way its value label shows it.
func (c ConfigState) RangeDisplay() string {
	return fmt.Sprintf("±%.1f", c.Range)
}

// LiminalDisplay formats the liminal radius control.
func (c ConfigState) LiminalDisplay() string {
	return fmt.Sprintf("ε = %.1f", c.LiminalRadius)
}

// RangeLabel is the caption next to the range control.
func (c ConfigState) RangeLabel() string {
	if c.Plane == PlaneZ {
		return "z Range:"
	}
	return "Range:"
}

// ShowLiminalControl reports whether the liminal radius control and circle legend are visible.
func (c ConfigState) ShowLiminalControl() bool {
	return c.Plane == PlaneZ
}

// ShowZetaControls reports whether the zero count and critical-line extent controls are visible.
func (c ConfigState) ShowZetaControls() bool {
	return c.IsZeta()
}

// PlaneExplanation returns the short description shown for a plane mode.
func PlaneExplanation(m PlaneMode) string {
	switch m {
	case PlaneW:
		return "w-plane: w = log(τ), so w_x = log|τ| and w_y = arg(τ). Multiplicative structure becomes additive."
	case PlaneZ:
		return "z-plane: the origin is the point at infinity and the outer boundary is a small neighbourhood ±δ of zero."
	default:
		return "τ-plane: τ = 1/z, the direct parameter plane with linear axes."
	}
}
