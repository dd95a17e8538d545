// ABOUTME: PlotResponse mirrors the compute service's grid-and-analysis JSON payload.
// ABOUTME: Validate enforces grid dimensions and the one-shape-per-response invariant.
package plane

import (
	"errors"
	"fmt"
)

// ResponseShape is the overlay/analysis shape a response carries.
type ResponseShape int

const (
	// ShapeNone carries neither zeta overlays nor a general-function analysis.
	ShapeNone ResponseShape = iota
	// ShapeZeta carries a critical line and zero coordinates.
	ShapeZeta
	// ShapeGeneral carries a general-function analysis record.
	ShapeGeneral
)

func (s ResponseShape) String() string {
	switch s {
	case ShapeZeta:
		return "zeta"
	case ShapeGeneral:
		return "general_func"
	default:
		return "none"
	}
}

// ErrMixedShape is returned when a response carries fields of more than one shape.
var ErrMixedShape = errors.New("response mixes zeta overlays and function analysis")

// Polyline is a list of points in the 2D parameter plane.
type Polyline struct {
	X Vector `json:"x"`
	Y Vector `json:"y"`
}

// Len returns the number of points that have both coordinates.
func (p *Polyline) Len() int {
	if p == nil {
		return 0
	}
	return min(len(p.X), len(p.Y))
}

// CriticalPoint is a notable point returned by the analysis service.
type CriticalPoint struct {
	ZReal         float64 `json:"z_real"`
	ZImag         float64 `json:"z_imag"`
	TauReal       float64 `json:"tau_real"`
	TauImag       float64 `json:"tau_imag"`
	Type          string  `json:"type"`
	FunctionValue string  `json:"function_value,omitempty"`
}

// DomainProperties describes where and how a function is defined.
type DomainProperties struct {
	Description      string `json:"description,omitempty"`
	Domain           string `json:"domain,omitempty"`
	Singularities    string `json:"singularities,omitempty"`
	BranchPoints     string `json:"branch_points,omitempty"`
	GrowthRate       string `json:"growth_rate,omitempty"`
	SeriesExpansion  string `json:"series_expansion,omitempty"`
	LaurentExpansion string `json:"laurent_expansion,omitempty"`
}

// DifferentialEquations holds the optional differential-equation note.
type DifferentialEquations struct {
	Note string `json:"note,omitempty"`
}

// Analysis is the general-function analysis record.
type Analysis struct {
	CriticalPoints        []CriticalPoint        `json:"critical_points,omitempty"`
	DomainProperties      *DomainProperties      `json:"domain_properties,omitempty"`
	SpecialValues         NamedValues            `json:"special_values,omitempty"`
	DifferentialEquations *DifferentialEquations `json:"differential_equations,omitempty"`
	ImportantFacts        NamedValues            `json:"important_facts,omitempty"`
	Error                 string                 `json:"error,omitempty"`
}

// PlotResponse is one cycle's grid data plus its zeta overlays or analysis.
type PlotResponse struct {
	X         Vector   `json:"tau_x"`
	Y         Vector   `json:"tau_y"`
	Magnitude Matrix   `json:"magnitude"`
	Phase     Matrix   `json:"phase"`
	Real      Matrix   `json:"real_part,omitempty"`
	Imag      Matrix   `json:"imag_part,omitempty"`
	Type      PlotType `json:"type"`

	Function           string  `json:"function,omitempty"`
	LiminalRadius      float64 `json:"liminal_radius,omitempty"`
	FixedLiminalRadius float64 `json:"fixed_liminal_radius,omitempty"`

	CriticalLine *Polyline `json:"critical_line,omitempty"`
	Zeros        *Polyline `json:"zeros,omitempty"`
	Analysis     *Analysis `json:"analysis,omitempty"`
}

// Shape reports which of the three response shapes is present.
func (r *PlotResponse) Shape() ResponseShape {
	switch {
	case r.Type == PlotZeta && r.CriticalLine != nil && r.Zeros != nil:
		return ShapeZeta
	case r.Type == PlotGeneralFunc && r.Analysis != nil:
		return ShapeGeneral
	default:
		return ShapeNone
	}
}

// Validate checks grid dimensions against the requested resolution (0 skips that check)
// and rejects responses carrying more than one shape.
func (r *PlotResponse) Validate(points int) error {
	if len(r.X) != len(r.Y) {
		return fmt.Errorf("grid axes differ in length: x=%d y=%d", len(r.X), len(r.Y))
	}
	if points > 0 && len(r.X) != points {
		return fmt.Errorf("grid has %d points per axis, requested %d", len(r.X), points)
	}
	for _, m := range []struct {
		name     string
		data     Matrix
		required bool
	}{
		{"magnitude", r.Magnitude, true},
		{"phase", r.Phase, true},
		{"real_part", r.Real, false},
		{"imag_part", r.Imag, false},
	} {
		if m.data == nil && !m.required {
			continue
		}
		if err := m.data.checkDims(len(r.Y), len(r.X)); err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
	}

	hasZeta := r.CriticalLine != nil || r.Zeros != nil
	switch r.Type {
	case PlotZeta:
		if r.Analysis != nil {
			return ErrMixedShape
		}
	case PlotGeneralFunc:
		if hasZeta {
			return ErrMixedShape
		}
	default:
		if hasZeta && r.Analysis != nil {
			return ErrMixedShape
		}
	}
	return nil
}
