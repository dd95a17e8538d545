// ABOUTME: PlotRequest is the immutable per-cycle request derived from a ConfigState snapshot.
// ABOUTME: Query encodes it as the compute service's /api/plot_data query parameters.
package plane

import (
	"math"
	"net/url"
	"strconv"
)

// FunctionSpec is either the zeta identifier (Zeta set) or an expression in one free variable.
type FunctionSpec struct {
	Zeta bool
	Expr string
}

// Text returns the expression, or "zeta" for the zeta plot type.
func (f FunctionSpec) Text() string {
	if f.Zeta {
		return ZetaIdentifier
	}
	return f.Expr
}

// PlotType returns the plot_type query value for this function.
func (f FunctionSpec) PlotType() PlotType {
	if f.Zeta {
		return PlotZeta
	}
	return PlotGeneralFunc
}

// PlotRequest is built fresh for every cycle and never mutated.
type PlotRequest struct {
	Range         float64
	Points        int
	Plane         PlaneMode
	Function      FunctionSpec
	LiminalRadius float64

	// Only meaningful when Function.Zeta is set.
	NumZeros           int
	CriticalLineExtent int
}

// NewPlotRequest validates the snapshot and builds a request from it.
func NewPlotRequest(c ConfigState) (PlotRequest, error) {
	if err := c.Validate(); err != nil {
		return PlotRequest{}, err
	}
	req := PlotRequest{
		Range:         c.Range,
		Points:        c.Points,
		Plane:         c.Plane,
		LiminalRadius: c.LiminalRadius,
	}
	if c.IsZeta() {
		req.Function = FunctionSpec{Zeta: true}
		req.NumZeros = c.NumZeros
		req.CriticalLineExtent = c.CriticalLineExtent
	} else {
		req.Function = FunctionSpec{Expr: c.FunctionText}
	}
	return req, nil
}

// Query encodes the request parameters for GET /api/plot_data.
func (r PlotRequest) Query() url.Values {
	q := url.Values{}
	q.Set("plot_type", string(r.Function.PlotType()))
	q.Set("tau_min", formatFloat(-r.Range))
	q.Set("tau_max", formatFloat(r.Range))
	q.Set("points", strconv.Itoa(r.Points))
	q.Set("plane", r.Plane.Wire())
	q.Set("liminal_radius", formatFloat(r.LiminalRadius))
	if r.Function.Zeta {
		q.Set("num_zeros", strconv.Itoa(r.NumZeros))
		q.Set("t_max_crit", strconv.Itoa(r.CriticalLineExtent))
	} else {
		q.Set("function", r.Function.Expr)
		q.Set("analyze", "true")
	}
	return q
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
