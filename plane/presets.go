// ABOUTME: Built-in function presets offered by the function selector.
package plane

// Preset is one entry of the function selector.
type Preset struct {
	Label string `json:"label" yaml:"label"`
	Expr  string `json:"expr" yaml:"expr"`
}

// DefaultPresets returns the selector entries in display order. The zeta entry selects
// the dedicated zeta plot type rather than a general expression.
func DefaultPresets() []Preset {
	return []Preset{
		{Label: "z²", Expr: "z^2"},
		{Label: "1/z", Expr: "1/z"},
		{Label: "sin(z)", Expr: "sin(z)"},
		{Label: "exp(z)", Expr: "exp(z)"},
		{Label: "log(z)", Expr: "log(z)"},
		{Label: "sqrt(z)", Expr: "sqrt(z)"},
		{Label: "ζ(s)", Expr: ZetaIdentifier},
	}
}
