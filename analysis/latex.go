// ABOUTME: Converts plain-text function expressions and series strings into LaTeX-ish display text.
// ABOUTME: Substitutions run in a fixed order; the zeta identifier maps straight to its symbol.
package analysis

import (
	"regexp"
	"strings"
)

var (
	exponentDigits = regexp.MustCompile(`\^(\d+)`)

	// Ordered named-function rewrites; sqrt opens a brace group, the rest keep the paren.
	functionRewrites = []struct{ from, to string }{
		{"sqrt(", `\sqrt{`},
		{"sin(", `\sin(`},
		{"cos(", `\cos(`},
		{"tan(", `\tan(`},
		{"exp(", `\exp(`},
		{"log(", `\log(`},
	}
)

// ZetaLatex is the display form of the zeta identifier.
const ZetaLatex = `\zeta(s)`

// ToLatex converts an expression in z to display form.
func ToLatex(expr string) string {
	if expr == "zeta" {
		return ZetaLatex
	}

	s := strings.ReplaceAll(expr, "*", ` \cdot `)
	s = exponentDigits.ReplaceAllString(s, "^{$1}")
	for _, r := range functionRewrites {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	s = strings.ReplaceAll(s, "pi", `\pi`)
	s = strings.ReplaceAll(s, "(", "{(")
	s = strings.ReplaceAll(s, ")", ")}")

	s = strings.ReplaceAll(s, "{(}}", "(")
	s = strings.ReplaceAll(s, "{)}", ")")
	return s
}

// SeriesToLatex converts a series expansion using ** and * into display form.
func SeriesToLatex(series string) string {
	s := strings.ReplaceAll(series, "**", "^")
	s = strings.ReplaceAll(s, "*", ` \cdot `)
	return exponentDigits.ReplaceAllString(s, "^{$1}")
}
