// ABOUTME: Turns a general-function analysis record into ordered, display-ready report sections.
// ABOUTME: Formatting only: absent fields degrade to fallback text and never produce an error.
package analysis

import (
	"fmt"
	"strings"

	"github.com/2389-research/tauplane/plane"
)

// Fallback texts for missing domain properties.
const (
	FallbackDescription   = "Not available"
	FallbackDomain        = "Not specified"
	FallbackSingularities = "None detected"
	FallbackBranchPoints  = "None detected"
	FallbackGrowthRate    = "Undetermined"

	NoCriticalPoints = "No critical points found in the analyzed region"
)

const firstZerosKey = "first_few_zeros"

// Item is one labelled line of a section. Math values are typeset, plain values are not.
// Equation items read "label = value" instead of "label: value".
type Item struct {
	Label    string
	Value    string
	Math     bool
	Equation bool
	Details  []Item
}

// Section is one titled block of the analysis panel. Level 3 sections group the level 4
// sections that follow them.
type Section struct {
	Title string
	Level int
	Items []Item
	Note  string
}

// Report is the whole analysis panel for one function.
type Report struct {
	Function string
	Latex    string
	Sections []Section
	Error    string
}

// Formula is the heading line's math, e.g. "f(z) = z^{2}".
func (r Report) Formula() string {
	return "f(z) = " + r.Latex
}

// Present builds the report for functionText from an analysis record, which may be nil.
func Present(functionText string, a *plane.Analysis) Report {
	r := Report{Function: functionText, Latex: ToLatex(functionText)}
	if a == nil {
		a = &plane.Analysis{}
	}
	r.Error = a.Error

	if functionText == plane.ZetaIdentifier && a.ImportantFacts != nil {
		r.Sections = append(r.Sections, zetaSections(a)...)
	}
	r.Sections = append(r.Sections, criticalPointsSection(a.CriticalPoints))
	if p := a.DomainProperties; p != nil {
		r.Sections = append(r.Sections, domainSection(p))
		if s, ok := seriesSection(p); ok {
			r.Sections = append(r.Sections, s)
		}
	}
	if a.SpecialValues != nil {
		r.Sections = append(r.Sections, specialValuesSection(a.SpecialValues))
	}
	if d := a.DifferentialEquations; d != nil && d.Note != "" {
		r.Sections = append(r.Sections, Section{Title: "Differential Equations", Level: 4, Note: d.Note})
	}
	return r
}

func zetaSections(a *plane.Analysis) []Section {
	facts := Section{Title: "Key Mathematical Facts", Level: 4}
	for _, f := range a.ImportantFacts {
		if f.Name == firstZerosKey {
			continue
		}
		facts.Items = append(facts.Items, Item{
			Label: strings.ReplaceAll(f.Name, "_", " "),
			Value: namedValueText(f),
		})
	}

	special := Section{Title: "Special Values", Level: 4}
	for _, v := range a.SpecialValues {
		label := "ζ"
		if arg, ok := strings.CutPrefix(v.Name, "at_"); ok {
			label = "ζ(" + arg + ")"
		}
		special.Items = append(special.Items, Item{Label: label, Value: namedValueText(v)})
	}

	zeros := Section{Title: "First Few Non-Trivial Zeros", Level: 4}
	if z, ok := a.ImportantFacts.Get(firstZerosKey); ok {
		list := z.List
		if list == nil && z.Value != "" {
			list = []string{z.Value}
		}
		for _, s := range list {
			zeros.Items = append(zeros.Items, Item{Label: "s", Value: s, Equation: true})
		}
	}

	return []Section{
		{Title: "Riemann Zeta Function Properties", Level: 3},
		facts,
		special,
		zeros,
	}
}

func criticalPointsSection(points []plane.CriticalPoint) Section {
	s := Section{Title: "Critical Points", Level: 4}
	if len(points) == 0 {
		s.Note = NoCriticalPoints
		return s
	}
	for _, p := range points {
		item := Item{
			Label:    "z",
			Value:    FormatComplex(p.ZReal, p.ZImag),
			Math:     true,
			Equation: true,
			Details:  []Item{{Label: "Type", Value: p.Type}},
		}
		if p.FunctionValue != "" {
			item.Details = append(item.Details, Item{Label: "Value", Value: p.FunctionValue, Math: true})
		}
		s.Items = append(s.Items, item)
	}
	return s
}

// FormatComplex renders a point as "a +bi" or "a -bi" with four decimals.
func FormatComplex(re, im float64) string {
	sign := ""
	if im >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%.4f %s%.4fi", re, sign, im)
}

func domainSection(p *plane.DomainProperties) Section {
	return Section{
		Title: "Domain Properties",
		Level: 4,
		Items: []Item{
			{Label: "Description", Value: orDefault(p.Description, FallbackDescription)},
			{Label: "Domain", Value: orDefault(p.Domain, FallbackDomain)},
			{Label: "Singularities", Value: orDefault(p.Singularities, FallbackSingularities)},
			{Label: "Branch points", Value: orDefault(p.BranchPoints, FallbackBranchPoints)},
			{Label: "Growth rate", Value: orDefault(p.GrowthRate, FallbackGrowthRate)},
		},
	}
}

func seriesSection(p *plane.DomainProperties) (Section, bool) {
	if p.SeriesExpansion == "" && p.LaurentExpansion == "" {
		return Section{}, false
	}
	s := Section{Title: "Series Expansions", Level: 4}
	if p.SeriesExpansion != "" {
		s.Items = append(s.Items, Item{Label: "Taylor series", Value: SeriesToLatex(p.SeriesExpansion), Math: true})
	}
	if p.LaurentExpansion != "" {
		s.Items = append(s.Items, Item{Label: "Laurent series", Value: SeriesToLatex(p.LaurentExpansion), Math: true})
	}
	return s, true
}

func specialValuesSection(values plane.NamedValues) Section {
	s := Section{Title: "Special Values", Level: 4}
	for _, v := range values {
		s.Items = append(s.Items, Item{
			Label: "f(" + strings.Replace(v.Name, "at_", "", 1) + ")",
			Value: namedValueText(v),
			Math:  true,
		})
	}
	return s
}

func namedValueText(v plane.NamedValue) string {
	if v.List != nil {
		return strings.Join(v.List, ", ")
	}
	return v.Value
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
