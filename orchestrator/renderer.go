// ABOUTME: The rendering shim interface the orchestrator drives, plus the panels it addresses.
// ABOUTME: Implementations draw figures and messages; they never read chart state back.
package orchestrator

import (
	"github.com/2389-research/tauplane/analysis"
	"github.com/2389-research/tauplane/chart"
)

// Panel is one of the three linked chart views.
type Panel int

const (
	PanelPhase Panel = iota
	PanelMagnitude
	Panel2D
)

// Panels lists every panel in display order.
var Panels = []Panel{PanelPhase, PanelMagnitude, Panel2D}

func (p Panel) String() string {
	switch p {
	case PanelPhase:
		return "phase"
	case PanelMagnitude:
		return "magnitude"
	case Panel2D:
		return "plot2d"
	default:
		return "unknown"
	}
}

// ErrorText is what a panel shows in place of its chart when a cycle fails.
func (p Panel) ErrorText(message string) string {
	switch p {
	case PanelPhase:
		return "Error loading phase plot: " + message
	case PanelMagnitude:
		return "Error loading magnitude plot: " + message
	default:
		return "Error loading 2D plot: " + message
	}
}

// Renderer draws cycle results. Calls for one cycle never interleave with another's.
type Renderer interface {
	// ShowLoading hides the panels and shows the loading indicator.
	ShowLoading()
	HideLoading()
	Purge(p Panel)
	Plot(p Panel, traces []chart.Trace, layout chart.Layout) error
	ShowError(p Panel, text string)
	ShowAnalysis(r analysis.Report)
	HideAnalysis()
	// Typeset re-runs math typesetting over the analysis panel.
	Typeset()
}
