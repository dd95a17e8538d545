// ABOUTME: Bubble Tea message types used in the TUI message loop.
// ABOUTME: Renderer calls from the orchestrator arrive as these messages, in call order.
package tui

import (
	"github.com/2389-research/tauplane/analysis"
	"github.com/2389-research/tauplane/orchestrator"
	"github.com/2389-research/tauplane/plane"
)

// LoadingMsg shows (On) or hides the loading indicator.
type LoadingMsg struct {
	On bool
}

// PurgeMsg clears one panel.
type PurgeMsg struct {
	Panel orchestrator.Panel
}

// PlotMsg carries a validated heatmap for one panel.
type PlotMsg struct {
	Panel   orchestrator.Panel
	Heatmap *Heatmap
}

// PanelErrorMsg replaces a panel's chart with text.
type PanelErrorMsg struct {
	Panel orchestrator.Panel
	Text  string
}

// AnalysisMsg shows the analysis panel with a new report.
type AnalysisMsg struct {
	Report analysis.Report
}

// AnalysisHiddenMsg hides the analysis panel.
type AnalysisHiddenMsg struct{}

// TypesetMsg asks the analysis panel to re-render its markdown.
type TypesetMsg struct{}

// DispatchResultMsg reports a control event's effect on the config.
type DispatchResultMsg struct {
	Config    plane.ConfigState
	Refreshed bool
	Err       error
}

// RefreshResultMsg reports a finished synchronous refresh.
type RefreshResultMsg struct {
	Outcome orchestrator.Outcome
	Err     error
}
