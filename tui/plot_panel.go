// ABOUTME: PlotPanelModel renders one chart panel: a heatmap, an error message, or nothing.
// ABOUTME: Hidden panels (while loading) render only their frame and title.
package tui

import (
	"strings"

	"github.com/2389-research/tauplane/orchestrator"
)

// PlotPanelModel is one of the three chart panels.
type PlotPanelModel struct {
	panel   orchestrator.Panel
	heatmap *Heatmap
	err     string
	hidden  bool
	width   int
	height  int
}

// NewPlotPanelModel creates an empty panel.
func NewPlotPanelModel(p orchestrator.Panel) PlotPanelModel {
	return PlotPanelModel{panel: p, width: 40, height: 12}
}

// SetSize sets the outer dimensions including the border.
func (m *PlotPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetHidden toggles the panel body.
func (m *PlotPanelModel) SetHidden(hidden bool) { m.hidden = hidden }

// Purge clears the heatmap and error.
func (m *PlotPanelModel) Purge() {
	m.heatmap = nil
	m.err = ""
}

// SetHeatmap draws h and clears any error.
func (m *PlotPanelModel) SetHeatmap(h *Heatmap) {
	m.heatmap = h
	m.err = ""
}

// SetError replaces the chart with text.
func (m *PlotPanelModel) SetError(text string) {
	m.heatmap = nil
	m.err = text
}

// Heatmap returns the current heatmap, or nil.
func (m PlotPanelModel) Heatmap() *Heatmap { return m.heatmap }

// Err returns the current error text.
func (m PlotPanelModel) Err() string { return m.err }

func (m PlotPanelModel) title() string {
	if m.heatmap != nil && m.heatmap.Title != "" {
		return m.heatmap.Title
	}
	switch m.panel {
	case orchestrator.PanelPhase:
		return "Phase"
	case orchestrator.PanelMagnitude:
		return "Magnitude"
	default:
		return "2D view"
	}
}

// View renders the panel inside a border.
func (m PlotPanelModel) View() string {
	innerW := max(m.width-2, 4)
	innerH := max(m.height-4, 2)

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title()))
	b.WriteString("\n")
	switch {
	case m.hidden:
	case m.err != "":
		b.WriteString(ErrorStyle.Width(innerW).Render(m.err))
	case m.heatmap != nil:
		b.WriteString(HeatmapStyle.Render(strings.Join(m.heatmap.Render(innerW, innerH), "\n")))
		b.WriteString("\n")
		b.WriteString(HintStyle.Render(m.heatmap.Legend()))
	}

	return BorderStyle.Width(innerW).Height(m.height - 2).Render(b.String())
}
