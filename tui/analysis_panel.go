// ABOUTME: Scrollable analysis panel: the report's markdown rendered by glamour inside a viewport.
// ABOUTME: Typeset re-renders the current report; hiding keeps the last report for the next show.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/2389-research/tauplane/analysis"
)

// AnalysisPanelModel shows the function analysis report.
type AnalysisPanelModel struct {
	report   analysis.Report
	visible  bool
	rendered string
	viewport viewport.Model
	focused  bool
	style    string
	width    int
	height   int
}

// NewAnalysisPanelModel creates a hidden panel. style is a glamour standard style name.
func NewAnalysisPanelModel(style string) AnalysisPanelModel {
	if style == "" {
		style = "dark"
	}
	return AnalysisPanelModel{viewport: viewport.New(80, 10), style: style}
}

// SetSize sets the outer dimensions and re-wraps the content.
func (m *AnalysisPanelModel) SetSize(w, h int) {
	if w == m.width && h == m.height {
		return
	}
	m.width = w
	m.height = h
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
	m.Typeset()
}

// Show sets the report and makes the panel visible. Content updates on Typeset.
func (m *AnalysisPanelModel) Show(r analysis.Report) {
	m.report = r
	m.visible = true
}

// Hide hides the panel.
func (m *AnalysisPanelModel) Hide() { m.visible = false }

// Visible reports whether the panel is shown.
func (m AnalysisPanelModel) Visible() bool { return m.visible }

// SetFocused sets whether scroll keys go to this panel.
func (m *AnalysisPanelModel) SetFocused(focused bool) { m.focused = focused }

// Content returns the rendered text.
func (m AnalysisPanelModel) Content() string { return m.rendered }

// Typeset renders the report's markdown for the current width.
func (m *AnalysisPanelModel) Typeset() {
	md := m.report.Markdown()
	if m.report.Function == "" && len(m.report.Sections) == 0 {
		md = ""
	}
	m.rendered = renderMarkdown(md, m.style, max(m.viewport.Width-2, 20))
	m.viewport.SetContent(m.rendered)
}

func renderMarkdown(md, style string, wrap int) string {
	if md == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Update forwards scroll keys when focused.
func (m AnalysisPanelModel) Update(msg tea.Msg) (AnalysisPanelModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the panel, or nothing when hidden.
func (m AnalysisPanelModel) View() string {
	if !m.visible {
		return ""
	}
	style := BorderStyle
	if m.focused {
		style = FocusedBorderStyle
	}
	body := TitleStyle.Render("Function Analysis") + "\n" + m.viewport.View()
	return style.Width(max(m.width-2, 1)).Render(body)
}
