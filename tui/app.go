// ABOUTME: Top-level Bubble Tea AppModel composing controls, three chart panels, analysis, and status bar.
// ABOUTME: Key bindings become orchestrator events; renderer messages from the Bridge update the panels.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/tauplane/orchestrator"
	"github.com/2389-research/tauplane/plane"
)

// FocusTarget indicates which panel currently has keyboard focus.
type FocusTarget int

const (
	FocusControls FocusTarget = iota
	FocusAnalysis
)

const controlsWidth = 40

// AppModel is the top-level Bubble Tea model.
type AppModel struct {
	orch *orchestrator.Orchestrator
	ctx  context.Context

	controls  ControlsModel
	panels    []PlotPanelModel
	analysis  AnalysisPanelModel
	statusBar StatusBarModel

	focus  FocusTarget
	width  int
	height int
}

// AppOptions configures NewAppModel.
type AppOptions struct {
	Presets       []plane.Preset
	ComputeURL    string
	MarkdownStyle string // glamour standard style, "dark" when empty
}

// NewAppModel creates an AppModel driving o. The orchestrator must render into a
// Bridge attached to the program running this model.
func NewAppModel(ctx context.Context, o *orchestrator.Orchestrator, opts AppOptions) AppModel {
	if len(opts.Presets) == 0 {
		opts.Presets = plane.DefaultPresets()
	}
	panels := make([]PlotPanelModel, len(orchestrator.Panels))
	for i, p := range orchestrator.Panels {
		panels[i] = NewPlotPanelModel(p)
	}
	return AppModel{
		orch:      o,
		ctx:       ctx,
		controls:  NewControlsModel(o.Config(), opts.Presets),
		panels:    panels,
		analysis:  NewAnalysisPanelModel(opts.MarkdownStyle),
		statusBar: NewStatusBarModel(opts.ComputeURL),
		focus:     FocusControls,
	}
}

// Init runs the initial load and starts the spinner.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		RefreshCmd(m.ctx, m.orch),
		m.statusBar.Tick(),
	)
}

// Update routes messages to the sub-panels.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		m.sync()
		var cmd tea.Cmd
		m.statusBar, cmd = m.statusBar.Update(msg)
		return m, cmd

	case LoadingMsg:
		m.statusBar.SetLoading(msg.On)
		for i := range m.panels {
			m.panels[i].SetHidden(msg.On)
		}
		return m, nil

	case PurgeMsg:
		m.panel(msg.Panel).Purge()
		return m, nil

	case PlotMsg:
		m.panel(msg.Panel).SetHeatmap(msg.Heatmap)
		return m, nil

	case PanelErrorMsg:
		m.panel(msg.Panel).SetError(msg.Text)
		return m, nil

	case AnalysisMsg:
		m.analysis.Show(msg.Report)
		return m, nil

	case AnalysisHiddenMsg:
		m.analysis.Hide()
		if m.focus == FocusAnalysis {
			m.setFocus(FocusControls)
		}
		return m, nil

	case TypesetMsg:
		m.analysis.Typeset()
		return m, nil

	case DispatchResultMsg:
		m.controls.SetConfig(msg.Config)
		if msg.Err != nil {
			m.statusBar.SetNotice(msg.Err.Error())
		} else {
			m.statusBar.SetNotice("")
		}
		return m, nil

	case RefreshResultMsg:
		if msg.Err != nil {
			m.statusBar.SetNotice(msg.Err.Error())
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// sync pulls the config and last outcome from the orchestrator. The function
// source can change on its own after an edit settles.
func (m *AppModel) sync() {
	if !m.controls.Editing() {
		m.controls.SetConfig(m.orch.Config())
	}
	m.statusBar.SetOutcome(m.orch.LastOutcome(), m.orch.Generation())
}

func (m *AppModel) panel(p orchestrator.Panel) *PlotPanelModel {
	for i := range m.panels {
		if m.panels[i].panel == p {
			return &m.panels[i]
		}
	}
	return &m.panels[len(m.panels)-1]
}

func (m *AppModel) setFocus(f FocusTarget) {
	m.focus = f
	m.analysis.SetFocused(f == FocusAnalysis)
}

// handleKeyMsg routes keys to the editor, the analysis viewport, or control events.
func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.controls.Editing() {
		switch msg.Type {
		case tea.KeyEsc:
			m.controls.StopEditing()
			return m, nil
		case tea.KeyEnter:
			m.controls.StopEditing()
			return m, DispatchCmd(m.orch, orchestrator.Event{Kind: orchestrator.EventUpdate})
		}
		var ev *orchestrator.Event
		var cmd tea.Cmd
		m.controls, ev, cmd = m.controls.UpdateEditor(msg)
		if ev != nil {
			return m, tea.Batch(cmd, DispatchCmd(m.orch, *ev))
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.focus == FocusControls && m.analysis.Visible() {
			m.setFocus(FocusAnalysis)
		} else {
			m.setFocus(FocusControls)
		}
		return m, nil
	case "e":
		if m.controls.Config().IsZeta() {
			return m, nil
		}
		return m, m.controls.StartEditing()
	}

	if m.focus == FocusAnalysis {
		switch msg.String() {
		case "up", "down", "pgup", "pgdown", "j", "k", "home", "end":
			var cmd tea.Cmd
			m.analysis, cmd = m.analysis.Update(msg)
			return m, cmd
		}
	}

	if ev, ok := m.controls.EventForKey(msg.String()); ok {
		return m, DispatchCmd(m.orch, ev)
	}
	return m, nil
}

// layout sizes every panel for the current window.
func (m *AppModel) layout() {
	panelW := max(m.width/len(m.panels), 20)
	panelH := max((m.height-1)*55/100, 8)
	topH := max(m.height-1-panelH, 6)
	for i := range m.panels {
		m.panels[i].SetSize(panelW, panelH)
	}
	m.controls.SetWidth(controlsWidth)
	m.analysis.SetSize(max(m.width-controlsWidth, 20), topH)
	m.statusBar.SetWidth(m.width)
}

// View renders controls and analysis on top, the three panels below, and the status bar.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 60 || m.height < 20 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 60x20.", m.width, m.height)
	}

	top := m.controls.View()
	if m.analysis.Visible() {
		top = lipgloss.JoinHorizontal(lipgloss.Top, top, m.analysis.View())
	}

	views := make([]string, len(m.panels))
	for i, p := range m.panels {
		views[i] = p.View()
	}

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, views...))
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	return b.String()
}
