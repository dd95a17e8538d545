// ABOUTME: ControlsModel shows every control's current value and owns the function-expression editor.
// ABOUTME: Key bindings map to orchestrator events; the editor emits one function_input event per edit.
package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/tauplane/orchestrator"
	"github.com/2389-research/tauplane/plane"
)

// Step sizes for the slider-style controls.
const (
	rangeStep   = 0.5
	minRange    = 0.5
	pointsStep  = 10
	minPoints   = 10
	liminalStep = 0.1
	minLiminal  = 0.1
	extentStep  = 10
)

// ControlsModel renders the control panel and edits the function expression.
type ControlsModel struct {
	cfg     plane.ConfigState
	presets []plane.Preset
	input   textinput.Model
	editing bool
	width   int
}

// NewControlsModel creates the control panel for cfg.
func NewControlsModel(cfg plane.ConfigState, presets []plane.Preset) ControlsModel {
	ti := textinput.New()
	ti.Prompt = "f(z) = "
	ti.Placeholder = "z^2"
	ti.CharLimit = 256
	return ControlsModel{cfg: cfg, presets: presets, input: ti, width: 40}
}

// SetConfig updates the displayed values.
func (m *ControlsModel) SetConfig(cfg plane.ConfigState) { m.cfg = cfg }

// Config returns the displayed config.
func (m ControlsModel) Config() plane.ConfigState { return m.cfg }

// SetWidth sets the panel width.
func (m *ControlsModel) SetWidth(w int) { m.width = w }

// Editing reports whether the function editor has focus.
func (m ControlsModel) Editing() bool { return m.editing }

// StartEditing focuses the editor with the current expression.
func (m *ControlsModel) StartEditing() tea.Cmd {
	m.editing = true
	m.input.SetValue(m.cfg.FunctionText)
	m.input.CursorEnd()
	return m.input.Focus()
}

// StopEditing blurs the editor.
func (m *ControlsModel) StopEditing() {
	m.editing = false
	m.input.Blur()
}

// UpdateEditor forwards a key to the editor. It returns a function_input event
// when the text changed.
func (m ControlsModel) UpdateEditor(msg tea.Msg) (ControlsModel, *orchestrator.Event, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()
	if after == before {
		return m, nil, cmd
	}
	return m, &orchestrator.Event{Kind: orchestrator.EventFunctionInput, Value: after}, cmd
}

// EventForKey maps a key to the control event it triggers, if any.
func (m ControlsModel) EventForKey(key string) (orchestrator.Event, bool) {
	c := m.cfg
	switch key {
	case "u", "enter":
		return orchestrator.Event{Kind: orchestrator.EventUpdate}, true
	case "p":
		return orchestrator.Event{Kind: orchestrator.EventPlane, Value: string(c.Plane.Next())}, true
	case "v":
		return orchestrator.Event{Kind: orchestrator.EventView, Value: string(c.View.Next())}, true
	case "+", "=":
		return floatEvent(orchestrator.EventRange, c.Range+rangeStep), true
	case "-":
		return floatEvent(orchestrator.EventRange, max(c.Range-rangeStep, minRange)), true
	case "]":
		return intEvent(orchestrator.EventResolution, c.Points+pointsStep), true
	case "[":
		return intEvent(orchestrator.EventResolution, max(c.Points-pointsStep, minPoints)), true
	case ">", ".":
		return floatEvent(orchestrator.EventLiminalRadius, c.LiminalRadius+liminalStep), true
	case "<", ",":
		return floatEvent(orchestrator.EventLiminalRadius, max(c.LiminalRadius-liminalStep, minLiminal)), true
	case "f":
		return orchestrator.Event{Kind: orchestrator.EventFunctionSelect, Value: m.nextSelection()}, true
	case "Z":
		return intEvent(orchestrator.EventZeroCount, c.NumZeros+1), true
	case "z":
		return intEvent(orchestrator.EventZeroCount, max(c.NumZeros-1, 0)), true
	case "T":
		return intEvent(orchestrator.EventLineExtent, c.CriticalLineExtent+extentStep), true
	case "t":
		return intEvent(orchestrator.EventLineExtent, max(c.CriticalLineExtent-extentStep, extentStep)), true
	}
	return orchestrator.Event{}, false
}

// nextSelection cycles the function selector through the presets.
func (m ControlsModel) nextSelection() string {
	if len(m.presets) == 0 {
		return orchestrator.CustomSelection
	}
	current := m.cfg.FunctionText
	if m.cfg.IsZeta() {
		current = plane.ZetaIdentifier
	}
	for i, p := range m.presets {
		if p.Expr == current && m.cfg.FunctionSource != plane.SourceCustom {
			return m.presets[(i+1)%len(m.presets)].Expr
		}
	}
	return m.presets[0].Expr
}

func floatEvent(kind orchestrator.EventKind, v float64) orchestrator.Event {
	return orchestrator.Event{Kind: kind, Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

func intEvent(kind orchestrator.EventKind, v int) orchestrator.Event {
	return orchestrator.Event{Kind: kind, Value: strconv.Itoa(v)}
}

func (m ControlsModel) functionLabel() string {
	if m.cfg.IsZeta() {
		return "ζ(s)"
	}
	label := m.cfg.FunctionText
	if m.cfg.FunctionSource == plane.SourceCustom {
		label += " (custom)"
	}
	return label
}

// View renders the control values and key hints.
func (m ControlsModel) View() string {
	c := m.cfg
	row := func(label, value string) string {
		return LabelStyle.Render(label) + ValueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Controls"))
	b.WriteString("\n")
	if m.editing {
		b.WriteString(EditStyle.Render(m.input.View()))
		b.WriteString("\n")
	} else {
		b.WriteString(row("Function:", m.functionLabel()))
	}
	b.WriteString(row("Plane:", string(c.Plane)))
	b.WriteString(row("2D view:", string(c.View)))
	b.WriteString(row(c.RangeLabel(), c.RangeDisplay()))
	b.WriteString(row("Resolution:", strconv.Itoa(c.Points)))
	if c.ShowLiminalControl() {
		b.WriteString(row("Liminal:", c.LiminalDisplay()))
	}
	if c.ShowZetaControls() {
		b.WriteString(row("Zeros:", strconv.Itoa(c.NumZeros)))
		b.WriteString(row("t max:", strconv.Itoa(c.CriticalLineExtent)))
	}
	b.WriteString(HintStyle.Width(max(m.width-2, 10)).Render(plane.PlaneExplanation(c.Plane)))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render(m.hints()))

	return BorderStyle.Width(max(m.width-2, 10)).Render(b.String())
}

func (m ControlsModel) hints() string {
	if m.editing {
		return "enter: apply  esc: done"
	}
	hints := []string{"u update", "e edit", "f preset", "p plane", "v view", "+/- range", "[/] points"}
	if m.cfg.ShowLiminalControl() {
		hints = append(hints, "</> ε")
	}
	if m.cfg.ShowZetaControls() {
		hints = append(hints, "z/Z zeros", "t/T t max")
	}
	hints = append(hints, "tab analysis", "q quit")
	return strings.Join(hints, " · ")
}
