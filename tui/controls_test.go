// ABOUTME: Tests for ControlsModel key bindings, preset cycling, the function editor, and rendering.
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/tauplane/orchestrator"
	"github.com/2389-research/tauplane/plane"
)

func TestControlsEventForKey(t *testing.T) {
	m := NewControlsModel(plane.DefaultConfig(), plane.DefaultPresets())

	tests := []struct {
		key  string
		want orchestrator.Event
	}{
		{"u", orchestrator.Event{Kind: orchestrator.EventUpdate}},
		{"enter", orchestrator.Event{Kind: orchestrator.EventUpdate}},
		{"p", orchestrator.Event{Kind: orchestrator.EventPlane, Value: "w"}},
		{"v", orchestrator.Event{Kind: orchestrator.EventView, Value: "imag"}},
		{"+", orchestrator.Event{Kind: orchestrator.EventRange, Value: "3.5"}},
		{"-", orchestrator.Event{Kind: orchestrator.EventRange, Value: "2.5"}},
		{"]", orchestrator.Event{Kind: orchestrator.EventResolution, Value: "110"}},
		{"[", orchestrator.Event{Kind: orchestrator.EventResolution, Value: "90"}},
		{">", orchestrator.Event{Kind: orchestrator.EventLiminalRadius, Value: "1.1"}},
		{"<", orchestrator.Event{Kind: orchestrator.EventLiminalRadius, Value: "0.9"}},
		{"f", orchestrator.Event{Kind: orchestrator.EventFunctionSelect, Value: "1/z"}},
		{"Z", orchestrator.Event{Kind: orchestrator.EventZeroCount, Value: "6"}},
		{"z", orchestrator.Event{Kind: orchestrator.EventZeroCount, Value: "4"}},
		{"T", orchestrator.Event{Kind: orchestrator.EventLineExtent, Value: "60"}},
		{"t", orchestrator.Event{Kind: orchestrator.EventLineExtent, Value: "40"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := m.EventForKey(tt.key)
			if !ok || got != tt.want {
				t.Errorf("EventForKey(%q) = %+v, %v; want %+v", tt.key, got, ok, tt.want)
			}
		})
	}

	if _, ok := m.EventForKey("x"); ok {
		t.Error("unbound key produced an event")
	}
}

func TestControlsLowerBounds(t *testing.T) {
	cfg := plane.DefaultConfig()
	cfg.Range = 0.5
	cfg.Points = 10
	cfg.NumZeros = 0
	m := NewControlsModel(cfg, nil)

	if ev, _ := m.EventForKey("-"); ev.Value != "0.5" {
		t.Errorf("range floor = %q", ev.Value)
	}
	if ev, _ := m.EventForKey("["); ev.Value != "10" {
		t.Errorf("points floor = %q", ev.Value)
	}
	if ev, _ := m.EventForKey("z"); ev.Value != "0" {
		t.Errorf("zeros floor = %q", ev.Value)
	}
	if ev, _ := m.EventForKey("f"); ev.Value != orchestrator.CustomSelection {
		t.Errorf("no presets should select custom, got %q", ev.Value)
	}
}

func TestControlsPresetCycleWraps(t *testing.T) {
	cfg := plane.DefaultConfig()
	cfg.FunctionSource = plane.SourceZeta
	cfg.FunctionText = plane.ZetaIdentifier
	m := NewControlsModel(cfg, plane.DefaultPresets())
	if ev, _ := m.EventForKey("f"); ev.Value != "z^2" {
		t.Errorf("after zeta = %q, want z^2", ev.Value)
	}

	cfg = plane.DefaultConfig()
	cfg.FunctionSource = plane.SourceCustom
	m.SetConfig(cfg)
	if ev, _ := m.EventForKey("f"); ev.Value != "z^2" {
		t.Errorf("from custom = %q, want first preset", ev.Value)
	}
}

func TestControlsEditor(t *testing.T) {
	m := NewControlsModel(plane.DefaultConfig(), plane.DefaultPresets())
	m.StartEditing()
	if !m.Editing() {
		t.Fatal("expected editing")
	}

	m, ev, _ := m.UpdateEditor(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+1")})
	if ev == nil || ev.Kind != orchestrator.EventFunctionInput || ev.Value != "z^2+1" {
		t.Fatalf("event = %+v", ev)
	}

	m, ev, _ = m.UpdateEditor(tea.KeyMsg{Type: tea.KeyLeft})
	if ev != nil {
		t.Errorf("cursor move produced %+v", ev)
	}

	m.StopEditing()
	if m.Editing() {
		t.Error("still editing after StopEditing")
	}
}

func TestControlsView(t *testing.T) {
	cfg := plane.DefaultConfig()
	m := NewControlsModel(cfg, plane.DefaultPresets())
	view := m.View()
	for _, want := range []string{"Controls", "z^2", "Range:", "±3.0", "τ-plane"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Liminal:") || strings.Contains(view, "Zeros:") {
		t.Error("liminal and zeta controls should be hidden")
	}

	cfg.Plane = plane.PlaneZ
	cfg.FunctionSource = plane.SourceZeta
	m.SetConfig(cfg)
	view = m.View()
	for _, want := range []string{"z Range:", "ε = 1.0", "Zeros:", "ζ(s)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
