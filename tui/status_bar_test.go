// ABOUTME: Tests for StatusBarModel which renders the single-line cycle status bar.
// ABOUTME: Covers loading, outcomes, notices, and duration formatting.
package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/2389-research/tauplane/orchestrator"
)

func TestStatusBarIdle(t *testing.T) {
	m := NewStatusBarModel("http://127.0.0.1:5000")
	m.SetWidth(120)
	view := m.View()
	if !strings.Contains(view, "Compute: http://127.0.0.1:5000") || !strings.Contains(view, "idle") {
		t.Errorf("view = %q", view)
	}
}

func TestStatusBarOutcome(t *testing.T) {
	m := NewStatusBarModel("x")
	m.SetWidth(120)
	m.SetOutcome(orchestrator.Outcome{
		State:     orchestrator.StateSuccess,
		StateName: "success",
		Duration:  250 * time.Millisecond,
	}, 3)
	view := m.View()
	for _, want := range []string{"success", "250ms", "cycles: 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q: %q", want, view)
		}
	}
}

func TestStatusBarLoadingAndNotice(t *testing.T) {
	m := NewStatusBarModel("x")
	m.SetWidth(160)
	m.SetLoading(true)
	if !m.Loading() || !strings.Contains(m.View(), "computing") {
		t.Error("expected computing while loading")
	}
	m.SetNotice("range: must be positive")
	if !strings.Contains(m.View(), "range: must be positive") {
		t.Error("notice not shown")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{999 * time.Millisecond, "999ms"},
		{1500 * time.Millisecond, "1.5s"},
		{61 * time.Second, "61.0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
