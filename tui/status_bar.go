// ABOUTME: Implements a single-line status bar for the bottom of the TUI showing cycle progress.
// ABOUTME: Displays the spinner while loading, the last outcome, its duration, and the cycle count.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/tauplane/orchestrator"
)

// StatusBarModel displays render-cycle status in a single line.
type StatusBarModel struct {
	spinner    spinner.Model
	loading    bool
	computeURL string
	last       orchestrator.Outcome
	cycles     uint64
	notice     string
	width      int
}

// NewStatusBarModel creates a status bar for the given compute service URL.
func NewStatusBarModel(computeURL string) StatusBarModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = LoadingStyle
	return StatusBarModel{spinner: sp, computeURL: computeURL}
}

// SetLoading toggles the spinner.
func (m *StatusBarModel) SetLoading(on bool) { m.loading = on }

// Loading reports whether a cycle is drawing.
func (m StatusBarModel) Loading() bool { return m.loading }

// SetOutcome records the latest finished cycle.
func (m *StatusBarModel) SetOutcome(out orchestrator.Outcome, cycles uint64) {
	m.last = out
	m.cycles = cycles
}

// SetNotice shows a transient message such as a rejected control value.
func (m *StatusBarModel) SetNotice(s string) { m.notice = s }

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) { m.width = w }

// Tick returns the spinner's tick command.
func (m StatusBarModel) Tick() tea.Cmd { return m.spinner.Tick }

// Update advances the spinner.
func (m StatusBarModel) Update(msg tea.Msg) (StatusBarModel, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// formatDuration formats a cycle duration: milliseconds under a second, else seconds.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	state := m.last.StateName
	if state == "" {
		state = orchestrator.StateIdle.String()
	}
	status := StyleForState(m.last.State).Render(state)
	if m.loading {
		status = m.spinner.View() + " " + LoadingStyle.Render("computing")
	}

	content := fmt.Sprintf("Compute: %s | %s | last: %s | cycles: %d",
		m.computeURL, status, formatDuration(m.last.Duration), m.cycles)
	if m.notice != "" {
		content += " | " + ErrorStyle.Render(m.notice)
	}

	style := StatusBarStyle.Width(m.width)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}
