// ABOUTME: Defines lipgloss styles for the TUI panels, cycle states, and the status bar.
// ABOUTME: Provides StyleForState to map orchestrator states to their display styles.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/tauplane/orchestrator"
)

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))
	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("214"))

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Cycle states
	IdleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	LoadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	HeatmapStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	HintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	// Control labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	EditStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
)

// StyleForState returns the style for an orchestrator state.
func StyleForState(s orchestrator.State) lipgloss.Style {
	switch s {
	case orchestrator.StateLoading:
		return LoadingStyle
	case orchestrator.StateSuccess:
		return SuccessStyle
	case orchestrator.StateError:
		return ErrorStyle
	default:
		return IdleStyle
	}
}
