// ABOUTME: Bridge connecting the orchestrator's Renderer calls to the Bubble Tea message loop.
// ABOUTME: Provides tea.Cmd factories for dispatching control events and running a refresh.
package tui

import (
	"context"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/tauplane/analysis"
	"github.com/2389-research/tauplane/chart"
	"github.com/2389-research/tauplane/orchestrator"
)

// Bridge implements orchestrator.Renderer by sending messages into the TUI.
// Plot validates the figure synchronously so plotting errors reach the orchestrator.
type Bridge struct {
	mu   sync.Mutex
	send func(msg tea.Msg)
}

var _ orchestrator.Renderer = (*Bridge)(nil)

// NewBridge creates a Bridge. Messages are dropped until Attach is called.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach sets the send function. Typically called with program.Send.
func (b *Bridge) Attach(send func(msg tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) emit(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		log.Printf("component=tui action=drop msg=%T", msg)
		return
	}
	send(msg)
}

func (b *Bridge) ShowLoading() { b.emit(LoadingMsg{On: true}) }
func (b *Bridge) HideLoading() { b.emit(LoadingMsg{On: false}) }

func (b *Bridge) Purge(p orchestrator.Panel) { b.emit(PurgeMsg{Panel: p}) }

// Plot builds the panel's heatmap and sends it.
func (b *Bridge) Plot(p orchestrator.Panel, traces []chart.Trace, layout chart.Layout) error {
	h, err := NewHeatmap(traces, layout)
	if err != nil {
		return err
	}
	b.emit(PlotMsg{Panel: p, Heatmap: h})
	return nil
}

func (b *Bridge) ShowError(p orchestrator.Panel, text string) {
	b.emit(PanelErrorMsg{Panel: p, Text: text})
}

func (b *Bridge) ShowAnalysis(r analysis.Report) { b.emit(AnalysisMsg{Report: r}) }
func (b *Bridge) HideAnalysis()                  { b.emit(AnalysisHiddenMsg{}) }
func (b *Bridge) Typeset()                       { b.emit(TypesetMsg{}) }

// DispatchCmd applies ev off the message loop and reports the resulting config.
func DispatchCmd(o *orchestrator.Orchestrator, ev orchestrator.Event) tea.Cmd {
	return func() tea.Msg {
		refreshed, err := o.Dispatch(ev)
		return DispatchResultMsg{Config: o.Config(), Refreshed: refreshed, Err: err}
	}
}

// RefreshCmd runs one cycle with the current config. Used for the initial load.
func RefreshCmd(ctx context.Context, o *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		out, err := o.Refresh(ctx)
		return RefreshResultMsg{Outcome: out, Err: err}
	}
}
