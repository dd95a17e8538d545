// ABOUTME: Shared fixtures for TUI tests: a grid-producing fetcher and a message collector.
package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/tauplane/orchestrator"
	"github.com/2389-research/tauplane/plane"
)

type gridFetcher struct {
	fail bool
}

func (f *gridFetcher) Fetch(_ context.Context, req plane.PlotRequest) (*plane.PlotResponse, error) {
	if f.fail {
		return nil, errors.New("Invalid function string: z^^")
	}
	n := req.Points
	axis := make(plane.Vector, n)
	for i := range axis {
		axis[i] = float64(i)
	}
	m := plane.Zeros(n, n)
	for i := range m {
		for j := range m[i] {
			m[i][j] = float64(i + j)
		}
	}
	return &plane.PlotResponse{
		X: axis, Y: axis,
		Magnitude: m, Phase: m, Real: m, Imag: m,
		Type:     plane.PlotGeneralFunc,
		Function: req.Function.Text(),
		Analysis: &plane.Analysis{
			CriticalPoints: []plane.CriticalPoint{{ZReal: 1, ZImag: 1, Type: "zero"}},
		},
	}, nil
}

type collector struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (c *collector) send(msg tea.Msg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collector) drain() []tea.Msg {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.msgs
	c.msgs = nil
	return out
}

func newTestOrchestrator(t *testing.T, f orchestrator.Fetcher) (*orchestrator.Orchestrator, *collector) {
	t.Helper()
	cfg := plane.DefaultConfig()
	cfg.Points = 6
	c := &collector{}
	b := NewBridge()
	b.Attach(c.send)
	o := orchestrator.New(f, b, cfg)
	t.Cleanup(o.Close)
	return o, c
}
