// ABOUTME: ViewRenderer implements the orchestrator's Renderer by keeping the page state in memory.
// ABOUTME: The browser pulls snapshots over SSE and hands each panel's figure to Plotly.js.
package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"sync"

	"github.com/2389-research/tauplane/analysis"
	"github.com/2389-research/tauplane/chart"
	"github.com/2389-research/tauplane/orchestrator"
)

// PanelView is what one chart container currently shows.
type PanelView struct {
	Visible bool            `json:"visible"`
	Figure  json.RawMessage `json:"figure,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ViewState is a snapshot of everything the page draws.
type ViewState struct {
	Version         uint64               `json:"version"`
	Loading         bool                 `json:"loading"`
	Panels          map[string]PanelView `json:"panels"`
	AnalysisVisible bool                 `json:"analysis_visible"`
	AnalysisHTML    template.HTML        `json:"analysis_html"`
	AnalysisText    string               `json:"analysis_markdown,omitempty"`
	Typeset         uint64               `json:"typeset"`
}

// ViewRenderer records renderer calls as page state and notifies subscribers on change.
type ViewRenderer struct {
	mu          sync.Mutex
	state       ViewState
	subscribers map[int]chan uint64
	nextSub     int
}

var _ orchestrator.Renderer = (*ViewRenderer)(nil)

// NewViewRenderer returns a renderer with every panel visible and empty.
func NewViewRenderer() *ViewRenderer {
	v := &ViewRenderer{
		state:       ViewState{Panels: make(map[string]PanelView, len(orchestrator.Panels))},
		subscribers: make(map[int]chan uint64),
	}
	for _, p := range orchestrator.Panels {
		v.state.Panels[p.String()] = PanelView{Visible: true}
	}
	return v
}

// Snapshot returns a copy of the current state.
func (v *ViewRenderer) Snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.copyLocked()
}

func (v *ViewRenderer) copyLocked() ViewState {
	out := v.state
	out.Panels = make(map[string]PanelView, len(v.state.Panels))
	for k, p := range v.state.Panels {
		out.Panels[k] = p
	}
	return out
}

// Subscribe returns a channel that receives the new version after each change.
// Notifications coalesce: a slow reader only sees the latest version.
func (v *ViewRenderer) Subscribe() (<-chan uint64, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextSub
	v.nextSub++
	ch := make(chan uint64, 1)
	v.subscribers[id] = ch
	return ch, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subscribers, id)
	}
}

// update applies fn under the lock, bumps the version, and notifies subscribers.
func (v *ViewRenderer) update(fn func(s *ViewState)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.state)
	v.state.Version++
	for _, ch := range v.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- v.state.Version
	}
}

func (v *ViewRenderer) setPanels(s *ViewState, visible bool) {
	for k, p := range s.Panels {
		p.Visible = visible
		s.Panels[k] = p
	}
}

// ShowLoading hides the chart containers and shows the loading indicator.
func (v *ViewRenderer) ShowLoading() {
	v.update(func(s *ViewState) {
		s.Loading = true
		v.setPanels(s, false)
	})
}

// HideLoading reveals the chart containers.
func (v *ViewRenderer) HideLoading() {
	v.update(func(s *ViewState) {
		s.Loading = false
		v.setPanels(s, true)
	})
}

// Purge clears the panel's figure and any error text.
func (v *ViewRenderer) Purge(p orchestrator.Panel) {
	v.update(func(s *ViewState) {
		pv := s.Panels[p.String()]
		pv.Figure = nil
		pv.Error = ""
		s.Panels[p.String()] = pv
	})
}

// Plot stores the panel's figure as Plotly JSON.
func (v *ViewRenderer) Plot(p orchestrator.Panel, traces []chart.Trace, layout chart.Layout) error {
	if traces == nil {
		traces = []chart.Trace{}
	}
	data, err := json.Marshal(chart.Figure{Data: traces, Layout: layout})
	if err != nil {
		return fmt.Errorf("encoding %s figure: %w", p, err)
	}
	v.update(func(s *ViewState) {
		pv := s.Panels[p.String()]
		pv.Figure = data
		pv.Error = ""
		s.Panels[p.String()] = pv
	})
	return nil
}

// ShowError replaces the panel's chart with text.
func (v *ViewRenderer) ShowError(p orchestrator.Panel, text string) {
	v.update(func(s *ViewState) {
		pv := s.Panels[p.String()]
		pv.Figure = nil
		pv.Error = text
		s.Panels[p.String()] = pv
	})
}

// ShowAnalysis renders the report to HTML and reveals the analysis panel.
func (v *ViewRenderer) ShowAnalysis(r analysis.Report) {
	html := analysis.RenderHTML(r)
	md := r.Markdown()
	v.update(func(s *ViewState) {
		s.AnalysisVisible = true
		s.AnalysisHTML = html
		s.AnalysisText = md
	})
}

// HideAnalysis hides the analysis panel. Its last content is kept.
func (v *ViewRenderer) HideAnalysis() {
	v.update(func(s *ViewState) {
		s.AnalysisVisible = false
	})
}

// Typeset bumps the counter the page watches to re-run MathJax.
func (v *ViewRenderer) Typeset() {
	v.update(func(s *ViewState) {
		s.Typeset++
	})
}
