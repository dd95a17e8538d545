// ABOUTME: Render cycle state machine: config snapshot, fetch, build, purge, plot, analysis, cleanup.
// ABOUTME: Cycles are fenced by a generation counter so a slow stale response cannot overwrite newer panels.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2389-research/tauplane/analysis"
	"github.com/2389-research/tauplane/chart"
	"github.com/2389-research/tauplane/compute"
	"github.com/2389-research/tauplane/history"
	"github.com/2389-research/tauplane/plane"
)

// DefaultDebounce is how long function-expression edits must settle before the
// function source switches to custom.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned by Dispatch and Refresh after Close.
var ErrClosed = errors.New("orchestrator closed")

// errStale marks a cycle whose result was superseded by a newer generation.
var errStale = errors.New("superseded by a newer cycle")

// State is where the orchestrator is in the render cycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Fetcher retrieves plot data for a request.
type Fetcher interface {
	Fetch(ctx context.Context, req plane.PlotRequest) (*plane.PlotResponse, error)
}

// Recorder stores one record per finished cycle.
type Recorder interface {
	Record(rec history.Record) (string, error)
}

// Outcome summarizes one finished cycle.
type Outcome struct {
	Generation uint64        `json:"generation"`
	State      State         `json:"-"`
	StateName  string        `json:"state"`
	Stale      bool          `json:"stale,omitempty"`
	Message    string        `json:"message,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDiscardStale controls generation fencing. When false, the last cycle to
// complete wins regardless of when it was triggered.
func WithDiscardStale(discard bool) Option {
	return func(o *Orchestrator) { o.discardStale = discard }
}

// WithDebounce sets the function-edit settle delay.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.debounceDelay = d
		}
	}
}

// WithRecorder stores every finished cycle.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithBaseContext sets the context cycles started by Dispatch run under.
func WithBaseContext(ctx context.Context) Option {
	return func(o *Orchestrator) {
		if ctx != nil {
			o.baseCtx = ctx
		}
	}
}

// Orchestrator owns the config and runs render cycles against a Fetcher and a Renderer.
type Orchestrator struct {
	fetcher       Fetcher
	renderer      Renderer
	recorder      Recorder
	discardStale  bool
	debounceDelay time.Duration
	baseCtx       context.Context

	mu       sync.Mutex
	cfg      plane.ConfigState
	debounce *time.Timer
	inFlight int
	last     Outcome
	closed   bool

	generation atomic.Uint64
	// renderMu keeps one cycle's renderer calls from interleaving with another's.
	renderMu sync.Mutex
	wg       sync.WaitGroup
}

// New creates an orchestrator starting from initial.
func New(f Fetcher, r Renderer, initial plane.ConfigState, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:       f,
		renderer:      r,
		discardStale:  true,
		debounceDelay: DefaultDebounce,
		baseCtx:       context.Background(),
		cfg:           initial.Canonical(),
		last:          Outcome{State: StateIdle, StateName: StateIdle.String()},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns a copy of the current config.
func (o *Orchestrator) Config() plane.ConfigState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cfg
}

// State is Loading while any cycle is in flight and Idle otherwise.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight > 0 {
		return StateLoading
	}
	return StateIdle
}

// LastOutcome returns the most recent non-stale cycle outcome.
func (o *Orchestrator) LastOutcome() Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Generation returns the number of cycles started so far.
func (o *Orchestrator) Generation() uint64 {
	return o.generation.Load()
}

// Dispatch applies ev to the config and, when the refresh policy says so, starts a
// cycle in the background. It reports whether a cycle was started.
func (o *Orchestrator) Dispatch(ev Event) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false, ErrClosed
	}

	cfg, err := Apply(o.cfg, ev)
	if err != nil {
		return false, fmt.Errorf("apply %s: %w", ev.Kind, err)
	}
	o.cfg = cfg
	if ev.Kind == EventFunctionInput {
		o.scheduleCustomLocked()
	}
	if !ShouldRefresh(ev, cfg) {
		return false, nil
	}

	gen := o.startLocked()
	go func() {
		defer o.wg.Done()
		o.run(o.baseCtx, cfg, gen)
	}()
	return true, nil
}

// Refresh runs one cycle with the current config and returns when it has rendered.
func (o *Orchestrator) Refresh(ctx context.Context) (Outcome, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	cfg := o.cfg
	gen := o.startLocked()
	o.mu.Unlock()

	defer o.wg.Done()
	return o.run(ctx, cfg, gen), nil
}

// Wait blocks until every started cycle has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close stops the debounce timer, rejects further events, and waits for in-flight cycles.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	if o.debounce != nil {
		o.debounce.Stop()
	}
	o.mu.Unlock()
	o.wg.Wait()
}

func (o *Orchestrator) scheduleCustomLocked() {
	if o.debounce != nil {
		o.debounce.Stop()
	}
	o.debounce = time.AfterFunc(o.debounceDelay, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.closed {
			return
		}
		o.cfg.FunctionSource = plane.SourceCustom
		log.Printf("component=orchestrator action=function_source_custom function=%q", o.cfg.FunctionText)
	})
}

func (o *Orchestrator) startLocked() uint64 {
	o.inFlight++
	o.wg.Add(1)
	return o.generation.Add(1)
}

func (o *Orchestrator) isStale(gen uint64) bool {
	return o.discardStale && gen != o.generation.Load()
}

// run executes one cycle end to end. Loading is always hidden before it returns,
// unless a newer cycle now owns the indicator.
func (o *Orchestrator) run(ctx context.Context, cfg plane.ConfigState, gen uint64) Outcome {
	start := time.Now()
	log.Printf("component=orchestrator action=cycle_start generation=%d plane=%s view=%s function=%q",
		gen, cfg.Plane, cfg.View, functionText(cfg))

	o.renderMu.Lock()
	if !o.isStale(gen) {
		o.renderer.ShowLoading()
	}
	o.renderMu.Unlock()

	out := Outcome{Generation: gen}
	err := o.execute(ctx, cfg, gen)
	if err != nil && !errors.Is(err, errStale) {
		msg := compute.Classify(err).Message
		if o.renderFailure(gen, msg) {
			out.State, out.Message = StateError, msg
			log.Printf("component=orchestrator action=cycle_error generation=%d err=%v", gen, err)
		} else {
			err = errStale
		}
	} else if err == nil {
		out.State = StateSuccess
	}
	if errors.Is(err, errStale) {
		out.State, out.Stale = StateIdle, true
		log.Printf("component=orchestrator action=cycle_discarded generation=%d latest=%d", gen, o.generation.Load())
	}

	o.renderMu.Lock()
	if !o.isStale(gen) {
		o.renderer.HideLoading()
	}
	o.renderMu.Unlock()

	out.Duration = time.Since(start)
	out.StateName = out.State.String()
	o.mu.Lock()
	o.inFlight--
	if !out.Stale {
		o.last = out
	}
	o.mu.Unlock()

	log.Printf("component=orchestrator action=cycle_done generation=%d state=%s stale=%t duration=%s",
		gen, out.State, out.Stale, out.Duration.Round(time.Millisecond))
	o.record(cfg, start, out)
	return out
}

// execute fetches, builds, and renders. Panics while building or formatting are
// returned as errors so they take the same failure path as fetch errors.
func (o *Orchestrator) execute(ctx context.Context, cfg plane.ConfigState, gen uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rendering failed: %v", r)
		}
	}()

	req, err := plane.NewPlotRequest(cfg)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := o.fetcher.Fetch(ctx, req)
	if err != nil {
		return err
	}
	if o.isStale(gen) {
		return errStale
	}

	layouts := chart.BuildLayouts(req, cfg.View)
	traces := chart.BuildTraces(resp, req.Plane, cfg.View)
	var report *analysis.Report
	if resp.Type == plane.PlotGeneralFunc && resp.Function != "" {
		r := analysis.Present(resp.Function, resp.Analysis)
		report = &r
	}
	return o.render(gen, layouts, traces, report)
}

func (o *Orchestrator) render(gen uint64, layouts chart.Layouts, traces chart.TraceSet, report *analysis.Report) error {
	o.renderMu.Lock()
	defer o.renderMu.Unlock()
	if o.isStale(gen) {
		return errStale
	}

	for _, p := range Panels {
		o.renderer.Purge(p)
	}
	for _, panel := range []struct {
		p      Panel
		traces []chart.Trace
		layout chart.Layout
	}{
		{PanelPhase, traces.Phase, layouts.Phase},
		{PanelMagnitude, traces.Magnitude, layouts.Magnitude},
		{Panel2D, traces.Plane2D, layouts.Plane2D},
	} {
		if err := o.renderer.Plot(panel.p, panel.traces, panel.layout); err != nil {
			return fmt.Errorf("plotting %s: %w", panel.p, err)
		}
	}

	if report == nil {
		o.renderer.HideAnalysis()
		return nil
	}
	o.renderer.ShowAnalysis(*report)
	o.renderer.Typeset()
	return nil
}

// renderFailure replaces every panel with the classified message. It reports false
// when the cycle turned stale and nothing was drawn.
func (o *Orchestrator) renderFailure(gen uint64, msg string) bool {
	o.renderMu.Lock()
	defer o.renderMu.Unlock()
	if o.isStale(gen) {
		return false
	}
	for _, p := range Panels {
		o.renderer.ShowError(p, p.ErrorText(msg))
	}
	o.renderer.HideAnalysis()
	return true
}

func (o *Orchestrator) record(cfg plane.ConfigState, start time.Time, out Outcome) {
	if o.recorder == nil {
		return
	}
	plotType := plane.PlotGeneralFunc
	if cfg.IsZeta() {
		plotType = plane.PlotZeta
	}
	outcome := history.OutcomeSuccess
	switch {
	case out.Stale:
		outcome = history.OutcomeStale
	case out.State == StateError:
		outcome = history.OutcomeError
	}
	_, err := o.recorder.Record(history.Record{
		Generation:    out.Generation,
		StartedAt:     start,
		Duration:      out.Duration,
		PlotType:      string(plotType),
		Plane:         string(cfg.Plane),
		View:          string(cfg.View),
		Function:      functionText(cfg),
		Range:         cfg.Range,
		Points:        cfg.Points,
		LiminalRadius: cfg.LiminalRadius,
		Outcome:       outcome,
		Message:       out.Message,
	})
	if err != nil {
		log.Printf("component=orchestrator action=record_failed generation=%d err=%v", out.Generation, err)
	}
}

func functionText(cfg plane.ConfigState) string {
	if cfg.IsZeta() {
		return plane.ZetaIdentifier
	}
	return cfg.FunctionText
}
