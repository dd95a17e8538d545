// ABOUTME: tauplane HTTP server: the explorer page, a JSON control-event API, and an SSE view stream.
// ABOUTME: Control events go to the orchestrator; the ViewRenderer state is what the page draws.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389-research/tauplane/history"
	"github.com/2389-research/tauplane/orchestrator"
	"github.com/2389-research/tauplane/plane"
)

const (
	maxEventBytes       = 64 << 10
	defaultHistoryLimit = 50
)

// HistoryLister returns recent render cycles, newest first.
type HistoryLister interface {
	List(limit int) ([]history.Record, error)
}

// Server serves the explorer page and its API behind a single chi router.
type Server struct {
	orch      *orchestrator.Orchestrator
	view      *ViewRenderer
	history   HistoryLister
	presets   []plane.Preset
	templates *TemplateEngine
	router    chi.Router
	addr      string
}

// ServerConfig holds the configuration for the web server.
type ServerConfig struct {
	Addr         string // listen address (default: "127.0.0.1:7780")
	Orchestrator *orchestrator.Orchestrator
	View         *ViewRenderer
	History      HistoryLister // optional
	Presets      []plane.Preset
}

// NewServer wires the router. The orchestrator must render into cfg.View.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7780"
	}
	if cfg.Orchestrator == nil || cfg.View == nil {
		return nil, fmt.Errorf("orchestrator and view renderer are required")
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = plane.DefaultPresets()
	}

	tmpl, err := NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}

	s := &Server{
		orch:      cfg.Orchestrator,
		view:      cfg.View,
		history:   cfg.History,
		presets:   cfg.Presets,
		templates: tmpl,
		addr:      cfg.Addr,
	}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		// Open view streams end when ctx does, so Shutdown is not held up by them.
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("component=web action=listen addr=%s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down web server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(webRequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	staticFS, err := fs.Sub(StaticFS, "static")
	if err != nil {
		log.Printf("WARNING: failed to create static sub-FS: %v", err)
	} else {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Post("/events", s.handleEvent)
		r.Get("/state", s.handleState)
		r.Get("/view", s.handleView)
		r.Get("/view/events", s.handleViewEvents)
		r.Get("/history", s.handleHistory)
	})

	return r
}

// ConfigView is the current config plus everything the controls display about it.
type ConfigView struct {
	Config            plane.ConfigState `json:"config"`
	FunctionSelection string            `json:"function_selection"`
	RangeLabel        string            `json:"range_label"`
	RangeDisplay      string            `json:"range_display"`
	LiminalDisplay    string            `json:"liminal_display"`
	ShowLiminal       bool              `json:"show_liminal"`
	ShowZeta          bool              `json:"show_zeta"`
	PlaneExplanation  string            `json:"plane_explanation"`
	Presets           []plane.Preset    `json:"presets"`
}

func (s *Server) configView() ConfigView {
	cfg := s.orch.Config()
	return ConfigView{
		Config:            cfg,
		FunctionSelection: functionSelection(cfg, s.presets),
		RangeLabel:        cfg.RangeLabel(),
		RangeDisplay:      cfg.RangeDisplay(),
		LiminalDisplay:    cfg.LiminalDisplay(),
		ShowLiminal:       cfg.ShowLiminalControl(),
		ShowZeta:          cfg.ShowZetaControls(),
		PlaneExplanation:  plane.PlaneExplanation(cfg.Plane),
		Presets:           s.presets,
	}
}

// functionSelection is the function selector's value for cfg.
func functionSelection(cfg plane.ConfigState, presets []plane.Preset) string {
	switch cfg.FunctionSource {
	case plane.SourceZeta:
		return plane.ZetaIdentifier
	case plane.SourcePreset:
		for _, p := range presets {
			if p.Expr == cfg.FunctionText {
				return p.Expr
			}
		}
	}
	return orchestrator.CustomSelection
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := PageData{
		Title:   "Complex Function Explorer",
		Config:  s.configView(),
		Presets: s.presets,
		Planes:  plane.PlaneModes,
		Views:   plane.ViewKinds,
	}
	if err := s.templates.Render(w, "index.html", data); err != nil {
		log.Printf("error rendering index: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.configView())
}

type eventResponse struct {
	Refreshed bool       `json:"refreshed"`
	Config    ConfigView `json:"config"`
}

// handleEvent applies one control change. A refresh, if any, runs in the background.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBytes)

	var ev orchestrator.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		if isMaxBytesError(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid event: "+err.Error())
		return
	}

	refreshed, err := s.orch.Dispatch(ev)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, orchestrator.ErrClosed) {
			status = http.StatusServiceUnavailable
		}
		log.Printf("component=web action=event kind=%s err=%q", ev.Kind, err)
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eventResponse{Refreshed: refreshed, Config: s.configView()})
}

type stateResponse struct {
	State      string               `json:"state"`
	Generation uint64               `json:"generation"`
	Last       orchestrator.Outcome `json:"last"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		State:      s.orch.State().String(),
		Generation: s.orch.Generation(),
		Last:       s.orch.LastOutcome(),
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Snapshot())
}

// handleViewEvents streams a "view" SSE event with the full snapshot on connect
// and after every renderer change.
func (s *Server) handleViewEvents(w http.ResponseWriter, r *http.Request) {
	updates, unsubscribe := s.view.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	send := func() bool {
		data, err := json.Marshal(s.view.Snapshot())
		if err != nil {
			log.Printf("component=web action=view_stream err=%q", err)
			return false
		}
		if _, err := fmt.Fprintf(w, "event: view\ndata: %s\n\n", data); err != nil {
			return false
		}
		if canFlush {
			flusher.Flush()
		}
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-updates:
			if !send() {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []history.Record{})
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := s.history.List(limit)
	if err != nil {
		log.Printf("component=web action=history err=%q", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("component=web action=encode err=%q", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func isMaxBytesError(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
