// ABOUTME: Tests for the tauplane CLI entrypoint covering flag parsing, config precedence,
// ABOUTME: config printing, history setup, and an end-to-end cycle against a fake compute service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/tauplane/config"
	"github.com/2389-research/tauplane/orchestrator"
	"github.com/2389-research/tauplane/plane"
	"github.com/2389-research/tauplane/web"
)

// isolateEnv points config lookups at empty temp dirs and clears TAUPLANE_* overrides.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// fakeCompute serves a flat general-function grid sized by the points query parameter.
func fakeCompute(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("points"))
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"bad points"}`, http.StatusBadRequest)
			return
		}
		axis := make([]float64, n)
		grid := make([][]float64, n)
		for i := range axis {
			axis[i] = float64(i)
			grid[i] = make([]float64, n)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"tau_x":     axis,
			"tau_y":     axis,
			"magnitude": grid,
			"phase":     grid,
			"type":      "general_func",
			"analysis":  map[string]any{},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// --- parseFlags tests ---

func TestParseFlagsDefaults(t *testing.T) {
	cli, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cli != (cliConfig{}) {
		t.Errorf("defaults = %+v, want zero value", cli)
	}
}

func TestParseFlagsAll(t *testing.T) {
	cli, err := parseFlags([]string{
		"-tui", "-config", "c.yaml", "-bind", "127.0.0.1:9000",
		"-compute-url", "http://localhost:5001", "-data-dir", "/tmp/tp",
		"-no-history", "-print-config", "-version",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	want := cliConfig{
		tuiMode:     true,
		configFile:  "c.yaml",
		bind:        "127.0.0.1:9000",
		computeURL:  "http://localhost:5001",
		dataDir:     "/tmp/tp",
		noHistory:   true,
		printConfig: true,
		showVersion: true,
	}
	if cli != want {
		t.Errorf("parseFlags = %+v, want %+v", cli, want)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	var stderr bytes.Buffer
	if _, err := parseFlags([]string{"-help"}, &stderr); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-help err = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(stderr.String(), "tauplane dev") {
		t.Error("-help should print the help text")
	}

	if _, err := parseFlags([]string{"-bogus"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := parseFlags([]string{"extra"}, io.Discard); err == nil {
		t.Error("expected error for positional argument")
	}
}

// --- loadConfig tests ---

func TestLoadConfigPrecedence(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "tauplane.yaml")
	body := "compute_url: http://127.0.0.1:6000\nbind: 127.0.0.1:7001\ndata_dir: /from/file\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TAUPLANE_BIND", "127.0.0.1:7002")

	cfg, err := loadConfig(cliConfig{configFile: path, dataDir: "/from/flag"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ComputeURL != "http://127.0.0.1:6000" {
		t.Errorf("compute url = %q, want file value", cfg.ComputeURL)
	}
	if cfg.Bind != "127.0.0.1:7002" {
		t.Errorf("bind = %q, want env value", cfg.Bind)
	}
	if cfg.DataDir != "/from/flag" {
		t.Errorf("data dir = %q, want flag value", cfg.DataDir)
	}
}

func TestLoadConfigFromXDGDefault(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "tauplane")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("bind: 127.0.0.1:7010\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cliConfig{})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Bind != "127.0.0.1:7010" {
		t.Errorf("bind = %q, want value from XDG config.yaml", cfg.Bind)
	}
}

func TestLoadConfigRejectsFlagValues(t *testing.T) {
	isolateEnv(t)

	if _, err := loadConfig(cliConfig{bind: "0.0.0.0:7780"}); !errors.Is(err, config.ErrNonLoopbackBind) {
		t.Errorf("bind err = %v, want ErrNonLoopbackBind", err)
	}
	if _, err := loadConfig(cliConfig{computeURL: "ftp://x"}); !errors.Is(err, config.ErrInvalidComputeURL) {
		t.Errorf("compute url err = %v, want ErrInvalidComputeURL", err)
	}
	if _, err := loadConfig(cliConfig{configFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfigNoHistory(t *testing.T) {
	isolateEnv(t)
	cfg, err := loadConfig(cliConfig{noHistory: true})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.History {
		t.Error("-no-history should disable history")
	}
}

func TestWriteConfigRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.Bind = "127.0.0.1:7020"

	var buf bytes.Buffer
	if err := writeConfig(&buf, cfg); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}
	if !strings.Contains(buf.String(), "compute_url: http://127.0.0.1:5000") {
		t.Errorf("output missing compute_url:\n%s", buf.String())
	}

	var back config.Config
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Bind != cfg.Bind || back.HTTPTimeout != cfg.HTTPTimeout || len(back.Presets) != len(cfg.Presets) {
		t.Errorf("round trip = %+v", back)
	}
}

// --- history and wiring ---

func TestOpenHistory(t *testing.T) {
	cfg := config.Default()
	cfg.History = false
	store, err := openHistory(cfg)
	if err != nil || store != nil {
		t.Fatalf("disabled history = %v, %v; want nil, nil", store, err)
	}

	cfg.History = true
	cfg.DataDir = filepath.Join(t.TempDir(), "nested", "data")
	store, err = openHistory(cfg)
	if err != nil {
		t.Fatalf("openHistory: %v", err)
	}
	defer store.Close()
	if _, err := os.Stat(filepath.Join(cfg.DataDir, "history.db")); err != nil {
		t.Errorf("history.db not created: %v", err)
	}
}

func TestResolveDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	if got, _ := resolveDataDir("/explicit"); got != "/explicit" {
		t.Errorf("override = %q", got)
	}
	if got, _ := resolveDataDir(""); got != filepath.Join("/xdg", "tauplane") {
		t.Errorf("default = %q", got)
	}
}

func TestNewOrchestratorRunsCycleAndRecords(t *testing.T) {
	srv := fakeCompute(t)

	cfg := config.Default()
	cfg.ComputeURL = srv.URL
	cfg.DataDir = t.TempDir()
	cfg.Defaults.Points = 8

	store, err := openHistory(cfg)
	if err != nil {
		t.Fatalf("openHistory: %v", err)
	}
	defer store.Close()

	view := web.NewViewRenderer()
	orch := newOrchestrator(context.Background(), cfg, view, store)
	defer orch.Close()

	out, err := orch.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if out.State != orchestrator.StateSuccess {
		t.Fatalf("state = %s, message = %q", out.State, out.Message)
	}

	snap := view.Snapshot()
	if snap.Loading {
		t.Error("view still loading after the cycle")
	}
	for _, p := range []orchestrator.Panel{orchestrator.PanelPhase, orchestrator.PanelMagnitude, orchestrator.Panel2D} {
		if len(snap.Panels[p.String()].Figure) == 0 {
			t.Errorf("panel %s has no figure", p)
		}
	}

	recs, err := store.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 || recs[0].Points != 8 || recs[0].Plane != string(plane.PlaneTau) {
		t.Errorf("records = %+v", recs)
	}
}
