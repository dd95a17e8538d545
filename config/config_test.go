// ABOUTME: Tests for configuration loading from YAML and TAUPLANE_* environment variables.
// ABOUTME: Covers defaults, file overrides, env precedence, and loopback-only bind validation.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2389-research/tauplane/chart"
	"github.com/2389-research/tauplane/plane"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bind != "127.0.0.1:7780" || !cfg.DiscardStale || cfg.Debounce != 500*time.Millisecond {
		t.Errorf("defaults = %+v", cfg)
	}
	d := cfg.Defaults
	if d.Range != 3 || d.Points != 100 || d.NumZeros != 5 || d.CriticalLineExtent != 50 || d.LiminalRadius != 1 {
		t.Errorf("control defaults = %+v", d)
	}
	if d.Plane != plane.PlaneTau || d.View != plane.ViewReal || d.FunctionText != "z^2" {
		t.Errorf("control defaults = %+v", d)
	}
	if len(cfg.Presets) != 7 {
		t.Errorf("presets = %d, want 7", len(cfg.Presets))
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tauplane.yaml")
	content := `
compute_url: http://localhost:9000
http_timeout: 5s
discard_stale: false
defaults:
  plane: z
  range: 5
  liminal_radius: 2
presets:
  - label: cube
    expr: z^3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ComputeURL != "http://localhost:9000" || cfg.HTTPTimeout != 5*time.Second || cfg.DiscardStale {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Defaults.Plane != plane.PlaneZ || cfg.Defaults.Range != 5 || cfg.Defaults.Points != 100 {
		t.Errorf("defaults = %+v, want file values merged over built-ins", cfg.Defaults)
	}
	if len(cfg.Presets) != 1 || cfg.Presets[0].Expr != "z^3" {
		t.Errorf("presets = %+v", cfg.Presets)
	}
}

func TestLoadCanonicalizesDefaultsSpelling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tauplane.yaml")
	content := `
defaults:
  plane: z_plane
  view: mag
  range: 10
  liminal_radius: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d := cfg.Defaults
	if d.Plane != plane.PlaneZ || d.View != plane.ViewMagnitude {
		t.Fatalf("plane/view = %q/%q, want z/magnitude", d.Plane, d.View)
	}

	req, err := plane.NewPlotRequest(d)
	if err != nil {
		t.Fatalf("NewPlotRequest: %v", err)
	}
	if got := req.Query().Get("plane"); got != "z_plane" {
		t.Errorf("plane query = %q, want z_plane", got)
	}
	layout := chart.BuildLayouts(req, d.View).Plane2D
	if len(layout.Shapes) != 4 {
		t.Errorf("shapes = %d, want 4 liminal overlays", len(layout.Shapes))
	}
	if layout.XAxis == nil || layout.XAxis.TickMode != "array" {
		t.Errorf("x axis = %+v, want compactified tick array", layout.XAxis)
	}
	if layout.Title == nil || layout.Title.Text != "Magnitude" {
		t.Errorf("title = %+v, want Magnitude", layout.Title)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("TAUPLANE_COMPUTE_URL", "https://compute.internal:8443")
	t.Setenv("TAUPLANE_BIND", "localhost:9999")
	t.Setenv("TAUPLANE_HTTP_TIMEOUT", "90s")
	t.Setenv("TAUPLANE_DISCARD_STALE", "false")
	t.Setenv("TAUPLANE_DATA_DIR", "/var/lib/tauplane")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ComputeURL != "https://compute.internal:8443" || cfg.Bind != "localhost:9999" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.HTTPTimeout != 90*time.Second || cfg.DiscardStale || cfg.DataDir != "/var/lib/tauplane" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"public bind", map[string]string{"TAUPLANE_BIND": "0.0.0.0:7780"}, ErrNonLoopbackBind},
		{"hostname bind", map[string]string{"TAUPLANE_BIND": "example.com:80"}, ErrNonLoopbackBind},
		{"empty host", map[string]string{"TAUPLANE_BIND": ":7780"}, ErrNonLoopbackBind},
		{"bad url", map[string]string{"TAUPLANE_COMPUTE_URL": "ftp://x"}, ErrInvalidComputeURL},
		{"bad timeout", map[string]string{"TAUPLANE_HTTP_TIMEOUT": "-1s"}, ErrInvalidTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); !errors.Is(err, tt.want) {
				t.Errorf("Load error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsInvalidDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("defaults:\n  points: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, plane.ErrInvalidResolution) {
		t.Errorf("Load error = %v, want ErrInvalidResolution", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCheckLoopback(t *testing.T) {
	for _, ok := range []string{"127.0.0.1:80", "127.9.9.9:1", "[::1]:7780", "localhost:7780"} {
		if err := CheckLoopback(ok); err != nil {
			t.Errorf("CheckLoopback(%q) = %v", ok, err)
		}
	}
	if err := CheckLoopback("no-port"); err == nil {
		t.Error("expected error for bind without port")
	}
}
