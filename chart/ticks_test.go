// ABOUTME: Tests for the compactified tick scheme and liminal overlay geometry.
// ABOUTME: Covers symmetry, the ±∞ origin, ±δ extremes, the unsigned mid-band numerals, and circle radii.
package chart

import (
	"math"
	"testing"

	"github.com/2389-research/tauplane/plane"
)

func TestCompactTicksCountAndSymmetry(t *testing.T) {
	for _, r := range []float64{0.5, 1, 3, 7.3, 10, 1e6} {
		ticks := CompactTicks(r, TickCount)
		if len(ticks) != 11 {
			t.Fatalf("R=%v: got %d ticks, want 11", r, len(ticks))
		}
		for i := range ticks {
			mirror := ticks[len(ticks)-1-i]
			if ticks[i].Value != -mirror.Value {
				t.Errorf("R=%v: tick %d (%v) not mirrored by %v", r, i, ticks[i].Value, mirror.Value)
			}
		}
		if ticks[5].Value != 0 || ticks[5].Label != "±∞" {
			t.Errorf("R=%v: center tick = %+v, want 0 labelled ±∞", r, ticks[5])
		}
		if math.Abs(ticks[0].Value+r) > 1e-9*r || ticks[0].Label != "-δ" {
			t.Errorf("R=%v: first tick = %+v, want -R labelled -δ", r, ticks[0])
		}
		if math.Abs(ticks[10].Value-r) > 1e-9*r || ticks[10].Label != "+δ" {
			t.Errorf("R=%v: last tick = %+v, want R labelled +δ", r, ticks[10])
		}
	}
}

func TestCompactTicksLabels(t *testing.T) {
	ticks := CompactTicks(10, TickCount)
	want := []string{"-δ", "1", "2", "-∞+2", "-∞+1", "±∞", "∞-1", "∞-2", "2", "1", "+δ"}
	for i, tk := range ticks {
		if tk.Label != want[i] {
			t.Errorf("tick %d at %v: label %q, want %q", i, tk.Value, tk.Label, want[i])
		}
	}
}

func TestTickLabelMidBandIsUnsigned(t *testing.T) {
	// Both sides of the outer band share the same bare numeral.
	if TickLabel(-6, 10, 5) != TickLabel(6, 10, 5) {
		t.Errorf("mid-band labels differ: %q vs %q", TickLabel(-6, 10, 5), TickLabel(6, 10, 5))
	}
}

func TestCompactTicksRejectsBadRange(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := CompactTicks(r, TickCount); got != nil {
			t.Errorf("CompactTicks(%v) = %v, want nil", r, got)
		}
	}
}

func TestLiminalOverlayZMode(t *testing.T) {
	shapes := LiminalOverlay(plane.PlaneZ, 10, 3)
	want := []float64{10, 5, 3, 0.05}
	if len(shapes) != len(want) {
		t.Fatalf("got %d shapes, want %d", len(shapes), len(want))
	}
	for i, s := range shapes {
		if math.Abs(s.Radius()-want[i]) > 1e-12 {
			t.Errorf("shape %d radius = %v, want %v", i, s.Radius(), want[i])
		}
		if s.Type != "circle" || s.XRef != "x" || s.YRef != "y" {
			t.Errorf("shape %d not a data-space circle: %+v", i, s)
		}
	}
	if shapes[0].Line.Dash != "dot" || shapes[2].Line.Dash != "dash" || shapes[1].Line.Dash != "" {
		t.Error("unexpected outline dash styles")
	}
}

func TestLiminalOverlayOtherModes(t *testing.T) {
	for _, m := range []plane.PlaneMode{plane.PlaneTau, plane.PlaneW} {
		for _, rho := range []float64{0.5, 3, 100} {
			if got := LiminalOverlay(m, 10, rho); len(got) != 0 {
				t.Errorf("mode %s rho %v: got %d shapes, want 0", m, rho, len(got))
			}
		}
	}
}

func TestClampLiminalRadius(t *testing.T) {
	tests := []struct {
		rho, r, want float64
	}{
		{3, 10, 3},
		{12, 10, 10},
		{0, 10, 0.1},
		{-2, 10, 0.1},
		{math.NaN(), 0.05, 0.05},
	}
	for _, tt := range tests {
		if got := ClampLiminalRadius(tt.rho, tt.r); got != tt.want {
			t.Errorf("ClampLiminalRadius(%v, %v) = %v, want %v", tt.rho, tt.r, got, tt.want)
		}
	}
}
