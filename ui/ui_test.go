package ui

import (
	"math"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/currents/systems"
)

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()
	if !reg.IsEnabled(OverlayHUD) || !reg.IsEnabled(OverlayOutline) {
		t.Error("HUD and outline should start enabled")
	}
	if reg.IsEnabled(OverlayPerf) || reg.IsEnabled(OverlayInspector) {
		t.Error("perf and inspector should start disabled")
	}
	if got := reg.Categories(); len(got) != 2 || got[0] != "visual" || got[1] != "panels" {
		t.Errorf("Categories() = %v", got)
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.SetEnabled(OverlayPerf, true)

	id, on, ok := reg.HandleKeyPress(rl.KeyI)
	if !ok || id != OverlayInspector || !on {
		t.Fatalf("HandleKeyPress(I) = %v, %v, %v", id, on, ok)
	}
	if reg.IsEnabled(OverlayPerf) {
		t.Error("enabling inspector should disable perf")
	}

	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle")
	}
	if reg.Toggle("missing") {
		t.Error("unknown overlay toggled on")
	}
}

func TestNearestParticle(t *testing.T) {
	ps := []systems.Particle{
		{To: r2.Vec{X: 10, Y: 10}},
		{To: r2.Vec{X: 100, Y: 100}},
		{To: r2.Vec{X: 104, Y: 100}},
		{To: r2.Vec{X: math.NaN(), Y: 0}},
	}

	tests := []struct {
		name   string
		x, y   float64
		radius float64
		want   int
	}{
		{"exact", 10, 10, 5, 0},
		{"closest of two", 103, 100, 10, 2},
		{"out of radius", 50, 50, 5, -1},
		{"empty radius", 10, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearestParticle(ps, tt.x, tt.y, tt.radius); got != tt.want {
				t.Errorf("NearestParticle(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if NearestParticle(nil, 0, 0, 10) != -1 {
		t.Error("no particles should return -1")
	}
}

func TestParticleFieldValue(t *testing.T) {
	p := systems.Particle{Face: 2, I: 3.5, J: 4.5, U: 0.01, V: -0.02, M: 0.3, Lifespan: 0.7}
	tests := map[string]float64{
		"face": 2, "i": 3.5, "j": 4.5, "u": 0.01, "v": -0.02, "speed": 0.3, "life": 0.7, "bogus": 0,
	}
	for id, want := range tests {
		if got := ParticleFieldValue(p, id); got != want {
			t.Errorf("ParticleFieldValue(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestControlStateClamp(t *testing.T) {
	s := ControlState{
		FadeAlpha:         0,
		LineWidth:         10,
		TrailHue:          180,
		TrailSaturation:   -1,
		MaxMagnitude:      0.05,
		LifespanDecrement: 1,
	}.Clamp()

	want := ControlState{
		FadeAlpha:         0.01,
		LineWidth:         4,
		TrailHue:          180,
		TrailSaturation:   0,
		MaxMagnitude:      0.05,
		LifespanDecrement: 0.05,
	}
	if s != want {
		t.Errorf("Clamp() = %+v, want %+v", s, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, -0.05, 0.05, 0.5},
		{1, 1, 1, 0},
		{math.NaN(), 0, 1, 0},
	}
	for _, tt := range tests {
		if got := normalize(tt.v, tt.lo, tt.hi); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("normalize(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestControlsLegend(t *testing.T) {
	legend := ControlsLegend(NewOverlayRegistry())
	for _, want := range []string{"Space: pause", "Home: reset view", "G: globe outline", "Tab: controls", "I: inspector"} {
		if !strings.Contains(legend, want) {
			t.Errorf("legend %q missing %q", legend, want)
		}
	}
}
