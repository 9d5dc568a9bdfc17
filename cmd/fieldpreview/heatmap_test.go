package main

import (
	"image/color"
	"math"
	"testing"
)

func TestSpeedColor(t *testing.T) {
	tests := []struct {
		v    float64
		want color.RGBA
	}{
		{0, color.RGBA{10, 20, 60, 255}},
		{-1, color.RGBA{10, 20, 60, 255}},
		{0.5, color.RGBA{60, 200, 200, 255}},
		{1, color.RGBA{255, 255, 255, 255}},
		{3, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if got := speedColor(tt.v); got != tt.want {
			t.Errorf("speedColor(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestHeatmap(t *testing.T) {
	px := heatmap([]float64{0, 0.5, 1, math.NaN()}, 1)
	if len(px) != 4 {
		t.Fatalf("len = %d, want 4", len(px))
	}
	if px[2] != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("fastest cell = %v, want white", px[2])
	}
	if px[3] != landColor {
		t.Errorf("NaN cell = %v, want land", px[3])
	}

	still := heatmap([]float64{0, 0}, 0)
	if still[0] != speedColor(0) {
		t.Errorf("zero field = %v, want slowest color", still[0])
	}
}

func TestCommandLine(t *testing.T) {
	p := defaultParams()
	want := "-seed 1 -scale 2.50 -amplitude 0.080 -depth-decay 0.85 -land 0.62"
	if got := commandLine(p); got != want {
		t.Errorf("commandLine = %q, want %q", got, want)
	}
}
