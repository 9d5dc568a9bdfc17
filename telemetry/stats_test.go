package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	s := ComputeSpeedStats(values)

	if math.Abs(s.Mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", s.Mean)
	}
	// Population standard deviation of 0.1..1.0
	if math.Abs(s.Std-0.2872) > 0.001 {
		t.Errorf("std = %v, want ~0.2872", s.Std)
	}
	if math.Abs(s.P10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", s.P10)
	}
	if math.Abs(s.P50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", s.P50)
	}
	if math.Abs(s.P90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", s.P90)
	}
	if s.Max != 1.0 {
		t.Errorf("max = %v, want 1", s.Max)
	}
}

func TestComputeSpeedStatsEmpty(t *testing.T) {
	if s := ComputeSpeedStats(nil); s != (SpeedStats{}) {
		t.Errorf("empty slice should return zero stats, got %+v", s)
	}
}

func TestComputeSpeedStatsDoesNotReorder(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeSpeedStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}
