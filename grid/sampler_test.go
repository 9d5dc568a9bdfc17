package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/currents/dataset"
)

func testSampler(t *testing.T) *Sampler {
	t.Helper()
	d := dataset.NewGrid(2, 2, 4, 5)
	for f := 0; f < 2; f++ {
		for j := 0; j < 4; j++ {
			for i := 0; i < 5; i++ {
				d.SetVelocity(0, f, j, i, -1, -1)
				d.SetVelocity(1, f, j, i, float64(i)+0.1*float64(f), float64(j))
			}
		}
	}
	d.SetVelocity(1, 1, 3, 4, math.NaN(), 0)
	s, err := NewSampler(d, 1)
	if err != nil {
		t.Fatalf("NewSampler error: %v", err)
	}
	return s
}

func TestSample(t *testing.T) {
	s := testSampler(t)

	tests := []struct {
		name         string
		face         int
		i, j         float64
		wantU, wantV float64
		wantOK       bool
	}{
		{"exact", 0, 2, 3, 2, 3, true},
		{"rounds", 1, 1.6, 0.4, 2.1, 0, true},
		{"half rounds up", 0, 3.5, 1.5, 4, 2, true},
		{"just below zero rounds in", 0, -0.4, 0, 0, 0, true},
		{"negative i", 0, -0.6, 0, 0, 0, false},
		{"i past edge", 0, 4.5, 0, 0, 0, false},
		{"j past edge", 0, 0, 3.5, 0, 0, false},
		{"bad face", 2, 1, 1, 0, 0, false},
		{"negative face", -1, 1, 1, 0, 0, false},
		{"nan index", 0, math.NaN(), 1, 0, 0, false},
		{"nan value", 1, 4, 3, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v, ok := s.Sample(tt.face, tt.i, tt.j)
			if ok != tt.wantOK {
				t.Fatalf("Sample(%d, %v, %v) ok = %v, want %v", tt.face, tt.i, tt.j, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(u-tt.wantU) > eps || math.Abs(v-tt.wantV) > eps {
				t.Errorf("Sample(%d, %v, %v) = (%v, %v), want (%v, %v)", tt.face, tt.i, tt.j, u, v, tt.wantU, tt.wantV)
			}
		})
	}
}

func TestNewSamplerDepthRange(t *testing.T) {
	d := dataset.NewGrid(2, 1, 2, 2)
	for _, depth := range []int{-1, 2} {
		if _, err := NewSampler(d, depth); err == nil {
			t.Errorf("NewSampler(depth=%d) expected error", depth)
		}
	}
}

func TestNewSamplerMissingField(t *testing.T) {
	d := dataset.NewGrid(1, 1, 2, 2)
	d.U = nil
	if _, err := NewSampler(d, 0); !errors.Is(err, dataset.ErrMissingField) {
		t.Errorf("NewSampler error = %v, want ErrMissingField", err)
	}
}
