package synth

import (
	"math"
	"testing"
)

func smallParams() Params {
	p := DefaultParams()
	p.Depths = 2
	p.Size = 16
	p.Land = 1 // no land
	return p
}

func TestGenerateShape(t *testing.T) {
	p := smallParams()
	d := Generate(p)

	if d.Metadata.GridShape != [3]int{2, 16, 16} {
		t.Errorf("GridShape = %v, want [2 16 16]", d.Metadata.GridShape)
	}
	if d.Faces() != 3 {
		t.Errorf("Faces() = %d, want 3", d.Faces())
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestGenerateAmplitude(t *testing.T) {
	p := smallParams()
	d := Generate(p)

	for depth, want := range []float64{p.Amplitude, p.Amplitude * p.DepthDecay} {
		for f := 0; f < p.Faces; f++ {
			var maxSpeed float64
			for j := 0; j < p.Size; j++ {
				for i := 0; i < p.Size; i++ {
					maxSpeed = math.Max(maxSpeed, math.Hypot(d.U.Get(depth, f, j, i), d.V.Get(depth, f, j, i)))
				}
			}
			if math.Abs(maxSpeed-want) > 1e-9 {
				t.Errorf("depth %d face %d: max speed = %v, want %v", depth, f, maxSpeed, want)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	p := smallParams()
	a := Generate(p)
	b := Generate(p)
	for k := range a.U.Elements {
		if a.U.Elements[k] != b.U.Elements[k] {
			t.Fatalf("element %d differs between runs with the same seed", k)
		}
	}

	p.Seed = 99
	c := Generate(p)
	same := true
	for k := range a.U.Elements {
		if a.U.Elements[k] != c.U.Elements[k] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical fields")
	}
}

func TestGenerateLand(t *testing.T) {
	p := smallParams()
	p.Land = 0.55
	d := Generate(p)

	land := 0
	for _, u := range d.U.Elements {
		if math.IsNaN(u) {
			land++
		}
	}
	if land == 0 || land == len(d.U.Elements) {
		t.Errorf("land cells = %d of %d, want some but not all", land, len(d.U.Elements))
	}
}

func TestCurlEdges(t *testing.T) {
	// psi = i + 2j on a 3x3 grid: u = dpsi/dj = 2, v = -dpsi/di = -1 everywhere.
	n := 3
	psi := make([]float64, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			psi[j*n+i] = float64(i) + 2*float64(j)
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			u, v := curl(psi, n, i, j)
			if u != 2 || v != -1 {
				t.Errorf("curl at (%d,%d) = (%v, %v), want (2, -1)", i, j, u, v)
			}
		}
	}
}

func TestSpeeds(t *testing.T) {
	p := smallParams()
	p.Land = 0.55
	d := Generate(p)

	speeds, fastest := Speeds(d, 0, 1)
	if len(speeds) != p.Size*p.Size {
		t.Fatalf("len = %d, want %d", len(speeds), p.Size*p.Size)
	}
	if fastest <= 0 || fastest > p.Amplitude+1e-9 {
		t.Errorf("fastest = %v, want in (0, %v]", fastest, p.Amplitude)
	}
	nan := 0
	for _, s := range speeds {
		if math.IsNaN(s) {
			nan++
		}
	}
	if nan == 0 {
		t.Error("land cells should report NaN speed")
	}
}
