package grid

import (
	"math"
	"testing"

	"github.com/pthm-cable/currents/dataset"
)

const eps = 1e-9

func TestNormalizeLongitude(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{181, -179},
		{-181, 179},
		{360, 0},
		{540, 180},
		{-720, 0},
		{90.5, 90.5},
	}

	for _, tt := range tests {
		got := NormalizeLongitude(tt.in)
		if math.Abs(got-tt.want) > eps {
			t.Errorf("NormalizeLongitude(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLongitudeIdempotent(t *testing.T) {
	for lon := -1000.0; lon <= 1000; lon += 7.3 {
		once := NormalizeLongitude(lon)
		if once <= -180 || once > 180 {
			t.Fatalf("NormalizeLongitude(%v) = %v, outside (-180, 180]", lon, once)
		}
		if twice := NormalizeLongitude(once); math.Abs(twice-once) > eps {
			t.Fatalf("not idempotent at %v: %v then %v", lon, once, twice)
		}
	}
}

func TestInterpolateLongitude(t *testing.T) {
	tests := []struct {
		name    string
		a, b, t float64
		want    float64
	}{
		{"antimeridian midpoint", 179, -179, 0.5, 180},
		{"antimeridian reversed", -179, 179, 0.5, 180},
		{"antimeridian quarter", 170, -170, 0.25, 175},
		{"ordinary", 10, 20, 0.5, 15},
		{"start", 10, 20, 0, 10},
		{"end", 10, 20, 1, 20},
		{"unnormalized input", 350, 10, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateLongitude(tt.a, tt.b, tt.t)
			if math.Abs(math.Abs(got)-math.Abs(tt.want)) > eps {
				t.Errorf("InterpolateLongitude(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.t, got, tt.want)
			}
			if got <= -180 || got > 180 {
				t.Errorf("result %v outside (-180, 180]", got)
			}
		})
	}
}

// testGeometry returns a single-face 3x3 grid with lon = 10*i and lat = 5*j.
func testGeometry(t *testing.T, interpolate bool) *Geometry {
	t.Helper()
	d := dataset.NewGrid(1, 1, 3, 3)
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			d.SetCoord(0, j, i, float64(10*i), float64(5*j))
		}
	}
	g, err := NewGeometry(d, interpolate)
	if err != nil {
		t.Fatalf("NewGeometry error: %v", err)
	}
	return g
}

func TestDirectLookup(t *testing.T) {
	g := testGeometry(t, false)

	tests := []struct {
		name             string
		i, j             float64
		wantLon, wantLat float64
	}{
		{"exact", 1, 2, 10, 10},
		{"rounds down", 1.4, 0.2, 10, 0},
		{"rounds half up", 0.5, 1.5, 10, 10},
		{"clamps low", -5, -1, 0, 0},
		{"clamps high", 99, 7, 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lon, lat := g.DirectLookup(0, tt.i, tt.j)
			if lon != tt.wantLon || lat != tt.wantLat {
				t.Errorf("DirectLookup(%v, %v) = (%v, %v), want (%v, %v)", tt.i, tt.j, lon, lat, tt.wantLon, tt.wantLat)
			}
		})
	}
}

func TestInterpolatedLookup(t *testing.T) {
	g := testGeometry(t, true)

	lon, lat := g.InterpolatedLookup(0, 0.5, 1.25)
	if math.Abs(lon-5) > eps || math.Abs(lat-6.25) > eps {
		t.Errorf("InterpolatedLookup(0.5, 1.25) = (%v, %v), want (5, 6.25)", lon, lat)
	}

	// Clamped to the far corner, both axes collapse.
	lon, lat = g.InterpolatedLookup(0, 10, 10)
	if lon != 20 || lat != 10 {
		t.Errorf("InterpolatedLookup(10, 10) = (%v, %v), want (20, 10)", lon, lat)
	}
}

func TestInterpolatedLookupDegenerateAxis(t *testing.T) {
	g := testGeometry(t, true)

	// i is integral, so the floor corner is returned without blending j.
	lon, lat := g.InterpolatedLookup(0, 1, 1.7)
	if lon != 10 || lat != 5 {
		t.Errorf("InterpolatedLookup(1, 1.7) = (%v, %v), want (10, 5)", lon, lat)
	}

	lon, lat = g.InterpolatedLookup(0, 0.3, 2)
	if lon != 0 || lat != 10 {
		t.Errorf("InterpolatedLookup(0.3, 2) = (%v, %v), want (0, 10)", lon, lat)
	}
}

func TestInterpolatedLookupAcrossAntimeridian(t *testing.T) {
	d := dataset.NewGrid(1, 1, 2, 2)
	d.SetCoord(0, 0, 0, 179, 0)
	d.SetCoord(0, 0, 1, -179, 0)
	d.SetCoord(0, 1, 0, 179, 1)
	d.SetCoord(0, 1, 1, -179, 1)
	g, err := NewGeometry(d, true)
	if err != nil {
		t.Fatal(err)
	}

	lon, lat := g.InterpolatedLookup(0, 0.5, 0.5)
	if math.Abs(math.Abs(lon)-180) > eps {
		t.Errorf("lon = %v, want ±180", lon)
	}
	if math.Abs(lat-0.5) > eps {
		t.Errorf("lat = %v, want 0.5", lat)
	}
}

func TestLookupDispatch(t *testing.T) {
	direct := testGeometry(t, false)
	interp := testGeometry(t, true)

	if lon, _ := direct.Lookup(0, 0.4, 0.5); lon != 0 {
		t.Errorf("direct Lookup lon = %v, want 0", lon)
	}
	if lon, _ := interp.Lookup(0, 0.4, 0.5); math.Abs(lon-4) > eps {
		t.Errorf("interpolated Lookup lon = %v, want 4", lon)
	}
}
