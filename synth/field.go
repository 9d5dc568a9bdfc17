// Package synth generates synthetic current datasets from simplex noise.
package synth

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/currents/dataset"
)

// Params controls synthetic current generation.
type Params struct {
	Depths     int
	Faces      int
	Size       int     // cells per face edge
	Seed       int64   // noise seed
	Scale      float64 // noise frequency on the unit sphere
	Amplitude  float64 // fastest current in grid cells per tick
	DepthDecay float64 // amplitude multiplier per depth layer
	Land       float64 // cells with land noise above this are no-data; >= 1 disables
	LandValue  float64 // value stored for land cells (NaN for NetCDF)
}

// DefaultParams returns parameters that give visible gyres at the
// viewer's default max magnitude.
func DefaultParams() Params {
	return Params{
		Depths:     1,
		Faces:      3,
		Size:       90,
		Seed:       1,
		Scale:      2.5,
		Amplitude:  0.08,
		DepthDecay: 0.85,
		Land:       0.62,
		LandValue:  math.NaN(),
	}
}

// Generate builds a dataset whose currents are the grid-space curl of a
// simplex noise streamfunction, so the flow forms closed eddies.
func Generate(p Params) *dataset.Dataset {
	d := dataset.NewGrid(p.Depths, p.Faces, p.Size, p.Size)
	flow := opensimplex.New(p.Seed)
	land := opensimplex.NewNormalized(p.Seed + 1)

	n := p.Size
	psi := make([]float64, n*n)
	amp := p.Amplitude

	for depth := 0; depth < p.Depths; depth++ {
		w := float64(depth) * 0.35
		for f := 0; f < p.Faces; f++ {
			for j := 0; j < n; j++ {
				for i := 0; i < n; i++ {
					x, y, z := unitVector(d.Lon.Get(f, j, i), d.Lat.Get(f, j, i))
					psi[j*n+i] = flow.Eval4(x*p.Scale, y*p.Scale, z*p.Scale, w)
				}
			}

			var maxSpeed float64
			for j := 0; j < n; j++ {
				for i := 0; i < n; i++ {
					u, v := curl(psi, n, i, j)
					maxSpeed = math.Max(maxSpeed, math.Hypot(u, v))
				}
			}
			scale := 0.0
			if maxSpeed > 0 {
				scale = amp / maxSpeed
			}

			for j := 0; j < n; j++ {
				for i := 0; i < n; i++ {
					if p.Land < 1 {
						x, y, z := unitVector(d.Lon.Get(f, j, i), d.Lat.Get(f, j, i))
						if land.Eval3(x*1.5, y*1.5, z*1.5) > p.Land {
							d.SetVelocity(depth, f, j, i, p.LandValue, p.LandValue)
							continue
						}
					}
					u, v := curl(psi, n, i, j)
					d.SetVelocity(depth, f, j, i, u*scale, v*scale)
				}
			}
		}
		amp *= p.DepthDecay
	}
	return d
}

// curl returns (dpsi/dj, -dpsi/di) using central differences, one-sided at
// the edges.
func curl(psi []float64, n, i, j int) (u, v float64) {
	at := func(i, j int) float64 { return psi[j*n+i] }
	i0, i1 := max(i-1, 0), min(i+1, n-1)
	j0, j1 := max(j-1, 0), min(j+1, n-1)
	if j1 > j0 {
		u = (at(i, j1) - at(i, j0)) / float64(j1-j0)
	}
	if i1 > i0 {
		v = -(at(i1, j) - at(i0, j)) / float64(i1-i0)
	}
	return u, v
}

func unitVector(lon, lat float64) (x, y, z float64) {
	lambda := lon * math.Pi / 180
	phi := lat * math.Pi / 180
	return math.Cos(phi) * math.Cos(lambda), math.Cos(phi) * math.Sin(lambda), math.Sin(phi)
}

// Speeds returns the current speed of every cell on one face, row-major by
// (j, i), along with the fastest finite speed. No-data cells are NaN.
func Speeds(d *dataset.Dataset, depth, face int) ([]float64, float64) {
	nj, ni := d.Metadata.GridShape[1], d.Metadata.GridShape[2]
	out := make([]float64, nj*ni)
	var fastest float64
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			s := math.Hypot(d.U.Get(depth, face, j, i), d.V.Get(depth, face, j, i))
			out[j*ni+i] = s
			if !math.IsNaN(s) && s > fastest {
				fastest = s
			}
		}
	}
	return out, fastest
}
