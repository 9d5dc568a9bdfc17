package grid

import (
	"fmt"
	"math"

	"github.com/pthm-cable/currents/dataset"
)

// Sampler reads (u, v) from one depth layer of the current field.
// Unlike Geometry it does not clamp: indices outside the field have no data.
type Sampler struct {
	u, v   []float64
	depth  int
	faces  int
	ni, nj int
}

// NewSampler returns a Sampler for the given depth layer of d.
func NewSampler(d *dataset.Dataset, depth int) (*Sampler, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	shape := d.U.Shape
	if len(shape) != 4 {
		return nil, fmt.Errorf("grid: velocity array has %d dimensions, want 4", len(shape))
	}
	if depth < 0 || depth >= shape[0] {
		return nil, fmt.Errorf("grid: depth %d outside [0, %d)", depth, shape[0])
	}
	stride := shape[1] * shape[2] * shape[3]
	off := depth * stride
	return &Sampler{
		u:     d.U.Elements[off : off+stride],
		v:     d.V.Elements[off : off+stride],
		depth: depth,
		faces: shape[1],
		nj:    shape[2],
		ni:    shape[3],
	}, nil
}

// Depth returns the sampled depth layer.
func (s *Sampler) Depth() int { return s.depth }

// Sample returns the current at the cell nearest (i, j) on face.
// ok is false when the rounded index or the face lies outside the field.
func (s *Sampler) Sample(face int, i, j float64) (u, v float64, ok bool) {
	if face < 0 || face >= s.faces {
		return 0, 0, false
	}
	ri := roundHalfUp(i)
	rj := roundHalfUp(j)
	// NaN fails both comparisons
	if !(ri >= 0 && ri < float64(s.ni)) || !(rj >= 0 && rj < float64(s.nj)) {
		return 0, 0, false
	}
	k := (face*s.nj+int(rj))*s.ni + int(ri)
	u, v = s.u[k], s.v[k]
	if math.IsNaN(u) || math.IsNaN(v) {
		return 0, 0, false
	}
	return u, v, true
}
