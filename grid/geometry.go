// Package grid maps fractional grid indices to geographic coordinates and
// samples the current field.
package grid

import (
	"fmt"
	"math"

	"github.com/pthm-cable/currents/dataset"
)

// Geometry converts (face, i, j) grid coordinates to (lon, lat).
// Indices outside the grid are clamped to the nearest edge cell.
type Geometry struct {
	lon, lat    []float64
	faces       int
	ni, nj      int
	maxI, maxJ  float64
	interpolate bool
}

// NewGeometry builds a Geometry over the coordinate arrays of d.
// When interpolate is true, Lookup blends between neighbouring cells.
func NewGeometry(d *dataset.Dataset, interpolate bool) (*Geometry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	shape := d.Lon.Shape
	if len(shape) != 3 || shape[1] != d.NJ() || shape[2] != d.NI() {
		return nil, fmt.Errorf("grid: coordinate shape %v does not match grid shape %v", shape, d.Metadata.GridShape)
	}
	return &Geometry{
		lon:         d.Lon.Elements,
		lat:         d.Lat.Elements,
		faces:       shape[0],
		ni:          shape[2],
		nj:          shape[1],
		maxI:        float64(shape[2] - 1),
		maxJ:        float64(shape[1] - 1),
		interpolate: interpolate,
	}, nil
}

// Faces returns the number of faces in the grid.
func (g *Geometry) Faces() int { return g.faces }

// Size returns the column and row counts of each face.
func (g *Geometry) Size() (ni, nj int) { return g.ni, g.nj }

// Interpolated reports whether Lookup blends between cells.
func (g *Geometry) Interpolated() bool { return g.interpolate }

// Lookup returns the coordinate for (face, i, j) using the configured method.
func (g *Geometry) Lookup(face int, i, j float64) (lon, lat float64) {
	if g.interpolate {
		return g.InterpolatedLookup(face, i, j)
	}
	return g.DirectLookup(face, i, j)
}

// DirectLookup returns the stored coordinate of the nearest cell.
func (g *Geometry) DirectLookup(face int, i, j float64) (lon, lat float64) {
	ii := int(clamp(roundHalfUp(i), 0, g.maxI))
	jj := int(clamp(roundHalfUp(j), 0, g.maxJ))
	k := g.index(face, jj, ii)
	return g.lon[k], g.lat[k]
}

// InterpolatedLookup blends the four surrounding cells. Latitude is bilinear;
// longitude is interpolated along the shorter arc on each axis.
// If either axis has zero width, the cell at the floor corner is returned.
func (g *Geometry) InterpolatedLookup(face int, i, j float64) (lon, lat float64) {
	i = clamp(i, 0, g.maxI)
	j = clamp(j, 0, g.maxJ)

	x1, x2 := math.Floor(i), math.Ceil(i)
	y1, y2 := math.Floor(j), math.Ceil(j)

	k11 := g.index(face, int(y1), int(x1))
	if x1 == x2 || y1 == y2 {
		return g.lon[k11], g.lat[k11]
	}
	k21 := g.index(face, int(y1), int(x2))
	k12 := g.index(face, int(y2), int(x1))
	k22 := g.index(face, int(y2), int(x2))

	tx := i - x1
	ty := j - y1

	latBottom := g.lat[k11] + (g.lat[k21]-g.lat[k11])*tx
	latTop := g.lat[k12] + (g.lat[k22]-g.lat[k12])*tx
	lat = latBottom + (latTop-latBottom)*ty

	lonBottom := InterpolateLongitude(g.lon[k11], g.lon[k21], tx)
	lonTop := InterpolateLongitude(g.lon[k12], g.lon[k22], tx)
	lon = InterpolateLongitude(lonBottom, lonTop, ty)
	return lon, lat
}

func (g *Geometry) index(face, j, i int) int {
	return (face*g.nj+j)*g.ni + i
}

// NormalizeLongitude maps lon into (-180, 180].
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon <= 0 {
		lon += 360
	}
	return lon - 180
}

// InterpolateLongitude blends a towards b by t along the shorter arc,
// so 179 and -179 meet at 180 rather than at 0.
func InterpolateLongitude(a, b, t float64) float64 {
	a = NormalizeLongitude(a)
	b = NormalizeLongitude(b)
	if math.Abs(a-b) > 180 {
		if a > b {
			a -= 360
		} else {
			b -= 360
		}
	}
	return NormalizeLongitude(a + (b-a)*t)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// roundHalfUp rounds to the nearest integer with halves going towards +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
