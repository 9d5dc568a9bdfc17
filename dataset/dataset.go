// Package dataset holds the gridded ocean current field and its loaders.
package dataset

import (
	"errors"
	"fmt"

	"github.com/ctessum/sparse"
)

// ErrMissingField is returned when a required array is absent from a dataset.
var ErrMissingField = errors.New("dataset: missing field")

// Metadata describes the grid extent of a dataset.
// GridShape is [depthCount, jCount, iCount]; the face count comes from the arrays.
type Metadata struct {
	GridShape [3]int `json:"gridShape"`
}

// Dataset is a loaded current field.
//
// U and V are indexed [depth][face][j][i] in grid cells per tick.
// Lon and Lat are indexed [face][j][i] in degrees and do not vary with depth.
type Dataset struct {
	Metadata Metadata

	U, V     *sparse.DenseArray
	Lon, Lat *sparse.DenseArray
}

// Depths returns the number of depth layers.
func (d *Dataset) Depths() int { return d.Metadata.GridShape[0] }

// NJ returns the number of rows per face.
func (d *Dataset) NJ() int { return d.Metadata.GridShape[1] }

// NI returns the number of columns per face.
func (d *Dataset) NI() int { return d.Metadata.GridShape[2] }

// Faces returns the number of grid faces.
func (d *Dataset) Faces() int {
	if d.Lon == nil || len(d.Lon.Shape) == 0 {
		return 0
	}
	return d.Lon.Shape[0]
}

// Validate checks that every required array is present.
// Shape consistency is the loader's responsibility.
func (d *Dataset) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: dataset", ErrMissingField)
	}
	fields := []struct {
		name string
		arr  *sparse.DenseArray
	}{
		{"data.U", d.U},
		{"data.V", d.V},
		{"grid.lon", d.Lon},
		{"grid.lat", d.Lat},
	}
	for _, f := range fields {
		if f.arr == nil || len(f.arr.Elements) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	for _, n := range d.Metadata.GridShape {
		if n <= 0 {
			return fmt.Errorf("%w: metadata.gridShape", ErrMissingField)
		}
	}
	return nil
}

// FromNested builds a Dataset from nested slices as they appear in the JSON format.
func FromNested(gridShape [3]int, u, v [][][][]float64, lon, lat [][][]float64) (*Dataset, error) {
	d := &Dataset{Metadata: Metadata{GridShape: gridShape}}
	var err error
	if d.U, err = flatten4(u); err != nil {
		return nil, fmt.Errorf("data.U: %w", err)
	}
	if d.V, err = flatten4(v); err != nil {
		return nil, fmt.Errorf("data.V: %w", err)
	}
	if d.Lon, err = flatten3(lon); err != nil {
		return nil, fmt.Errorf("grid.lon: %w", err)
	}
	if d.Lat, err = flatten3(lat); err != nil {
		return nil, fmt.Errorf("grid.lat: %w", err)
	}
	return d, nil
}

func flatten4(a [][][][]float64) (*sparse.DenseArray, error) {
	if len(a) == 0 || len(a[0]) == 0 || len(a[0][0]) == 0 || len(a[0][0][0]) == 0 {
		return nil, nil
	}
	nd, nf, nj, ni := len(a), len(a[0]), len(a[0][0]), len(a[0][0][0])
	out := sparse.ZerosDense(nd, nf, nj, ni)
	idx := 0
	for d := range a {
		if len(a[d]) != nf {
			return nil, fmt.Errorf("ragged array at depth %d", d)
		}
		for f := range a[d] {
			if len(a[d][f]) != nj {
				return nil, fmt.Errorf("ragged array at [%d][%d]", d, f)
			}
			for j := range a[d][f] {
				if len(a[d][f][j]) != ni {
					return nil, fmt.Errorf("ragged array at [%d][%d][%d]", d, f, j)
				}
				copy(out.Elements[idx:idx+ni], a[d][f][j])
				idx += ni
			}
		}
	}
	return out, nil
}

func flatten3(a [][][]float64) (*sparse.DenseArray, error) {
	if len(a) == 0 || len(a[0]) == 0 || len(a[0][0]) == 0 {
		return nil, nil
	}
	nf, nj, ni := len(a), len(a[0]), len(a[0][0])
	out := sparse.ZerosDense(nf, nj, ni)
	idx := 0
	for f := range a {
		if len(a[f]) != nj {
			return nil, fmt.Errorf("ragged array at face %d", f)
		}
		for j := range a[f] {
			if len(a[f][j]) != ni {
				return nil, fmt.Errorf("ragged array at [%d][%d]", f, j)
			}
			copy(out.Elements[idx:idx+ni], a[f][j])
			idx += ni
		}
	}
	return out, nil
}
