package dataset

import "github.com/ctessum/sparse"

// NewGrid allocates a zero-velocity dataset with a regular geographic layout:
// face f spans an equal share of longitude starting at -180, and rows span
// latitude -80..80. Used for synthetic fields and fixtures.
func NewGrid(depths, faces, nj, ni int) *Dataset {
	d := &Dataset{
		Metadata: Metadata{GridShape: [3]int{depths, nj, ni}},
		U:        sparse.ZerosDense(depths, faces, nj, ni),
		V:        sparse.ZerosDense(depths, faces, nj, ni),
		Lon:      sparse.ZerosDense(faces, nj, ni),
		Lat:      sparse.ZerosDense(faces, nj, ni),
	}

	faceWidth := 360.0 / float64(faces)
	for f := 0; f < faces; f++ {
		for j := 0; j < nj; j++ {
			lat := -80.0
			if nj > 1 {
				lat += 160.0 * float64(j) / float64(nj-1)
			}
			for i := 0; i < ni; i++ {
				lon := -180.0 + faceWidth*float64(f)
				if ni > 1 {
					lon += faceWidth * float64(i) / float64(ni-1)
				}
				d.SetCoord(f, j, i, lon, lat)
			}
		}
	}
	return d
}

// SetVelocity stores the current at one cell.
func (d *Dataset) SetVelocity(depth, face, j, i int, u, v float64) {
	set(d.U, u, depth, face, j, i)
	set(d.V, v, depth, face, j, i)
}

// SetCoord stores the geographic coordinate of one cell.
func (d *Dataset) SetCoord(face, j, i int, lon, lat float64) {
	set(d.Lon, lon, face, j, i)
	set(d.Lat, lat, face, j, i)
}

// set writes through the flat index. DenseArray.Set skips zero values, which
// would leave an earlier non-zero value in place.
func set(a *sparse.DenseArray, val float64, index ...int) {
	a.Elements[a.Index1d(index...)] = val
}
