package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"golang.org/x/sync/errgroup"
)

// NetCDF variable names. U and V have dimensions (depth, face, j, i);
// lon and lat have dimensions (face, j, i).
const (
	varU   = "U"
	varV   = "V"
	varLon = "lon"
	varLat = "lat"
)

// ReadNetCDFFile loads a dataset from a NetCDF file.
// The four variables are read concurrently.
func ReadNetCDFFile(ctx context.Context, path string) (*Dataset, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer ff.Close()

	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("reading netcdf header: %w", err)
	}

	for _, name := range []string{varU, varV, varLon, varLat} {
		if len(f.Header.Lengths(name)) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}

	d := &Dataset{}
	g, ctx := errgroup.WithContext(ctx)
	targets := map[string]**sparse.DenseArray{
		varU:   &d.U,
		varV:   &d.V,
		varLon: &d.Lon,
		varLat: &d.Lat,
	}
	for name, dst := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			arr, err := readVar(f, name)
			if err != nil {
				return fmt.Errorf("reading variable %s: %w", name, err)
			}
			*dst = arr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(d.U.Shape) != 4 || len(d.Lon.Shape) != 3 {
		return nil, fmt.Errorf("dataset: unexpected dimensions U%v lon%v", d.U.Shape, d.Lon.Shape)
	}
	d.Metadata.GridShape = [3]int{d.U.Shape[0], d.U.Shape[2], d.U.Shape[3]}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func readVar(f *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(name)
	n := 1
	for _, dim := range dims {
		n *= dim
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}

	out := sparse.ZerosDense(dims...)
	switch vals := buf.(type) {
	case []float64:
		copy(out.Elements, vals)
	case []float32:
		for i, v := range vals {
			out.Elements[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("unsupported element type %T", buf)
	}
	return out, nil
}

// WriteNetCDFFile writes d to a new NetCDF file at path.
func WriteNetCDFFile(path string, d *Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dataset: %w", err)
	}
	defer w.Close()

	h := cdf.NewHeader(
		[]string{"depth", "face", "j", "i"},
		[]int{d.U.Shape[0], d.U.Shape[1], d.U.Shape[2], d.U.Shape[3]})
	h.AddAttribute("", "comment", "ocean current field")
	h.AddVariable(varU, []string{"depth", "face", "j", "i"}, []float64{0})
	h.AddAttribute(varU, "units", "grid cells per tick")
	h.AddVariable(varV, []string{"depth", "face", "j", "i"}, []float64{0})
	h.AddAttribute(varV, "units", "grid cells per tick")
	h.AddVariable(varLon, []string{"face", "j", "i"}, []float64{0})
	h.AddAttribute(varLon, "units", "degrees_east")
	h.AddVariable(varLat, []string{"face", "j", "i"}, []float64{0})
	h.AddAttribute(varLat, "units", "degrees_north")
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("writing netcdf header: %w", err)
	}

	vars := []struct {
		name string
		arr  *sparse.DenseArray
	}{{varU, d.U}, {varV, d.V}, {varLon, d.Lon}, {varLat, d.Lat}}
	for _, v := range vars {
		end := f.Header.Lengths(v.name)
		start := make([]int, len(end))
		wr := f.Writer(v.name, start, end)
		if _, err := wr.Write(v.arr.Elements); err != nil {
			return fmt.Errorf("writing variable %s: %w", v.name, err)
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		return err
	}
	return nil
}
