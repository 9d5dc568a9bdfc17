package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// jsonFile mirrors the on-disk JSON layout.
type jsonFile struct {
	Metadata struct {
		GridShape []int `json:"gridShape"`
	} `json:"metadata"`
	Data struct {
		U [][][][]float64 `json:"U"`
		V [][][][]float64 `json:"V"`
	} `json:"data"`
	Grid struct {
		Lon [][][]float64 `json:"lon"`
		Lat [][][]float64 `json:"lat"`
	} `json:"grid"`
}

// ReadJSON decodes a dataset from r. Null values (land cells) decode as zero.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var f jsonFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if len(f.Metadata.GridShape) != 3 {
		return nil, fmt.Errorf("%w: metadata.gridShape", ErrMissingField)
	}
	shape := [3]int{f.Metadata.GridShape[0], f.Metadata.GridShape[1], f.Metadata.GridShape[2]}

	d, err := FromNested(shape, f.Data.U, f.Data.V, f.Grid.Lon, f.Grid.Lat)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadJSONFile decodes a dataset from a JSON file.
func ReadJSONFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes d in the JSON layout read by ReadJSON.
func WriteJSON(w io.Writer, d *Dataset) error {
	var f jsonFile
	f.Metadata.GridShape = d.Metadata.GridShape[:]
	f.Data.U = nest4(d.U.Elements, d.U.Shape)
	f.Data.V = nest4(d.V.Elements, d.V.Shape)
	f.Grid.Lon = nest3(d.Lon.Elements, d.Lon.Shape)
	f.Grid.Lat = nest3(d.Lat.Elements, d.Lat.Shape)
	if err := json.NewEncoder(w).Encode(&f); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	return nil
}

func nest3(e []float64, shape []int) [][][]float64 {
	nf, nj, ni := shape[0], shape[1], shape[2]
	out := make([][][]float64, nf)
	idx := 0
	for f := range out {
		out[f] = make([][]float64, nj)
		for j := range out[f] {
			out[f][j] = e[idx : idx+ni]
			idx += ni
		}
	}
	return out
}

func nest4(e []float64, shape []int) [][][][]float64 {
	nd := shape[0]
	stride := shape[1] * shape[2] * shape[3]
	out := make([][][][]float64, nd)
	for d := range out {
		out[d] = nest3(e[d*stride:(d+1)*stride], shape[1:])
	}
	return out
}
