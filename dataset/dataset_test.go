package dataset

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixture() *Dataset {
	d := NewGrid(2, 3, 4, 5)
	for f := 0; f < 3; f++ {
		for j := 0; j < 4; j++ {
			for i := 0; i < 5; i++ {
				d.SetVelocity(1, f, j, i, float64(i)*0.01, float64(j)*-0.02+float64(f))
			}
		}
	}
	return d
}

func TestSettersOverwriteWithZero(t *testing.T) {
	d := NewGrid(1, 1, 3, 3)

	d.SetCoord(0, 0, 0, 0, 0)
	if lon, lat := d.Lon.Get(0, 0, 0), d.Lat.Get(0, 0, 0); lon != 0 || lat != 0 {
		t.Errorf("coord = (%v, %v), want (0, 0)", lon, lat)
	}

	d.SetVelocity(0, 0, 1, 1, 1, 1)
	d.SetVelocity(0, 0, 1, 1, 0, 0)
	if u, v := d.U.Get(0, 0, 1, 1), d.V.Get(0, 0, 1, 1); u != 0 || v != 0 {
		t.Errorf("velocity = (%v, %v), want (0, 0)", u, v)
	}

	d.SetVelocity(0, 0, 2, 2, math.NaN(), math.NaN())
	if !math.IsNaN(d.U.Get(0, 0, 2, 2)) {
		t.Error("NaN velocity not stored")
	}
}

func TestNewGridLayout(t *testing.T) {
	d := NewGrid(1, 3, 10, 10)

	if d.Faces() != 3 || d.NJ() != 10 || d.NI() != 10 || d.Depths() != 1 {
		t.Fatalf("unexpected shape: faces=%d nj=%d ni=%d depths=%d", d.Faces(), d.NJ(), d.NI(), d.Depths())
	}
	if got := d.Lon.Get(0, 0, 0); got != -180 {
		t.Errorf("lon[0][0][0] = %v, want -180", got)
	}
	if got := d.Lon.Get(2, 0, 9); math.Abs(got-180) > 1e-9 {
		t.Errorf("lon[2][0][9] = %v, want 180", got)
	}
	if got := d.Lat.Get(1, 9, 3); math.Abs(got-80) > 1e-9 {
		t.Errorf("lat[1][9][3] = %v, want 80", got)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidateMissingField(t *testing.T) {
	d := fixture()
	d.V = nil

	err := d.Validate()
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("Validate() = %v, want ErrMissingField", err)
	}
	if !strings.Contains(err.Error(), "data.V") {
		t.Errorf("error %q should name the missing field", err)
	}
}

func TestJSONRoundtrip(t *testing.T) {
	d := fixture()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, d); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}

	if got.Metadata.GridShape != d.Metadata.GridShape {
		t.Errorf("grid shape = %v, want %v", got.Metadata.GridShape, d.Metadata.GridShape)
	}
	if u := got.U.Get(1, 2, 3, 4); math.Abs(u-0.04) > 1e-12 {
		t.Errorf("U[1][2][3][4] = %v, want 0.04", u)
	}
	if v := got.V.Get(1, 2, 3, 4); math.Abs(v-(2-0.06)) > 1e-12 {
		t.Errorf("V[1][2][3][4] = %v, want 1.94", v)
	}
	if lon := got.Lon.Get(1, 0, 0); lon != d.Lon.Get(1, 0, 0) {
		t.Errorf("lon[1][0][0] = %v, want %v", lon, d.Lon.Get(1, 0, 0))
	}
}

func TestReadJSONMissingArrays(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no shape", `{"data":{},"grid":{}}`},
		{"no velocity", `{"metadata":{"gridShape":[1,1,1]},"grid":{"lon":[[[0]]],"lat":[[[0]]]}}`},
		{"no grid", `{"metadata":{"gridShape":[1,1,1]},"data":{"U":[[[[0]]]],"V":[[[[0]]]]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.body))
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("ReadJSON() = %v, want ErrMissingField", err)
			}
		})
	}
}

func TestReadJSONNullIsZero(t *testing.T) {
	body := `{"metadata":{"gridShape":[1,1,2]},
		"data":{"U":[[[[null,0.5]]]],"V":[[[[0.1,null]]]]},
		"grid":{"lon":[[[10,20]]],"lat":[[[0,0]]]}}`

	d, err := ReadJSON(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	if d.U.Get(0, 0, 0, 0) != 0 || d.U.Get(0, 0, 0, 1) != 0.5 {
		t.Errorf("U = %v, want [0 0.5]", d.U.Elements)
	}
}

func TestNetCDFRoundtrip(t *testing.T) {
	d := fixture()
	path := filepath.Join(t.TempDir(), "field.nc")

	if err := WriteNetCDFFile(path, d); err != nil {
		t.Fatalf("WriteNetCDFFile error: %v", err)
	}
	got, err := ReadNetCDFFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadNetCDFFile error: %v", err)
	}

	if got.Metadata.GridShape != [3]int{2, 4, 5} {
		t.Errorf("grid shape = %v, want [2 4 5]", got.Metadata.GridShape)
	}
	if got.Faces() != 3 {
		t.Errorf("faces = %d, want 3", got.Faces())
	}
	for i, want := range d.U.Elements {
		if got.U.Elements[i] != want {
			t.Fatalf("U element %d = %v, want %v", i, got.U.Elements[i], want)
		}
	}
	if got.Lat.Get(2, 3, 1) != d.Lat.Get(2, 3, 1) {
		t.Errorf("lat mismatch: %v vs %v", got.Lat.Get(2, 3, 1), d.Lat.Get(2, 3, 1))
	}
}

func TestLoadAsync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(f, fixture()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	l := LoadAsync(context.Background(), path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d, err := l.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait error: %v", err)
	}
	if !l.Ready() {
		t.Error("Ready() should be true after Wait returns")
	}
	if d.Faces() != 3 {
		t.Errorf("faces = %d, want 3", d.Faces())
	}
}

func TestLoadAsyncMissingFile(t *testing.T) {
	l := LoadAsync(context.Background(), filepath.Join(t.TempDir(), "nope.json"))

	if _, err := l.Result(); err == nil {
		t.Error("expected error for missing file")
	}
}
