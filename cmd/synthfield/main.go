// Command synthfield writes a synthetic ocean current dataset for the viewer.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pthm-cable/currents/dataset"
	"github.com/pthm-cable/currents/synth"
)

func main() {
	p := synth.DefaultParams()

	out := flag.String("out", "ocean_currents_data.json", "Output path (.json or .nc)")
	flag.IntVar(&p.Depths, "depths", p.Depths, "Number of depth layers")
	flag.IntVar(&p.Faces, "faces", p.Faces, "Number of faces")
	flag.IntVar(&p.Size, "size", p.Size, "Cells per face edge")
	flag.Int64Var(&p.Seed, "seed", p.Seed, "Noise seed")
	flag.Float64Var(&p.Scale, "scale", p.Scale, "Noise frequency")
	flag.Float64Var(&p.Amplitude, "amplitude", p.Amplitude, "Fastest current in grid cells per tick")
	flag.Float64Var(&p.DepthDecay, "depth-decay", p.DepthDecay, "Amplitude multiplier per depth layer")
	flag.Float64Var(&p.Land, "land", p.Land, "Land noise threshold in [0, 1] (>= 1 disables land)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*out, p); err != nil {
		slog.Error("synthfield failed", "error", err)
		os.Exit(1)
	}
}

func run(out string, p synth.Params) error {
	if p.Depths < 1 || p.Faces < 1 || p.Size < 2 {
		return fmt.Errorf("invalid shape: depths=%d faces=%d size=%d", p.Depths, p.Faces, p.Size)
	}

	isNetCDF := strings.EqualFold(filepath.Ext(out), ".nc")
	if !isNetCDF {
		// JSON has no NaN; land becomes still water.
		p.LandValue = 0
	}

	start := time.Now()
	d := synth.Generate(p)
	if err := d.Validate(); err != nil {
		return err
	}

	if isNetCDF {
		if err := dataset.WriteNetCDFFile(out, d); err != nil {
			return err
		}
	} else {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		if err := dataset.WriteJSON(f, d); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing output: %w", err)
		}
	}

	slog.Info("dataset written",
		"path", out,
		"grid_shape", d.Metadata.GridShape,
		"faces", d.Faces(),
		"seed", p.Seed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
