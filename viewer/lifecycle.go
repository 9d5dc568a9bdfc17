package viewer

import (
	"context"
	"fmt"

	"github.com/pthm-cable/currents/dataset"
	"github.com/pthm-cable/currents/grid"
	"github.com/pthm-cable/currents/systems"
)

// pollLoader installs the dataset once the background load finishes.
// Returns true when the viewer is ready to tick.
func (v *Viewer) pollLoader() bool {
	if v.particles != nil {
		return true
	}
	if v.loadErr != nil || !v.loader.Ready() {
		return false
	}
	d, err := v.loader.Result()
	if err == nil {
		err = v.install(d)
	}
	if err != nil {
		v.loadErr = err
		v.logger.Error("dataset unusable", "path", v.cfg.Dataset.Path, "error", err)
		return false
	}
	return true
}

// WaitReady blocks until the dataset is installed, the load fails, or ctx ends.
func (v *Viewer) WaitReady(ctx context.Context) error {
	if v.particles != nil {
		return nil
	}
	if v.loadErr != nil {
		return v.loadErr
	}
	if _, err := v.loader.Wait(ctx); err != nil && ctx.Err() != nil {
		return err
	}
	if !v.pollLoader() {
		return v.loadErr
	}
	return nil
}

// LoadErr returns the dataset load error, if any.
func (v *Viewer) LoadErr() error { return v.loadErr }

// install builds the geometry, sampler and particle pool for d.
func (v *Viewer) install(d *dataset.Dataset) error {
	geometry, err := grid.NewGeometry(d, v.cfg.Particles.Interpolate)
	if err != nil {
		return fmt.Errorf("building geometry: %w", err)
	}
	sampler, err := grid.NewSampler(d, v.cfg.Dataset.Depth)
	if err != nil {
		return fmt.Errorf("building sampler: %w", err)
	}

	gridSize := float64(v.cfg.Particles.GridSize)
	if gridSize == 0 {
		gridSize = float64(min(d.NI(), d.NJ()))
	}

	opts := systems.Options{
		MaxMagnitude:      v.cfg.Particles.MaxMagnitude,
		LifespanDecrement: v.cfg.Particles.LifespanDecrement,
	}
	ps, err := systems.NewParticleSystem(sampler, geometry, v.proj, opts, v.rng)
	if err != nil {
		return err
	}
	if err := ps.Reset(v.mode, v.cfg.Particles.Count, v.cfg.Particles.Faces, gridSize); err != nil {
		return fmt.Errorf("placing particles: %w", err)
	}

	v.data = d
	v.geometry = geometry
	v.sampler = sampler
	v.gridSize = gridSize
	v.particles = ps

	v.logger.Info("particles placed",
		"count", ps.Len(),
		"mode", v.mode.String(),
		"grid_size", gridSize,
		"faces", v.cfg.Particles.Faces,
		"interpolate", geometry.Interpolated(),
	)
	return nil
}

// Respawn discards the pool and places a fresh one in the given mode.
func (v *Viewer) Respawn(mode systems.SpawnMode) error {
	if v.particles == nil {
		return fmt.Errorf("respawn: dataset not loaded")
	}
	if err := v.particles.Reset(mode, v.cfg.Particles.Count, v.cfg.Particles.Faces, v.gridSize); err != nil {
		return err
	}
	v.mode = mode
	v.selected = -1
	if v.trails != nil {
		v.trails.Clear()
	}
	v.logger.Info("particles respawned", "mode", mode.String(), "count", v.particles.Len())
	return nil
}

// Unload releases GPU resources and flushes telemetry output.
func (v *Viewer) Unload() {
	if v.trails != nil {
		v.trails.Unload()
	}
	if err := v.outputManager.Close(); err != nil {
		v.logger.Error("failed to close output", "error", err)
	}
}
