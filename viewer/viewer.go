// Package viewer runs the current animation: it owns the particle pool,
// paces ticks, and fans each tick's buckets out to the screen, the stream
// hub and telemetry.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ctessum/geom"
	"golang.org/x/time/rate"

	"github.com/pthm-cable/currents/camera"
	"github.com/pthm-cable/currents/config"
	"github.com/pthm-cable/currents/dataset"
	"github.com/pthm-cable/currents/grid"
	"github.com/pthm-cable/currents/mask"
	"github.com/pthm-cable/currents/projection"
	"github.com/pthm-cable/currents/renderer"
	"github.com/pthm-cable/currents/stream"
	"github.com/pthm-cable/currents/systems"
	"github.com/pthm-cable/currents/telemetry"
	"github.com/pthm-cable/currents/theme"
	"github.com/pthm-cable/currents/ui"
)

// Options configures a viewer instance.
type Options struct {
	Headless  bool   // no raylib calls at all
	Unpaced   bool   // headless only: tick as fast as possible
	LogStats  bool   // log window stats via slog
	OutputDir string // CSV output directory ("" = disabled)
	Seed      int64  // 0 = config seed, then time based
	Logger    *slog.Logger
}

// Viewer holds the complete animation state.
type Viewer struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger
	rng    *rand.Rand

	// Dataset and the structures built from it once loaded
	loader    *dataset.Loader
	data      *dataset.Dataset
	geometry  *grid.Geometry
	sampler   *grid.Sampler
	particles *systems.ParticleSystem
	loadErr   error
	gridSize  float64

	// Built at startup
	cam     *camera.Camera
	proj    *projection.Orthographic
	outline geom.Polygon
	mask    *mask.Visibility
	binner  *systems.Binner
	limiter *rate.Limiter
	scheme  theme.Scheme
	mode    systems.SpawnMode

	// Rendering (nil when headless)
	trails        *renderer.TrailRenderer
	globe         *renderer.GlobeRenderer
	overlays      *ui.OverlayRegistry
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel
	controlsPanel *ui.ControlsPanel
	inspector     *ui.Inspector
	controls      ui.ControlState
	selected      int

	hub *stream.Hub

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager

	// State
	tick      int64
	paused    bool
	lastStats systems.TickStats
	lastDrawn int
}

// New creates a viewer and starts loading the dataset in the background.
// In graphics mode the raylib window must already be open.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Viewer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Particles.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mode, err := systems.ParseSpawnMode(cfg.Particles.SpawnMode)
	if err != nil {
		return nil, err
	}

	binCfg := make([]systems.BucketConfig, len(cfg.Bins))
	for i, b := range cfg.Bins {
		binCfg[i] = systems.BucketConfig{Threshold: b.Threshold, Opacity: b.Opacity}
	}
	binner, err := systems.NewBinner(binCfg)
	if err != nil {
		return nil, fmt.Errorf("building bins: %w", err)
	}

	scheme, err := theme.ByName(cfg.Theme.Scheme, theme.PrefersDark())
	if err != nil {
		return nil, err
	}
	scheme = scheme.WithFade(cfg.Animation.FadeAlpha)
	if scheme, err = scheme.WithTrailHSV(cfg.Theme.TrailHue, cfg.Theme.TrailSaturation, cfg.Theme.TrailValue); err != nil {
		return nil, err
	}

	proj := projection.NewOrthographic(
		cfg.Derived.ProjectionScale,
		cfg.Derived.CenterX,
		cfg.Derived.CenterY,
		cfg.Projection.RotateLambda,
		cfg.Projection.RotatePhi,
	)
	outline := proj.Outline(cfg.Projection.OutlineSegments)

	limit := rate.Inf
	if cfg.Derived.FrameInterval > 0 {
		limit = rate.Every(cfg.Derived.FrameInterval)
	}

	v := &Viewer{
		cfg:           cfg,
		opts:          opts,
		logger:        logger,
		rng:           rand.New(rand.NewSource(seed)),
		cam:           camera.New(cfg.Projection.RotateLambda, cfg.Projection.RotatePhi, cfg.Derived.ProjectionScale),
		proj:          proj,
		outline:       outline,
		mask:          mask.Build(outline, cfg.Screen.Width, cfg.Screen.Height),
		binner:        binner,
		limiter:       rate.NewLimiter(limit, 1),
		scheme:        scheme,
		mode:          mode,
		selected:      -1,
		controls: ui.ControlState{
			FadeAlpha:         cfg.Animation.FadeAlpha,
			LineWidth:         cfg.Animation.LineWidth,
			TrailHue:          cfg.Theme.TrailHue,
			TrailSaturation:   cfg.Theme.TrailSaturation,
			MaxMagnitude:      cfg.Particles.MaxMagnitude,
			LifespanDecrement: cfg.Particles.LifespanDecrement,
		},
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}

	v.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := v.outputManager.WriteConfig(cfg); err != nil {
		v.outputManager.Close()
		return nil, err
	}

	if cfg.Stream.Enabled {
		v.hub = stream.NewHub(cfg.Stream.MaxSegments, logger)
		v.hub.BroadcastScheme(scheme)
	}

	if !opts.Headless {
		v.initGraphics()
	}

	logger.Info("viewer starting",
		"dataset", cfg.Dataset.Path,
		"depth", cfg.Dataset.Depth,
		"particles", cfg.Particles.Count,
		"spawn_mode", mode.String(),
		"scheme", scheme.Name,
		"seed", seed,
		"mask_coverage", v.mask.Coverage(),
	)

	v.loader = dataset.LoadAsync(ctx, cfg.Dataset.Path)
	return v, nil
}

// Tick returns the number of completed ticks.
func (v *Viewer) Tick() int64 { return v.tick }

// Ready reports whether the dataset has loaded and particles are placed.
func (v *Viewer) Ready() bool { return v.particles != nil }

// Mask returns the on-screen visibility raster of the globe.
func (v *Viewer) Mask() *mask.Visibility { return v.mask }

// Projection returns the globe projection.
func (v *Viewer) Projection() *projection.Orthographic { return v.proj }

// Camera returns the globe view controller.
func (v *Viewer) Camera() *camera.Camera { return v.cam }

// Particles returns the particle system, or nil before the dataset loads.
func (v *Viewer) Particles() *systems.ParticleSystem { return v.particles }

// Buckets returns the segments binned by the last tick.
func (v *Viewer) Buckets() []systems.Bucket { return v.binner.Buckets() }

// LastStats returns the outcome counts of the last tick.
func (v *Viewer) LastStats() systems.TickStats { return v.lastStats }

// Scheme returns the active color scheme.
func (v *Viewer) Scheme() theme.Scheme { return v.scheme }

// Hub returns the stream hub, or nil when streaming is disabled.
func (v *Viewer) Hub() *stream.Hub { return v.hub }

// Paused reports whether ticking is suspended.
func (v *Viewer) Paused() bool { return v.paused }

// SetPaused suspends or resumes ticking.
func (v *Viewer) SetPaused(p bool) { v.paused = p }
