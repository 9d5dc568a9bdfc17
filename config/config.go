// Package config provides configuration loading and access for the viewer.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all viewer configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen" toml:"screen"`
	Dataset    DatasetConfig    `yaml:"dataset" toml:"dataset"`
	Particles  ParticlesConfig  `yaml:"particles" toml:"particles"`
	Animation  AnimationConfig  `yaml:"animation" toml:"animation"`
	Bins       []BinConfig      `yaml:"bins" toml:"bins"`
	Projection ProjectionConfig `yaml:"projection" toml:"projection"`
	Theme      ThemeConfig      `yaml:"theme" toml:"theme"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`
	Stream     StreamConfig     `yaml:"stream" toml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width" toml:"width"`
	Height    int `yaml:"height" toml:"height"`
	TargetFPS int `yaml:"target_fps" toml:"target_fps"`
}

// DatasetConfig selects the current field and the depth slice to sample.
type DatasetConfig struct {
	Path  string `yaml:"path" toml:"path"`   // .json or .nc
	Depth int    `yaml:"depth" toml:"depth"` // depth layer index
}

// ParticlesConfig holds particle pool parameters.
type ParticlesConfig struct {
	Count             int     `yaml:"count" toml:"count"`
	Faces             []int   `yaml:"faces" toml:"faces"`
	SpawnMode         string  `yaml:"spawn_mode" toml:"spawn_mode"`                 // random | lattice
	GridSize          int     `yaml:"grid_size" toml:"grid_size"`                   // 0 = smaller dataset extent
	MaxMagnitude      float64 `yaml:"max_magnitude" toml:"max_magnitude"`           // speed normalization
	LifespanDecrement float64 `yaml:"lifespan_decrement" toml:"lifespan_decrement"` // per tick
	Interpolate       bool    `yaml:"interpolate" toml:"interpolate"`               // bilinear geometry lookup
	CullHidden        bool    `yaml:"cull_hidden" toml:"cull_hidden"`               // skip off-globe segments when drawing
	Seed              int64   `yaml:"seed" toml:"seed"`                             // 0 = time based
}

// AnimationConfig holds tick pacing and trail drawing parameters.
type AnimationConfig struct {
	FrameIntervalMS int     `yaml:"frame_interval_ms" toml:"frame_interval_ms"`
	LineWidth       float64 `yaml:"line_width" toml:"line_width"`
	FadeAlpha       float64 `yaml:"fade_alpha" toml:"fade_alpha"` // alpha of the per-frame fade overlay
}

// BinConfig is one magnitude bucket: speeds at or above Threshold and below
// the next threshold are drawn with Opacity. Speeds must exceed the first
// threshold to be drawn at all.
type BinConfig struct {
	Threshold float64 `yaml:"threshold" toml:"threshold"`
	Opacity   float64 `yaml:"opacity" toml:"opacity"`
}

// ProjectionConfig holds orthographic projection parameters.
type ProjectionConfig struct {
	Scale           float64 `yaml:"scale" toml:"scale"` // 0 = screen width
	RotateLambda    float64 `yaml:"rotate_lambda" toml:"rotate_lambda"`
	RotatePhi       float64 `yaml:"rotate_phi" toml:"rotate_phi"`
	OutlineSegments int     `yaml:"outline_segments" toml:"outline_segments"`
}

// ThemeConfig holds color scheme settings.
type ThemeConfig struct {
	Scheme          string  `yaml:"scheme" toml:"scheme"` // auto | dark | light
	TrailHue        float64 `yaml:"trail_hue" toml:"trail_hue"`
	TrailSaturation float64 `yaml:"trail_saturation" toml:"trail_saturation"`
	TrailValue      float64 `yaml:"trail_value" toml:"trail_value"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int    `yaml:"stats_window" toml:"stats_window"` // ticks per stats window
	PerfWindow  int    `yaml:"perf_window" toml:"perf_window"`
	OutputDir   string `yaml:"output_dir" toml:"output_dir"`
}

// StreamConfig holds websocket streaming parameters.
type StreamConfig struct {
	Enabled     bool   `yaml:"enabled" toml:"enabled"`
	Addr        string `yaml:"addr" toml:"addr"`
	MaxSegments int    `yaml:"max_segments" toml:"max_segments"` // per frame, across all buckets
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameInterval   time.Duration
	ProjectionScale float64
	CenterX         float64
	CenterY         float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML or TOML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Particles.Count <= 0 {
		return fmt.Errorf("config: particles.count must be positive, got %d", c.Particles.Count)
	}
	if len(c.Particles.Faces) == 0 {
		return fmt.Errorf("config: particles.faces is empty")
	}
	switch c.Particles.SpawnMode {
	case "random", "lattice":
	default:
		return fmt.Errorf("config: unknown particles.spawn_mode %q", c.Particles.SpawnMode)
	}
	if c.Particles.MaxMagnitude <= 0 {
		return fmt.Errorf("config: particles.max_magnitude must be positive, got %v", c.Particles.MaxMagnitude)
	}
	if c.Particles.GridSize < 0 {
		return fmt.Errorf("config: particles.grid_size must not be negative")
	}
	if len(c.Bins) == 0 {
		return fmt.Errorf("config: at least one bin is required")
	}
	for i := 1; i < len(c.Bins); i++ {
		if c.Bins[i].Threshold <= c.Bins[i-1].Threshold {
			return fmt.Errorf("config: bin thresholds must be ascending (bin %d)", i)
		}
	}
	switch c.Theme.Scheme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("config: unknown theme.scheme %q", c.Theme.Scheme)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FrameInterval = time.Duration(c.Animation.FrameIntervalMS) * time.Millisecond

	// The globe fills the screen width unless a scale is given
	c.Derived.ProjectionScale = c.Projection.Scale
	if c.Derived.ProjectionScale == 0 {
		c.Derived.ProjectionScale = float64(c.Screen.Width)
	}
	c.Derived.CenterX = float64(c.Screen.Width) / 2
	c.Derived.CenterY = float64(c.Screen.Height) / 2

	if c.Projection.OutlineSegments < 3 {
		c.Projection.OutlineSegments = 180
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
