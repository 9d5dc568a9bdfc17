package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Particles.Count != 20000 {
		t.Errorf("particles.count = %d, want 20000", cfg.Particles.Count)
	}
	if len(cfg.Particles.Faces) != 3 {
		t.Errorf("particles.faces = %v, want 3 faces", cfg.Particles.Faces)
	}
	if cfg.Particles.MaxMagnitude != 0.05 {
		t.Errorf("particles.max_magnitude = %v, want 0.05", cfg.Particles.MaxMagnitude)
	}
	if cfg.Derived.FrameInterval != 40*time.Millisecond {
		t.Errorf("derived frame interval = %v, want 40ms", cfg.Derived.FrameInterval)
	}
	if cfg.Derived.ProjectionScale != float64(cfg.Screen.Width) {
		t.Errorf("derived scale = %v, want screen width %d", cfg.Derived.ProjectionScale, cfg.Screen.Width)
	}

	wantOpacity := []float64{0.1, 0.2, 0.3, 0.4}
	if len(cfg.Bins) != len(wantOpacity) {
		t.Fatalf("got %d bins, want %d", len(cfg.Bins), len(wantOpacity))
	}
	for i, b := range cfg.Bins {
		if b.Opacity != wantOpacity[i] {
			t.Errorf("bin %d opacity = %v, want %v", i, b.Opacity, wantOpacity[i])
		}
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("particles:\n  count: 300\n  spawn_mode: lattice\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Particles.Count != 300 {
		t.Errorf("count = %d, want 300", cfg.Particles.Count)
	}
	if cfg.Particles.SpawnMode != "lattice" {
		t.Errorf("spawn_mode = %q, want lattice", cfg.Particles.SpawnMode)
	}
	// Untouched fields keep their defaults
	if cfg.Dataset.Depth != 10 {
		t.Errorf("dataset.depth = %d, want default 10", cfg.Dataset.Depth)
	}
}

func TestLoadTOMLOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.toml")
	data := []byte(`
[particles]
count = 900
faces = [1]
max_magnitude = 0.5

[animation]
frame_interval_ms = 16
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Particles.Count != 900 {
		t.Errorf("count = %d, want 900", cfg.Particles.Count)
	}
	if len(cfg.Particles.Faces) != 1 || cfg.Particles.Faces[0] != 1 {
		t.Errorf("faces = %v, want [1]", cfg.Particles.Faces)
	}
	if cfg.Derived.FrameInterval != 16*time.Millisecond {
		t.Errorf("frame interval = %v, want 16ms", cfg.Derived.FrameInterval)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no faces", func(c *Config) { c.Particles.Faces = nil }},
		{"zero count", func(c *Config) { c.Particles.Count = 0 }},
		{"bad spawn mode", func(c *Config) { c.Particles.SpawnMode = "spiral" }},
		{"zero magnitude", func(c *Config) { c.Particles.MaxMagnitude = 0 }},
		{"descending bins", func(c *Config) {
			c.Bins = []BinConfig{{Threshold: 0.3, Opacity: 0.1}, {Threshold: 0.2, Opacity: 0.2}}
		}},
		{"bad scheme", func(c *Config) { c.Theme.Scheme = "sepia" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Particles.Count = 1234

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Particles.Count != 1234 {
		t.Errorf("count = %d, want 1234", loaded.Particles.Count)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic from Cfg() before Init()")
		}
	}()
	Cfg()
}
