package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/currents/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil receiver is a no-op.
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Errorf("WriteStats on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManagerCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	for tick := int64(250); tick <= 750; tick += 250 {
		if err := om.WriteStats(WindowStats{WindowEndTick: tick, Particles: 20000, Buckets: "1;2;3;4"}); err != nil {
			t.Fatalf("WriteStats error: %v", err)
		}
		if err := om.WritePerf(PerfStats{AvgTickDuration: time.Millisecond}, tick); err != nil {
			t.Fatalf("WritePerf error: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("header = %q, want window_end first", lines[0])
	}
	if strings.Contains(lines[0], "BucketCounts") || strings.Contains(lines[0], "WindowStartTick") {
		t.Errorf("header contains skipped fields: %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "750,") {
		t.Errorf("last row = %q, want window 750", lines[3])
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(perf), "avg_tick_us"); n != 1 {
		t.Errorf("perf.csv has %d header rows, want 1", n)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(om.Dir(), "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
