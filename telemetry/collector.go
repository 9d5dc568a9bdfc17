package telemetry

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/currents/systems"
)

// Collector accumulates tick outcomes within windows and produces WindowStats.
type Collector struct {
	windowTicks int64

	// Current window tracking
	windowStartTick int64
	windowStartTime time.Time

	advanced  int
	respawned int
	noData    int
	expired   int
	binned    int
	buckets   []float64
	tickCount []float64

	// Speeds from the most recent tick
	speeds []float64
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:     int64(windowTicks),
		windowStartTime: time.Now(),
	}
}

// RecordTick adds one tick's outcome. buckets is the binner state after the tick.
func (c *Collector) RecordTick(st systems.TickStats, buckets []systems.Bucket) {
	c.advanced += st.Advanced
	c.respawned += st.Respawned
	c.noData += st.NoData
	c.expired += st.Expired
	c.binned += st.Binned

	if len(c.buckets) != len(buckets) {
		c.buckets = make([]float64, len(buckets))
		c.tickCount = make([]float64, len(buckets))
	}
	for i, b := range buckets {
		c.tickCount[i] = float64(len(b.Segments))
	}
	floats.Add(c.buckets, c.tickCount)

	c.speeds = append(c.speeds[:0], st.Speeds...)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, particles int) WindowStats {
	now := time.Now()
	speed := ComputeSpeedStats(c.speeds)

	var respawnRate float64
	if total := c.advanced + c.respawned; total > 0 {
		respawnRate = float64(c.respawned) / float64(total)
	}

	counts := make([]float64, len(c.buckets))
	copy(counts, c.buckets)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		ElapsedSec:      now.Sub(c.windowStartTime).Seconds(),

		Particles: particles,

		Advanced:    c.advanced,
		Respawned:   c.respawned,
		NoData:      c.noData,
		Expired:     c.expired,
		Binned:      c.binned,
		RespawnRate: respawnRate,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP10:  speed.P10,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,
		SpeedMax:  speed.Max,

		BucketCounts: counts,
		Buckets:      formatBuckets(counts),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartTime = now
	c.advanced = 0
	c.respawned = 0
	c.noData = 0
	c.expired = 0
	c.binned = 0
	for i := range c.buckets {
		c.buckets[i] = 0
	}

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
