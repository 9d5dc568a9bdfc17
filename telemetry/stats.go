package telemetry

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	ElapsedSec      float64 `csv:"elapsed_sec"`

	// Pool size at window end
	Particles int `csv:"particles"`

	// Outcomes summed over the window
	Advanced    int     `csv:"advanced"`
	Respawned   int     `csv:"respawned"`
	NoData      int     `csv:"no_data"`
	Expired     int     `csv:"expired"`
	Binned      int     `csv:"binned"`
	RespawnRate float64 `csv:"respawn_rate"`

	// Normalized speed distribution (sampled from the last tick)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Segments per bucket summed over the window, slowest first
	BucketCounts []float64 `csv:"-"`
	Buckets      string    `csv:"buckets"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SpeedStats summarizes a set of normalized speeds.
type SpeedStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// ComputeSpeedStats calculates mean, population standard deviation,
// percentiles and maximum. Returns zeros for an empty slice.
func ComputeSpeedStats(values []float64) SpeedStats {
	if len(values) == 0 {
		return SpeedStats{}
	}

	var s SpeedStats
	s.Mean, s.Std = stat.PopMeanStdDev(values, nil)
	s.Max = floats.Max(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	s.P10 = Percentile(sorted, 0.10)
	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)
	return s
}

func formatBuckets(counts []float64) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = strconv.FormatFloat(c, 'f', -1, 64)
	}
	return strings.Join(parts, ";")
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("elapsed_sec", s.ElapsedSec),
		slog.Int("particles", s.Particles),
		slog.Int("advanced", s.Advanced),
		slog.Int("respawned", s.Respawned),
		slog.Int("no_data", s.NoData),
		slog.Int("expired", s.Expired),
		slog.Int("binned", s.Binned),
		slog.Float64("respawn_rate", s.RespawnRate),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.String("buckets", s.Buckets),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"particles", s.Particles,
		"advanced", s.Advanced,
		"respawned", s.Respawned,
		"no_data", s.NoData,
		"respawn_rate", s.RespawnRate,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"buckets", s.Buckets,
	)
}
