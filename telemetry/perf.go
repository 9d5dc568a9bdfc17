package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for one animation tick.
const (
	PhaseBinReset  = "bin_reset"
	PhaseAdvect    = "advect"
	PhaseDraw      = "draw"
	PhaseBroadcast = "broadcast"
	PhaseTelemetry = "telemetry"
)

// Phases lists the tick phases in execution order.
var Phases = []string{PhaseBinReset, PhaseAdvect, PhaseDraw, PhaseBroadcast, PhaseTelemetry}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Interval     time.Duration // time since the previous tick started
	Phases       map[string]time.Duration
}

// PerfCollector tracks tick timing over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	prevTickStart time.Time
	phaseStart    time.Time
	lastPhase     string
	now           func() time.Time

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
		now:           time.Now,
	}
}

// SetClock replaces the time source. Tests use it to drive phases with
// exact durations.
func (p *PerfCollector) SetClock(now func() time.Time) {
	p.now = now
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.prevTickStart = p.tickStart
	p.tickStart = p.now()
	p.currentPhases = make(map[string]time.Duration, len(Phases))
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := p.now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	if !p.prevTickStart.IsZero() {
		sample.Interval = p.tickStart.Sub(p.prevTickStart)
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Spacing between tick starts; compare against the configured frame interval.
	AvgInterval time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput if ticks ran back to back
	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return out
	}

	ticks := make([]float64, p.sampleCount)
	intervals := make([]float64, 0, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		ticks[i] = float64(s.TickDuration)
		if s.Interval > 0 {
			intervals = append(intervals, float64(s.Interval))
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := stat.Mean(ticks, nil)
	out.AvgTickDuration = time.Duration(avg)
	out.MinTickDuration = time.Duration(floats.Min(ticks))
	out.MaxTickDuration = time.Duration(floats.Max(ticks))
	sort.Float64s(ticks)
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))
	if len(intervals) > 0 {
		out.AvgInterval = time.Duration(stat.Mean(intervals, nil))
	}

	for phase, sum := range phaseSum {
		out.PhaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			out.PhasePct[phase] = float64(out.PhaseAvg[phase]) / avg * 100
		}
	}
	if avg > 0 {
		out.TicksPerSecond = float64(time.Second) / avg
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"avg_interval_ms", s.AvgInterval.Milliseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("avg_interval_us", s.AvgInterval.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int64   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	AvgIntervalUS int64   `csv:"avg_interval_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	BinResetPct   float64 `csv:"bin_reset_pct"`
	AdvectPct     float64 `csv:"advect_pct"`
	DrawPct       float64 `csv:"draw_pct"`
	BroadcastPct  float64 `csv:"broadcast_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		AvgIntervalUS: s.AvgInterval.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		BinResetPct:   s.PhasePct[PhaseBinReset],
		AdvectPct:     s.PhasePct[PhaseAdvect],
		DrawPct:       s.PhasePct[PhaseDraw],
		BroadcastPct:  s.PhasePct[PhaseBroadcast],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
