package viewer

import "log/slog"

// flushTelemetry closes the stats window when due and writes it out.
func (v *Viewer) flushTelemetry() {
	if !v.collector.ShouldFlush(v.tick) {
		return
	}

	stats := v.collector.Flush(v.tick, v.particles.Len())
	perfStats := v.perfCollector.Stats()

	if v.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if v.outputManager != nil {
		if err := v.outputManager.WriteStats(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := v.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
