package viewer

import (
	"context"

	"github.com/pthm-cable/currents/systems"
	"github.com/pthm-cable/currents/telemetry"
)

// Step runs one animation tick: bin reset, advect, draw, broadcast and
// telemetry, in that order. The dataset must be installed.
func (v *Viewer) Step() systems.TickStats {
	v.perfCollector.StartTick()

	v.perfCollector.StartPhase(telemetry.PhaseBinReset)
	v.binner.Reset()

	v.perfCollector.StartPhase(telemetry.PhaseAdvect)
	st := v.particles.Tick(v.binner)
	buckets := v.binner.Buckets()

	v.perfCollector.StartPhase(telemetry.PhaseDraw)
	if v.trails != nil {
		v.lastDrawn = v.trails.Update(buckets)
	}

	v.perfCollector.StartPhase(telemetry.PhaseBroadcast)
	if v.hub != nil {
		v.hub.BroadcastFrame(v.tick, buckets)
	}

	v.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	v.collector.RecordTick(st, buckets)
	v.tick++
	v.flushTelemetry()

	v.perfCollector.EndTick()
	v.lastStats = st
	return st
}

// Update advances the viewer by at most one tick in graphics mode. Ticks run
// only once the dataset is loaded, when not paused, and no more often than
// the configured frame interval.
func (v *Viewer) Update() {
	v.handleInput()
	v.drainControls()

	if !v.pollLoader() || v.paused {
		return
	}
	if v.limiter.Allow() {
		v.Step()
	}
}

// UpdateHeadless blocks until the next tick is due and runs it. It waits
// for the dataset on first use.
func (v *Viewer) UpdateHeadless(ctx context.Context) error {
	if err := v.WaitReady(ctx); err != nil {
		return err
	}
	v.drainControls()
	if v.paused {
		// Nothing to tick; wait for the next control instead of spinning.
		return v.waitControl(ctx)
	}
	if !v.opts.Unpaced {
		if err := v.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	v.Step()
	return nil
}
