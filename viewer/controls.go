package viewer

import (
	"context"

	"github.com/pthm-cable/currents/stream"
	"github.com/pthm-cable/currents/systems"
	"github.com/pthm-cable/currents/theme"
	"github.com/pthm-cable/currents/ui"
)

// drainControls applies all pending stream commands. Runs on the loop
// goroutine between ticks.
func (v *Viewer) drainControls() {
	if v.hub == nil {
		return
	}
	for {
		select {
		case c := <-v.hub.Controls():
			v.ApplyControl(c)
		default:
			return
		}
	}
}

// waitControl blocks for one stream command while paused.
func (v *Viewer) waitControl(ctx context.Context) error {
	if v.hub == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	select {
	case c := <-v.hub.Controls():
		v.ApplyControl(c)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ApplyControl executes a client command.
func (v *Viewer) ApplyControl(c stream.Control) {
	if err := c.Validate(); err != nil {
		v.logger.Warn("rejected control", "error", err)
		return
	}
	v.logger.Info("control", "action", c.Action, "mode", c.Mode, "scheme", c.Scheme)

	switch c.Action {
	case "respawn":
		mode, _ := systems.ParseSpawnMode(c.Mode)
		if err := v.Respawn(mode); err != nil {
			v.logger.Warn("respawn failed", "error", err)
		}
	case "theme":
		switch c.Scheme {
		case "toggle":
			v.SetScheme(v.scheme.Toggle())
		default:
			s, _ := theme.ByName(c.Scheme, true)
			s.Trail = v.scheme.Trail
			s.Fade.A = v.scheme.Fade.A
			v.SetScheme(s)
		}
	case "pause":
		v.paused = true
	case "resume":
		v.paused = false
	}
}

// SetScheme switches colors everywhere: canvas, globe and stream clients.
func (v *Viewer) SetScheme(s theme.Scheme) {
	v.scheme = s
	if v.trails != nil {
		v.trails.SetScheme(s)
	}
	if v.globe != nil {
		v.globe.SetScheme(s)
	}
	if v.hub != nil {
		v.hub.BroadcastScheme(s)
	}
}

// applyAction executes a controls panel button.
func (v *Viewer) applyAction(a ui.Action) {
	switch a {
	case ui.ActionRespawnRandom:
		v.ApplyControl(stream.Control{Action: "respawn", Mode: systems.SpawnRandom.String()})
	case ui.ActionRespawnLattice:
		v.ApplyControl(stream.Control{Action: "respawn", Mode: systems.SpawnLattice.String()})
	case ui.ActionToggleTheme:
		v.ApplyControl(stream.Control{Action: "theme", Scheme: "toggle"})
	case ui.ActionTogglePause:
		v.paused = !v.paused
	case ui.ActionClear:
		if v.trails != nil {
			v.trails.Clear()
		}
	}
}

// applyControlState pushes slider edits into the scheme, renderer and pool.
func (v *Viewer) applyControlState(next ui.ControlState) {
	prev := v.controls
	v.controls = next
	if next == prev {
		return
	}

	if next.FadeAlpha != prev.FadeAlpha || next.TrailHue != prev.TrailHue || next.TrailSaturation != prev.TrailSaturation {
		s := v.scheme.WithFade(next.FadeAlpha)
		if ws, err := s.WithTrailHSV(next.TrailHue, next.TrailSaturation, v.cfg.Theme.TrailValue); err == nil {
			s = ws
		}
		v.SetSchemeColors(s)
	}
	if next.LineWidth != prev.LineWidth && v.trails != nil {
		v.trails.SetLineWidth(float32(next.LineWidth))
	}
	if v.particles != nil && (next.MaxMagnitude != prev.MaxMagnitude || next.LifespanDecrement != prev.LifespanDecrement) {
		err := v.particles.SetOptions(systems.Options{
			MaxMagnitude:      next.MaxMagnitude,
			LifespanDecrement: next.LifespanDecrement,
		})
		if err != nil {
			v.logger.Warn("particle options rejected", "error", err)
		}
	}
}

// SetSchemeColors updates colors without clearing the trail canvas.
func (v *Viewer) SetSchemeColors(s theme.Scheme) {
	v.scheme = s
	if v.trails != nil {
		v.trails.SetColors(s)
	}
	if v.globe != nil {
		v.globe.SetScheme(s)
	}
	if v.hub != nil {
		v.hub.BroadcastScheme(s)
	}
}
