package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/currents/ui"
)

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	if v.overlays == nil {
		return
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.applyAction(ui.ActionTogglePause)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.applyAction(ui.ActionRespawnRandom)
	}
	if rl.IsKeyPressed(rl.KeyL) {
		v.applyAction(ui.ActionRespawnLattice)
	}
	if rl.IsKeyPressed(rl.KeyT) {
		v.applyAction(ui.ActionToggleTheme)
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		v.applyAction(ui.ActionClear)
	}

	v.handleCameraInput()

	if key := rl.GetKeyPressed(); key != 0 {
		if id, on, ok := v.overlays.HandleKeyPress(key); ok {
			v.logger.Debug("overlay toggled", "overlay", string(id), "enabled", on)
			if id == ui.OverlayCull {
				v.syncCull()
			}
		}
	}
}
