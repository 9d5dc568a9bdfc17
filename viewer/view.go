package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/currents/mask"
)

const (
	panStep      = 5.0 // degrees per arrow key press
	wheelZoom    = 1.1
	keyZoomRatio = 1.25
)

// handleCameraInput rotates and zooms the globe from keyboard and mouse.
func (v *Viewer) handleCameraInput() {
	changed := false

	switch {
	case rl.IsKeyPressed(rl.KeyLeft):
		v.cam.Pan(-panStep, 0)
		changed = true
	case rl.IsKeyPressed(rl.KeyRight):
		v.cam.Pan(panStep, 0)
		changed = true
	case rl.IsKeyPressed(rl.KeyUp):
		v.cam.Pan(0, panStep)
		changed = true
	case rl.IsKeyPressed(rl.KeyDown):
		v.cam.Pan(0, -panStep)
		changed = true
	case rl.IsKeyPressed(rl.KeyEqual):
		v.cam.ZoomBy(keyZoomRatio)
		changed = true
	case rl.IsKeyPressed(rl.KeyMinus):
		v.cam.ZoomBy(1 / keyZoomRatio)
		changed = true
	case rl.IsKeyPressed(rl.KeyHome):
		v.cam.Reset()
		changed = true
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		if wheel > 0 {
			v.cam.ZoomBy(wheelZoom)
		} else {
			v.cam.ZoomBy(1 / wheelZoom)
		}
		changed = true
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			v.cam.Drag(float64(d.X), float64(d.Y))
			changed = true
		}
	}

	if changed {
		v.applyView()
	}
}

// applyView pushes the camera state into the projection and rebuilds
// everything derived from the globe outline. The trail canvas is cleared
// since old trails no longer line up with the globe.
func (v *Viewer) applyView() {
	scale, lambda, phi := v.cam.View()
	v.proj.SetView(scale, lambda, phi)
	v.outline = v.proj.Outline(v.cfg.Projection.OutlineSegments)
	v.mask = mask.Build(v.outline, v.cfg.Screen.Width, v.cfg.Screen.Height)

	if v.globe != nil {
		v.globe.SetOutline(v.outline, float32(scale))
	}
	if v.trails != nil {
		v.syncCull()
		v.trails.Clear()
	}

	v.logger.Debug("view changed",
		"scale", scale,
		"lambda", lambda,
		"phi", phi,
		"mask_coverage", v.mask.Coverage(),
	)
}

// SetView rotates and zooms the globe. Scale is clamped to the camera limits.
func (v *Viewer) SetView(scale, lambda, phi float64) {
	v.cam.Lambda = 0
	v.cam.Phi = 0
	v.cam.Pan(lambda, phi)
	v.cam.SetScale(scale)
	v.applyView()
}
