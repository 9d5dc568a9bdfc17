package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/currents/renderer"
	"github.com/pthm-cable/currents/ui"
)

const (
	panelWidth  = 260
	inspectPick = 12.0 // pixels
)

// initGraphics creates renderers and panels. Requires an open window.
func (v *Viewer) initGraphics() {
	w, h := int32(v.cfg.Screen.Width), int32(v.cfg.Screen.Height)

	v.trails = renderer.NewTrailRenderer(w, h, float32(v.cfg.Animation.LineWidth), v.scheme)
	v.trails.Init()

	center := rl.Vector2{X: float32(v.cfg.Derived.CenterX), Y: float32(v.cfg.Derived.CenterY)}
	v.globe = renderer.NewGlobeRenderer(w, h, v.outline, center, float32(v.proj.Scale()), v.scheme)

	v.overlays = ui.NewOverlayRegistry()
	if v.cfg.Particles.CullHidden {
		v.overlays.SetEnabled(ui.OverlayCull, true)
	}
	v.syncCull()

	v.hud = ui.NewHUD()
	v.perfPanel = ui.NewPerfPanel(w-panelWidth-10, 10)
	v.controlsPanel = ui.NewControlsPanel(10, 120, panelWidth)
	v.inspector = ui.NewInspector(w-panelWidth-10, 10, panelWidth)
}

// syncCull applies the cull overlay state to the trail renderer.
func (v *Viewer) syncCull() {
	if v.overlays.IsEnabled(ui.OverlayCull) {
		v.trails.SetCullMask(v.mask)
	} else {
		v.trails.SetCullMask(nil)
	}
}

// Draw renders the current frame.
func (v *Viewer) Draw() {
	v.perfCollector.RecordFrame()

	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(v.scheme.Land)
	v.trails.Draw()

	if v.overlays.IsEnabled(ui.OverlayOutline) {
		v.globe.Draw()
	}

	if v.overlays.IsEnabled(ui.OverlayHUD) {
		v.drawHUD()
	}

	if v.overlays.IsEnabled(ui.OverlayControls) {
		next, action := v.controlsPanel.Draw(v.controls, v.paused)
		v.applyControlState(next)
		v.applyAction(action)
	}

	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perfPanel.Draw(v.perfCollector.Stats())
	}

	if v.overlays.IsEnabled(ui.OverlayInspector) && v.particles != nil {
		v.drawInspector()
	}

	v.hud.DrawControls(int32(v.cfg.Screen.Width), int32(v.cfg.Screen.Height), ui.ControlsLegend(v.overlays))
}

func (v *Viewer) drawHUD() {
	data := ui.HUDData{
		Title:   "Ocean Currents",
		Dataset: v.cfg.Dataset.Path,
		Depth:   v.cfg.Dataset.Depth,
		Mode:    v.mode.String(),
		Scheme:  v.scheme.Name,
		Tick:    v.tick,
		FPS:     rl.GetFPS(),
		Paused:  v.paused,
		Loading: v.particles == nil && v.loadErr == nil,
		Drawn:   v.lastDrawn,
	}
	if v.particles != nil {
		data.Particles = v.particles.Len()
	}
	for _, b := range v.binner.Buckets() {
		data.BucketCounts = append(data.BucketCounts, len(b.Segments))
	}
	if v.hub != nil {
		data.Clients = v.hub.Clients()
	}
	v.hud.Draw(data)

	if v.loadErr != nil {
		rl.DrawText("Dataset error: "+v.loadErr.Error(), 10, 35, 16, rl.Red)
	}
}

func (v *Viewer) drawInspector() {
	ps := v.particles.Particles()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		v.selected = ui.NearestParticle(ps, float64(m.X), float64(m.Y), inspectPick)
	}
	if v.selected < 0 || v.selected >= len(ps) {
		return
	}
	v.inspector.Draw(v.selected, ps[v.selected])
}
