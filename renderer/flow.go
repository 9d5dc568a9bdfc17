// Package renderer draws the current trails and globe with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/currents/mask"
	"github.com/pthm-cable/currents/systems"
	"github.com/pthm-cable/currents/theme"
)

// TrailRenderer keeps a persistent canvas of trail segments. Every update
// fades the canvas towards the sea color before drawing the new segments,
// so older movement dims away over successive ticks.
type TrailRenderer struct {
	width, height int32
	lineWidth     float32
	scheme        theme.Scheme
	cull          *mask.Visibility

	canvas      rl.RenderTexture2D
	initialized bool
	needsClear  bool
}

// NewTrailRenderer creates a trail renderer. Call Init once the window exists.
func NewTrailRenderer(width, height int32, lineWidth float32, scheme theme.Scheme) *TrailRenderer {
	return &TrailRenderer{
		width:     width,
		height:    height,
		lineWidth: lineWidth,
		scheme:    scheme,
	}
}

// Init allocates the canvas (must be called after the raylib window is created).
func (r *TrailRenderer) Init() {
	if r.initialized {
		return
	}
	r.canvas = rl.LoadRenderTexture(r.width, r.height)
	r.initialized = true
	r.needsClear = true
}

// SetScheme switches colors and repaints the canvas with the new sea color.
func (r *TrailRenderer) SetScheme(s theme.Scheme) {
	r.scheme = s
	r.needsClear = true
}

// SetColors switches colors without repainting the canvas.
func (r *TrailRenderer) SetColors(s theme.Scheme) {
	r.scheme = s
}

// SetCullMask makes Update skip segments with an endpoint off the globe.
// A nil mask disables culling.
func (r *TrailRenderer) SetCullMask(m *mask.Visibility) {
	r.cull = m
}

// SetLineWidth sets the stroke width in pixels.
func (r *TrailRenderer) SetLineWidth(w float32) {
	r.lineWidth = w
}

// Clear repaints the canvas with the sea color on the next Update.
func (r *TrailRenderer) Clear() {
	r.needsClear = true
}

// Update fades the canvas and draws this tick's buckets, slowest first.
// Returns the number of segments drawn.
func (r *TrailRenderer) Update(buckets []systems.Bucket) int {
	if !r.initialized {
		r.Init()
	}

	rl.BeginTextureMode(r.canvas)
	defer rl.EndTextureMode()

	if r.needsClear {
		rl.ClearBackground(r.scheme.Sea)
		r.needsClear = false
	}
	rl.DrawRectangle(0, 0, r.width, r.height, r.scheme.Fade)

	drawn := 0
	for _, b := range buckets {
		col := theme.Stroke(r.scheme.Trail, b.Opacity)
		for _, seg := range b.Segments {
			if r.cull != nil && !(r.cull.IsVisible(seg.From.X, seg.From.Y) && r.cull.IsVisible(seg.To.X, seg.To.Y)) {
				continue
			}
			rl.DrawLineEx(
				rl.Vector2{X: float32(seg.From.X), Y: float32(seg.From.Y)},
				rl.Vector2{X: float32(seg.To.X), Y: float32(seg.To.Y)},
				r.lineWidth,
				col,
			)
			drawn++
		}
	}
	return drawn
}

// Draw blits the canvas to the screen.
func (r *TrailRenderer) Draw() {
	if !r.initialized {
		return
	}
	// Render textures are stored upside down.
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.width), Height: -float32(r.height)}
	rl.DrawTextureRec(r.canvas.Texture, src, rl.Vector2{}, rl.White)
}

// Unload releases GPU resources.
func (r *TrailRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadRenderTexture(r.canvas)
	r.initialized = false
}
