package renderer

import (
	"github.com/ctessum/geom"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/currents/theme"
)

// GlobeRenderer draws the globe silhouette over the trail canvas and paints
// the area outside it in the land color.
type GlobeRenderer struct {
	width, height int32
	points        []rl.Vector2
	center        rl.Vector2
	radius        float32
	scheme        theme.Scheme
}

// NewGlobeRenderer builds a renderer for the given outline (see
// projection.Orthographic.Outline).
func NewGlobeRenderer(width, height int32, outline geom.Polygon, center rl.Vector2, radius float32, scheme theme.Scheme) *GlobeRenderer {
	g := &GlobeRenderer{
		width:  width,
		height: height,
		center: center,
		scheme: scheme,
	}
	g.SetOutline(outline, radius)
	return g
}

// SetOutline replaces the limb outline and radius after a view change.
func (g *GlobeRenderer) SetOutline(outline geom.Polygon, radius float32) {
	g.radius = radius
	g.points = g.points[:0]
	for _, ring := range outline {
		for _, p := range ring {
			g.points = append(g.points, rl.Vector2{X: float32(p.X), Y: float32(p.Y)})
		}
	}
}

// SetScheme switches colors.
func (g *GlobeRenderer) SetScheme(s theme.Scheme) {
	g.scheme = s
}

// Draw masks everything off the globe and strokes the limb.
func (g *GlobeRenderer) Draw() {
	// A ring from the limb out past the screen corners hides trails drawn off-globe.
	outer := float32(g.width + g.height)
	rl.DrawRing(g.center, g.radius, outer, 0, 360, 128, g.scheme.Land)
	if len(g.points) > 1 {
		rl.DrawLineStrip(g.points, theme.Stroke(g.scheme.Trail, 0.3))
	}
}
