package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/currents/components"
	"github.com/pthm-cable/currents/systems"
)

// Inspector renders the particle inspection panel.
type Inspector struct {
	renderer *Renderer
	fields   []components.FieldDescriptor
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		fields:   components.ParticleFieldDescriptors(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector for p and marks it on screen.
func (ins *Inspector) Draw(index int, p systems.Particle) {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	groups := fieldGroups(ins.fields)
	panelHeight := padding*2 + r.Theme.LineHeight*int32(len(ins.fields)+2*len(groups)+2)
	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)

	y := ins.y + padding
	rl.DrawText(fmt.Sprintf("Particle #%d", index), ins.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	for _, group := range groups {
		y = r.DrawSectionHeader(ins.x+padding, y, groupTitle(group))
		for _, fd := range ins.fields {
			if fd.Group != group {
				continue
			}
			v := ParticleFieldValue(p, fd.ID)
			if v == 0 && !fd.ShowWhenZero {
				continue
			}
			y = r.DrawField(ins.x+padding, y, fd, v, contentWidth)
		}
		y = r.DrawSpacer(y, 4)
	}

	if p.HasOrigin {
		r.DrawLabelValue(ins.x+padding, y, "Origin", fmt.Sprintf("%d (%.1f, %.1f)", p.Origin.Face, p.Origin.I, p.Origin.J))
	}

	// Highlight on the globe
	at := rl.Vector2{X: float32(p.To.X), Y: float32(p.To.Y)}
	rl.DrawCircleLinesV(at, 6, rl.Yellow)
	rl.DrawLineEx(rl.Vector2{X: float32(p.From.X), Y: float32(p.From.Y)}, at, 2, rl.Yellow)
}

// ParticleFieldValue extracts a descriptor field from a particle snapshot.
func ParticleFieldValue(p systems.Particle, fieldID string) float64 {
	pos := components.GridPos{Face: p.Face, I: p.I, J: p.J}
	cur := components.Current{U: p.U, V: p.V, M: p.M}
	life := components.Life{Remaining: p.Lifespan}
	return components.ParticleValue(&pos, &cur, &life, fieldID)
}

// NearestParticle returns the index of the particle whose current screen
// position is closest to (x, y) and within radius, or -1.
func NearestParticle(particles []systems.Particle, x, y, radius float64) int {
	best := -1
	bestDist := radius * radius
	for i, p := range particles {
		dx := p.To.X - x
		dy := p.To.Y - y
		d := dx*dx + dy*dy
		if math.IsNaN(d) {
			continue
		}
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func fieldGroups(fields []components.FieldDescriptor) []string {
	seen := make(map[string]bool)
	var groups []string
	for _, fd := range fields {
		if !seen[fd.Group] {
			seen[fd.Group] = true
			groups = append(groups, fd.Group)
		}
	}
	return groups
}

func groupTitle(group string) string {
	switch group {
	case "position":
		return "Position"
	case "current":
		return "Current"
	case "life":
		return "Life"
	default:
		return group
	}
}
