package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is the set of parameters adjustable from the controls panel.
type ControlState struct {
	FadeAlpha         float64
	LineWidth         float64
	TrailHue          float64
	TrailSaturation   float64
	MaxMagnitude      float64
	LifespanDecrement float64
}

// Action is a button press from the controls panel.
type Action int

const (
	ActionNone Action = iota
	ActionRespawnRandom
	ActionRespawnLattice
	ActionToggleTheme
	ActionTogglePause
	ActionClear
)

// slider describes one row of the controls panel.
type slider struct {
	label    string
	min, max float64
	format   string
	get      func(*ControlState) *float64
}

var sliders = []slider{
	{"Fade", 0.01, 0.3, "%.2f", func(s *ControlState) *float64 { return &s.FadeAlpha }},
	{"Line width", 0.5, 4, "%.1f", func(s *ControlState) *float64 { return &s.LineWidth }},
	{"Trail hue", 0, 360, "%.0f", func(s *ControlState) *float64 { return &s.TrailHue }},
	{"Trail saturation", 0, 1, "%.2f", func(s *ControlState) *float64 { return &s.TrailSaturation }},
	{"Max magnitude", 0.005, 0.2, "%.3f", func(s *ControlState) *float64 { return &s.MaxMagnitude }},
	{"Lifespan decrement", 0.001, 0.05, "%.3f", func(s *ControlState) *float64 { return &s.LifespanDecrement }},
}

// Clamp limits every field to its slider range.
func (s ControlState) Clamp() ControlState {
	for _, sl := range sliders {
		v := sl.get(&s)
		if *v < sl.min {
			*v = sl.min
		}
		if *v > sl.max {
			*v = sl.max
		}
	}
	return s
}

// ControlsPanel renders raygui sliders and buttons for the live parameters.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Height returns the panel height in pixels.
func (c *ControlsPanel) Height() int32 {
	return c.renderer.Theme.Padding*2 + 24 + int32(len(sliders))*38 + 2*36
}

// Draw renders the panel and returns the edited state plus any button action.
func (c *ControlsPanel) Draw(state ControlState, paused bool) (ControlState, Action) {
	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.Height())

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	barWidth := float32(c.width - padding*2 - 60)

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += 24

	for _, sl := range sliders {
		v := sl.get(&state)
		rl.DrawText(sl.label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		y += 14
		nv := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: barWidth, Height: 16},
			"", "",
			float32(*v), float32(sl.min), float32(sl.max),
		)
		rl.DrawText(fmt.Sprintf(sl.format, *v), int32(x+barWidth+8), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)
		if float64(nv) != float64(float32(*v)) {
			*v = float64(nv)
		}
		y += 24
	}

	action := ActionNone
	half := (float32(c.width-padding*2) - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 28}, "Random") {
		action = ActionRespawnRandom
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 28}, "Lattice") {
		action = ActionRespawnLattice
	}
	y += 36
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 28}, "Theme") {
		action = ActionToggleTheme
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 28}, toggleText(paused, "Resume", "Pause")) {
		action = ActionTogglePause
	}

	return state.Clamp(), action
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
