package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/currents/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Dataset      string
	Depth        int
	Particles    int
	Mode         string
	Scheme       string
	Tick         int64
	FPS          int32
	Paused       bool
	Loading      bool
	BucketCounts []int
	Drawn        int
	Clients      int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	if data.Loading {
		rl.DrawText(fmt.Sprintf("Loading %s...", data.Dataset), 10, 35, 16, rl.Yellow)
		return
	}

	rl.DrawText(
		fmt.Sprintf("Particles: %d (%s) | Depth: %d | Scheme: %s", data.Particles, data.Mode, data.Depth, data.Scheme),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Drawn: %d | Clients: %d", data.Tick, data.FPS, data.Drawn, data.Clients),
		10, 55, 16, rl.LightGray,
	)

	if len(data.BucketCounts) > 0 {
		rl.DrawText("Buckets: "+formatCounts(data.BucketCounts), 10, 75, 14, rl.Gray)
	}

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 95, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// ControlsLegend builds the key legend from the overlay registry plus the
// fixed viewer keys.
func ControlsLegend(overlays *OverlayRegistry) string {
	parts := []string{"Space: pause", "R: random", "L: lattice", "T: theme", "Backspace: clear",
		"Arrows/RMB: rotate", "+/-: zoom", "Home: reset view"}
	for _, desc := range overlays.All() {
		if desc.KeyLabel != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", desc.KeyLabel, strings.ToLower(desc.Name)))
		}
	}
	return strings.Join(parts, " | ")
}

// PerfPanel renders the tick phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  P95: %s  Max: %s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.P95TickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.Phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

func formatCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, " / ")
}
