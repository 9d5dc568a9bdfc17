// Synthetic current preview tool - interactive speed heatmap with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/currents/synth"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
	depthLayers  = 3
)

func defaultParams() synth.Params {
	p := synth.DefaultParams()
	p.Size = gridSize
	p.Depths = depthLayers
	return p
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Current Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	face, depth := 0, 0

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	field := synth.Generate(params)
	var fastest float64
	needsRegen := false
	needsRedraw := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			field = synth.Generate(params)
			needsRegen = false
			needsRedraw = true
		}
		if needsRedraw {
			var speeds []float64
			speeds, fastest = synth.Speeds(field, depth, face)
			rl.UpdateTexture(texture, heatmap(speeds, fastest))
			needsRedraw = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Face %d  Depth %d  Max speed: %.4f cells/tick", face, depth, fastest), 15, statsY, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Synthetic Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, minText, maxText, valueText string, value, lo, hi float32) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				minText, maxText,
				value, lo, hi,
			)
			rl.DrawText(valueText, int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return next
		}

		if v := slider("Scale (noise frequency)", "0.5", "8.0", fmt.Sprintf("%.2f", params.Scale),
			float32(params.Scale), 0.5, 8); v != float32(params.Scale) {
			params.Scale = float64(v)
			needsRegen = true
		}
		if v := slider("Amplitude (cells per tick)", "0.01", "0.2", fmt.Sprintf("%.3f", params.Amplitude),
			float32(params.Amplitude), 0.01, 0.2); v != float32(params.Amplitude) {
			params.Amplitude = float64(v)
			needsRegen = true
		}
		if v := slider("Depth decay", "0.3", "1.0", fmt.Sprintf("%.2f", params.DepthDecay),
			float32(params.DepthDecay), 0.3, 1); v != float32(params.DepthDecay) {
			params.DepthDecay = float64(v)
			needsRegen = true
		}
		if v := slider("Land threshold (1 = none)", "0.4", "1.0", fmt.Sprintf("%.2f", params.Land),
			float32(params.Land), 0.4, 1); v != float32(params.Land) {
			params.Land = float64(v)
			needsRegen = true
		}
		if v := slider("Seed", "0", "99999", fmt.Sprintf("%d", params.Seed),
			float32(params.Seed), 0, 99999); int64(v) != params.Seed {
			params.Seed = int64(v)
			needsRegen = true
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if v := slider("Face", "0", fmt.Sprint(params.Faces-1), fmt.Sprintf("%d", face),
			float32(face), 0, float32(params.Faces-1)); int(v+0.5) != face {
			face = int(v + 0.5)
			needsRedraw = true
		}
		if v := slider("Depth", "0", fmt.Sprint(params.Depths-1), fmt.Sprintf("%d", depth),
			float32(depth), 0, float32(params.Depths-1)); int(v+0.5) != depth {
			depth = int(v + 0.5)
			needsRedraw = true
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			face, depth = 0, 0
			needsRegen = true
		}
		panelY += 55

		cmd := commandLine(params)
		rl.DrawText("synthfield flags:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(cmd, int32(panelX), int32(panelY), 12, rl.Gray)

		rl.DrawText("Press C to copy flags to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(cmd)
		}

		rl.EndDrawing()
	}
}

// commandLine formats params as synthfield flags.
func commandLine(p synth.Params) string {
	return fmt.Sprintf("-seed %d -scale %.2f -amplitude %.3f -depth-decay %.2f -land %.2f",
		p.Seed, p.Scale, p.Amplitude, p.DepthDecay, p.Land)
}
