package main

import (
	"image/color"
	"math"
)

// landColor marks no-data cells.
var landColor = color.RGBA{R: 32, G: 32, B: 32, A: 255}

// heatmap converts a speed grid into pixels, normalized to fastest.
func heatmap(speeds []float64, fastest float64) []color.RGBA {
	pixels := make([]color.RGBA, len(speeds))
	for i, s := range speeds {
		if math.IsNaN(s) {
			pixels[i] = landColor
			continue
		}
		v := 0.0
		if fastest > 0 {
			v = s / fastest
		}
		pixels[i] = speedColor(v)
	}
	return pixels
}

// speedColor maps v in [0, 1] onto dark blue -> cyan -> yellow -> white.
func speedColor(v float64) color.RGBA {
	v = math.Max(0, math.Min(1, v))
	var r, g, b float64
	switch {
	case v < 0.25:
		t := v / 0.25
		r, g, b = 10+t*30, 20+t*60, 60+t*100
	case v < 0.5:
		t := (v - 0.25) / 0.25
		r, g, b = 40+t*20, 80+t*120, 160+t*40
	case v < 0.75:
		t := (v - 0.5) / 0.25
		r, g, b = 60+t*140, 200-t*40, 200-t*150
	default:
		t := (v - 0.75) / 0.25
		r, g, b = 200+t*55, 160+t*95, 50+t*205
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
