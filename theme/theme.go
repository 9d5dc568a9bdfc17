// Package theme holds the dark and light color schemes.
package theme

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/crazy3lf/colorconv"
)

// Scheme is a set of colors for the globe and trails.
type Scheme struct {
	Name  string
	Land  color.RGBA
	Sea   color.RGBA
	Fade  color.RGBA // drawn over the trail canvas every frame
	Trail color.RGBA // base stroke color; bucket opacity is applied on top
}

// DefaultFadeAlpha is the fade overlay opacity.
const DefaultFadeAlpha = 0.05

// Dark returns the dark scheme.
func Dark() Scheme {
	sea := color.RGBA{R: 64, G: 64, B: 64, A: 255}
	return Scheme{
		Name:  "dark",
		Land:  color.RGBA{R: 32, G: 32, B: 32, A: 255},
		Sea:   sea,
		Fade:  withAlpha(sea, DefaultFadeAlpha),
		Trail: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Light returns the light scheme.
func Light() Scheme {
	sea := color.RGBA{R: 70, G: 130, B: 180, A: 255} // steel blue
	return Scheme{
		Name:  "light",
		Land:  color.RGBA{R: 210, G: 180, B: 140, A: 255}, // tan
		Sea:   sea,
		Fade:  withAlpha(sea, DefaultFadeAlpha),
		Trail: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// ByName returns the named scheme. "auto" picks dark or light from prefersDark.
func ByName(name string, prefersDark bool) (Scheme, error) {
	switch strings.ToLower(name) {
	case "dark":
		return Dark(), nil
	case "light":
		return Light(), nil
	case "auto", "":
		if prefersDark {
			return Dark(), nil
		}
		return Light(), nil
	}
	return Scheme{}, fmt.Errorf("theme: unknown scheme %q", name)
}

// Toggle returns the opposite scheme, keeping the trail color and fade alpha.
func (s Scheme) Toggle() Scheme {
	next := Dark()
	if s.Name == "dark" {
		next = Light()
	}
	next.Trail = s.Trail
	next.Fade.A = s.Fade.A
	return next
}

// WithFade returns s with the fade overlay set to the sea color at alpha.
func (s Scheme) WithFade(alpha float64) Scheme {
	s.Fade = withAlpha(s.Sea, alpha)
	return s
}

// WithTrailHSV returns s with the trail color set from hue (degrees),
// saturation and value in [0, 1].
func (s Scheme) WithTrailHSV(h, sat, val float64) (Scheme, error) {
	c, err := TrailColor(h, sat, val)
	if err != nil {
		return s, err
	}
	s.Trail = c
	return s, nil
}

// TrailColor converts HSV to an opaque RGBA color.
func TrailColor(h, s, v float64) (color.RGBA, error) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("theme: trail color: %w", err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Stroke returns c with its alpha scaled by opacity.
func Stroke(c color.RGBA, opacity float64) color.RGBA {
	c.A = uint8(math.Round(float64(c.A) * clamp01(opacity)))
	return c
}

// Hex formats c as #rrggbbaa for web clients.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// PrefersDark reports whether the terminal advertises a dark background
// through COLORFGBG ("fg;bg"). Defaults to true when unset.
func PrefersDark() bool {
	v := os.Getenv("COLORFGBG")
	if v == "" {
		return true
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return true
	}
	// ANSI colors 0-6 and 8 are dark
	return bg <= 6 || bg == 8
}

func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	c.A = uint8(math.Round(255 * clamp01(alpha)))
	return c
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
