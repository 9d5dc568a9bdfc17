// Package camera tracks the globe view: rotation and zoom of the
// orthographic projection.
package camera

import "math"

// Camera holds the projection rotation (degrees) and scale (globe radius in
// pixels). Longitude rotation wraps; latitude rotation stops at the poles.
type Camera struct {
	Lambda, Phi float64
	Scale       float64

	// Zoom constraints
	MinScale, MaxScale float64

	homeLambda, homePhi, homeScale float64
}

// New creates a camera at the given view, which Reset returns to.
func New(lambda, phi, scale float64) *Camera {
	c := &Camera{
		MinScale:   scale * 0.25,
		MaxScale:   scale * 8,
		homeLambda: lambda,
		homePhi:    phi,
		homeScale:  scale,
	}
	c.Reset()
	return c
}

// Pan rotates the globe by the given degrees.
func (c *Camera) Pan(dLambda, dPhi float64) {
	c.Lambda = wrapDegrees(c.Lambda + dLambda)
	c.Phi = clamp(c.Phi+dPhi, -90, 90)
}

// Drag rotates the globe by a mouse movement in pixels, so the point under
// the cursor roughly follows it at the current zoom.
func (c *Camera) Drag(dx, dy float64) {
	perPixel := c.DegreesPerPixel()
	c.Pan(dx*perPixel, -dy*perPixel)
}

// DegreesPerPixel returns the arc swept by one pixel near the globe center.
func (c *Camera) DegreesPerPixel() float64 {
	if c.Scale <= 0 {
		return 0
	}
	return 180 / (math.Pi * c.Scale)
}

// SetScale sets the globe radius, clamped to min/max.
func (c *Camera) SetScale(scale float64) {
	c.Scale = clamp(scale, c.MinScale, c.MaxScale)
}

// ZoomBy multiplies the current scale by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetScale(c.Scale * factor)
}

// Reset returns the camera to its initial view.
func (c *Camera) Reset() {
	c.Lambda = c.homeLambda
	c.Phi = c.homePhi
	c.Scale = c.homeScale
}

// View returns the projection parameters.
func (c *Camera) View() (scale, lambda, phi float64) {
	return c.Scale, c.Lambda, c.Phi
}

// wrapDegrees wraps an angle into (-180, 180].
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
