// Package mask answers whether a screen point lies on the visible globe.
package mask

import (
	"image"
	"math"

	"github.com/ctessum/geom"
	"golang.org/x/image/vector"
)

// Visibility is a rasterized globe silhouette. A pixel is visible only when
// it is fully covered by the outline.
type Visibility struct {
	img *image.Alpha
}

// Build rasterizes outline into a width x height mask.
func Build(outline geom.Polygon, width, height int) *Visibility {
	img := image.NewAlpha(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return &Visibility{img: img}
	}

	z := vector.NewRasterizer(width, height)
	for _, ring := range outline {
		if len(ring) < 3 {
			continue
		}
		z.MoveTo(float32(ring[0].X), float32(ring[0].Y))
		for _, p := range ring[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	}
	z.Draw(img, img.Bounds(), image.Opaque, image.Point{})
	return &Visibility{img: img}
}

// Size returns the mask dimensions.
func (m *Visibility) Size() (width, height int) {
	b := m.img.Bounds()
	return b.Dx(), b.Dy()
}

// IsVisible reports whether (x, y) is on the visible globe. Zero, negative,
// NaN and out-of-raster coordinates are never visible.
func (m *Visibility) IsVisible(x, y float64) bool {
	if !(x > 0) || !(y > 0) {
		return false
	}
	px, py := int(math.Floor(x)), int(math.Floor(y))
	if !image.Pt(px, py).In(m.img.Bounds()) {
		return false
	}
	return m.img.AlphaAt(px, py).A == 255
}

// Coverage returns the fraction of pixels that are visible.
func (m *Visibility) Coverage() float64 {
	if len(m.img.Pix) == 0 {
		return 0
	}
	n := 0
	for _, a := range m.img.Pix {
		if a == 255 {
			n++
		}
	}
	return float64(n) / float64(len(m.img.Pix))
}
