// Package projection maps geographic coordinates onto the screen.
package projection

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Orthographic is an orthographic globe projection. The sphere is first
// rotated by (lambda, phi) degrees, then scaled and translated so that the
// rotated origin lands on (cx, cy). Screen Y grows downwards.
type Orthographic struct {
	scale  float64
	cx, cy float64

	lambda         float64 // degrees added to longitude
	sinPhi, cosPhi float64

	center s2.Point
}

// NewOrthographic returns a projection with the given scale, screen center
// and rotation in degrees.
func NewOrthographic(scale, cx, cy, rotateLambda, rotatePhi float64) *Orthographic {
	phi := rotatePhi * math.Pi / 180
	return &Orthographic{
		scale:  scale,
		cx:     cx,
		cy:     cy,
		lambda: rotateLambda,
		sinPhi: math.Sin(phi),
		cosPhi: math.Cos(phi),
		center: s2.PointFromLatLng(s2.LatLngFromDegrees(-rotatePhi, -rotateLambda)),
	}
}

// SetView changes scale and rotation in place. Screen center is kept.
func (o *Orthographic) SetView(scale, rotateLambda, rotatePhi float64) {
	*o = *NewOrthographic(scale, o.cx, o.cy, rotateLambda, rotatePhi)
}

// Center returns the geographic coordinate shown at the middle of the globe.
func (o *Orthographic) Center() (lon, lat float64) {
	ll := s2.LatLngFromPoint(o.center)
	return ll.Lng.Degrees(), ll.Lat.Degrees()
}

// Scale returns the globe radius in pixels.
func (o *Orthographic) Scale() float64 { return o.scale }

// Translate returns the screen position of the globe center.
func (o *Orthographic) Translate() r2.Vec { return r2.Vec{X: o.cx, Y: o.cy} }

// rotate returns the unit vector for (lon, lat) in the view frame, where X
// points at the viewer, Y to the right and Z up.
func (o *Orthographic) rotate(lon, lat float64) r3.Vector {
	p := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon+o.lambda))
	return r3.Vector{
		X: p.X*o.cosPhi - p.Z*o.sinPhi,
		Y: p.Y,
		Z: p.Z*o.cosPhi + p.X*o.sinPhi,
	}
}

// Project returns the screen position of (lon, lat). Points on the far side
// of the globe are projected too; use Visible to tell them apart.
func (o *Orthographic) Project(lon, lat float64) r2.Vec {
	v := o.rotate(lon, lat)
	return r2.Vec{X: o.cx + o.scale*v.Y, Y: o.cy - o.scale*v.Z}
}

// Visible reports whether (lon, lat) lies on the hemisphere facing the viewer.
func (o *Orthographic) Visible(lon, lat float64) bool {
	p := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	return p.Dot(o.center.Vector) >= 0
}

// Outline returns the globe's silhouette as a closed polygon of n vertices,
// traced along the horizon great circle.
func (o *Orthographic) Outline(n int) geom.Polygon {
	if n < 3 {
		n = 3
	}
	start := s2.Ortho(o.center)
	ring := make(geom.Path, 0, n+1)
	for k := 0; k < n; k++ {
		angle := s1.Angle(2 * math.Pi * float64(k) / float64(n))
		p := s2.Rotate(start, o.center, angle)
		ll := s2.LatLngFromPoint(p)
		v := o.Project(ll.Lng.Degrees(), ll.Lat.Degrees())
		ring = append(ring, geom.Point{X: v.X, Y: v.Y})
	}
	ring = append(ring, ring[0])
	return geom.Polygon{ring}
}

// Contains reports whether screen point pt falls on the globe disc,
// using the given outline (see Outline).
func Contains(outline geom.Polygon, pt r2.Vec) bool {
	return geom.Point{X: pt.X, Y: pt.Y}.Within(outline) != geom.Outside
}
