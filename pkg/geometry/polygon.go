// Package geometry provides the planar primitives behind contour handling:
// polygon construction and validation, shoelace area and centroids, and
// scanline rasterization of polygons into binary masks. Points are
// gonum spatial/r2 vectors throughout.
package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sentinel errors for contour-to-polygon conversion.
var (
	// ErrTooFewPoints indicates a contour with fewer than 4 points.
	ErrTooFewPoints = errors.New("geometry: contour needs at least 4 points")
	// ErrZeroArea indicates a contour that encloses no area.
	ErrZeroArea = errors.New("geometry: polygon has zero area")
	// ErrSelfIntersecting indicates a contour whose edges cross.
	ErrSelfIntersecting = errors.New("geometry: polygon is self-intersecting")
)

// Contour is an ordered sequence of 2D boundary points for one object.
// It may or may not repeat its first point at the end; construction
// auto-closes it either way.
type Contour []r2.Vec

// Polygon is a simple closed polygon. Vertices holds the ring without a
// repeated closing point.
type Polygon struct {
	Vertices []r2.Vec
}

// FromContour validates a contour and builds a simple polygon from it.
// Contours with fewer than 4 points, zero enclosed area, or crossing
// edges are rejected; an unclosed contour is closed automatically.
func FromContour(c Contour) (Polygon, error) {
	if len(c) < 4 {
		return Polygon{}, ErrTooFewPoints
	}
	ring := make([]r2.Vec, len(c))
	copy(ring, c)
	// Auto-close: drop an explicit closing point, the ring is implicit.
	if ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return Polygon{}, ErrTooFewPoints
	}
	p := Polygon{Vertices: ring}
	if math.Abs(p.Area()) < 1e-12 {
		return Polygon{}, ErrZeroArea
	}
	if p.selfIntersects() {
		return Polygon{}, ErrSelfIntersecting
	}
	return p, nil
}

// Area returns the signed shoelace area; positive for counter-clockwise
// vertex order in a y-up frame.
func (p Polygon) Area() float64 {
	var sum float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a, b := p.Vertices[i], p.Vertices[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Centroid returns the area centroid of the polygon.
func (p Polygon) Centroid() r2.Vec {
	var cx, cy, area float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a, b := p.Vertices[i], p.Vertices[(i+1)%n]
		cross := a.X*b.Y - b.X*a.Y
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
		area += cross
	}
	area /= 2
	if area == 0 {
		// Degenerate ring; fall back to the vertex mean.
		var m r2.Vec
		for _, v := range p.Vertices {
			m = r2.Add(m, v)
		}
		return r2.Scale(1/float64(n), m)
	}
	return r2.Vec{X: cx / (6 * area), Y: cy / (6 * area)}
}

// selfIntersects reports whether any two non-adjacent edges properly
// cross. O(n²) over the ring, which is fine at contour sizes.
func (p Polygon) selfIntersects() bool {
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a1 := p.Vertices[i]
		a2 := p.Vertices[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip edges sharing a vertex with edge i.
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b1 := p.Vertices[j]
			b2 := p.Vertices[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports a proper crossing between segments a1a2 and b1b2.
func segmentsCross(a1, a2, b1, b2 r2.Vec) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// orient returns twice the signed area of triangle abc.
func orient(a, b, c r2.Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
