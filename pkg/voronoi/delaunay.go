// Package voronoi builds Voronoi partitions over per-object centroids:
// a Bowyer-Watson Delaunay triangulation, its dual ridge structure,
// reconstruction of finite cell polygons for unbounded cells, and
// rasterization of per-class partition masks.
package voronoi

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerateSites indicates the sites admit no triangulation
// (fewer than three sites, or all collinear).
var ErrDegenerateSites = errors.New("voronoi: sites admit no triangulation")

// triangle holds three indices into the (extended) site slice, stored in
// counter-clockwise order.
type triangle struct {
	a, b, c int
}

type edge struct {
	lo, hi int
}

func makeEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{lo: a, hi: b}
}

// delaunay triangulates pts with the Bowyer-Watson incremental algorithm.
// The returned triangles index into pts only; super-triangle artifacts are
// removed. Returns nil when no valid triangle survives.
func delaunay(pts []r2.Vec) []triangle {
	n := len(pts)
	if n < 3 {
		return nil
	}

	// Super-triangle generously enclosing all sites.
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	d := maxX - minX
	if maxY-minY > d {
		d = maxY - minY
	}
	if d == 0 {
		d = 1
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	ext := make([]r2.Vec, n, n+3)
	copy(ext, pts)
	ext = append(ext,
		r2.Vec{X: cx - 20*d, Y: cy - d},
		r2.Vec{X: cx + 20*d, Y: cy - d},
		r2.Vec{X: cx, Y: cy + 20*d},
	)

	tris := []triangle{newTriangle(ext, n, n+1, n+2)}

	for i := 0; i < n; i++ {
		p := ext[i]

		// Triangles whose circumcircle contains the new site.
		bad := tris[:0:0]
		keep := tris[:0:0]
		for _, t := range tris {
			if inCircumcircle(ext, t, p) {
				bad = append(bad, t)
			} else {
				keep = append(keep, t)
			}
		}

		// Boundary of the carved cavity: edges of bad triangles that are
		// not shared between two bad triangles.
		edgeCount := make(map[edge]int, 3*len(bad))
		for _, t := range bad {
			edgeCount[makeEdge(t.a, t.b)]++
			edgeCount[makeEdge(t.b, t.c)]++
			edgeCount[makeEdge(t.c, t.a)]++
		}
		tris = keep
		for e, count := range edgeCount {
			if count != 1 {
				continue
			}
			tris = append(tris, newTriangle(ext, e.lo, e.hi, i))
		}
	}

	// Strip triangles using super-triangle vertices.
	out := tris[:0:0]
	for _, t := range tris {
		if t.a < n && t.b < n && t.c < n {
			out = append(out, t)
		}
	}
	return out
}

// newTriangle orders the vertices counter-clockwise.
func newTriangle(pts []r2.Vec, a, b, c int) triangle {
	if orient(pts[a], pts[b], pts[c]) < 0 {
		b, c = c, b
	}
	return triangle{a: a, b: b, c: c}
}

func orient(a, b, c r2.Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// inCircumcircle reports whether p lies strictly inside the circumcircle
// of t (t counter-clockwise), via the lifted 3×3 determinant test.
func inCircumcircle(pts []r2.Vec, t triangle, p r2.Vec) bool {
	ax, ay := pts[t.a].X-p.X, pts[t.a].Y-p.Y
	bx, by := pts[t.b].X-p.X, pts[t.b].Y-p.Y
	cx, cy := pts[t.c].X-p.X, pts[t.c].Y-p.Y
	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	return det > 0
}

// circumcenter returns the center of the circle through a, b and c.
func circumcenter(a, b, c r2.Vec) r2.Vec {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if d == 0 {
		// Collinear; midpoint of the extreme pair is the best stand-in.
		return r2.Scale(0.5, r2.Add(a, c))
	}
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	return r2.Vec{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
}
