package voronoi

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Ridge is one Voronoi edge: the bisector segment between sites P1 and P2.
// V1 and V2 index Diagram.Vertices; V2 is -1 for an open (unbounded)
// ridge, which has only the one finite vertex.
type Ridge struct {
	P1, P2 int
	V1, V2 int
}

// Diagram is a Voronoi diagram over a set of sites, represented by its
// vertex set (Delaunay circumcenters) and ridge list, the dual of the
// Delaunay triangulation.
type Diagram struct {
	Points   []r2.Vec
	Vertices []r2.Vec
	Ridges   []Ridge
}

// NewDiagram computes the Voronoi diagram of points. Returns
// ErrDegenerateSites when the sites cannot be triangulated.
func NewDiagram(points []r2.Vec) (*Diagram, error) {
	tris := delaunay(points)
	if len(tris) == 0 {
		return nil, ErrDegenerateSites
	}

	d := &Diagram{
		Points:   points,
		Vertices: make([]r2.Vec, len(tris)),
	}
	for i, t := range tris {
		d.Vertices[i] = circumcenter(points[t.a], points[t.b], points[t.c])
	}

	// One ridge per Delaunay edge; edges on the hull have a single
	// adjacent triangle and produce an open ridge.
	adjacent := make(map[edge][]int)
	for i, t := range tris {
		adjacent[makeEdge(t.a, t.b)] = append(adjacent[makeEdge(t.a, t.b)], i)
		adjacent[makeEdge(t.b, t.c)] = append(adjacent[makeEdge(t.b, t.c)], i)
		adjacent[makeEdge(t.c, t.a)] = append(adjacent[makeEdge(t.c, t.a)], i)
	}
	edges := make([]edge, 0, len(adjacent))
	for e := range adjacent {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].lo != edges[j].lo {
			return edges[i].lo < edges[j].lo
		}
		return edges[i].hi < edges[j].hi
	})
	for _, e := range edges {
		tr := adjacent[e]
		r := Ridge{P1: e.lo, P2: e.hi, V1: tr[0], V2: -1}
		if len(tr) > 1 {
			r.V2 = tr[1]
		}
		d.Ridges = append(d.Ridges, r)
	}
	return d, nil
}

// FinitePolygons reconstructs one finite polygon per site. Bounded cells
// are their ridge vertices; for unbounded cells a far vertex is
// synthesized per open ridge at the given radius from the ridge's finite
// vertex, along the ridge's outward normal (sign chosen against the
// centroid of all sites so the extension points away from the diagram's
// interior). Each cell's vertices are sorted by angle around their own
// centroid, giving a valid simple polygon.
func (d *Diagram) FinitePolygons(radius float64) [][]r2.Vec {
	var center r2.Vec
	for _, p := range d.Points {
		center = r2.Add(center, p)
	}
	center = r2.Scale(1/float64(len(d.Points)), center)

	ridgesOf := make([][]Ridge, len(d.Points))
	for _, r := range d.Ridges {
		ridgesOf[r.P1] = append(ridgesOf[r.P1], r)
		ridgesOf[r.P2] = append(ridgesOf[r.P2], r)
	}

	cells := make([][]r2.Vec, len(d.Points))
	for i := range d.Points {
		seen := make(map[int]struct{})
		var verts []r2.Vec
		for _, r := range ridgesOf[i] {
			for _, v := range [2]int{r.V1, r.V2} {
				if v < 0 {
					continue
				}
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				verts = append(verts, d.Vertices[v])
			}
			if r.V2 >= 0 {
				continue
			}
			// Open ridge: extend from its finite vertex outward.
			other := r.P2
			if other == i {
				other = r.P1
			}
			t := r2.Sub(d.Points[other], d.Points[i])
			norm := math.Hypot(t.X, t.Y)
			if norm == 0 {
				continue
			}
			t = r2.Scale(1/norm, t)
			nrm := r2.Vec{X: -t.Y, Y: t.X}
			mid := r2.Scale(0.5, r2.Add(d.Points[i], d.Points[other]))
			if r2.Dot(r2.Sub(mid, center), nrm) < 0 {
				nrm = r2.Scale(-1, nrm)
			}
			verts = append(verts, r2.Add(d.Vertices[r.V1], r2.Scale(radius, nrm)))
		}
		cells[i] = sortByAngle(verts)
	}
	return cells
}

// sortByAngle orders verts counter-clockwise around their mean.
func sortByAngle(verts []r2.Vec) []r2.Vec {
	if len(verts) == 0 {
		return verts
	}
	var c r2.Vec
	for _, v := range verts {
		c = r2.Add(c, v)
	}
	c = r2.Scale(1/float64(len(verts)), c)
	sort.Slice(verts, func(i, j int) bool {
		ai := math.Atan2(verts[i].Y-c.Y, verts[i].X-c.X)
		aj := math.Atan2(verts[j].Y-c.Y, verts[j].X-c.X)
		return ai < aj
	})
	return verts
}
