package voronoi

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"gridgen/internal/models"
	"gridgen/pkg/geometry"
)

// minSites is the minimum number of valid centroids needed before a
// diagram is computed; below it the partition degrades to empty masks.
const minSites = 4

// Partition is a Voronoi partition of a bounded raster, built over the
// centroids of validated input contours. Each site carries the class of
// its originating contour; rasterizing a class unions that class's cells.
type Partition struct {
	width  int
	height int

	objects []geometry.Object
	diagram *Diagram
	cells   [][]r2.Vec

	// owner[y*width+x] holds site index + 1; built lazily.
	owner []int32

	log *slog.Logger
}

// Build validates the contours of byClass and constructs the partition
// over the surviving centroids. Invalid contours are skipped with a
// warning. Fewer than minSites valid centroids is not an error: the
// diagram is skipped and every class rasterizes to an empty mask.
func Build(byClass map[string][]geometry.Contour, width, height int, logger *slog.Logger) (*Partition, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return New(geometry.ValidObjects(byClass, logger), width, height, logger)
}

// New constructs the partition over already-validated objects.
func New(objects []geometry.Object, width, height int, logger *slog.Logger) (*Partition, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("voronoi: %dx%d raster: %w", width, height, models.ErrEmptyGrid)
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Partition{width: width, height: height, objects: objects, log: logger}

	if len(objects) < minSites {
		p.log.Warn("not enough valid centroids for Voronoi diagram, skipping computation",
			"centroids", len(objects), "required", minSites)
		return p, nil
	}

	sites := make([]r2.Vec, len(objects))
	for i, o := range objects {
		sites[i] = o.Centroid
	}
	diagram, err := NewDiagram(sites)
	if err != nil {
		// Collinear or otherwise untriangulable sites degrade the same
		// way as too few sites.
		p.log.Warn("Voronoi diagram construction failed, partition degrades to empty masks", "err", err)
		return p, nil
	}
	p.diagram = diagram
	radius := 2 * float64(max(width, height))
	p.cells = diagram.FinitePolygons(radius)
	return p, nil
}

// Degenerate reports whether no diagram was computed; every class then
// rasterizes to an empty mask.
func (p *Partition) Degenerate() bool { return p.diagram == nil }

// Objects returns the validated objects backing the partition, in
// identifier encounter order.
func (p *Partition) Objects() []geometry.Object { return p.objects }

// RasterizeClass returns the binary union of the cells whose sites belong
// to class. Cell vertex coordinates are clipped to
// [0, width-1]×[0, height-1] before filling, so partially out-of-bounds
// cells are clipped rather than dropped. For a non-degenerate partition
// the class masks tile the raster exactly: contested or uncovered
// boundary pixels are resolved by the Euclidean nearest-centroid rule.
func (p *Partition) RasterizeClass(class string) *models.BinaryMask {
	out := models.NewBinaryMask(p.width, p.height)
	if p.Degenerate() {
		return out
	}
	p.buildOwner()
	for i, v := range p.owner {
		if v > 0 && p.objects[v-1].Class == class {
			out.Pix[i] = 1
		}
	}
	return out
}

// buildOwner assigns every pixel to exactly one site.
func (p *Partition) buildOwner() {
	if p.owner != nil {
		return
	}
	p.owner = make([]int32, p.width*p.height)

	scratch := models.NewBinaryMask(p.width, p.height)
	for i, cell := range p.cells {
		if len(cell) < 3 {
			continue
		}
		clipped := make([]r2.Vec, len(cell))
		for j, v := range cell {
			clipped[j] = r2.Vec{
				X: clamp(v.X, 0, float64(p.width-1)),
				Y: clamp(v.Y, 0, float64(p.height-1)),
			}
		}
		for j := range scratch.Pix {
			scratch.Pix[j] = 0
		}
		geometry.FillPolygon(scratch, geometry.Polygon{Vertices: clipped})

		site := int32(i + 1)
		for j, v := range scratch.Pix {
			if v == 0 {
				continue
			}
			switch cur := p.owner[j]; {
			case cur == 0:
				p.owner[j] = site
			case cur != site:
				// Boundary pixel claimed twice; nearest centroid wins.
				if p.closer(j, i, int(cur-1)) {
					p.owner[j] = site
				}
			}
		}
	}

	// Pixels missed by every fill (rasterization slivers along clipped
	// edges) also fall to the nearest centroid.
	for j, v := range p.owner {
		if v != 0 {
			continue
		}
		p.owner[j] = int32(p.nearestSite(j) + 1)
	}
}

// closer reports whether site a is strictly nearer to pixel j than site b.
func (p *Partition) closer(j, a, b int) bool {
	x := float64(j % p.width)
	y := float64(j / p.width)
	da := sqDist(p.objects[a].Centroid, x, y)
	db := sqDist(p.objects[b].Centroid, x, y)
	return da < db
}

func (p *Partition) nearestSite(j int) int {
	x := float64(j % p.width)
	y := float64(j / p.width)
	best, bestD := 0, sqDist(p.objects[0].Centroid, x, y)
	for i := 1; i < len(p.objects); i++ {
		if d := sqDist(p.objects[i].Centroid, x, y); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func sqDist(c r2.Vec, x, y float64) float64 {
	dx, dy := c.X-x, c.Y-y
	return dx*dx + dy*dy
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

// Edges returns the finite ridge segments of the diagram, for overlay
// rendering. Nil for a degenerate partition.
func (p *Partition) Edges() [][2]r2.Vec {
	if p.Degenerate() {
		return nil
	}
	var out [][2]r2.Vec
	for _, r := range p.diagram.Ridges {
		if r.V2 < 0 {
			continue
		}
		out = append(out, [2]r2.Vec{p.diagram.Vertices[r.V1], p.diagram.Vertices[r.V2]})
	}
	return out
}
