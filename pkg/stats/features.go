// Package stats is the downstream statistics collaborator: per-object
// morphology features over labeled masks, gene-count aggregation over a
// per-gene counts volume, parent/child hierarchy mapping by label
// overlap, and a batch pipeline tying them together. It consumes the
// labeled masks the expansion engines produce as plain data.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"gridgen/internal/models"
)

// RegionFeatures holds the morphology of one labeled object.
// The bounding box is half-open, [MinRow, MaxRow) × [MinCol, MaxCol).
type RegionFeatures struct {
	Label        int32
	Area         int
	Perimeter    float64
	Eccentricity float64
	Solidity     float64
	CentroidX    float64
	CentroidY    float64
	MinRow       int
	MinCol       int
	MaxRow       int
	MaxCol       int
}

// PerObjectFeatures extracts morphology features for every object of l,
// ordered by label.
func PerObjectFeatures(l *models.LabeledMask) []RegionFeatures {
	type acc struct {
		xs, ys []float64
	}
	regions := make(map[int32]*acc)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			v := l.Pix[y*l.Width+x]
			if v == 0 {
				continue
			}
			a := regions[v]
			if a == nil {
				a = &acc{}
				regions[v] = a
			}
			a.xs = append(a.xs, float64(x))
			a.ys = append(a.ys, float64(y))
		}
	}

	labels := make([]int32, 0, len(regions))
	for v := range regions {
		labels = append(labels, v)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	out := make([]RegionFeatures, 0, len(labels))
	for _, v := range labels {
		a := regions[v]
		f := RegionFeatures{
			Label:     v,
			Area:      len(a.xs),
			CentroidX: stat.Mean(a.xs, nil),
			CentroidY: stat.Mean(a.ys, nil),
		}
		f.MinCol, f.MaxCol = intBounds(a.xs)
		f.MinRow, f.MaxRow = intBounds(a.ys)
		f.MaxCol++
		f.MaxRow++
		f.Perimeter = perimeter(l, v)
		f.Eccentricity = eccentricity(a.xs, a.ys, f.CentroidX, f.CentroidY)
		f.Solidity = solidity(a.xs, a.ys)
		out = append(out, f)
	}
	return out
}

func intBounds(vs []float64) (lo, hi int) {
	lo, hi = int(vs[0]), int(vs[0])
	for _, v := range vs[1:] {
		if int(v) < lo {
			lo = int(v)
		}
		if int(v) > hi {
			hi = int(v)
		}
	}
	return lo, hi
}

// perimeter counts exposed 4-neighbor cell edges of the object, the
// pixel-edge perimeter.
func perimeter(l *models.LabeledMask, label int32) float64 {
	var edges int
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if l.Pix[y*l.Width+x] != label {
				continue
			}
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if !l.InBounds(nx, ny) || l.Pix[ny*l.Width+nx] != label {
					edges++
				}
			}
		}
	}
	return float64(edges)
}

// eccentricity derives the ellipse eccentricity from the second central
// moments of the pixel coordinates.
func eccentricity(xs, ys []float64, cx, cy float64) float64 {
	n := float64(len(xs))
	var mxx, myy, mxy float64
	for i := range xs {
		dx, dy := xs[i]-cx, ys[i]-cy
		mxx += dx * dx
		myy += dy * dy
		mxy += dx * dy
	}
	mxx, myy, mxy = mxx/n, myy/n, mxy/n

	// Eigenvalues of the covariance matrix.
	tr := mxx + myy
	det := mxx*myy - mxy*mxy
	disc := math.Sqrt(math.Max(0, tr*tr/4-det))
	l1 := tr/2 + disc
	l2 := tr/2 - disc
	if l1 <= 0 {
		return 0
	}
	return math.Sqrt(math.Max(0, 1-l2/l1))
}

// solidity is the ratio of pixel area to the convex hull area of the
// pixel centers; thin or tiny regions saturate at 1.
func solidity(xs, ys []float64) float64 {
	pts := make([][2]float64, len(xs))
	for i := range xs {
		pts[i] = [2]float64{xs[i], ys[i]}
	}
	hull := convexHull(pts)
	hullArea := polygonArea(hull)
	if hullArea <= 0 {
		return 1
	}
	s := float64(len(xs)) / hullArea
	if s > 1 {
		return 1
	}
	return s
}

// convexHull is Andrew's monotone chain over the points.
func convexHull(pts [][2]float64) [][2]float64 {
	if len(pts) < 3 {
		return pts
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})
	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}
	var hull [][2]float64
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func polygonArea(ring [][2]float64) float64 {
	var sum float64
	n := len(ring)
	if n < 3 {
		return 0
	}
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return math.Abs(sum) / 2
}

// BulkFeatures summarizes a whole mask as a single total-area record.
func BulkFeatures(m *models.BinaryMask) RegionFeatures {
	return RegionFeatures{Area: m.Count(), Solidity: 1}
}

// TileFeatures holds the area of one grid tile.
type TileFeatures struct {
	X, Y int
	Area int
}

// GridFeatures divides the mask into gridSize×gridSize tiles and reports
// the set-pixel count of each, in row-major tile order.
func GridFeatures(m *models.BinaryMask, gridSize int) []TileFeatures {
	var out []TileFeatures
	for y := 0; y < m.Height; y += gridSize {
		for x := 0; x < m.Width; x += gridSize {
			area := 0
			for ty := y; ty < y+gridSize && ty < m.Height; ty++ {
				for tx := x; tx < x+gridSize && tx < m.Width; tx++ {
					if m.Pix[ty*m.Width+tx] != 0 {
						area++
					}
				}
			}
			out = append(out, TileFeatures{X: x, Y: y, Area: area})
		}
	}
	return out
}
