package geometry

import (
	"math"

	"gridgen/internal/models"
)

// FillPolygon sets every cell of dst covered by p, sampling at integer
// pixel coordinates with an even-odd scanline rule. Boundary pixels are
// included, matching filled-contour rasterization in the usual raster
// toolkits. Geometry outside the grid is clipped by the scan bounds.
func FillPolygon(dst *models.BinaryMask, p Polygon) {
	n := len(p.Vertices)
	if n < 3 {
		return
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, v := range p.Vertices {
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	y0 := int(math.Ceil(minY))
	y1 := int(math.Floor(maxY))
	if y0 < 0 {
		y0 = 0
	}
	if y1 > dst.Height-1 {
		y1 = dst.Height - 1
	}

	xs := make([]float64, 0, 8)
	for y := y0; y <= y1; y++ {
		fy := float64(y)
		xs = xs[:0]
		for i := 0; i < n; i++ {
			a := p.Vertices[i]
			b := p.Vertices[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			// Half-open edge rule in y so shared vertices count once.
			lo, hi := a.Y, b.Y
			if lo > hi {
				lo, hi = hi, lo
			}
			if fy < lo || fy >= hi {
				continue
			}
			t := (fy - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		if len(xs) < 2 {
			continue
		}
		insertionSort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i]))
			x1 := int(math.Floor(xs[i+1]))
			if x0 < 0 {
				x0 = 0
			}
			if x1 > dst.Width-1 {
				x1 = dst.Width - 1
			}
			for x := x0; x <= x1; x++ {
				dst.Pix[y*dst.Width+x] = 1
			}
		}
	}

	// The half-open scan rule drops the topmost boundary row; stroke the
	// outline so boundary pixels are part of the fill.
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		drawLine(dst, int(math.Round(a.X)), int(math.Round(a.Y)), int(math.Round(b.X)), int(math.Round(b.Y)))
	}
}

// drawLine rasterizes the segment with Bresenham's algorithm, clipped to
// the grid.
func drawLine(dst *models.BinaryMask, x0, y0, x1, y1 int) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		if dst.InBounds(x0, y0) {
			dst.Pix[y0*dst.Width+x0] = 1
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func insertionSort(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

// RasterizeContour validates c and fills it into a fresh mask of the
// given shape.
func RasterizeContour(c Contour, width, height int) (*models.BinaryMask, error) {
	p, err := FromContour(c)
	if err != nil {
		return nil, err
	}
	m := models.NewBinaryMask(width, height)
	FillPolygon(m, p)
	return m, nil
}

// RasterizeContours fills every validated contour of cs into one mask;
// invalid contours are reported through the returned skip count.
func RasterizeContours(cs []Contour, width, height int) (*models.BinaryMask, int) {
	m := models.NewBinaryMask(width, height)
	skipped := 0
	for _, c := range cs {
		p, err := FromContour(c)
		if err != nil {
			skipped++
			continue
		}
		FillPolygon(m, p)
	}
	return m, skipped
}
