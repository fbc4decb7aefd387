package grid

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"gridgen/internal/models"
)

// DistanceTransform computes the exact Euclidean distance field of m:
// for every background cell, the distance to the nearest foreground cell;
// 0 on foreground cells. The field must be computed once per distinct
// seed mask and reused across all ring thresholds derived from it.
//
// Uses the Felzenszwalb-Huttenlocher two-pass squared distance transform
// (lower envelope of parabolas per column, then per row), O(W·H).
func DistanceTransform(m *models.BinaryMask) *mat.Dense {
	w, h := m.Width, m.Height
	field := mat.NewDense(h, w, nil)

	// Column pass: squared distance to the nearest foreground cell in
	// the same column.
	col := make([]float64, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if m.Pix[y*w+x] != 0 {
				col[y] = 0
			} else {
				col[y] = math.Inf(1)
			}
		}
		for y, d := range distance1D(col) {
			field.Set(y, x, d)
		}
	}

	// Row pass over the column results.
	row := make([]float64, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			row[x] = field.At(y, x)
		}
		for x, d := range distance1D(row) {
			field.Set(y, x, math.Sqrt(d))
		}
	}
	return field
}

// distance1D is the one-dimensional squared distance transform of a
// sampled function f, computed as the lower envelope of the parabolas
// y = f[i] + (x-i)^2.
func distance1D(f []float64) []float64 {
	n := len(f)
	d := make([]float64, n)
	v := make([]int, n)      // parabola apex positions
	z := make([]float64, n+1) // envelope interval boundaries

	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		s := intersect(f, v[k], q)
		for k > 0 && s <= z[k] {
			k--
			s = intersect(f, v[k], q)
		}
		if s <= z[k] {
			// New parabola lies below the remaining apex everywhere;
			// happens when the old apex sample is infinite.
			v[k] = q
		} else {
			k++
			v[k] = q
			z[k] = s
		}
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dx := float64(q - v[k])
		d[q] = dx*dx + f[v[k]]
	}
	return d
}

// intersect returns the abscissa where the parabolas rooted at p and q
// cross. Infinite-valued samples push the crossing to the appropriate
// infinity so empty columns behave correctly.
func intersect(f []float64, p, q int) float64 {
	if math.IsInf(f[q], 1) {
		return math.Inf(1)
	}
	if math.IsInf(f[p], 1) {
		return math.Inf(-1)
	}
	fp, fq := float64(p), float64(q)
	return ((f[q] + fq*fq) - (f[p] + fp*fp)) / (2*fq - 2*fp)
}
