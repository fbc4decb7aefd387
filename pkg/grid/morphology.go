package grid

import (
	"gridgen/internal/models"
)

// kernelRange returns the neighborhood offsets covered by a square
// structuring element of side k with its anchor at (k/2, k/2), matching
// the usual convention for even-sided kernels.
func kernelRange(k int) (lo, hi int) {
	anchor := k / 2
	return -anchor, k - 1 - anchor
}

// Dilate expands m with a square structuring element of side k: a cell is
// set in the output if any cell of its k×k window is set in m. Cells
// outside the grid count as background. k <= 1 returns a copy.
func Dilate(m *models.BinaryMask, k int) *models.BinaryMask {
	if k <= 1 {
		return m.Clone()
	}
	lo, hi := kernelRange(k)
	out := models.NewBinaryMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if window(m, x, y, lo, hi, 1) {
				out.Pix[y*m.Width+x] = 1
			}
		}
	}
	return out
}

// Erode shrinks m with a square structuring element of side k: a cell
// survives only if every cell of its k×k window is set. Cells outside
// the grid count as background, so foreground touching the border erodes.
func Erode(m *models.BinaryMask, k int) *models.BinaryMask {
	if k <= 1 {
		return m.Clone()
	}
	lo, hi := kernelRange(k)
	out := models.NewBinaryMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !window(m, x, y, lo, hi, 0) {
				out.Pix[y*m.Width+x] = 1
			}
		}
	}
	return out
}

// window reports whether any cell of the (lo..hi)² window around (x, y)
// has the given value; out-of-bounds cells read as 0.
func window(m *models.BinaryMask, x, y, lo, hi int, want uint8) bool {
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			vx, vy := x+dx, y+dy
			var v uint8
			if m.InBounds(vx, vy) {
				v = m.Pix[vy*m.Width+vx]
			}
			if v == want {
				return true
			}
		}
	}
	return false
}

// Open erodes then dilates, removing speckle smaller than the kernel.
func Open(m *models.BinaryMask, k int) *models.BinaryMask {
	return Dilate(Erode(m, k), k)
}

// Close dilates then erodes, sealing gaps smaller than the kernel.
func Close(m *models.BinaryMask, k int) *models.BinaryMask {
	return Erode(Dilate(m, k), k)
}

// FillHoles fills every background region of m that is not connected to
// the grid border (4-connectivity), i.e. holes fully enclosed by
// foreground.
func FillHoles(m *models.BinaryMask) *models.BinaryMask {
	w, h := m.Width, m.Height
	outside := make([]bool, w*h)
	queue := make([]int, 0, 2*(w+h))

	push := func(x, y int) {
		i := y*w + x
		if m.Pix[i] == 0 && !outside[i] {
			outside[i] = true
			queue = append(queue, i)
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		ux, uy := u%w, u/w
		for _, d := range offsets4 {
			vx, vy := ux+d[0], uy+d[1]
			if vx < 0 || vx >= w || vy < 0 || vy >= h {
				continue
			}
			push(vx, vy)
		}
	}

	out := models.NewBinaryMask(w, h)
	for i := range out.Pix {
		if m.Pix[i] != 0 || !outside[i] {
			out.Pix[i] = 1
		}
	}
	return out
}

// Subtract returns base with every cell set in any of masks cleared.
func Subtract(base *models.BinaryMask, masks ...*models.BinaryMask) *models.BinaryMask {
	out := base.Clone()
	for _, m := range masks {
		out.AndNot(m)
	}
	return out
}
