// Package models defines the raster data model shared by all analysis
// packages: dense 2D masks stored as flat row-major slices with explicit
// dimensions. A BinaryMask holds membership values in {0,1}; a LabeledMask
// holds non-negative integer object identifiers with 0 as background.
package models

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for mask construction and shape validation.
var (
	// ErrNilMask indicates a required mask argument was nil.
	ErrNilMask = errors.New("models: mask must not be nil")
	// ErrEmptyGrid indicates a grid with zero width or height.
	ErrEmptyGrid = errors.New("models: grid must have positive width and height")
	// ErrShapeMismatch indicates two grids of differing dimensions.
	ErrShapeMismatch = errors.New("models: grids must share the same shape")
)

// BinaryMask is a dense H×W raster with values in {0,1}.
// Pix is row-major: the cell at (x, y) lives at Pix[y*Width+x].
type BinaryMask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBinaryMask returns an all-zero binary mask of the given shape.
func NewBinaryMask(width, height int) *BinaryMask {
	return &BinaryMask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// OnesMask returns a binary mask of the given shape with every cell set.
func OnesMask(width, height int) *BinaryMask {
	m := NewBinaryMask(width, height)
	for i := range m.Pix {
		m.Pix[i] = 1
	}
	return m
}

// Validate checks that the mask is non-nil and has a well-formed shape.
func (m *BinaryMask) Validate() error {
	if m == nil {
		return ErrNilMask
	}
	if m.Width <= 0 || m.Height <= 0 {
		return ErrEmptyGrid
	}
	if len(m.Pix) != m.Width*m.Height {
		return fmt.Errorf("models: pixel buffer length %d does not match %dx%d grid", len(m.Pix), m.Width, m.Height)
	}
	return nil
}

// At returns the value at (x, y). Out-of-range access panics like a slice.
func (m *BinaryMask) At(x, y int) uint8 { return m.Pix[y*m.Width+x] }

// Set writes v at (x, y).
func (m *BinaryMask) Set(x, y int, v uint8) { m.Pix[y*m.Width+x] = v }

// InBounds reports whether (x, y) lies within the grid.
func (m *BinaryMask) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Clone returns a deep copy of the mask.
func (m *BinaryMask) Clone() *BinaryMask {
	out := &BinaryMask{Width: m.Width, Height: m.Height, Pix: make([]uint8, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Count returns the number of set cells.
func (m *BinaryMask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// sameShape panics on mismatched dimensions; set operations follow the
// gonum/mat convention of panicking rather than returning shape errors.
func (m *BinaryMask) sameShape(o *BinaryMask) {
	if m.Width != o.Width || m.Height != o.Height {
		panic(ErrShapeMismatch)
	}
}

// And intersects m with o in place.
func (m *BinaryMask) And(o *BinaryMask) {
	m.sameShape(o)
	for i, v := range o.Pix {
		if v == 0 {
			m.Pix[i] = 0
		}
	}
}

// AndNot clears every cell of m that is set in o.
func (m *BinaryMask) AndNot(o *BinaryMask) {
	m.sameShape(o)
	for i, v := range o.Pix {
		if v != 0 {
			m.Pix[i] = 0
		}
	}
}

// Or unions o into m in place.
func (m *BinaryMask) Or(o *BinaryMask) {
	m.sameShape(o)
	for i, v := range o.Pix {
		if v != 0 {
			m.Pix[i] = 1
		}
	}
}

// Empty reports whether no cell is set.
func (m *BinaryMask) Empty() bool {
	for _, v := range m.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// LabeledMask is a dense H×W raster of non-negative object identifiers.
// 0 is background; each positive value identifies one logical object.
type LabeledMask struct {
	Width  int
	Height int
	Pix    []int32
}

// NewLabeledMask returns an all-background labeled mask of the given shape.
func NewLabeledMask(width, height int) *LabeledMask {
	return &LabeledMask{Width: width, Height: height, Pix: make([]int32, width*height)}
}

// At returns the label at (x, y).
func (l *LabeledMask) At(x, y int) int32 { return l.Pix[y*l.Width+x] }

// Set writes label v at (x, y).
func (l *LabeledMask) Set(x, y int, v int32) { l.Pix[y*l.Width+x] = v }

// InBounds reports whether (x, y) lies within the grid.
func (l *LabeledMask) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// Clone returns a deep copy of the mask.
func (l *LabeledMask) Clone() *LabeledMask {
	out := &LabeledMask{Width: l.Width, Height: l.Height, Pix: make([]int32, len(l.Pix))}
	copy(out.Pix, l.Pix)
	return out
}

// MaxLabel returns the largest label present, or 0 for an empty mask.
func (l *LabeledMask) MaxLabel() int32 {
	var max int32
	for _, v := range l.Pix {
		if v > max {
			max = v
		}
	}
	return max
}

// Binary returns a BinaryMask with every labeled cell set.
func (l *LabeledMask) Binary() *BinaryMask {
	out := NewBinaryMask(l.Width, l.Height)
	for i, v := range l.Pix {
		if v > 0 {
			out.Pix[i] = 1
		}
	}
	return out
}

// Labels returns the sorted distinct positive labels present in the mask.
func (l *LabeledMask) Labels() []int32 {
	seen := make(map[int32]struct{})
	for _, v := range l.Pix {
		if v > 0 {
			seen[v] = struct{}{}
		}
	}
	out := make([]int32, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
