package stats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"gridgen/internal/models"
)

// CountsVolume is an H×W×G stack of per-gene count planes aligned with
// the analysis rasters.
type CountsVolume struct {
	width  int
	height int
	genes  []string
	index  map[string]int
	planes []*mat.Dense
}

// NewCountsVolume allocates a zeroed counts volume for the given genes.
func NewCountsVolume(width, height int, genes []string) *CountsVolume {
	c := &CountsVolume{
		width:  width,
		height: height,
		genes:  append([]string(nil), genes...),
		index:  make(map[string]int, len(genes)),
		planes: make([]*mat.Dense, len(genes)),
	}
	for i, g := range genes {
		c.index[g] = i
		c.planes[i] = mat.NewDense(height, width, nil)
	}
	return c
}

// Genes returns the gene names in plane order.
func (c *CountsVolume) Genes() []string { return append([]string(nil), c.genes...) }

// Add accumulates n counts of gene at (x, y).
func (c *CountsVolume) Add(x, y int, gene string, n float64) error {
	i, ok := c.index[gene]
	if !ok {
		return fmt.Errorf("stats: unknown gene %q", gene)
	}
	c.planes[i].Set(y, x, c.planes[i].At(y, x)+n)
	return nil
}

// GeneCounts maps gene name to a summed count.
type GeneCounts map[string]float64

// CountPerObject sums each gene's counts over every labeled object.
func CountPerObject(l *models.LabeledMask, c *CountsVolume) map[int32]GeneCounts {
	out := make(map[int32]GeneCounts)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			id := l.Pix[y*l.Width+x]
			if id == 0 {
				continue
			}
			counts := out[id]
			if counts == nil {
				counts = make(GeneCounts, len(c.genes))
				out[id] = counts
			}
			for i, g := range c.genes {
				counts[g] += c.planes[i].At(y, x)
			}
		}
	}
	return out
}

// CountBulk sums each gene's counts over the whole mask.
func CountBulk(m *models.BinaryMask, c *CountsVolume) GeneCounts {
	counts := make(GeneCounts, len(c.genes))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] == 0 {
				continue
			}
			for i, g := range c.genes {
				counts[g] += c.planes[i].At(y, x)
			}
		}
	}
	return counts
}

// CountGrid sums each gene's counts per gridSize tile of the mask;
// tiles with no set pixel are omitted. Keys are (tile X, tile Y) origins.
func CountGrid(m *models.BinaryMask, c *CountsVolume, gridSize int) map[[2]int]GeneCounts {
	out := make(map[[2]int]GeneCounts)
	for y := 0; y < m.Height; y += gridSize {
		for x := 0; x < m.Width; x += gridSize {
			var counts GeneCounts
			for ty := y; ty < y+gridSize && ty < m.Height; ty++ {
				for tx := x; tx < x+gridSize && tx < m.Width; tx++ {
					if m.Pix[ty*m.Width+tx] == 0 {
						continue
					}
					if counts == nil {
						counts = make(GeneCounts, len(c.genes))
					}
					for i, g := range c.genes {
						counts[g] += c.planes[i].At(ty, tx)
					}
				}
			}
			if counts != nil {
				out[[2]int{x, y}] = counts
			}
		}
	}
	return out
}
