// Package render composites binary mask collections into color images for
// visual inspection: each named mask painted in its assigned color over a
// background, optionally with Voronoi ridge segments overlaid.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"gridgen/internal/models"
)

// Layer is one named mask to paint. Later layers paint over earlier ones.
type Layer struct {
	Name string
	Mask *models.BinaryMask
}

// Composite paints the layers in order over a background color. Colors
// come from the explicit name-to-color mapping; layers without an entry
// get a generated palette color, evenly spaced around the hue wheel so
// neighboring layers stay distinguishable.
func Composite(width, height int, layers []Layer, colors map[string]color.RGBA, background color.RGBA) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, background)
		}
	}

	palette := generatePalette(len(layers))
	for i, layer := range layers {
		if layer.Mask.Width != width || layer.Mask.Height != height {
			return nil, fmt.Errorf("render: layer %q is %dx%d, want %dx%d: %w",
				layer.Name, layer.Mask.Width, layer.Mask.Height, width, height, models.ErrShapeMismatch)
		}
		c, ok := colors[layer.Name]
		if !ok {
			c = palette[i]
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if layer.Mask.Pix[y*layer.Mask.Width+x] != 0 {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
	return img, nil
}

// CompositeWithEdges additionally strokes ridge segments in the edge
// color on top of the composite.
func CompositeWithEdges(width, height int, layers []Layer, colors map[string]color.RGBA, background color.RGBA, edges [][2]r2.Vec, edgeColor color.RGBA) (*image.RGBA, error) {
	img, err := Composite(width, height, layers, colors, background)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		strokeLine(img,
			int(math.Round(e[0].X)), int(math.Round(e[0].Y)),
			int(math.Round(e[1].X)), int(math.Round(e[1].Y)),
			edgeColor)
	}
	return img, nil
}

// SavePNG encodes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("render: encoding %s: %w", path, err)
	}
	return nil
}

// generatePalette returns n well-spaced saturated colors.
func generatePalette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		h := float64(i) * 360 / float64(max(n, 1))
		r, g, b := colorful.Hsv(h, 0.85, 0.9).RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// strokeLine draws the clipped segment with Bresenham's algorithm.
func strokeLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	b := img.Bounds()
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		if image.Pt(x0, y0).In(b) {
			img.SetRGBA(x0, y0, c)
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
