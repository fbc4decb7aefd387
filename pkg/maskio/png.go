package maskio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"gridgen/internal/models"
)

// SavePNG writes m as an 8-bit grayscale PNG with set cells at 255.
func SavePNG(path string, m *models.BinaryMask) error {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] != 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return encodePNG(path, img)
}

// SaveLabeledPNG writes l as an 8-bit grayscale PNG with labels scaled
// into 1..255; background stays 0. Label identity is not preserved, the
// image is for inspection only.
func SaveLabeledPNG(path string, l *models.LabeledMask) error {
	img := image.NewGray(image.Rect(0, 0, l.Width, l.Height))
	maxLabel := l.MaxLabel()
	if maxLabel == 0 {
		maxLabel = 1
	}
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			v := l.Pix[y*l.Width+x]
			if v == 0 {
				continue
			}
			scaled := int(v)*254/int(maxLabel) + 1
			img.SetGray(x, y, color.Gray{Y: uint8(scaled)})
		}
	}
	return encodePNG(path, img)
}

// LoadPNG reads an image file and thresholds it into a binary mask:
// any pixel with positive luminance is a member.
func LoadPNG(path string) (*models.BinaryMask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("maskio: opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("maskio: decoding %s: %w", path, err)
	}
	b := img.Bounds()
	m := models.NewBinaryMask(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if r|g|bl != 0 {
				m.Pix[y*m.Width+x] = 1
			}
		}
	}
	return m, nil
}

func encodePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("maskio: creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("maskio: encoding %s: %w", path, err)
	}
	return nil
}
