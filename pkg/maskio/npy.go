// Package maskio persists analysis grids: NPY array files for lossless
// numeric output and scaled 8-bit PNG images for quick inspection.
package maskio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"

	"gridgen/internal/models"
)

// npyMagic opens every NPY v1.0 file.
var npyMagic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y', 0x01, 0x00}

// writeNPY emits an NPY v1.0 file: magic, padded header dict, then the
// row-major payload written by emit.
func writeNPY(path, descr string, height, width int, emit func(*bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("maskio: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%d, %d), }", descr, height, width)
	// Pad so magic+length+header is a multiple of 64, ending in newline.
	total := len(npyMagic) + 2 + len(header) + 1
	pad := (64 - total%64) % 64
	for i := 0; i < pad; i++ {
		header += " "
	}
	header += "\n"

	if _, err := w.Write(npyMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	if _, err := w.WriteString(header); err != nil {
		return err
	}
	if err := emit(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("maskio: writing %s: %w", path, err)
	}
	return nil
}

// SaveBinaryNPY writes m as a uint8 array.
func SaveBinaryNPY(path string, m *models.BinaryMask) error {
	return writeNPY(path, "|u1", m.Height, m.Width, func(w *bufio.Writer) error {
		_, err := w.Write(m.Pix)
		return err
	})
}

// SaveLabeledNPY writes l as a little-endian int32 array.
func SaveLabeledNPY(path string, l *models.LabeledMask) error {
	return writeNPY(path, "<i4", l.Height, l.Width, func(w *bufio.Writer) error {
		return binary.Write(w, binary.LittleEndian, l.Pix)
	})
}

// readNPY parses an NPY v1.0 file into its dtype, shape and payload.
func readNPY(path string) (descr string, height, width int, payload []byte, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, 0, nil, fmt.Errorf("maskio: reading %s: %w", path, err)
	}
	if len(data) < len(npyMagic)+2 || !bytes.Equal(data[:len(npyMagic)], npyMagic) {
		return "", 0, 0, nil, fmt.Errorf("maskio: %s is not an NPY v1.0 file", path)
	}
	hlen := int(binary.LittleEndian.Uint16(data[8:10]))
	if len(data) < 10+hlen {
		return "", 0, 0, nil, fmt.Errorf("maskio: %s has a truncated header", path)
	}
	header := string(data[10 : 10+hlen])

	descr, err = headerField(header, "'descr':")
	if err != nil {
		return "", 0, 0, nil, fmt.Errorf("maskio: %s: %w", path, err)
	}
	descr = strings.Trim(descr, "'")
	shape, err := headerField(header, "'shape':")
	if err != nil {
		return "", 0, 0, nil, fmt.Errorf("maskio: %s: %w", path, err)
	}
	if _, err := fmt.Sscanf(shape, "(%d, %d)", &height, &width); err != nil {
		return "", 0, 0, nil, fmt.Errorf("maskio: %s: unsupported shape %s", path, shape)
	}
	return descr, height, width, data[10+hlen:], nil
}

// headerField pulls the value following key out of the header dict.
func headerField(header, key string) (string, error) {
	i := strings.Index(header, key)
	if i < 0 {
		return "", fmt.Errorf("header is missing %s", key)
	}
	rest := header[i+len(key):]
	if j := strings.Index(rest, "), "); strings.HasPrefix(strings.TrimSpace(rest), "(") && j >= 0 {
		rest = rest[:j+1]
	} else if j := strings.Index(rest, ","); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest), nil
}

// LoadBinaryNPY reads a uint8 NPY array as a binary mask; any non-zero
// value is a member.
func LoadBinaryNPY(path string) (*models.BinaryMask, error) {
	descr, h, w, payload, err := readNPY(path)
	if err != nil {
		return nil, err
	}
	if descr != "|u1" {
		return nil, fmt.Errorf("maskio: %s holds %s, want |u1", path, descr)
	}
	if len(payload) < w*h {
		return nil, fmt.Errorf("maskio: %s payload is short for %dx%d", path, w, h)
	}
	m := models.NewBinaryMask(w, h)
	for i := range m.Pix {
		if payload[i] != 0 {
			m.Pix[i] = 1
		}
	}
	return m, nil
}

// LoadLabeledNPY reads a little-endian int32 NPY array as a labeled mask.
func LoadLabeledNPY(path string) (*models.LabeledMask, error) {
	descr, h, w, payload, err := readNPY(path)
	if err != nil {
		return nil, err
	}
	if descr != "<i4" {
		return nil, fmt.Errorf("maskio: %s holds %s, want <i4", path, descr)
	}
	if len(payload) < 4*w*h {
		return nil, fmt.Errorf("maskio: %s payload is short for %dx%d", path, w, h)
	}
	l := models.NewLabeledMask(w, h)
	if err := binary.Read(bytes.NewReader(payload), binary.LittleEndian, l.Pix); err != nil {
		return nil, fmt.Errorf("maskio: %s: %w", path, err)
	}
	return l, nil
}

// SaveFieldNPY writes a distance field as a little-endian float64 array.
func SaveFieldNPY(path string, field *mat.Dense) error {
	h, w := field.Dims()
	return writeNPY(path, "<f8", h, w, func(bw *bufio.Writer) error {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if err := binary.Write(bw, binary.LittleEndian, field.At(y, x)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
