package maskio

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgen/internal/models"
)

// TestPNGRoundTrip verifies a saved binary mask loads back identically
func TestPNGRoundTrip(t *testing.T) {
	m := models.NewBinaryMask(4, 3)
	m.Set(0, 0, 1)
	m.Set(3, 2, 1)
	m.Set(1, 1, 1)

	path := filepath.Join(t.TempDir(), "mask.png")
	require.NoError(t, SavePNG(path, m))

	got, err := LoadPNG(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m.Pix, got.Pix); diff != "" {
		t.Errorf("round trip changed the mask (-want +got):\n%s", diff)
	}
}

// TestSaveLabeledPNG verifies labels scale into 1..255 with background 0
func TestSaveLabeledPNG(t *testing.T) {
	l := models.NewLabeledMask(3, 1)
	l.Set(0, 0, 1)
	l.Set(2, 0, 4)

	path := filepath.Join(t.TempDir(), "labels.png")
	require.NoError(t, SaveLabeledPNG(path, l))

	got, err := LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), got.At(0, 0))
	assert.Equal(t, uint8(0), got.At(1, 0), "background stays zero")
	assert.Equal(t, uint8(1), got.At(2, 0))
}

// TestLoadPNGMissing verifies a useful error on a missing file
func TestLoadPNGMissing(t *testing.T) {
	_, err := LoadPNG(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
