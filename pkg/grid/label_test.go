package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgen/internal/models"
)

// parseMask builds a binary mask from rows of '0'/'1' characters.
func parseMask(t *testing.T, rows []string) *models.BinaryMask {
	t.Helper()
	require.NotEmpty(t, rows)
	m := models.NewBinaryMask(len(rows[0]), len(rows))
	for y, row := range rows {
		require.Len(t, row, m.Width)
		for x, c := range row {
			if c == '1' {
				m.Set(x, y, 1)
			}
		}
	}
	return m
}

// TestLabelTwoComponents verifies separate blobs get distinct labels in
// raster-scan order
func TestLabelTwoComponents(t *testing.T) {
	m := parseMask(t, []string{
		"11000",
		"11000",
		"00000",
		"00011",
		"00011",
	})
	labeled, n := Label(m, Conn8)

	assert.Equal(t, 2, n)
	assert.Equal(t, int32(1), labeled.At(0, 0))
	assert.Equal(t, int32(2), labeled.At(4, 4))
	assert.Equal(t, int32(0), labeled.At(2, 2))
}

// TestLabelConnectivity verifies diagonal adjacency joins components under
// Conn8 but not Conn4
func TestLabelConnectivity(t *testing.T) {
	m := parseMask(t, []string{
		"10",
		"01",
	})

	_, n8 := Label(m, Conn8)
	assert.Equal(t, 1, n8)

	_, n4 := Label(m, Conn4)
	assert.Equal(t, 2, n4)
}

// TestLabelEmpty verifies an all-background mask yields zero components
func TestLabelEmpty(t *testing.T) {
	labeled, n := Label(models.NewBinaryMask(3, 3), Conn8)
	assert.Equal(t, 0, n)
	assert.Equal(t, int32(0), labeled.MaxLabel())
}

// TestConnectivityOffsets verifies the neighbor tables
func TestConnectivityOffsets(t *testing.T) {
	assert.Len(t, Conn8.Offsets(), 8)
	assert.Len(t, Conn4.Offsets(), 4)
}

// TestFilterBinaryByArea verifies components strictly below the threshold
// are removed while components at the threshold survive
func TestFilterBinaryByArea(t *testing.T) {
	m := parseMask(t, []string{
		"10011",
		"00000",
	})

	filtered := FilterBinaryByArea(m, 2)
	assert.Equal(t, uint8(0), filtered.At(0, 0), "1-pixel component should be removed")
	assert.Equal(t, uint8(1), filtered.At(3, 0), "2-pixel component equals threshold and survives")
	assert.Equal(t, uint8(1), filtered.At(4, 0))

	// Threshold of zero is a plain copy.
	copied := FilterBinaryByArea(m, 0)
	assert.Equal(t, m.Pix, copied.Pix)
}

// TestFilterLabeledByArea verifies surviving components keep their labels
func TestFilterLabeledByArea(t *testing.T) {
	m := parseMask(t, []string{
		"10011",
		"00000",
	})
	labeled, n := Label(m, Conn8)
	require.Equal(t, 2, n)

	filtered := FilterLabeledByArea(labeled, 2)
	assert.Equal(t, int32(0), filtered.At(0, 0))
	assert.Equal(t, int32(2), filtered.At(3, 0), "kept component retains its original label")
}
