package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgen/internal/models"
)

// TestCountsVolume verifies accumulation and the unknown-gene guard
func TestCountsVolume(t *testing.T) {
	c := NewCountsVolume(4, 4, []string{"gad1", "slc17a7"})
	assert.Equal(t, []string{"gad1", "slc17a7"}, c.Genes())

	require.NoError(t, c.Add(1, 1, "gad1", 2))
	require.NoError(t, c.Add(1, 1, "gad1", 1))
	assert.Error(t, c.Add(0, 0, "nope", 1))
}

// TestCountPerObject verifies per-label gene sums
func TestCountPerObject(t *testing.T) {
	c := NewCountsVolume(4, 4, []string{"gad1"})
	require.NoError(t, c.Add(0, 0, "gad1", 2))
	require.NoError(t, c.Add(1, 0, "gad1", 3))
	require.NoError(t, c.Add(3, 3, "gad1", 5))

	l := models.NewLabeledMask(4, 4)
	l.Set(0, 0, 1)
	l.Set(1, 0, 1)
	l.Set(3, 3, 2)

	counts := CountPerObject(l, c)
	require.Len(t, counts, 2)
	assert.Equal(t, 5.0, counts[1]["gad1"])
	assert.Equal(t, 5.0, counts[2]["gad1"])
}

// TestCountBulk verifies masked whole-grid sums ignore unset cells
func TestCountBulk(t *testing.T) {
	c := NewCountsVolume(3, 3, []string{"gad1"})
	require.NoError(t, c.Add(0, 0, "gad1", 2))
	require.NoError(t, c.Add(2, 2, "gad1", 7))

	m := models.NewBinaryMask(3, 3)
	m.Set(0, 0, 1)

	counts := CountBulk(m, c)
	assert.Equal(t, 2.0, counts["gad1"])
}

// TestCountGrid verifies per-tile sums and that empty tiles are omitted
func TestCountGrid(t *testing.T) {
	c := NewCountsVolume(4, 4, []string{"gad1"})
	require.NoError(t, c.Add(0, 0, "gad1", 1))
	require.NoError(t, c.Add(3, 3, "gad1", 4))

	m := models.NewBinaryMask(4, 4)
	m.Set(0, 0, 1)
	m.Set(3, 3, 1)

	counts := CountGrid(m, c, 2)
	require.Len(t, counts, 2)
	assert.Equal(t, 1.0, counts[[2]int{0, 0}]["gad1"])
	assert.Equal(t, 4.0, counts[[2]int{2, 2}]["gad1"])
}
