package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgen/internal/models"
)

// TestPerObjectFeaturesSquare verifies the morphology of a compact block
func TestPerObjectFeaturesSquare(t *testing.T) {
	l := models.NewLabeledMask(4, 4)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			l.Set(x, y, 1)
		}
	}

	feats := PerObjectFeatures(l)
	require.Len(t, feats, 1)
	f := feats[0]

	assert.Equal(t, int32(1), f.Label)
	assert.Equal(t, 4, f.Area)
	assert.InDelta(t, 0.5, f.CentroidX, 1e-9)
	assert.InDelta(t, 0.5, f.CentroidY, 1e-9)
	assert.Equal(t, 0, f.MinRow)
	assert.Equal(t, 2, f.MaxRow)
	assert.Equal(t, 0, f.MinCol)
	assert.Equal(t, 2, f.MaxCol)
	assert.InDelta(t, 8.0, f.Perimeter, 1e-9)
	assert.InDelta(t, 0.0, f.Eccentricity, 1e-9, "a square is round")
	assert.Equal(t, 1.0, f.Solidity)
}

// TestPerObjectFeaturesLine verifies an elongated object is maximally
// eccentric
func TestPerObjectFeaturesLine(t *testing.T) {
	l := models.NewLabeledMask(6, 3)
	for x := 1; x <= 4; x++ {
		l.Set(x, 1, 2)
	}

	feats := PerObjectFeatures(l)
	require.Len(t, feats, 1)
	f := feats[0]

	assert.Equal(t, int32(2), f.Label)
	assert.Equal(t, 4, f.Area)
	assert.InDelta(t, 2.5, f.CentroidX, 1e-9)
	assert.InDelta(t, 1.0, f.CentroidY, 1e-9)
	assert.InDelta(t, 10.0, f.Perimeter, 1e-9)
	assert.InDelta(t, 1.0, f.Eccentricity, 1e-9)
}

// TestPerObjectFeaturesOrder verifies objects come back ordered by label
func TestPerObjectFeaturesOrder(t *testing.T) {
	l := models.NewLabeledMask(5, 1)
	l.Set(0, 0, 3)
	l.Set(2, 0, 1)
	l.Set(4, 0, 2)

	feats := PerObjectFeatures(l)
	require.Len(t, feats, 3)
	assert.Equal(t, int32(1), feats[0].Label)
	assert.Equal(t, int32(2), feats[1].Label)
	assert.Equal(t, int32(3), feats[2].Label)
}

// TestBulkFeatures verifies the whole-mask summary
func TestBulkFeatures(t *testing.T) {
	m := models.NewBinaryMask(4, 4)
	m.Set(0, 0, 1)
	m.Set(3, 3, 1)

	f := BulkFeatures(m)
	assert.Equal(t, 2, f.Area)
	assert.Equal(t, 1.0, f.Solidity)
}

// TestGridFeatures verifies tile areas in row-major tile order
func TestGridFeatures(t *testing.T) {
	m := models.NewBinaryMask(4, 4)
	m.Set(0, 0, 1) // tile (0,0)
	m.Set(1, 1, 1) // tile (0,0)
	m.Set(3, 2, 1) // tile (2,2)

	tiles := GridFeatures(m, 2)
	require.Len(t, tiles, 4)

	assert.Equal(t, TileFeatures{X: 0, Y: 0, Area: 2}, tiles[0])
	assert.Equal(t, TileFeatures{X: 2, Y: 0, Area: 0}, tiles[1])
	assert.Equal(t, TileFeatures{X: 0, Y: 2, Area: 0}, tiles[2])
	assert.Equal(t, TileFeatures{X: 2, Y: 2, Area: 1}, tiles[3])
}
