package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"gridgen/internal/models"
)

// TestDistanceTransformSinglePoint verifies exact Euclidean distances from
// one foreground cell
func TestDistanceTransformSinglePoint(t *testing.T) {
	m := models.NewBinaryMask(5, 5)
	m.Set(2, 2, 1)

	field := DistanceTransform(m)

	assert.Equal(t, 0.0, field.At(2, 2))
	assert.InDelta(t, 1.0, field.At(2, 1), 1e-9)
	assert.InDelta(t, math.Sqrt2, field.At(1, 1), 1e-9)
	assert.InDelta(t, 2.0, field.At(2, 0), 1e-9)
	assert.InDelta(t, math.Sqrt(8), field.At(0, 0), 1e-9)
	assert.InDelta(t, math.Sqrt(5), field.At(0, 1), 1e-9)
}

// TestDistanceTransformTwoSeeds verifies each cell measures to its nearest
// foreground cell
func TestDistanceTransformTwoSeeds(t *testing.T) {
	m := models.NewBinaryMask(7, 1)
	m.Set(0, 0, 1)
	m.Set(6, 0, 1)

	field := DistanceTransform(m)

	assert.InDelta(t, 1.0, field.At(0, 1), 1e-9)
	assert.InDelta(t, 3.0, field.At(0, 3), 1e-9)
	assert.InDelta(t, 2.0, field.At(0, 4), 1e-9)
	assert.InDelta(t, 0.0, field.At(0, 6), 1e-9)
}

// TestDistanceTransformAllBackground verifies an empty mask yields an
// infinite field rather than panicking
func TestDistanceTransformAllBackground(t *testing.T) {
	field := DistanceTransform(models.NewBinaryMask(3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.True(t, math.IsInf(field.At(y, x), 1), "cell (%d,%d)", x, y)
		}
	}
}

// TestDistanceTransformAllForeground verifies a full mask is zero everywhere
func TestDistanceTransformAllForeground(t *testing.T) {
	field := DistanceTransform(models.OnesMask(4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, 0.0, field.At(y, x))
		}
	}
}
