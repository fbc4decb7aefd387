package expansion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgen/internal/models"
	"gridgen/pkg/geometry"
)

// TestObjectAnalysis verifies the contour path: rasterize, exclude, then
// expand without a constraint
func TestObjectAnalysis(t *testing.T) {
	contours := []geometry.Contour{contourSquare(10, 10, 2)}
	oa, err := NewObjectAnalysis(30, 30, contours, "cells", discardLogger())
	require.NoError(t, err)

	require.NoError(t, oa.BuildMask(nil, 0))
	mask := oa.Mask()
	require.NotNil(t, mask)
	assert.Equal(t, 25, mask.Count())

	result, err := oa.Expand([]int{2}, 0)
	require.NoError(t, err)

	ring := result.Binary[ExpansionKey(2)]
	assert.Equal(t, uint8(1), ring.At(7, 10))
	_, ok := result.Binary[RemainingKey()]
	assert.False(t, ok, "unconstrained expansion has no remaining entry")
}

// TestObjectAnalysisExclusion verifies exclusion masks carve the seed
func TestObjectAnalysisExclusion(t *testing.T) {
	contours := []geometry.Contour{contourSquare(10, 10, 2)}
	oa, err := NewObjectAnalysis(30, 30, contours, "cells", discardLogger())
	require.NoError(t, err)

	exclude := models.NewBinaryMask(30, 30)
	exclude.Set(10, 10, 1)
	require.NoError(t, oa.BuildMask([]*models.BinaryMask{exclude}, 0))
	assert.Equal(t, 24, oa.Mask().Count())

	bad := models.NewBinaryMask(5, 5)
	err = oa.BuildMask([]*models.BinaryMask{bad}, 0)
	assert.ErrorIs(t, err, models.ErrShapeMismatch)
}

// TestObjectAnalysisExpandBeforeBuild verifies the ordering guard
func TestObjectAnalysisExpandBeforeBuild(t *testing.T) {
	oa, err := NewObjectAnalysis(30, 30, nil, "cells", discardLogger())
	require.NoError(t, err)

	_, err = oa.Expand([]int{2}, 0)
	assert.ErrorIs(t, err, ErrNoSeed)
}
