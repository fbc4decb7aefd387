package expansion

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgen/internal/models"
	"gridgen/pkg/geometry"
)

func contourSquare(cx, cy, half float64) geometry.Contour {
	return geometry.Contour{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}
}

// twoClassContours is four well-separated objects, two per class, enough
// sites for a Voronoi partition on a 50x50 raster.
func twoClassContours() map[string][]geometry.Contour {
	return map[string][]geometry.Contour{
		"left":  {contourSquare(10, 10, 2), contourSquare(12, 40, 2)},
		"right": {contourSquare(40, 8, 2), contourSquare(38, 42, 2)},
	}
}

func newMulti(t *testing.T, byClass map[string][]geometry.Contour) *MultiClassExpander {
	t.Helper()
	m, err := NewMultiClassExpander(50, 50, byClass, WithMultiLogger(discardLogger()))
	require.NoError(t, err)
	return m
}

// TestMultiClassIdentifiers verifies globally unique identifiers assigned
// in encounter order: classes sorted by name, contours in input order
func TestMultiClassIdentifiers(t *testing.T) {
	m := newMulti(t, twoClassContours())
	require.Equal(t, 4, m.ObjectCount())

	result, err := m.ExpandAll([]int{3})
	require.NoError(t, err)

	left := result.Labeled[OriginalKey("left")]
	right := result.Labeled[OriginalKey("right")]
	assert.Equal(t, []int32{1, 2}, left.Labels())
	assert.Equal(t, []int32{3, 4}, right.Labels())

	assert.Equal(t, int32(1), left.At(10, 10))
	assert.Equal(t, int32(2), left.At(12, 40))
	assert.Equal(t, int32(3), right.At(40, 8))
	assert.Equal(t, int32(4), right.At(38, 42))
}

// TestMultiClassInvalidContourSkipsIdentifier verifies invalid contours
// receive no identifier, keeping the sequence contiguous over valid objects
func TestMultiClassInvalidContourSkipsIdentifier(t *testing.T) {
	byClass := twoClassContours()
	byClass["left"] = []geometry.Contour{
		contourSquare(10, 10, 2),
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, // too few points
		contourSquare(12, 40, 2),
	}

	m := newMulti(t, byClass)
	require.Equal(t, 4, m.ObjectCount())

	result, err := m.ExpandAll([]int{3})
	require.NoError(t, err)

	assert.Equal(t, []int32{1, 2}, result.Labeled[OriginalKey("left")].Labels())
	assert.Equal(t, []int32{3, 4}, result.Labeled[OriginalKey("right")].Labels())
}

// TestMultiClassExpansionRings verifies rings exclude the originals, stay
// inside their class territory and carry their parent identifiers
func TestMultiClassExpansionRings(t *testing.T) {
	m := newMulti(t, twoClassContours())
	result, err := m.ExpandAll([]int{3})
	require.NoError(t, err)

	require.Len(t, result.Keys(), 4)
	leftRing := result.Binary[ClassExpansionKey("left", 3)]
	assert.Greater(t, leftRing.Count(), 0)

	// Rings never overlap their own originals.
	overlap := leftRing.Clone()
	overlap.And(result.Binary[OriginalKey("left")])
	assert.True(t, overlap.Empty())

	// Rings stay inside the class territory.
	territory := m.Partition().RasterizeClass("left")
	outside := leftRing.Clone()
	outside.AndNot(territory)
	assert.True(t, outside.Empty())

	// Ring labels are the parent identifiers of the class.
	labels := result.Labeled[ClassExpansionKey("left", 3)].Labels()
	assert.Subset(t, []int32{1, 2}, labels)
	assert.NotEmpty(t, labels)
}

// TestMultiClassReferencedGrid verifies the referenced grids agree with
// the aggregate footprints for well-separated objects
func TestMultiClassReferencedGrid(t *testing.T) {
	m := newMulti(t, twoClassContours())
	result, err := m.ExpandAll([]int{3})
	require.NoError(t, err)

	for _, key := range result.Keys() {
		bin := result.Binary[key]
		ref := result.Referenced[key]
		for i, v := range bin.Pix {
			if v == 0 {
				require.Equal(t, int32(0), ref.Pix[i], "key %v cell %d", key, i)
			} else {
				require.NotEqual(t, int32(0), ref.Pix[i], "key %v cell %d", key, i)
			}
		}
	}

	// With no overlap between objects, referenced and labeled originals
	// are identical.
	key := OriginalKey("left")
	if diff := cmp.Diff(result.Labeled[key].Pix, result.Referenced[key].Pix); diff != "" {
		t.Errorf("referenced originals differ from labeled (-want +got):\n%s", diff)
	}
}

// TestMultiClassAggregation verifies per-object grids merge into one entry
// per class and distance
func TestMultiClassAggregation(t *testing.T) {
	m := newMulti(t, twoClassContours())
	result, err := m.ExpandAll([]int{3, 6})
	require.NoError(t, err)

	want := []Key{
		ClassExpansionKey("left", 3),
		ClassExpansionKey("left", 6),
		OriginalKey("left"),
		ClassExpansionKey("right", 3),
		ClassExpansionKey("right", 6),
		OriginalKey("right"),
	}
	assert.Equal(t, want, result.Keys())

	// Aggregated originals union both objects of the class.
	assert.Equal(t, 2*25, result.Binary[OriginalKey("left")].Count())
}

// TestNewMultiClassExpanderErrors verifies argument validation
func TestNewMultiClassExpanderErrors(t *testing.T) {
	_, err := NewMultiClassExpander(0, 50, twoClassContours(),
		WithMultiLogger(discardLogger()))
	assert.ErrorIs(t, err, models.ErrEmptyGrid)
}
