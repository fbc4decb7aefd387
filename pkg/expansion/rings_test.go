package expansion

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgen/internal/models"
)

// centerSquareSeed builds a 100x100 mask with a 10x10 seed square in the
// middle, the canonical single-class scenario.
func centerSquareSeed() *models.BinaryMask {
	seed := models.NewBinaryMask(100, 100)
	for y := 45; y < 55; y++ {
		for x := 45; x < 55; x++ {
			seed.Set(x, y, 1)
		}
	}
	return seed
}

// TestExpandRings verifies ring membership, disjointness and the exact
// area accounting of a full restricted run
func TestExpandRings(t *testing.T) {
	seed := centerSquareSeed()
	e, err := NewExpander(seed, nil, WithLogger(discardLogger()))
	require.NoError(t, err)

	result, err := e.Expand([]int{5, 10})
	require.NoError(t, err)

	require.Len(t, result.Keys(), 4)
	ring5 := result.Binary[ExpansionKey(5)]
	ring10 := result.Binary[ExpansionKey(10)]
	seedOut := result.Binary[SeedKey()]
	remaining := result.Binary[RemainingKey()]

	// Membership at known distances from the seed square.
	assert.Equal(t, uint8(1), ring5.At(44, 50), "distance 1 belongs to the first ring")
	assert.Equal(t, uint8(1), ring5.At(40, 50), "distance 5 is inside the closed bound")
	assert.Equal(t, uint8(1), ring10.At(39, 50), "distance 6 belongs to the second ring")
	assert.Equal(t, uint8(1), ring10.At(35, 50), "distance 10 closes the second ring")
	assert.Equal(t, uint8(1), remaining.At(30, 50), "distance 15 is unclaimed")
	assert.Equal(t, uint8(0), ring5.At(50, 50), "seed cells never join a ring")

	// Rings are pairwise disjoint from each other and the seed.
	overlap := ring5.Clone()
	overlap.And(ring10)
	assert.True(t, overlap.Empty())
	overlap = ring5.Clone()
	overlap.Or(ring10)
	overlap.And(seedOut)
	assert.True(t, overlap.Empty())

	// Everything inside the constraint is claimed exactly once.
	total := seedOut.Count() + ring5.Count() + ring10.Count() + remaining.Count()
	assert.Equal(t, 100*100, total)

	// The seed entry carries the labeled seed verbatim.
	if diff := cmp.Diff(e.SeedLabels().Pix, result.Labeled[SeedKey()].Pix); diff != "" {
		t.Errorf("seed entry labels differ (-want +got):\n%s", diff)
	}
}

// TestExpandReferencedLabels verifies the first ring inherits the seed's
// identifier everywhere while a ring out of reach keeps only the seed
func TestExpandReferencedLabels(t *testing.T) {
	seed := centerSquareSeed()
	e, err := NewExpander(seed, nil, WithLogger(discardLogger()))
	require.NoError(t, err)

	result, err := e.Expand([]int{5, 10})
	require.NoError(t, err)

	ring5 := result.Binary[ExpansionKey(5)]
	ref5 := result.Referenced[ExpansionKey(5)]
	for i, v := range ring5.Pix {
		if v != 0 {
			require.Equal(t, int32(1), ref5.Pix[i], "ring cell %d", i)
		}
	}

	// The second ring is not adjacent to the seed, so no label can reach
	// it; its referenced grid is exactly the seed labeling.
	ref10 := result.Referenced[ExpansionKey(10)]
	if diff := cmp.Diff(e.SeedLabels().Pix, ref10.Pix); diff != "" {
		t.Errorf("out-of-reach ring gained labels (-want +got):\n%s", diff)
	}
}

// TestExpandTwoSeedComponents verifies ring cells inherit the identifier
// of their own seed component
func TestExpandTwoSeedComponents(t *testing.T) {
	seed := models.NewBinaryMask(40, 10)
	seed.Set(5, 5, 1)
	seed.Set(30, 5, 1)

	e, err := NewExpander(seed, nil, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, e.SeedLabels().Labels())

	result, err := e.Expand([]int{2})
	require.NoError(t, err)

	ref := result.Referenced[ExpansionKey(2)]
	assert.Equal(t, int32(1), ref.At(4, 5))
	assert.Equal(t, int32(2), ref.At(31, 5))
}

// TestExpandConstraint verifies rings clip to the constraint and the
// remaining entry covers the unclaimed constraint area only
func TestExpandConstraint(t *testing.T) {
	seed := models.NewBinaryMask(20, 20)
	seed.Set(10, 10, 1)

	constraint := models.NewBinaryMask(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			constraint.Set(x, y, 1)
		}
	}

	e, err := NewExpander(seed, constraint, WithLogger(discardLogger()))
	require.NoError(t, err)
	result, err := e.Expand([]int{3})
	require.NoError(t, err)

	ring := result.Binary[ExpansionKey(3)]
	assert.Equal(t, uint8(0), ring.At(11, 10), "outside the constraint")
	assert.Equal(t, uint8(1), ring.At(9, 10), "inside the constraint")

	remaining := result.Binary[RemainingKey()]
	assert.Equal(t, uint8(1), remaining.At(0, 0))
	assert.Equal(t, uint8(0), remaining.At(15, 10), "outside the constraint is never remaining")
	assert.Equal(t, uint8(0), remaining.At(9, 10), "claimed ring cells are not remaining")
}

// TestExpandUnrestricted verifies disabling restriction ignores the
// constraint and emits no remaining entry
func TestExpandUnrestricted(t *testing.T) {
	seed := models.NewBinaryMask(20, 20)
	seed.Set(10, 10, 1)
	constraint := models.NewBinaryMask(20, 20) // empty constraint

	e, err := NewExpander(seed, constraint,
		WithRestrictToLimit(false), WithLogger(discardLogger()))
	require.NoError(t, err)
	result, err := e.Expand([]int{3})
	require.NoError(t, err)

	assert.Equal(t, uint8(1), result.Binary[ExpansionKey(3)].At(11, 10))
	_, ok := result.Binary[RemainingKey()]
	assert.False(t, ok)
}

// TestExpandDuplicateDistances verifies duplicates collapse to one ring
// instead of shadowing it with an empty one
func TestExpandDuplicateDistances(t *testing.T) {
	seed := centerSquareSeed()
	e, err := NewExpander(seed, nil, WithLogger(discardLogger()))
	require.NoError(t, err)

	result, err := e.Expand([]int{5, 5})
	require.NoError(t, err)

	require.Len(t, result.Keys(), 3)
	assert.Greater(t, result.Binary[ExpansionKey(5)].Count(), 0)
}

// TestExpandZeroDistance verifies non-positive distances yield empty rings
func TestExpandZeroDistance(t *testing.T) {
	seed := centerSquareSeed()
	e, err := NewExpander(seed, nil, WithLogger(discardLogger()))
	require.NoError(t, err)

	result, err := e.Expand([]int{0})
	require.NoError(t, err)
	assert.True(t, result.Binary[ExpansionKey(0)].Empty())
}

// TestExpandMinArea verifies small ring fragments are filtered out
func TestExpandMinArea(t *testing.T) {
	seed := models.NewBinaryMask(20, 20)
	seed.Set(10, 10, 1)

	e, err := NewExpander(seed, nil,
		WithMinArea(1000), WithLogger(discardLogger()))
	require.NoError(t, err)
	result, err := e.Expand([]int{2})
	require.NoError(t, err)

	assert.True(t, result.Binary[ExpansionKey(2)].Empty(),
		"a ring below the area threshold is dropped entirely")
}

// TestNewExpanderErrors verifies argument validation
func TestNewExpanderErrors(t *testing.T) {
	_, err := NewExpander(nil, nil)
	assert.ErrorIs(t, err, models.ErrNilMask)

	_, err = NewExpander(models.NewBinaryMask(0, 5), nil)
	assert.ErrorIs(t, err, models.ErrEmptyGrid)

	_, err = NewExpander(models.NewBinaryMask(10, 10), models.NewBinaryMask(5, 5))
	assert.ErrorIs(t, err, models.ErrShapeMismatch)
}
