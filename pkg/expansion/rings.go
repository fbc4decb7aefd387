package expansion

import (
	"fmt"
	"log/slog"
	"sort"

	"gridgen/internal/models"
	"gridgen/pkg/grid"
)

// Expander grows concentric distance-bounded rings outward from a seed
// mask, optionally clipped to a constraint region. The seed is
// component-labeled at construction; one Euclidean distance field is
// computed per run and shared by every ring threshold.
type Expander struct {
	seedRaw    *models.BinaryMask
	seed       *models.LabeledMask
	constraint *models.BinaryMask

	restrict bool
	minArea  int
	log      *slog.Logger
}

// Option configures an Expander.
type Option func(*Expander)

// WithMinArea drops connected components below minArea pixels from each
// ring before it is accumulated.
func WithMinArea(minArea int) Option {
	return func(e *Expander) { e.minArea = minArea }
}

// WithRestrictToLimit controls whether rings are clipped to the
// constraint region (default true).
func WithRestrictToLimit(restrict bool) Option {
	return func(e *Expander) { e.restrict = restrict }
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) { e.log = logger }
}

// NewExpander validates the seed and constraint and prepares an expansion
// run. A nil or empty-shaped seed is an immediate invalid-argument error;
// a nil constraint means "everywhere". The constraint must match the
// seed's shape.
func NewExpander(seed, constraint *models.BinaryMask, opts ...Option) (*Expander, error) {
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("expansion: seed mask: %w", err)
	}
	if constraint == nil {
		constraint = models.OnesMask(seed.Width, seed.Height)
	} else if constraint.Width != seed.Width || constraint.Height != seed.Height {
		return nil, fmt.Errorf("expansion: constraint %dx%d vs seed %dx%d: %w",
			constraint.Width, constraint.Height, seed.Width, seed.Height, models.ErrShapeMismatch)
	}

	labeled, _ := grid.Label(seed, grid.Conn8)
	e := &Expander{
		seedRaw:    seed.Clone(),
		seed:       labeled,
		constraint: constraint.Clone(),
		restrict:   true,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SeedLabels returns the component-labeled seed mask.
func (e *Expander) SeedLabels() *models.LabeledMask { return e.seed.Clone() }

// Expand partitions the complement of the seed into disjoint rings, one
// per distinct distance: the i-th ring holds cells whose distance to the
// seed lies in (d[i-1], d[i]] (or [0, d[0]] for the first), clipped to the
// constraint when restriction is on, minus anything already claimed.
// Distances are sorted ascending and de-duplicated; zero and negative
// distances yield empty rings. The result gains a seed entry and, when
// restricted, a remaining entry for constraint area no ring claimed
// (its labeled and referenced variants are all-zero by convention).
func (e *Expander) Expand(distances []int) (*Result, error) {
	dists := dedupeSorted(distances)
	result := NewResult()

	w, h := e.seedRaw.Width, e.seedRaw.Height
	field := grid.DistanceTransform(e.seedRaw)
	accumulated := models.NewBinaryMask(w, h)

	prev := 0
	for i, dist := range dists {
		ring := models.NewBinaryMask(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if e.seed.Pix[y*w+x] != 0 {
					continue
				}
				d := field.At(y, x)
				if d > float64(dist) {
					continue
				}
				if i > 0 && d <= float64(prev) {
					continue
				}
				ring.Pix[y*w+x] = 1
			}
		}

		if e.restrict {
			ring.And(e.constraint)
		}
		ring.AndNot(accumulated)
		if e.minArea > 0 {
			ring = grid.FilterBinaryByArea(ring, e.minArea)
		}
		accumulated.Or(ring)

		labeled, _ := grid.Label(ring, grid.Conn8)
		referenced := PropagateLabels(e.seed, ring, e.log)
		result.put(ExpansionKey(dist), ring, labeled, referenced)
		prev = dist
	}

	result.put(SeedKey(), e.seed.Binary(), e.seed.Clone(), e.seed.Clone())

	if e.restrict {
		remaining := e.constraint.Clone()
		remaining.AndNot(accumulated)
		remaining.AndNot(e.seedRaw)
		result.put(RemainingKey(), remaining,
			models.NewLabeledMask(w, h), models.NewLabeledMask(w, h))
	}
	return result, nil
}

// dedupeSorted returns the distinct distances in ascending order.
func dedupeSorted(distances []int) []int {
	out := make([]int, len(distances))
	copy(out, distances)
	sort.Ints(out)
	n := 0
	for i, d := range out {
		if i == 0 || d != out[i-1] {
			out[n] = d
			n++
		}
	}
	return out[:n]
}
