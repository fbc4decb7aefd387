package expansion

import (
	"fmt"
	"log/slog"
	"sort"

	"gridgen/internal/models"
	"gridgen/pkg/geometry"
	"gridgen/pkg/grid"
	"gridgen/pkg/voronoi"
)

// idGenerator hands out globally unique object identifiers in encounter
// order. It is owned by the expander that created it; there is no ambient
// counter state.
type idGenerator struct {
	next int32
}

func (g *idGenerator) Next() int32 {
	g.next++
	return g.next
}

// MultiClassExpander expands the objects of several classes outward by
// morphological dilation, with each object's growth confined to its
// class's Voronoi territory so classes cannot claim each other's ground.
// Every valid input contour receives a globally unique identifier that is
// stamped through all of its derived expansions.
type MultiClassExpander struct {
	width  int
	height int

	objects   []geometry.Object
	partition *voronoi.Partition
	log       *slog.Logger
}

// MultiOption configures a MultiClassExpander.
type MultiOption func(*MultiClassExpander)

// WithMultiLogger sets the logger used for warnings.
func WithMultiLogger(logger *slog.Logger) MultiOption {
	return func(m *MultiClassExpander) { m.log = logger }
}

// NewMultiClassExpander validates the contours of byClass, builds the
// class Voronoi partition over their centroids, and prepares a run.
// Invalid contours are skipped with a warning and never receive an
// identifier.
func NewMultiClassExpander(width, height int, byClass map[string][]geometry.Contour, opts ...MultiOption) (*MultiClassExpander, error) {
	m := &MultiClassExpander{width: width, height: height, log: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("expansion: %dx%d raster: %w", width, height, models.ErrEmptyGrid)
	}

	m.objects = geometry.ValidObjects(byClass, m.log)
	part, err := voronoi.New(m.objects, width, height, m.log)
	if err != nil {
		return nil, fmt.Errorf("expansion: building Voronoi partition: %w", err)
	}
	m.partition = part
	return m, nil
}

// ObjectCount returns the number of valid objects, which is also the
// highest identifier a run will assign.
func (m *MultiClassExpander) ObjectCount() int { return len(m.objects) }

// Partition exposes the class Voronoi partition backing the run.
func (m *MultiClassExpander) Partition() *voronoi.Partition { return m.partition }

// record is one per-object output grid prior to aggregation.
type record struct {
	key     Key
	binary  *models.BinaryMask
	labeled *models.LabeledMask
}

// ExpandAll rasterizes each object, grows it ring by ring in the
// caller-supplied distance order (square structuring element of side d,
// a morphological approximation rather than a distance-field ring), and
// aggregates the outputs by class for the originals and by class and
// distance for the expansions. Binary aggregates are unions, labeled
// aggregates take the pixel-wise maximum identifier, and referenced
// aggregates pull from a single run-wide identity grid updated as each
// object and ring is processed, so ties go to the most recently written
// identifier.
func (m *MultiClassExpander) ExpandAll(distances []int) (*Result, error) {
	var ids idGenerator
	reference := models.NewLabeledMask(m.width, m.height)
	var records []record

	// Rasterize and identify the originals, in encounter order.
	masks := make([]*models.BinaryMask, len(m.objects))
	objectIDs := make([]int32, len(m.objects))
	for i, obj := range m.objects {
		id := ids.Next()
		objectIDs[i] = id

		mask := models.NewBinaryMask(m.width, m.height)
		geometry.FillPolygon(mask, obj.Polygon)
		masks[i] = mask

		records = append(records, record{
			key:     Key{Class: obj.Class, Kind: KindOriginal, Parent: id},
			binary:  mask,
			labeled: flatLabel(mask, id),
		})
		stamp(reference, mask, id)
	}

	// Expand per class, each object confined to its class's territory.
	for _, class := range m.classes() {
		territory := m.partition.RasterizeClass(class)
		for i, obj := range m.objects {
			if obj.Class != class {
				continue
			}
			claimed := models.NewBinaryMask(m.width, m.height)
			for _, dist := range distances {
				ring := grid.Dilate(masks[i], dist)
				ring.AndNot(masks[i])
				ring.AndNot(claimed)
				ring.And(territory)

				records = append(records, record{
					key:     Key{Class: class, Kind: KindExpansion, Distance: dist, Parent: objectIDs[i]},
					binary:  ring,
					labeled: flatLabel(ring, objectIDs[i]),
				})
				stamp(reference, ring, objectIDs[i])
				claimed.Or(ring)
			}
		}
	}

	// Aggregate by (class) for originals and (class, distance) for rings.
	result := NewResult()
	for _, rec := range records {
		agg := rec.key
		agg.Parent = 0
		if _, ok := result.Binary[agg]; !ok {
			result.put(agg,
				models.NewBinaryMask(m.width, m.height),
				models.NewLabeledMask(m.width, m.height),
				models.NewLabeledMask(m.width, m.height))
		}
		result.Binary[agg].Or(rec.binary)
		maxInto(result.Labeled[agg], rec.labeled)
	}
	for _, k := range result.Keys() {
		ref := result.Referenced[k]
		bin := result.Binary[k]
		for i, v := range bin.Pix {
			if v != 0 {
				ref.Pix[i] = reference.Pix[i]
			}
		}
	}
	return result, nil
}

// classes returns the class labels present, sorted.
func (m *MultiClassExpander) classes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, obj := range m.objects {
		if _, ok := seen[obj.Class]; ok {
			continue
		}
		seen[obj.Class] = struct{}{}
		out = append(out, obj.Class)
	}
	sort.Strings(out)
	return out
}

// flatLabel labels every set cell of mask uniformly with id; expansions
// carry their parent's identity, not fresh component labels.
func flatLabel(mask *models.BinaryMask, id int32) *models.LabeledMask {
	out := models.NewLabeledMask(mask.Width, mask.Height)
	for i, v := range mask.Pix {
		if v != 0 {
			out.Pix[i] = id
		}
	}
	return out
}

// stamp writes id into dst wherever mask is set.
func stamp(dst *models.LabeledMask, mask *models.BinaryMask, id int32) {
	for i, v := range mask.Pix {
		if v != 0 {
			dst.Pix[i] = id
		}
	}
}

// maxInto merges src into dst by pixel-wise maximum.
func maxInto(dst, src *models.LabeledMask) {
	for i, v := range src.Pix {
		if v > dst.Pix[i] {
			dst.Pix[i] = v
		}
	}
}
