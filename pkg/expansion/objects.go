package expansion

import (
	"errors"
	"fmt"
	"log/slog"

	"gridgen/internal/models"
	"gridgen/pkg/geometry"
	"gridgen/pkg/grid"
)

// ErrNoSeed indicates an object analysis was asked to expand before a
// seed mask was built.
var ErrNoSeed = errors.New("expansion: no object mask to expand")

// ObjectAnalysis is the single-class contour path: it rasterizes one
// class's contours into a seed mask and runs unconstrained ring expansion
// around it.
type ObjectAnalysis struct {
	width  int
	height int
	name   string

	contours []geometry.Contour
	mask     *models.BinaryMask
	log      *slog.Logger
}

// NewObjectAnalysis prepares an analysis over one class's contours.
func NewObjectAnalysis(width, height int, contours []geometry.Contour, name string, logger *slog.Logger) (*ObjectAnalysis, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("expansion: %dx%d raster: %w", width, height, models.ErrEmptyGrid)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ObjectAnalysis{
		width:    width,
		height:   height,
		name:     name,
		contours: contours,
		log:      logger,
	}, nil
}

// BuildMask rasterizes the contours into the seed mask, subtracts the
// exclusion masks, and drops components below minArea when given.
// Invalid contours are skipped with a warning.
func (o *ObjectAnalysis) BuildMask(exclude []*models.BinaryMask, minArea int) error {
	mask, skipped := geometry.RasterizeContours(o.contours, o.width, o.height)
	if skipped > 0 {
		o.log.Warn("skipped invalid contours while building object mask",
			"name", o.name, "skipped", skipped)
	}
	for _, ex := range exclude {
		if ex.Width != o.width || ex.Height != o.height {
			return fmt.Errorf("expansion: exclusion mask %dx%d vs %dx%d: %w",
				ex.Width, ex.Height, o.width, o.height, models.ErrShapeMismatch)
		}
		mask.AndNot(ex)
	}
	if minArea > 0 {
		mask = grid.FilterBinaryByArea(mask, minArea)
	}
	o.mask = mask
	return nil
}

// Mask returns the built seed mask, or nil before BuildMask.
func (o *ObjectAnalysis) Mask() *models.BinaryMask {
	if o.mask == nil {
		return nil
	}
	return o.mask.Clone()
}

// Expand runs unconstrained ring expansion around the built mask.
func (o *ObjectAnalysis) Expand(distances []int, minArea int) (*Result, error) {
	if o.mask == nil {
		return nil, ErrNoSeed
	}
	opts := []Option{WithRestrictToLimit(false), WithLogger(o.log)}
	if minArea > 0 {
		opts = append(opts, WithMinArea(minArea))
	}
	e, err := NewExpander(o.mask, nil, opts...)
	if err != nil {
		return nil, err
	}
	return e.Expand(distances)
}
