package stats

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"gridgen/internal/models"
	"gridgen/pkg/grid"
)

// AnalysisType selects how a mask is summarized.
type AnalysisType string

const (
	// PerObject labels the mask and extracts features per component.
	PerObject AnalysisType = "per_object"
	// Bulk summarizes the whole mask as one record.
	Bulk AnalysisType = "bulk"
	// Grid summarizes fixed-size tiles of the mask.
	Grid AnalysisType = "grid"
)

// supportedTypes lists the valid analysis types for error messages.
var supportedTypes = []AnalysisType{PerObject, Bulk, Grid}

// Sentinel errors for pipeline validation.
var (
	// ErrUnsupportedAnalysis indicates an analysis type outside the
	// supported set.
	ErrUnsupportedAnalysis = errors.New("stats: unsupported analysis type")
	// ErrGridSizeRequired indicates a grid analysis without a tile size.
	ErrGridSizeRequired = errors.New("stats: grid analysis requires a positive grid size")
)

// MaskDefinition names one mask to analyze and how.
type MaskDefinition struct {
	Mask     *models.BinaryMask
	Name     string
	Type     AnalysisType
	GridSize int
}

// Record is one analyzed unit: a labeled object, a whole mask, or a tile.
// Morphology is nil for bulk and grid records; Genes is nil when the
// pipeline has no counts volume. ParentIDs is filled by MapHierarchies.
type Record struct {
	MaskName   string
	Type       AnalysisType
	ObjectID   string
	Area       int
	Morphology *RegionFeatures
	Genes      GeneCounts
	ParentIDs  []int32
}

// MaskResult groups the records of one analyzed mask.
type MaskResult struct {
	MaskName string
	Type     AnalysisType
	Records  []Record
}

// Pipeline runs morphology and gene-count analysis over a batch of mask
// definitions. The counts volume is optional; without it only morphology
// is extracted.
type Pipeline struct {
	defs   []MaskDefinition
	counts *CountsVolume
	log    *slog.Logger

	labeled map[string]*models.LabeledMask
	results []MaskResult
}

// NewPipeline validates the definitions and prepares a run. An analysis
// type outside {per_object, bulk, grid} is an immediate invalid-argument
// error naming the supported set.
func NewPipeline(defs []MaskDefinition, counts *CountsVolume, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, d := range defs {
		switch d.Type {
		case PerObject, Bulk:
		case Grid:
			if d.GridSize <= 0 {
				return nil, fmt.Errorf("%w (mask %q)", ErrGridSizeRequired, d.Name)
			}
		default:
			return nil, fmt.Errorf("%w: %q (mask %q), supported: %v",
				ErrUnsupportedAnalysis, d.Type, d.Name, supportedTypes)
		}
		if err := d.Mask.Validate(); err != nil {
			return nil, fmt.Errorf("stats: mask %q: %w", d.Name, err)
		}
	}
	return &Pipeline{
		defs:    defs,
		counts:  counts,
		log:     logger,
		labeled: make(map[string]*models.LabeledMask),
	}, nil
}

// Run analyzes every definition and returns the per-mask results. A
// failure on one mask is logged and the loop continues; one malformed
// mask cannot abort the batch.
func (p *Pipeline) Run() []MaskResult {
	p.results = p.results[:0]
	for _, d := range p.defs {
		res := MaskResult{MaskName: d.Name, Type: d.Type}
		switch d.Type {
		case PerObject:
			res.Records = p.perObject(d)
		case Bulk:
			res.Records = p.bulk(d)
		case Grid:
			res.Records = p.grid(d)
		}
		p.warnNegative(res.Records)
		p.results = append(p.results, res)
	}
	return p.results
}

func (p *Pipeline) perObject(d MaskDefinition) []Record {
	labeled, _ := grid.Label(d.Mask, grid.Conn8)
	p.labeled[d.Name] = labeled

	var genes map[int32]GeneCounts
	if p.counts != nil {
		genes = CountPerObject(labeled, p.counts)
	}
	features := PerObjectFeatures(labeled)
	records := make([]Record, 0, len(features))
	for i := range features {
		f := features[i]
		rec := Record{
			MaskName:   d.Name,
			Type:       d.Type,
			ObjectID:   fmt.Sprintf("%d", f.Label),
			Area:       f.Area,
			Morphology: &f,
		}
		if genes != nil {
			rec.Genes = genes[f.Label]
		}
		records = append(records, rec)
	}
	return records
}

func (p *Pipeline) bulk(d MaskDefinition) []Record {
	rec := Record{
		MaskName: d.Name,
		Type:     d.Type,
		ObjectID: "bulk",
		Area:     d.Mask.Count(),
	}
	if p.counts != nil {
		rec.Genes = CountBulk(d.Mask, p.counts)
	}
	return []Record{rec}
}

func (p *Pipeline) grid(d MaskDefinition) []Record {
	var genes map[[2]int]GeneCounts
	if p.counts != nil {
		genes = CountGrid(d.Mask, p.counts, d.GridSize)
	}
	tiles := GridFeatures(d.Mask, d.GridSize)
	records := make([]Record, 0, len(tiles))
	for _, t := range tiles {
		rec := Record{
			MaskName: d.Name,
			Type:     d.Type,
			ObjectID: fmt.Sprintf("grid_%d_%d", t.X, t.Y),
			Area:     t.Area,
		}
		if genes != nil {
			rec.Genes = genes[[2]int{t.X, t.Y}]
		}
		records = append(records, rec)
	}
	return records
}

func (p *Pipeline) warnNegative(records []Record) {
	for _, rec := range records {
		for gene, v := range rec.Genes {
			if v < 0 {
				p.log.Warn("negative gene count",
					"gene", gene, "object", rec.ObjectID, "count", v)
			}
		}
	}
}

// HierarchyDefinition ties a child mask's reference labels to the name of
// its parent mask.
type HierarchyDefinition struct {
	Labels *models.LabeledMask
	Parent string
}

// HierarchyRecord is one child-to-parents mapping row.
type HierarchyRecord struct {
	MaskName   string
	ObjectID   int32
	ParentMask string
	ParentIDs  []int32
}

// MapHierarchies maps child objects to parent objects by label overlap,
// using each child's reference labels against the parent mask's labeled
// version (labeling it on demand). Records produced by Run for a child
// mask gain their ParentIDs. Children are processed in sorted name order.
func (p *Pipeline) MapHierarchies(defs map[string]HierarchyDefinition) ([]HierarchyRecord, error) {
	children := make([]string, 0, len(defs))
	for name := range defs {
		children = append(children, name)
	}
	sort.Strings(children)

	var rows []HierarchyRecord
	for _, child := range children {
		def := defs[child]
		parentLabels, ok := p.labeled[def.Parent]
		if !ok {
			found := false
			for _, d := range p.defs {
				if d.Name != def.Parent {
					continue
				}
				parentLabels, _ = grid.Label(d.Mask, grid.Conn8)
				p.labeled[def.Parent] = parentLabels
				found = true
				break
			}
			if !found {
				return nil, fmt.Errorf("stats: parent mask %q not defined", def.Parent)
			}
		}

		mapping := MapHierarchy(def.Labels, parentLabels)

		// Attach parent ids to the child's run records.
		for ri := range p.results {
			if p.results[ri].MaskName != child {
				continue
			}
			for i := range p.results[ri].Records {
				rec := &p.results[ri].Records[i]
				if rec.Morphology == nil {
					continue
				}
				rec.ParentIDs = mapping[rec.Morphology.Label]
			}
		}

		ids := make([]int32, 0, len(mapping))
		for id := range mapping {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			rows = append(rows, HierarchyRecord{
				MaskName:   child,
				ObjectID:   id,
				ParentMask: def.Parent,
				ParentIDs:  mapping[id],
			})
		}
	}
	return rows, nil
}
