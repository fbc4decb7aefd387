package stats

import (
	"sort"

	"gridgen/internal/models"
)

// MapHierarchy maps every source object to the parent objects it
// overlaps: for each positive source label, the sorted distinct positive
// target labels found under its footprint. An object overlapping no
// parent maps to an empty list.
func MapHierarchy(source, target *models.LabeledMask) map[int32][]int32 {
	overlaps := make(map[int32]map[int32]struct{})
	for i, src := range source.Pix {
		if src == 0 {
			continue
		}
		set := overlaps[src]
		if set == nil {
			set = make(map[int32]struct{})
			overlaps[src] = set
		}
		if dst := target.Pix[i]; dst > 0 {
			set[dst] = struct{}{}
		}
	}

	out := make(map[int32][]int32, len(overlaps))
	for src, set := range overlaps {
		parents := make([]int32, 0, len(set))
		for dst := range set {
			parents = append(parents, dst)
		}
		sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })
		out[src] = parents
	}
	return out
}
