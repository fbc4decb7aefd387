package expansion

import (
	"gridgen/internal/models"
)

// Result is the keyed output of an expansion run: three parallel
// collections holding, per key, the binary footprint, its independently
// component-labeled version, and the identity-referenced version carrying
// seed/object identifiers. All grids share the run's shape and are
// treated as immutable once the run returns.
type Result struct {
	Binary     map[Key]*models.BinaryMask
	Labeled    map[Key]*models.LabeledMask
	Referenced map[Key]*models.LabeledMask
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{
		Binary:     make(map[Key]*models.BinaryMask),
		Labeled:    make(map[Key]*models.LabeledMask),
		Referenced: make(map[Key]*models.LabeledMask),
	}
}

func (r *Result) put(k Key, bin *models.BinaryMask, lab, ref *models.LabeledMask) {
	r.Binary[k] = bin
	r.Labeled[k] = lab
	r.Referenced[k] = ref
}

// Keys returns every key present, in deterministic order.
func (r *Result) Keys() []Key {
	keys := make([]Key, 0, len(r.Binary))
	for k := range r.Binary {
		keys = append(keys, k)
	}
	return SortKeys(keys)
}
