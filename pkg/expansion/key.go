// Package expansion implements the region-growing engines: distance-field
// ring expansion around a seed mask, iterative label propagation into
// grown zones, and Voronoi-constrained multi-class expansion with global
// object identifiers.
package expansion

import (
	"fmt"
	"sort"
)

// Kind discriminates the entries of a Result.
type Kind int

const (
	// KindSeed is the seed footprint entry.
	KindSeed Kind = iota
	// KindExpansion is one distance-keyed expansion ring.
	KindExpansion
	// KindRemaining is constraint area not claimed by any ring.
	KindRemaining
	// KindOriginal is one class's un-expanded object footprint.
	KindOriginal
)

func (k Kind) String() string {
	switch k {
	case KindSeed:
		return "seed"
	case KindExpansion:
		return "expansion"
	case KindRemaining:
		return "remaining"
	case KindOriginal:
		return "original"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Key identifies one output grid. It is constructed directly and compared
// as a value; the rendered name exists for file output only and is never
// parsed back.
type Key struct {
	Class    string
	Kind     Kind
	Distance int
	Parent   int32
}

// SeedKey keys the seed footprint of a single-class run.
func SeedKey() Key { return Key{Kind: KindSeed} }

// RemainingKey keys the unclaimed constraint leftover.
func RemainingKey() Key { return Key{Kind: KindRemaining} }

// ExpansionKey keys the single-class ring at distance d.
func ExpansionKey(d int) Key { return Key{Kind: KindExpansion, Distance: d} }

// ClassExpansionKey keys a class's aggregated ring at distance d.
func ClassExpansionKey(class string, d int) Key {
	return Key{Class: class, Kind: KindExpansion, Distance: d}
}

// OriginalKey keys a class's aggregated un-expanded objects.
func OriginalKey(class string) Key { return Key{Class: class, Kind: KindOriginal} }

// String renders the legacy grid name: "seed_mask", "expansion_5",
// "constraint_remaining", "gd", "gd_expansion_30".
func (k Key) String() string {
	switch k.Kind {
	case KindSeed:
		return "seed_mask"
	case KindRemaining:
		return "constraint_remaining"
	case KindOriginal:
		return k.Class
	}
	if k.Class == "" {
		return fmt.Sprintf("expansion_%d", k.Distance)
	}
	return fmt.Sprintf("%s_expansion_%d", k.Class, k.Distance)
}

// less orders keys for deterministic iteration: by class, then kind,
// then distance, then parent.
func (k Key) less(o Key) bool {
	if k.Class != o.Class {
		return k.Class < o.Class
	}
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	if k.Distance != o.Distance {
		return k.Distance < o.Distance
	}
	return k.Parent < o.Parent
}

// SortKeys orders keys deterministically in place and returns them.
func SortKeys(keys []Key) []Key {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}
