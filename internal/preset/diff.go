package preset

import (
	"slices"

	"github.com/thoreinstein/proftune/internal/profile"
)

// Change is one setting a preset would modify.
type Change struct {
	Key  string `json:"key"`
	Old  string `json:"old"`
	New  string `json:"new"`
	Line int    `json:"line"`
}

// Diff compares a preset against a document. It is computed per call and
// never stored.
type Diff struct {
	// Changes are in document order.
	Changes []Change `json:"changes"`
	// SkippedUnknownKeys are preset keys the document does not have, sorted.
	// They are reported and never added to the file.
	SkippedUnknownKeys []string `json:"skipped_unknown_keys,omitempty"`
	// Unchanged are preset keys whose current value already matches, in
	// document order.
	Unchanged []string `json:"unchanged,omitempty"`
}

// Empty reports whether applying the preset would change nothing.
func (d Diff) Empty() bool {
	return len(d.Changes) == 0
}

// ComputeDiff compares p against the settings in idx. Values that are
// equivalent to the current ones ("1.0" and "1.000000") count as unchanged.
func ComputeDiff(p Preset, idx *profile.Index) Diff {
	var d Diff
	for _, s := range idx.All() {
		target, ok := p.entries[s.Key]
		if !ok {
			continue
		}
		if profile.Equivalent(s.Raw, target) {
			d.Unchanged = append(d.Unchanged, s.Key)
			continue
		}
		d.Changes = append(d.Changes, Change{Key: s.Key, Old: s.Raw, New: target, Line: s.Line})
	}
	for key := range p.entries {
		if !idx.Has(key) {
			d.SkippedUnknownKeys = append(d.SkippedUnknownKeys, key)
		}
	}
	slices.Sort(d.SkippedUnknownKeys)
	return d
}
