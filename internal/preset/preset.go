package preset

import (
	"maps"
	"slices"
)

// AdhocID is the ID of presets built by Adhoc.
const AdhocID = "adhoc"

// Preset is a named bundle of target raw values. It is immutable: entries
// are copied in by NewPreset and copied out by Entries.
type Preset struct {
	ID          string
	Name        string
	Description string

	entries map[string]string
}

// NewPreset returns a preset with a private copy of entries.
func NewPreset(id, name, description string, entries map[string]string) Preset {
	return Preset{
		ID:          id,
		Name:        name,
		Description: description,
		entries:     maps.Clone(entries),
	}
}

// Adhoc returns an unnamed preset for one-off edits such as
// "proftune profile set".
func Adhoc(entries map[string]string) Preset {
	return NewPreset(AdhocID, "Ad hoc edit", "", entries)
}

// Entries returns a copy of the key to raw value mapping.
func (p Preset) Entries() map[string]string {
	return maps.Clone(p.entries)
}

// Keys returns the preset's keys, sorted.
func (p Preset) Keys() []string {
	return slices.Sorted(maps.Keys(p.entries))
}

// Value returns the target raw value for key.
func (p Preset) Value(key string) (string, bool) {
	v, ok := p.entries[key]
	return v, ok
}

// Len returns the number of entries.
func (p Preset) Len() int {
	return len(p.entries)
}
