package profile

import (
	"strings"

	"github.com/thoreinstein/proftune/internal/errors"
)

// Index is a key-addressable view over a Document. It holds only record
// positions; all values live in the document. The key set is closed: Index
// never adds, removes or reorders records.
type Index struct {
	doc *Document
	pos map[string]int
}

// NewIndex builds an index over doc. Keys are unique because Parse rejects
// duplicates.
func NewIndex(doc *Document) *Index {
	pos := make(map[string]int, doc.settings)
	for i := range doc.records {
		if doc.records[i].IsSetting() {
			pos[doc.records[i].key] = i
		}
	}
	return &Index{doc: doc, pos: pos}
}

// Document returns the document the index views.
func (x *Index) Document() *Document {
	return x.doc
}

// Len returns the number of settings.
func (x *Index) Len() int {
	return len(x.pos)
}

// Has reports whether key exists.
func (x *Index) Has(key string) bool {
	_, ok := x.pos[key]
	return ok
}

// Get returns the setting for key.
func (x *Index) Get(key string) (Setting, error) {
	i, ok := x.pos[key]
	if !ok {
		return Setting{}, errors.Wrapf(ErrKeyNotFound, "key %q", key)
	}
	return newSetting(&x.doc.records[i]), nil
}

// Set replaces the raw value of key and returns the previous raw value.
// The value must be a single non-blank line without surrounding whitespace,
// and numeric or boolean settings only accept values of the same kind.
// Setting the current value again is a no-op.
func (x *Index) Set(key, raw string) (string, error) {
	i, ok := x.pos[key]
	if !ok {
		return "", errors.Wrapf(ErrKeyNotFound, "key %q", key)
	}
	rec := &x.doc.records[i]
	prev := rec.value
	if raw == prev {
		return prev, nil
	}

	if err := CheckReplace(prev, raw); err != nil {
		return prev, errors.Wrapf(err, "key %q", key)
	}

	rec.value = raw
	rec.mutated = true
	return prev, nil
}

// ValidateValue checks that raw can be written as a setting value without
// changing the line structure of the file.
func ValidateValue(raw string) error {
	switch {
	case raw == "":
		return errors.Wrap(ErrInvalidValue, "value is empty")
	case strings.ContainsAny(raw, "\r\n\x00"):
		return errors.Wrapf(ErrInvalidValue, "value %q contains a line break or NUL", raw)
	case strings.TrimSpace(raw) != raw:
		return errors.Wrapf(ErrInvalidValue, "value %q has surrounding whitespace", raw)
	}
	return nil
}

// CheckReplace reports whether next may be written over the current value:
// it must pass ValidateValue and have a compatible kind (ErrTypeMismatch).
func CheckReplace(current, next string) error {
	if err := ValidateValue(next); err != nil {
		return err
	}
	if cur, nk := InferKind(current), InferKind(next); !compatible(cur, nk) {
		return errors.Wrapf(ErrTypeMismatch, "%s value %q cannot replace %s value %q", nk, next, cur, current)
	}
	return nil
}

// All returns every setting in file order.
func (x *Index) All() []Setting {
	out := make([]Setting, 0, len(x.pos))
	for i := range x.doc.records {
		if x.doc.records[i].IsSetting() {
			out = append(out, newSetting(&x.doc.records[i]))
		}
	}
	return out
}

// Prefix returns the settings of one namespace, e.g. "GstRender", in file
// order. A trailing dot is optional.
func (x *Index) Prefix(namespace string) []Setting {
	prefix := strings.TrimSuffix(namespace, ".") + "."
	var out []Setting
	for i := range x.doc.records {
		if rec := &x.doc.records[i]; rec.IsSetting() && strings.HasPrefix(rec.key, prefix) {
			out = append(out, newSetting(rec))
		}
	}
	return out
}

// Namespaces returns the distinct namespaces in order of first appearance.
func (x *Index) Namespaces() []string {
	var out []string
	seen := make(map[string]bool)
	for i := range x.doc.records {
		rec := &x.doc.records[i]
		if !rec.IsSetting() {
			continue
		}
		ns, _, _ := strings.Cut(rec.key, ".")
		if !seen[ns] {
			seen[ns] = true
			out = append(out, ns)
		}
	}
	return out
}
