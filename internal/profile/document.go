package profile

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Record is one line of a profile. A setting record keeps every byte of
// formatting around its value so that it serializes back to the exact input
// line; an opaque record keeps its text verbatim.
type Record struct {
	line int
	raw  string // opaque records only

	indent string
	key    string
	sep    string
	value  string
	trail  string
	eol    string

	mutated bool
}

// IsSetting reports whether the record is a recognized key/value line.
func (r Record) IsSetting() bool {
	return r.key != ""
}

// Line returns the 1-based line number the record was parsed from.
func (r Record) Line() int {
	return r.line
}

// Key returns the setting key, or "" for opaque records.
func (r Record) Key() string {
	return r.key
}

// Value returns the raw value of a setting record.
func (r Record) Value() string {
	return r.value
}

// Mutated reports whether Index.Set changed the record's value.
func (r Record) Mutated() bool {
	return r.mutated
}

// Text returns the record's bytes as they will be serialized, terminator
// included.
func (r Record) Text() string {
	if !r.IsSetting() {
		return r.raw
	}
	return r.indent + r.key + r.sep + r.value + r.trail + r.eol
}

func (r Record) size() int {
	if !r.IsSetting() {
		return len(r.raw)
	}
	return len(r.indent) + len(r.key) + len(r.sep) + len(r.value) + len(r.trail) + len(r.eol)
}

// Document is the lossless in-memory form of a profile file. It is not safe
// for concurrent use; one session owns one Document.
type Document struct {
	records  []Record
	settings int
	sum      [sha256.Size]byte
	cfg      parseConfig
}

// Len returns the number of records, settings and opaque lines together.
func (d *Document) Len() int {
	return len(d.records)
}

// SettingCount returns the number of setting records.
func (d *Document) SettingCount() int {
	return d.settings
}

// Records returns a copy of the records in file order.
func (d *Document) Records() []Record {
	return append([]Record(nil), d.records...)
}

// Dirty reports whether any record has been mutated since parsing.
func (d *Document) Dirty() bool {
	for i := range d.records {
		if d.records[i].mutated {
			return true
		}
	}
	return false
}

// Checksum returns the hex SHA-256 of the bytes the document was parsed
// from. Mutations do not change it.
func (d *Document) Checksum() string {
	return hex.EncodeToString(d.sum[:])
}

// Clone returns an independent copy. Mutating the copy never affects d.
func (d *Document) Clone() *Document {
	c := *d
	c.records = append([]Record(nil), d.records...)
	return &c
}

// Reparse parses data with the options d was parsed with.
func (d *Document) Reparse(data []byte) (*Document, error) {
	return parse(data, d.cfg)
}

// String returns the serialized document.
func (d *Document) String() string {
	var b strings.Builder
	d.writeTo(&b)
	return b.String()
}

func (d *Document) writeTo(b *strings.Builder) {
	n := 0
	for i := range d.records {
		n += d.records[i].size()
	}
	b.Grow(n)
	for i := range d.records {
		b.WriteString(d.records[i].Text())
	}
}

// Serialize returns the document's bytes. Without mutations the result
// equals the parsed input exactly; with mutations only the changed values
// differ.
func Serialize(d *Document) []byte {
	var b strings.Builder
	d.writeTo(&b)
	return []byte(b.String())
}
