package profile

import (
	"bytes"
	"crypto/sha256"
	"strings"
)

const utf8BOM = "\ufeff"

// Option configures Parse.
type Option func(*parseConfig)

type parseConfig struct {
	header            string
	allowUnterminated bool
}

// WithHeader requires the first line of the profile to start with marker.
func WithHeader(marker string) Option {
	return func(c *parseConfig) {
		c.header = marker
	}
}

// WithAllowUnterminated accepts a last line without a line terminator. By
// default such a line is treated as a truncated write.
func WithAllowUnterminated(allow bool) Option {
	return func(c *parseConfig) {
		c.allowUnterminated = allow
	}
}

// Parse converts profile bytes into a Document. Lines that are not
// "Key value" settings are kept verbatim as opaque records. Structural
// problems (empty or binary input, a truncated last line, a missing header,
// no settings at all, or a duplicate key) return a *ParseError.
func Parse(data []byte, opts ...Option) (*Document, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return parse(data, cfg)
}

func parse(data []byte, cfg parseConfig) (*Document, error) {
	if len(data) == 0 {
		return nil, parseError(&ParseError{Reason: ErrEmpty})
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return nil, parseError(&ParseError{Line: bytes.Count(data[:i], []byte{'\n'}) + 1, Reason: ErrBinary})
	}

	doc := &Document{
		records: make([]Record, 0, bytes.Count(data, []byte{'\n'})+1),
		sum:     sha256.Sum256(data),
		cfg:     cfg,
	}
	seen := make(map[string]int)

	text := string(data)
	for lineNo := 1; text != ""; lineNo++ {
		var line, eol string
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
			eol = "\n"
			if strings.HasSuffix(line, "\r") {
				line = line[:len(line)-1]
				eol = "\r\n"
			}
		} else {
			line, text = text, ""
			if !cfg.allowUnterminated {
				return nil, parseError(&ParseError{Line: lineNo, Reason: ErrTruncated})
			}
		}

		// A leading UTF-8 byte order mark is kept as indent of line 1.
		var bom string
		if lineNo == 1 {
			if rest, ok := strings.CutPrefix(line, utf8BOM); ok {
				bom, line = utf8BOM, rest
			}
		}

		if lineNo == 1 && cfg.header != "" && !strings.HasPrefix(line, cfg.header) {
			return nil, parseError(&ParseError{Line: 1, Reason: ErrMissingHeader})
		}

		rec, ok := splitSetting(line)
		if !ok {
			doc.records = append(doc.records, Record{line: lineNo, raw: bom + line + eol})
			continue
		}
		rec.indent = bom + rec.indent
		if first, dup := seen[rec.key]; dup {
			return nil, parseError(&ParseError{Line: lineNo, Key: rec.key, FirstLine: first, Reason: ErrDuplicateKey})
		}
		seen[rec.key] = lineNo
		rec.line = lineNo
		rec.eol = eol
		doc.records = append(doc.records, rec)
		doc.settings++
	}

	if doc.settings == 0 {
		return nil, parseError(&ParseError{Reason: ErrNoSettings})
	}
	return doc, nil
}

// splitSetting recognizes <indent><key><sep><value><trail>. The line has
// its terminator removed.
func splitSetting(line string) (Record, bool) {
	i := skipBlank(line, 0)
	j := i
	for j < len(line) && isKeyByte(line[j]) {
		j++
	}
	key := line[i:j]
	if !validKey(key) {
		return Record{}, false
	}

	k := skipBlank(line, j)
	if k == j || k == len(line) {
		return Record{}, false
	}

	rest := line[k:]
	value := strings.TrimRight(rest, " \t")
	if strings.ContainsRune(value, '\r') {
		return Record{}, false
	}

	return Record{
		indent: line[:i],
		key:    key,
		sep:    line[j:k],
		value:  value,
		trail:  rest[len(value):],
	}, true
}

func skipBlank(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isKeyByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// validKey accepts dotted identifiers such as GstRender.Dx12Enabled: at
// least two non-empty segments, the first starting with a letter or '_'.
func validKey(key string) bool {
	if key == "" {
		return false
	}
	c := key[0]
	if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return false
	}
	segments := strings.Split(key, ".")
	if len(segments) < 2 {
		return false
	}
	for _, s := range segments {
		if s == "" {
			return false
		}
	}
	return true
}
