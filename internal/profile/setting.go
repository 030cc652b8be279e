package profile

import (
	"strconv"
	"strings"
)

// Kind is the type inferred from a raw value's syntax.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Numeric reports whether k is KindInt or KindFloat.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// InferKind classifies raw. "0" and "1" are ints; only true/false are bools.
func InferKind(raw string) Kind {
	if strings.EqualFold(raw, "true") || strings.EqualFold(raw, "false") {
		return KindBool
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return KindInt
	}
	if isDecimal(raw) {
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return KindFloat
		}
	}
	return KindString
}

// isDecimal rejects the forms ParseFloat accepts that the game never
// writes: Inf, NaN, hex floats and underscores.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c == '.', c == '-', c == '+', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}

// Setting is the view of one recognized record. Raw is authoritative; the
// typed accessors never change it.
type Setting struct {
	Key  string
	Raw  string
	Kind Kind
	Line int
}

func newSetting(r *Record) Setting {
	return Setting{
		Key:  r.key,
		Raw:  r.value,
		Kind: InferKind(r.value),
		Line: r.line,
	}
}

// Namespace returns the part of the key before the first dot, e.g.
// "GstRender".
func (s Setting) Namespace() string {
	ns, _, _ := strings.Cut(s.Key, ".")
	return ns
}

// Name returns the part of the key after the first dot.
func (s Setting) Name() string {
	_, name, _ := strings.Cut(s.Key, ".")
	return name
}

// Value returns the typed value: bool, int64, float64 or string.
func (s Setting) Value() any {
	switch s.Kind {
	case KindBool:
		return strings.EqualFold(s.Raw, "true")
	case KindInt:
		v, _ := strconv.ParseInt(s.Raw, 10, 64)
		return v
	case KindFloat:
		v, _ := strconv.ParseFloat(s.Raw, 64)
		return v
	}
	return s.Raw
}

// Bool parses the raw value as a boolean. 0 and 1 are accepted.
func (s Setting) Bool() (bool, error) {
	return strconv.ParseBool(strings.ToLower(s.Raw))
}

// Int parses the raw value as a base 10 integer.
func (s Setting) Int() (int64, error) {
	return strconv.ParseInt(s.Raw, 10, 64)
}

// Float parses the raw value as a float. Integers are accepted.
func (s Setting) Float() (float64, error) {
	return strconv.ParseFloat(s.Raw, 64)
}

// Equivalent reports whether two raw values mean the same thing: equal
// text, the same boolean, or numerically equal numbers ("240" and
// "240.000000").
func Equivalent(a, b string) bool {
	if a == b {
		return true
	}
	ka, kb := InferKind(a), InferKind(b)
	switch {
	case ka == KindBool && kb == KindBool:
		return strings.EqualFold(a, b)
	case ka == KindInt && kb == KindInt:
		// float64 would merge distinct integers above 2^53
		ia, errA := strconv.ParseInt(a, 10, 64)
		ib, errB := strconv.ParseInt(b, 10, 64)
		return errA == nil && errB == nil && ia == ib
	case ka.Numeric() && kb.Numeric():
		fa, errA := strconv.ParseFloat(a, 64)
		fb, errB := strconv.ParseFloat(b, 64)
		return errA == nil && errB == nil && fa == fb
	}
	return false
}

// compatible reports whether a value of kind next may replace one of kind
// current. Strings accept anything; numbers accept numbers.
func compatible(current, next Kind) bool {
	switch {
	case current == KindString:
		return true
	case current.Numeric():
		return next.Numeric()
	}
	return current == next
}
