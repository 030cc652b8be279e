package preset

import (
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/profile"
)

// Rule types.
const (
	RuleInt   = "int"
	RuleFloat = "float"
	RuleBool  = "bool"
	RuleEnum  = "enum"
)

// Rule bounds the values a known setting may be given.
type Rule struct {
	Key    string   `toml:"key" yaml:"key" json:"key"`
	Type   string   `toml:"type" yaml:"type" json:"type"`
	Min    *float64 `toml:"min,omitempty" yaml:"min,omitempty" json:"min,omitempty"`
	Max    *float64 `toml:"max,omitempty" yaml:"max,omitempty" json:"max,omitempty"`
	Values []string `toml:"values,omitempty" yaml:"values,omitempty" json:"values,omitempty"`
}

func (r Rule) validate() error {
	if r.Key == "" {
		return errors.New("rule key is required")
	}
	switch r.Type {
	case RuleInt, RuleFloat:
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return errors.Newf("rule %s: min %g is greater than max %g", r.Key, *r.Min, *r.Max)
		}
	case RuleBool:
	case RuleEnum:
		if len(r.Values) == 0 {
			return errors.Newf("rule %s: enum needs values", r.Key)
		}
	default:
		return errors.Newf("rule %s: unknown type %q", r.Key, r.Type)
	}
	return nil
}

// Check reports whether raw satisfies the rule.
func (r Rule) Check(raw string) error {
	kind := profile.InferKind(raw)
	switch r.Type {
	case RuleBool:
		if kind == profile.KindBool || raw == "0" || raw == "1" {
			return nil
		}
		return r.violation(raw, "expected 0, 1, true or false")
	case RuleEnum:
		if slices.Contains(r.Values, raw) {
			return nil
		}
		return r.violation(raw, "expected one of "+strings.Join(r.Values, ", "))
	case RuleInt:
		if kind != profile.KindInt {
			return r.violation(raw, "expected an integer")
		}
	case RuleFloat:
		if !kind.Numeric() {
			return r.violation(raw, "expected a number")
		}
	}

	v, _ := strconv.ParseFloat(raw, 64)
	if r.Min != nil && v < *r.Min {
		return r.violation(raw, "below minimum "+formatBound(*r.Min))
	}
	if r.Max != nil && v > *r.Max {
		return r.violation(raw, "above maximum "+formatBound(*r.Max))
	}
	return nil
}

func (r Rule) violation(raw, why string) error {
	return errors.Wrapf(ErrRuleViolation, "%s = %q: %s", r.Key, raw, why)
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
