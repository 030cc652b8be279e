// Package query filters profile settings with expr-lang expressions, as in
//
//	proftune profile list --filter 'namespace == "GstRender" && number > 1'
package query

import (
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/profile"
)

// ErrInvalidFilter is returned for expressions that do not compile.
var ErrInvalidFilter = errors.New("invalid filter expression")

// SettingEnv exposes one setting to a filter expression.
type SettingEnv struct {
	Key       string `expr:"key"`
	Namespace string `expr:"namespace"`
	Name      string `expr:"name"`
	Raw       string `expr:"raw"`
	Kind      string `expr:"kind"`
	Value     any    `expr:"value"`
	// Number is the numeric value, 0 for settings that are not numbers.
	Number  float64 `expr:"number"`
	Numeric bool    `expr:"numeric"`
	Line    int     `expr:"line"`
}

// NewSettingEnv builds the expression environment for s.
func NewSettingEnv(s profile.Setting) SettingEnv {
	env := SettingEnv{
		Key:       s.Key,
		Namespace: s.Namespace(),
		Name:      s.Name(),
		Raw:       s.Raw,
		Kind:      s.Kind.String(),
		Value:     s.Value(),
		Numeric:   s.Kind.Numeric(),
		Line:      s.Line,
	}
	if env.Numeric {
		env.Number, _ = strconv.ParseFloat(s.Raw, 64)
	}
	return env
}

// Filter is a compiled boolean expression over settings.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile compiles expression. It must evaluate to a bool.
func Compile(expression string) (*Filter, error) {
	program, err := expr.Compile(expression,
		expr.Env(SettingEnv{}),
		expr.AsBool())
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "compiling %q", expression), ErrInvalidFilter)
	}
	return &Filter{source: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.source
}

// Match reports whether s satisfies the filter.
func (f *Filter) Match(s profile.Setting) (bool, error) {
	out, err := expr.Run(f.program, NewSettingEnv(s))
	if err != nil {
		return false, errors.Wrapf(err, "evaluating filter on %s", s.Key)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Select returns the settings that match, in input order.
func (f *Filter) Select(settings []profile.Setting) ([]profile.Setting, error) {
	var out []profile.Setting
	for _, s := range settings {
		ok, err := f.Match(s)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}
