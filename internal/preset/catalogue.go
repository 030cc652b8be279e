package preset

import (
	_ "embed"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/profile"
)

// SchemaConstraint is the range of catalogue schema versions this build
// reads.
const SchemaConstraint = "^1"

//go:embed builtin.toml
var builtinTOML []byte

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Catalogue is an ordered, versioned set of presets plus the rules their
// values must satisfy.
type Catalogue struct {
	version *semver.Version
	presets []Preset
	rules   map[string]Rule
}

// catalogueFile is the on-disk form shared by TOML and YAML catalogues.
type catalogueFile struct {
	SchemaVersion string       `toml:"schema_version" yaml:"schema_version"`
	Presets       []presetFile `toml:"preset" yaml:"presets"`
	Rules         []Rule       `toml:"rule" yaml:"rules"`
}

type presetFile struct {
	ID          string         `toml:"id" yaml:"id"`
	Name        string         `toml:"name" yaml:"name"`
	Description string         `toml:"description" yaml:"description"`
	Settings    map[string]any `toml:"settings" yaml:"settings"`
}

var builtin = sync.OnceValues(func() (*Catalogue, error) {
	return ParseCatalogue(builtinTOML, "toml")
})

// Builtin returns the catalogue compiled into the binary.
func Builtin() (*Catalogue, error) {
	c, err := builtin()
	if err != nil {
		return nil, errors.Wrap(err, "loading built-in presets")
	}
	return c, nil
}

// LoadCatalogue returns the built-in catalogue merged with the user
// catalogue at path. An empty path returns the built-in catalogue. The
// format follows the extension: .toml, .yaml or .yml.
func LoadCatalogue(path string) (*Catalogue, error) {
	base, err := Builtin()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading preset catalogue %s", path)
	}
	user, err := ParseCatalogue(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, errors.Wrapf(err, "preset catalogue %s", path)
	}
	return base.Merge(user)
}

// ParseCatalogue decodes a catalogue in format "toml", "yaml" or "yml" and
// validates it. Unquoted numbers and booleans are converted to raw text;
// quote values whose exact formatting matters ("240.000000").
func ParseCatalogue(data []byte, format string) (*Catalogue, error) {
	var f catalogueFile
	var err error
	switch strings.ToLower(format) {
	case "toml":
		err = toml.Unmarshal(data, &f)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, errors.Wrapf(ErrInvalidCatalogue, "unsupported format %q", format)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding %s", format), ErrInvalidCatalogue)
	}
	return fromFile(f)
}

func fromFile(f catalogueFile) (*Catalogue, error) {
	invalid := func(err error) (*Catalogue, error) {
		return nil, errors.Mark(err, ErrInvalidCatalogue)
	}

	v, err := checkSchema(f.SchemaVersion)
	if err != nil {
		return invalid(err)
	}

	c := &Catalogue{version: v, rules: make(map[string]Rule, len(f.Rules))}
	for _, r := range f.Rules {
		if err := r.validate(); err != nil {
			return invalid(err)
		}
		if _, dup := c.rules[r.Key]; dup {
			return invalid(errors.Newf("duplicate rule for %s", r.Key))
		}
		c.rules[r.Key] = r
	}

	seen := make(map[string]bool, len(f.Presets))
	for _, pf := range f.Presets {
		p, err := pf.preset()
		if err != nil {
			return invalid(err)
		}
		if seen[p.ID] {
			return invalid(errors.Newf("duplicate preset %q", p.ID))
		}
		seen[p.ID] = true
		if err := c.checkRules(p); err != nil {
			return invalid(err)
		}
		c.presets = append(c.presets, p)
	}
	return c, nil
}

func checkSchema(raw string) (*semver.Version, error) {
	if raw == "" {
		return nil, errors.New("schema_version is required")
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "schema_version %q", raw)
	}
	constraint, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return nil, errors.Wrap(err, "parsing schema constraint")
	}
	if !constraint.Check(v) {
		return nil, errors.Newf("schema_version %s is not supported (want %s)", v, SchemaConstraint)
	}
	return v, nil
}

func (pf presetFile) preset() (Preset, error) {
	if !idPattern.MatchString(pf.ID) {
		return Preset{}, errors.Newf("invalid preset id %q", pf.ID)
	}
	if len(pf.Settings) == 0 {
		return Preset{}, errors.Newf("preset %q has no settings", pf.ID)
	}

	entries := make(map[string]string, len(pf.Settings))
	for key, v := range pf.Settings {
		raw, err := rawValue(v)
		if err != nil {
			return Preset{}, errors.Wrapf(err, "preset %q key %s", pf.ID, key)
		}
		if err := profile.ValidateValue(raw); err != nil {
			return Preset{}, errors.Wrapf(err, "preset %q key %s", pf.ID, key)
		}
		entries[key] = raw
	}

	name := pf.Name
	if name == "" {
		name = pf.ID
	}
	return NewPreset(pf.ID, name, pf.Description, entries), nil
}

// rawValue converts a decoded scalar to the text written into the profile.
// Booleans become 1 and 0, the form the game uses.
func rawValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	}
	return "", errors.Newf("unsupported value %v (%T)", v, v)
}

func (c *Catalogue) checkRules(p Preset) error {
	for _, key := range p.Keys() {
		r, ok := c.rules[key]
		if !ok {
			continue
		}
		if err := r.Check(p.entries[key]); err != nil {
			return errors.Wrapf(err, "preset %q", p.ID)
		}
	}
	return nil
}

// Merge returns a new catalogue with other's presets and rules laid over
// c's. Presets with an existing ID replace it in place; new ones are
// appended. Every preset is re-checked against the merged rules.
func (c *Catalogue) Merge(other *Catalogue) (*Catalogue, error) {
	m := &Catalogue{
		version: c.version,
		presets: slices.Clone(c.presets),
		rules:   make(map[string]Rule, len(c.rules)+len(other.rules)),
	}
	for k, r := range c.rules {
		m.rules[k] = r
	}
	for k, r := range other.rules {
		m.rules[k] = r
	}
	if other.version != nil && other.version.GreaterThan(m.version) {
		m.version = other.version
	}

	for _, p := range other.presets {
		if i := m.index(p.ID); i >= 0 {
			m.presets[i] = p
		} else {
			m.presets = append(m.presets, p)
		}
	}
	for _, p := range m.presets {
		if err := m.checkRules(p); err != nil {
			return nil, errors.Mark(err, ErrInvalidCatalogue)
		}
	}
	return m, nil
}

func (c *Catalogue) index(id string) int {
	return slices.IndexFunc(c.presets, func(p Preset) bool { return p.ID == id })
}

// Version returns the catalogue schema version.
func (c *Catalogue) Version() string {
	if c.version == nil {
		return ""
	}
	return c.version.String()
}

// Get returns the preset with the given ID.
func (c *Catalogue) Get(id string) (Preset, error) {
	if i := c.index(id); i >= 0 {
		return c.presets[i], nil
	}
	return Preset{}, errors.Wrapf(ErrPresetNotFound, "%q (available: %s)", id, strings.Join(c.IDs(), ", "))
}

// All returns the presets in catalogue order.
func (c *Catalogue) All() []Preset {
	return slices.Clone(c.presets)
}

// IDs returns the preset IDs in catalogue order.
func (c *Catalogue) IDs() []string {
	ids := make([]string, len(c.presets))
	for i, p := range c.presets {
		ids[i] = p.ID
	}
	return ids
}

// Rules returns the value rules sorted by key.
func (c *Catalogue) Rules() []Rule {
	out := make([]Rule, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Rule) int { return strings.Compare(a.Key, b.Key) })
	return out
}
