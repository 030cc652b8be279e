// Package export renders profile settings in other formats, grouped by
// namespace. Output is for reading and diffing; it is never parsed back
// into a profile.
package export

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/profile"
)

// Format is an export format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
	INI  Format = "ini"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, TOML, INI}

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat maps a name or file extension (yml, json, ...) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	case "ini", "cfg":
		return INI, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Options control rendering.
type Options struct {
	// Typed writes numbers and booleans as native values instead of the raw
	// profile text. INI output is always raw.
	Typed bool
}

// namespace is one group of settings in file order.
type namespace struct {
	name     string
	settings []profile.Setting
}

func group(settings []profile.Setting) []namespace {
	var out []namespace
	pos := make(map[string]int)
	for _, s := range settings {
		ns := s.Namespace()
		i, ok := pos[ns]
		if !ok {
			i = len(out)
			pos[ns] = i
			out = append(out, namespace{name: ns})
		}
		out[i].settings = append(out[i].settings, s)
	}
	return out
}

func value(s profile.Setting, opts Options) any {
	if opts.Typed {
		return s.Value()
	}
	return s.Raw
}

// Encode renders settings in format f.
func Encode(settings []profile.Setting, f Format, opts Options) ([]byte, error) {
	groups := group(settings)
	switch f {
	case JSON:
		return encodeJSON(groups, opts)
	case YAML:
		return encodeYAML(groups, opts)
	case TOML:
		return encodeTOML(groups, opts)
	case INI:
		return encodeINI(groups)
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", f)
}

// encodeJSON keeps file order by building ordered maps.
func encodeJSON(groups []namespace, opts Options) ([]byte, error) {
	root := orderedmap.New()
	root.SetEscapeHTML(false)
	for _, g := range groups {
		m := orderedmap.New()
		m.SetEscapeHTML(false)
		for _, s := range g.settings {
			m.Set(s.Name(), value(s, opts))
		}
		root.Set(g.name, m)
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return append(data, '\n'), nil
}

// encodeYAML builds the node tree directly so keys stay in file order and
// raw values are quoted as strings.
func encodeYAML(groups []namespace, opts Options) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, g := range groups {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, s := range g.settings {
			v := &yaml.Node{}
			if opts.Typed {
				if err := v.Encode(s.Value()); err != nil {
					return nil, errors.Wrapf(err, "encoding %s", s.Key)
				}
			} else {
				v.Kind = yaml.ScalarNode
				v.Tag = "!!str"
				v.Value = s.Raw
			}
			m.Content = append(m.Content, keyNode(s.Name()), v)
		}
		root.Content = append(root.Content, keyNode(g.name), m)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}
	return buf.Bytes(), nil
}

func keyNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// encodeTOML writes one table per namespace. go-toml sorts map keys, so
// TOML output is alphabetical rather than in file order.
func encodeTOML(groups []namespace, opts Options) ([]byte, error) {
	doc := make(map[string]map[string]any, len(groups))
	for _, g := range groups {
		m := make(map[string]any, len(g.settings))
		for _, s := range g.settings {
			m[s.Name()] = value(s, opts)
		}
		doc[g.name] = m
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "marshaling TOML")
	}
	return buf.Bytes(), nil
}

// encodeINI writes one section per namespace in file order.
func encodeINI(groups []namespace) ([]byte, error) {
	cfg := ini.Empty()
	for _, g := range groups {
		section, err := cfg.NewSection(g.name)
		if err != nil {
			return nil, errors.Wrapf(err, "creating section %q", g.name)
		}
		for _, s := range g.settings {
			if _, err := section.NewKey(s.Name(), s.Raw); err != nil {
				return nil, errors.Wrapf(err, "creating key %q", s.Key)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "marshaling INI")
	}
	return buf.Bytes(), nil
}
