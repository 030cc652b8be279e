package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/paths"
	"github.com/thoreinstein/proftune/pkg/fileutil"
)

// Get returns the effective value of key: file, environment or default.
// Call Init and Load first.
func Get(name string) (any, error) {
	if _, err := LookupKey(name); err != nil {
		return nil, err
	}
	return viper.Get(name), nil
}

// Set writes name = raw into the YAML config file at path, creating the
// file and its directory when needed. Other keys in the file are kept. The
// result is validated before it is written.
func Set(path, name, raw string) error {
	k, err := LookupKey(name)
	if err != nil {
		return err
	}
	value, err := k.Parse(raw)
	if err != nil {
		return err
	}

	doc, err := readFile(path)
	if err != nil {
		return err
	}
	setNested(doc, strings.Split(name, "."), value)

	if err := check(doc); err != nil {
		return err
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, doc); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

func readFile(path string) (map[string]any, error) {
	doc := make(map[string]any)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			doc["version"] = CurrentVersion
			return doc, nil
		}
		return nil, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing config file"), errors.ErrInvalidConfig)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

func setNested(doc map[string]any, keys []string, value any) {
	m := doc
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = value
}

// check validates doc laid over the defaults.
func check(doc map[string]any) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Mark(errors.Wrap(err, "decoding config"), errors.ErrInvalidConfig)
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}
	return nil
}
