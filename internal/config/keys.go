package config

import (
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/proftune/internal/backup"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/paths"
	"github.com/thoreinstein/proftune/internal/process"
)

// Kind is the value type of a config key.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindList
)

// Key describes one settable configuration key.
type Key struct {
	Name        string
	Kind        Kind
	Default     any
	Description string
}

// Keys lists every configuration key in display order.
var Keys = []Key{
	{"version", KindInt, CurrentVersion, "config file format version"},
	{"profile.path", KindString, "", "profile file to use; skips discovery"},
	{"profile.file_name", KindString, paths.DefaultProfileFile, "profile file name searched for"},
	{"profile.game_dir", KindString, paths.DefaultGameDir, "game folder under Documents"},
	{"profile.header", KindString, "", "required first-line marker"},
	{"profile.allow_unterminated", KindBool, false, "accept a last line without a newline"},
	{"backup.dir", KindString, paths.BackupDir(), "backup store directory"},
	{"backup.keep", KindInt, backup.DefaultRetentionCount, "backups kept by 'backup prune'"},
	{"process.check", KindBool, true, "refuse writes while the game runs"},
	{"process.names", KindList, process.DefaultNames, "game executable names"},
	{"presets.file", KindString, "", "user preset catalogue (.toml or .yaml)"},
	{"log.level", KindString, "warn", "trace, debug, info, warn or error"},
	{"log.format", KindString, "text", "text or json"},
}

// ErrUnknownKey is returned for names not in Keys.
var ErrUnknownKey = errors.New("unknown config key")

// LookupKey returns the key named name.
func LookupKey(name string) (Key, error) {
	i := slices.IndexFunc(Keys, func(k Key) bool { return k.Name == name })
	if i < 0 {
		return Key{}, errors.Wrapf(ErrUnknownKey, "%q", name)
	}
	return Keys[i], nil
}

// KeyNames returns every key name.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// Parse converts a command-line string to the key's type. Lists are comma
// separated.
func (k Key) Parse(s string) (any, error) {
	switch k.Kind {
	case KindInt:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "%s: %q is not an integer", k.Name, s)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "%s: %q is not a boolean", k.Name, s)
		}
		return b, nil
	case KindList:
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}
	return s, nil
}
