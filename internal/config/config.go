// Package config provides configuration management for proftune using Viper.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/proftune/internal/backup"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/paths"
	"github.com/thoreinstein/proftune/internal/process"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// EnvPrefix prefixes environment overrides: PROFTUNE_BACKUP_KEEP sets
// backup.keep.
const EnvPrefix = "PROFTUNE"

// FileName is the config file name inside the config directory.
const FileName = "config.yaml"

// CurrentVersion is the only config version this build reads.
const CurrentVersion = 1

// Config represents the top-level configuration structure.
type Config struct {
	Version int           `mapstructure:"version" yaml:"version"`
	Profile ProfileConfig `mapstructure:"profile" yaml:"profile"`
	Backup  BackupConfig  `mapstructure:"backup" yaml:"backup"`
	Process ProcessConfig `mapstructure:"process" yaml:"process"`
	Presets PresetsConfig `mapstructure:"presets" yaml:"presets"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ProfileConfig locates and parses the game profile.
type ProfileConfig struct {
	// Path skips discovery when set.
	Path              string `mapstructure:"path" yaml:"path"`
	FileName          string `mapstructure:"file_name" yaml:"file_name"`
	GameDir           string `mapstructure:"game_dir" yaml:"game_dir"`
	Header            string `mapstructure:"header" yaml:"header"`
	AllowUnterminated bool   `mapstructure:"allow_unterminated" yaml:"allow_unterminated"`
}

// BackupConfig configures the backup store.
type BackupConfig struct {
	Dir  string `mapstructure:"dir" yaml:"dir"`
	Keep int    `mapstructure:"keep" yaml:"keep"`
}

// ProcessConfig configures the running-game check.
type ProcessConfig struct {
	Check bool     `mapstructure:"check" yaml:"check"`
	Names []string `mapstructure:"names" yaml:"names"`
}

// PresetsConfig points at a user preset catalogue.
type PresetsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Dir returns the directory searched for config.yaml: PROFTUNE_CONFIG_DIR
// when set, otherwise <ConfigHome>/proftune.
func Dir() string {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	return paths.ConfigDir()
}

// DefaultPath returns the config file written by "proftune config set".
func DefaultPath() string {
	return filepath.Join(Dir(), FileName)
}

// Init resets Viper and installs defaults, search paths and environment
// bindings. Call this once at application startup before accessing config
// values.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(Dir())

	// Environment variable support
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for _, k := range Keys {
		viper.SetDefault(k.Name, k.Default)
	}
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Profile: ProfileConfig{
			FileName: paths.DefaultProfileFile,
			GameDir:  paths.DefaultGameDir,
		},
		Backup: BackupConfig{
			Dir:  paths.BackupDir(),
			Keep: backup.DefaultRetentionCount,
		},
		Process: ProcessConfig{
			Check: true,
			Names: append([]string(nil), process.DefaultNames...),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// Implicit load falls back to defaults.
			if path != "" {
				return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
			}
		case path != "" && errors.Is(err, os.ErrNotExist):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		default:
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}

	cfg.expand()
	return &cfg, nil
}

// expand resolves ~ in path settings.
func (c *Config) expand() {
	for _, p := range []*string{&c.Profile.Path, &c.Backup.Dir, &c.Presets.File} {
		if expanded, err := paths.ExpandHome(*p); err == nil {
			*p = expanded
		}
	}
}

// FileUsed returns the config file Viper loaded, or "".
func FileUsed() string {
	return viper.ConfigFileUsed()
}
