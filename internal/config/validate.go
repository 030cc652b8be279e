package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/logging"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a version other than CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidValue indicates a field holds a value outside its domain.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version))
	}

	for field, path := range map[string]string{
		"profile.path": cfg.Profile.Path,
		"backup.dir":   cfg.Backup.Dir,
		"presets.file": cfg.Presets.File,
	} {
		if err := validatePath(path); err != nil {
			errs = append(errs, &PathError{Field: field, Path: path, Err: err})
		}
	}

	if strings.ContainsAny(cfg.Profile.FileName, `/\`) {
		errs = append(errs, &FieldError{Field: "profile.file_name", Value: cfg.Profile.FileName, Err: ErrInvalidValue})
	}
	if strings.ContainsAny(cfg.Profile.Header, "\r\n") {
		errs = append(errs, &FieldError{Field: "profile.header", Value: cfg.Profile.Header, Err: ErrInvalidValue})
	}

	if cfg.Backup.Keep < 1 {
		errs = append(errs, &FieldError{Field: "backup.keep", Value: cfg.Backup.Keep, Err: ErrInvalidValue})
	}

	if cfg.Process.Check && len(cfg.Process.Names) == 0 {
		errs = append(errs, &FieldError{Field: "process.names", Value: "[]", Err: ErrInvalidValue})
	}
	if slices.Contains(cfg.Process.Names, "") {
		errs = append(errs, &FieldError{Field: "process.names", Value: `""`, Err: ErrInvalidValue})
	}

	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		errs = append(errs, &FieldError{Field: "log.level", Value: cfg.Log.Level, Err: ErrInvalidValue})
	}
	if _, ok := logging.ParseFormat(cfg.Log.Format); !ok {
		errs = append(errs, &FieldError{Field: "log.format", Value: cfg.Log.Format, Err: ErrInvalidValue})
	}

	// map iteration above is unordered
	slices.SortStableFunc(errs, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })
	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents an invalid value for a specific field.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + fmt.Sprint(e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
