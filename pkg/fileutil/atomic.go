// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/proftune/internal/errors"
)

// tempPattern is the name pattern of staged files. They live next to their
// target so the final rename never crosses a filesystem.
const tempPattern = ".proftune-*.tmp"

// StagedFile is data written and synced to a temporary file next to its
// target, not yet visible under the target name. Exactly one of Commit or
// Discard should be called.
type StagedFile struct {
	target  string
	tmpName string
	done    bool
}

// StageOption configures Stage.
type StageOption func(*stageConfig)

type stageConfig struct {
	wrap func(io.Writer) io.Writer
}

// WithWriter wraps the writer the staged bytes go through. Tests use it to
// interrupt a write part way.
func WithWriter(wrap func(io.Writer) io.Writer) StageOption {
	return func(c *stageConfig) {
		c.wrap = wrap
	}
}

// Stage writes data to a temporary file in the directory of path, applies
// perm and fsyncs it. On error nothing is left behind.
func Stage(path string, data []byte, perm os.FileMode, opts ...StageOption) (*StagedFile, error) {
	var cfg stageConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return nil, errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	fail := func(err error, msg string) (*StagedFile, error) {
		tmp.Close()
		os.Remove(tmpName)
		return nil, errors.Wrap(err, msg)
	}

	var w io.Writer = tmp
	if cfg.wrap != nil {
		w = cfg.wrap(tmp)
	}
	n, err := w.Write(data)
	if err != nil {
		return fail(err, "writing temp file")
	}
	if n != len(data) {
		return fail(io.ErrShortWrite, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		return fail(err, "setting file permissions")
	}

	if err := tmp.Sync(); err != nil {
		return fail(err, "syncing temp file")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, errors.Wrap(err, "closing temp file")
	}

	return &StagedFile{target: path, tmpName: tmpName}, nil
}

// Name returns the path of the temporary file.
func (s *StagedFile) Name() string {
	return s.tmpName
}

// Target returns the path the file will be renamed to.
func (s *StagedFile) Target() string {
	return s.target
}

// Commit renames the temporary file over the target.
func (s *StagedFile) Commit() error {
	if s.done {
		return errors.New("staged file already finished")
	}
	s.done = true

	if err := os.Rename(s.tmpName, s.target); err != nil {
		os.Remove(s.tmpName)
		return errors.Wrap(err, "renaming temp file")
	}
	syncDir(filepath.Dir(s.target))
	return nil
}

// Discard removes the temporary file. It is safe to call after Commit.
func (s *StagedFile) Discard() error {
	if s.done {
		return nil
	}
	s.done = true

	if err := os.Remove(s.tmpName); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing temp file")
	}
	return nil
}

// syncDir flushes a directory entry after a rename. Not every platform
// supports it, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// This ensures interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	staged, err := Stage(path, data, perm)
	if err != nil {
		return err
	}
	return staged.Commit()
}

// AtomicWriteJSONWithPerm writes v as indented JSON to path atomically with specified permissions.
// Uses 2-space indentation and appends a trailing newline for POSIX compliance.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteJSONWithPerm(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}

	data = append(data, '\n')

	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// The file is created with 0600 permissions.
func AtomicWriteJSON(path string, v any) error {
	return AtomicWriteJSONWithPerm(path, v, 0600)
}

// AtomicWriteYAMLWithPerm writes v as YAML to path atomically with specified permissions.
// Appends a trailing newline for POSIX compliance.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteYAMLWithPerm(path string, v any, perm os.FileMode) (err error) {
	// yaml.Marshal panics on unmarshalable types; recover and return error
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteYAML writes v as YAML to path atomically.
// The file is created with 0600 permissions.
func AtomicWriteYAML(path string, v any) (err error) {
	return AtomicWriteYAMLWithPerm(path, v, 0600)
}
