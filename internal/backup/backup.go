package backup

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/paths"
	"github.com/thoreinstein/proftune/pkg/fileutil"
)

// idLayout orders lexically the same as chronologically.
const idLayout = "20060102T150405.000000"

// Reasons recorded on backups the tool takes by itself.
const (
	ReasonManual     = "manual"
	ReasonPreRestore = "pre-restore"
)

// Manager creates, lists and restores backups in a single store directory.
// Backups become visible to List only once their manifest is written, so a
// concurrent reader never sees a partial backup.
type Manager struct {
	rootDir        string
	retentionCount int
	toolVersion    string
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the backup store directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.rootDir = dir
		}
	}
}

// WithRetentionCount sets the number of backups Prune keeps by default.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithToolVersion sets the version recorded in manifests.
func WithToolVersion(v string) Option {
	return func(m *Manager) {
		if v != "" {
			m.toolVersion = v
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		toolVersion:    "dev",
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the store directory.
func (m *Manager) Dir() string {
	return m.rootDir
}

// RetentionCount returns the default number of backups Prune keeps.
func (m *Manager) RetentionCount() int {
	return m.retentionCount
}

// CreateOption annotates a backup.
type CreateOption func(*Backup)

// WithReason records why the backup was taken.
func WithReason(reason string) CreateOption {
	return func(b *Backup) {
		b.Reason = reason
	}
}

// WithTxID links the backup to an apply transaction.
func WithTxID(id string) CreateOption {
	return func(b *Backup) {
		b.TxID = id
	}
}

// Create copies sourcePath into the store. The copy is written atomically,
// read back and checked against the source checksum before the manifest is
// written. On any failure nothing is left in the store.
func (m *Manager) Create(sourcePath string, opts ...CreateOption) (*Backup, error) {
	if sourcePath == "" {
		return nil, backupErr(errors.New("source path is required"), "creating backup")
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, backupErr(err, "stat "+sourcePath)
	}
	if !info.Mode().IsRegular() {
		return nil, backupErr(errors.Newf("%s is not a regular file", sourcePath), "creating backup")
	}

	data, err := fileutil.ReadFile(sourcePath)
	if err != nil {
		return nil, backupErr(err, "reading "+sourcePath)
	}
	sum := fileutil.SHA256Hex(data)

	if err := paths.EnsureDir(m.rootDir, 0); err != nil {
		return nil, backupErr(err, "creating backup directory")
	}

	now := m.now().UTC()
	id, err := m.reserveID(now)
	if err != nil {
		return nil, backupErr(err, "allocating backup ID")
	}

	stored := m.storedPath(id)
	if err := fileutil.AtomicWriteFile(stored, data, 0o600); err != nil {
		return nil, backupErr(err, "writing backup copy")
	}

	got, size, err := fileutil.HashFile(stored)
	if err != nil || got != sum || size != int64(len(data)) {
		os.Remove(stored)
		if err == nil {
			err = errors.Wrapf(ErrBackupCorrupted, "backup %s: copy does not match source", id)
		}
		return nil, backupErr(err, "verifying backup copy")
	}

	b := &Backup{
		Version:     ManifestVersion,
		ID:          id,
		CreatedAt:   now,
		SourcePath:  sourcePath,
		StoredPath:  stored,
		SizeBytes:   size,
		SHA256:      sum,
		Mode:        info.Mode().Perm(),
		Reason:      ReasonManual,
		ToolVersion: m.toolVersion,
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := fileutil.AtomicWriteJSON(m.manifestPath(id), b); err != nil {
		os.Remove(stored)
		return nil, backupErr(err, "writing manifest")
	}

	return b, nil
}

// reserveID derives an ID from t, adding -1, -2, ... when the store
// already holds that ID.
func (m *Manager) reserveID(t time.Time) (string, error) {
	base := t.Format(idLayout)
	for n := 0; n < 1000; n++ {
		id := base
		if n > 0 {
			id = base + "-" + strconv.Itoa(n)
		}
		if !exists(m.manifestPath(id)) && !exists(m.storedPath(id)) {
			return id, nil
		}
	}
	return "", errors.Newf("too many backups at %s", base)
}

// List returns all complete backups, newest first. An empty or absent
// store yields an empty slice.
func (m *Manager) List() ([]Backup, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Backup{}, nil
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	backups := make([]Backup, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, manifestExt) {
			continue
		}
		b, err := m.Get(strings.TrimSuffix(name, manifestExt))
		if err != nil {
			// Skip unreadable manifests
			continue
		}
		backups = append(backups, *b)
	}

	slices.SortFunc(backups, func(a, b Backup) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	return backups, nil
}

// Latest returns the newest backup.
func (m *Manager) Latest() (*Backup, error) {
	backups, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, ErrNoBackupsFound
	}
	return &backups[0], nil
}

// Get returns the backup with the given ID.
func (m *Manager) Get(id string) (*Backup, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(m.manifestPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrBackupNotFound, "backup %s", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest %s", id)
	}
	b.ID = id
	b.StoredPath = m.storedPath(id)
	return &b, nil
}

// Verify checks the stored copy against the manifest checksum.
func (m *Manager) Verify(b Backup) error {
	_, err := m.readVerified(b)
	return err
}

func (m *Manager) readVerified(b Backup) ([]byte, error) {
	if err := validateID(b.ID); err != nil {
		return nil, err
	}
	data, err := fileutil.ReadFile(m.storedPath(b.ID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrBackupCorrupted, "backup %s: stored copy is missing", b.ID)
		}
		return nil, errors.Wrapf(err, "reading backup %s", b.ID)
	}
	if fileutil.SHA256Hex(data) != b.SHA256 || int64(len(data)) != b.SizeBytes {
		return nil, errors.Wrapf(ErrBackupCorrupted, "backup %s: checksum mismatch", b.ID)
	}
	return data, nil
}

// Restore writes the backup's bytes to targetPath. The stored copy is
// verified first; a corrupted backup leaves the target untouched. When the
// target exists it is backed up before being replaced, and that safety
// backup is returned. The target is replaced atomically.
func (m *Manager) Restore(b Backup, targetPath string) (*Backup, error) {
	if targetPath == "" {
		targetPath = b.SourcePath
	}

	data, err := m.readVerified(b)
	if err != nil {
		return nil, restoreErr(err, "verifying backup")
	}

	perm := b.Mode.Perm()
	if perm == 0 {
		perm = 0o644
	}

	var safety *Backup
	info, err := os.Stat(targetPath)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return nil, restoreErr(errors.Newf("%s is not a regular file", targetPath), "restoring")
		}
		perm = info.Mode().Perm()
		safety, err = m.Create(targetPath, WithReason(ReasonPreRestore))
		if err != nil {
			return nil, restoreErr(err, "creating safety backup")
		}
	case os.IsNotExist(err):
		if err := paths.EnsureDir(filepath.Dir(targetPath), 0o755); err != nil {
			return nil, restoreErr(err, "creating target directory")
		}
	default:
		return nil, restoreErr(err, "stat "+targetPath)
	}

	if err := fileutil.AtomicWriteFile(targetPath, data, perm); err != nil {
		return safety, restoreErr(err, "replacing "+targetPath)
	}

	return safety, nil
}

// Delete removes a backup. The manifest goes first so the backup drops out
// of List before its bytes are removed.
func (m *Manager) Delete(id string) error {
	if _, err := m.Get(id); err != nil {
		return err
	}
	if err := os.Remove(m.manifestPath(id)); err != nil {
		return errors.Wrapf(err, "removing manifest %s", id)
	}
	if err := os.Remove(m.storedPath(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing backup %s", id)
	}
	return nil
}

// Prune removes all but the newest keep backups and returns how many were
// removed.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, errors.New("keep must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := keep; i < len(backups); i++ {
		if err := m.Delete(backups[i].ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (m *Manager) storedPath(id string) string {
	return filepath.Join(m.rootDir, id+storedExt)
}

func (m *Manager) manifestPath(id string) string {
	return filepath.Join(m.rootDir, id+manifestExt)
}

func validateID(id string) error {
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\:`) {
		return errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func backupErr(err error, msg string) error {
	err = errors.Mark(errors.Wrap(err, msg), errors.ErrBackup)
	if errors.Is(err, fs.ErrPermission) {
		err = errors.Mark(err, errors.ErrPermission)
	}
	return err
}

func restoreErr(err error, msg string) error {
	err = errors.Mark(errors.Wrap(err, msg), errors.ErrRestore)
	if errors.Is(err, fs.ErrPermission) {
		err = errors.Mark(err, errors.ErrPermission)
	}
	return err
}
