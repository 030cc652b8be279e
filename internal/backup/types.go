package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/proftune/internal/errors"
)

// ManifestVersion is the manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is how many backups `backup prune` keeps when no
// count is given.
const DefaultRetentionCount = 10

// File name suffixes in the backup store.
const (
	storedExt   = ".bak"
	manifestExt = ".json"
)

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates the store holds no backups.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupNotFound indicates no backup has the requested ID.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrBackupCorrupted indicates the stored bytes no longer match the
	// manifest checksum.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrInvalidID indicates a backup ID that cannot name a store file.
	ErrInvalidID = errors.New("invalid backup ID")
)

// Backup describes one snapshot of a profile file. It is stored as
// <id>.json next to the copied bytes in <id>.bak and never changes after
// creation.
type Backup struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// ID is the timestamp-derived identifier, e.g. 20261018T141502.123456.
	ID string `json:"id"`

	// CreatedAt is when the backup was created (UTC).
	CreatedAt time.Time `json:"created_at"`

	// SourcePath is the file that was copied.
	SourcePath string `json:"source_path"`

	// StoredPath is where the copy lives. It is recomputed from the store
	// directory on load, so a moved store keeps working.
	StoredPath string `json:"stored_path"`

	// SizeBytes is the size of the copy.
	SizeBytes int64 `json:"size_bytes"`

	// SHA256 is the hex-encoded checksum of the copy.
	SHA256 string `json:"sha256"`

	// Mode is the source file's permission bits.
	Mode fs.FileMode `json:"mode"`

	// Reason records why the backup was taken: manual, pre-restore,
	// preset:<id>.
	Reason string `json:"reason,omitempty"`

	// TxID links the backup to the apply transaction that took it.
	TxID string `json:"tx_id,omitempty"`

	// ToolVersion is the proftune version that created the backup.
	ToolVersion string `json:"tool_version"`
}
