// Package backup keeps checksummed snapshots of the profile file.
//
// # Store Layout
//
// Each backup is two files in one flat directory:
//
//	~/.local/share/proftune/backups/
//	├── 20261018T141502.123456.bak   copied profile bytes
//	└── 20261018T141502.123456.json  manifest: source, size, sha256, reason
//
// IDs are UTC timestamps with microseconds and sort chronologically. Two
// backups in the same microsecond get a -1, -2 suffix.
//
// # Creating Backups
//
//	mgr := backup.NewManager(backup.WithBackupDir(dir))
//	b, err := mgr.Create(profilePath, backup.WithReason("preset:esports"))
//
// The copy is written atomically, read back and checksummed before the
// manifest is written. The manifest is written last, so [Manager.List]
// never returns a backup whose bytes are incomplete.
//
// # Restoring Backups
//
//	safety, err := mgr.Restore(*b, profilePath)
//
// Restore verifies the stored checksum first and refuses a corrupted
// backup ([ErrBackupCorrupted]) without touching the target. The current
// target is itself backed up (reason "pre-restore") so a restore can be
// undone, and is then replaced with a temp file + rename.
//
// # Retention
//
// Backups are only removed on request, with [Manager.Delete] or
// [Manager.Prune]:
//
//	removed, err := mgr.Prune(10) // keep the 10 newest
//
// Errors from Create are marked errors.ErrBackup; errors from Restore are
// marked errors.ErrRestore.
package backup
