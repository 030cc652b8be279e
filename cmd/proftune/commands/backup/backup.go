// Package backup provides CLI commands for the profile backup store.
package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/backup"
	"github.com/thoreinstein/proftune/internal/cli/prompt"
	"github.com/thoreinstein/proftune/internal/errors"
)

// newSelector is replaced in tests.
var newSelector = prompt.NewSelector

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage profile backups",
	Long: `Every change proftune makes is preceded by a backup of the profile.
Backups are kept until pruned, each with a manifest recording where the
file came from, its checksum and why it was taken.

Restoring also backs up the file being replaced, so a restore can itself
be undone.`,
	Example: `  proftune backup list
  proftune backup restore --latest
  proftune backup prune --keep 5

  See Also:
    proftune preset apply  - Apply a preset (creates a backup)`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// lookup resolves id to a backup. An empty id with latest picks the newest;
// an empty id without it asks the user.
func lookup(a *app.App, id string, latest bool) (*backup.Backup, error) {
	mgr := a.Backups()
	switch {
	case id != "":
		b, err := mgr.Get(id)
		if errors.Is(err, backup.ErrBackupNotFound) || errors.Is(err, backup.ErrInvalidID) {
			return nil, errors.Mark(err, errors.ErrNotFound)
		}
		return b, err
	case latest:
		b, err := mgr.Latest()
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return nil, errors.Mark(err, errors.ErrNotFound)
		}
		return b, err
	}

	backups, err := mgr.List()
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, errors.Mark(backup.ErrNoBackupsFound, errors.ErrNotFound)
	}
	items := make([]prompt.Item, len(backups))
	for i, b := range backups {
		items[i] = prompt.Item{
			Label:   b.ID,
			Detail:  b.Reason,
			Preview: describe(b),
		}
	}
	i, err := newSelector().Select("Select a backup", items)
	if err != nil {
		return nil, err
	}
	return &backups[i], nil
}

func describe(b backup.Backup) string {
	return fmt.Sprintf("ID:       %s\nCreated:  %s\nReason:   %s\nSource:   %s\nSize:     %s\nSHA256:   %s\nVersion:  %s\n",
		b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04:05"), b.Reason, b.SourcePath,
		formatSize(b.SizeBytes), b.SHA256, b.ToolVersion)
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
