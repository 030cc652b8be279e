package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1, "Number of backups to keep (default: backup.keep from config)")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest backups",
	Example: `  proftune backup prune
  proftune backup prune --keep 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPruneWithWriter(cmd.OutOrStdout(), cmdutil.NewApp(cmd))
	},
}

func runPruneWithWriter(w io.Writer, a *app.App) error {
	keep := pruneKeep
	if keep < 0 {
		keep = a.Backups().RetentionCount()
	}
	if keep == 0 {
		return errors.Mark(errors.New("--keep must be at least 1"), errors.ErrInvalidConfig)
	}

	n, err := a.Backups().Prune(keep)
	if err != nil {
		return errors.Mark(err, errors.ErrBackup)
	}
	fmt.Fprintf(w, "Removed %d backup(s), kept at most %d\n", n, keep)
	return nil
}
