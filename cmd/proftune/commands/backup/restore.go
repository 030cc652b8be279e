package backup

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/errors"
)

var (
	restoreLatest bool
	restoreTarget string
	restoreForce  bool
	restoreYes    bool
)

func init() {
	restoreCmd.Flags().BoolVar(&restoreLatest, "latest", false, "Restore the newest backup")
	restoreCmd.Flags().StringVar(&restoreTarget, "target", "", "Write to this path instead of the backup's source")
	restoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Restore even while the game is running")
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Do not ask for confirmation")
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Put a backup back in place",
	Long: `Restore a backup to the file it was taken from.

The backup is verified against its checksum first. The file being replaced
is itself backed up (reason "pre-restore"), then overwritten atomically.

Without an ID or --latest the backup is picked from a list.`,
	Example: `  proftune backup restore --latest
  proftune backup restore 20261018T141502.123456
  proftune backup restore --latest --target ./PROFSAVE_profile --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return runRestoreWithWriter(cmd.Context(), cmd.OutOrStdout(), cmdutil.NewApp(cmd), id)
	},
}

func runRestoreWithWriter(ctx context.Context, w io.Writer, a *app.App, id string) error {
	b, err := lookup(a, id, restoreLatest)
	if err != nil {
		return err
	}

	target := restoreTarget
	if target == "" {
		target = b.SourcePath
	}

	running, err := a.Guard().IsOwningProcessRunning(ctx)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "checking for game process"), errors.ErrRestore)
	}
	if running {
		if !restoreForce {
			return errors.Mark(errors.Wrap(errors.ErrProcessActive, "refusing to restore"), errors.ErrRestore)
		}
		fmt.Fprintf(w, "%s game is running; it may overwrite the restored file on exit\n", color.YellowString("!"))
	}

	if !restoreYes {
		q := fmt.Sprintf("Replace %s with backup %s?", target, b.ID)
		if !newSelector().Confirm(q) {
			fmt.Fprintln(w, "Restore cancelled")
			return nil
		}
	}

	safety, err := a.Backups().Restore(*b, target)
	if err != nil {
		return err
	}

	a.Logger().Info("backup restored", "backup", b.ID, "target", target)
	fmt.Fprintf(w, "%s Restored %s to %s\n", color.GreenString("✓"), b.ID, target)
	if safety != nil {
		fmt.Fprintf(w, "  Previous file saved as %s\n", safety.ID)
	}
	return nil
}
