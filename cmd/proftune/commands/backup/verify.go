package backup

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/backup"
	"github.com/thoreinstein/proftune/internal/errors"
)

func init() {
	Cmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify [id]",
	Short: "Check backups against their checksums",
	Long: `Check that stored backups still match the checksum recorded when they
were taken. With no ID every backup is checked.`,
	Example: `  proftune backup verify
  proftune backup verify 20261018T141502.123456`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return runVerifyWithWriter(cmd.OutOrStdout(), cmdutil.NewApp(cmd), id)
	},
}

func runVerifyWithWriter(w io.Writer, a *app.App, id string) error {
	mgr := a.Backups()

	var backups []backup.Backup
	if id != "" {
		b, err := lookup(a, id, false)
		if err != nil {
			return err
		}
		backups = []backup.Backup{*b}
	} else {
		all, err := mgr.List()
		if err != nil {
			return err
		}
		backups = all
	}

	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups to verify")
		return nil
	}

	bad := 0
	for _, b := range backups {
		if err := mgr.Verify(b); err != nil {
			bad++
			fmt.Fprintf(w, "%s %s: %v\n", color.RedString("✗"), b.ID, err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), b.ID)
	}

	if bad > 0 {
		return errors.Mark(errors.Wrapf(backup.ErrBackupCorrupted, "%d of %d backups failed verification", bad, len(backups)), errors.ErrBackup)
	}
	return nil
}
