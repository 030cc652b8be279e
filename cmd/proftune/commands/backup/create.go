package backup

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/backup"
)

var createReason string

func init() {
	createCmd.Flags().StringVar(&createReason, "reason", backup.ReasonManual, "Why the backup is taken")
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up the profile now",
	Example: `  proftune backup create
  proftune backup create --reason "before season 2"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCreateWithWriter(cmd.Context(), cmd.OutOrStdout(), cmdutil.NewApp(cmd))
	},
}

func runCreateWithWriter(ctx context.Context, w io.Writer, a *app.App) error {
	// Open rather than Locate so an unparseable profile is reported before
	// it is archived.
	s, err := a.Open(ctx)
	if err != nil {
		return err
	}
	b, err := a.Backups().Create(s.Path, backup.WithReason(createReason))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Backed up %s\n", color.GreenString("✓"), s.Path)
	fmt.Fprintf(w, "  ID: %s (%s)\n", b.ID, formatSize(b.SizeBytes))
	return nil
}
