package backup

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	Example: `  proftune backup list
  proftune backup list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.OutOrStdout(), cmdutil.NewApp(cmd))
	},
}

func runListWithWriter(w io.Writer, a *app.App) error {
	backups, err := a.Backups().List()
	if err != nil {
		return err
	}

	if listJSON {
		return cmdutil.WriteJSON(w, backups)
	}

	if len(backups) == 0 {
		fmt.Fprintf(w, "No backups in %s\n", a.Backups().Dir())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSIZE\tREASON\tSOURCE")
	for _, b := range backups {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			b.ID,
			b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			formatSize(b.SizeBytes),
			cmdutil.Truncate(b.Reason, 24),
			b.SourcePath,
		)
	}
	return tw.Flush()
}
