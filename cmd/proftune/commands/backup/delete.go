package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
)

func init() {
	Cmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete one backup",
	Example: `  proftune backup delete 20261018T141502.123456`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeleteWithWriter(cmd.OutOrStdout(), cmdutil.NewApp(cmd), args[0])
	},
}

func runDeleteWithWriter(w io.Writer, a *app.App, id string) error {
	b, err := lookup(a, id, false)
	if err != nil {
		return err
	}
	if err := a.Backups().Delete(b.ID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted backup %s\n", b.ID)
	return nil
}
