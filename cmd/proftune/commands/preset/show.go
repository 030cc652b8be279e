package preset

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
)

func init() {
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show a preset's values",
	Example: `  proftune preset show competitive`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowWithWriter(cmd.OutOrStdout(), cmdutil.NewApp(cmd), args[0])
	},
}

func runShowWithWriter(w io.Writer, a *app.App, id string) error {
	cat, err := a.Catalogue()
	if err != nil {
		return err
	}
	p, err := cat.Get(id)
	if err != nil {
		return markNotFound(err)
	}

	fmt.Fprintf(w, "%s (%s)\n", color.New(color.Bold).Sprint(p.Name), p.ID)
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, k := range p.Keys() {
		v, _ := p.Value(k)
		fmt.Fprintf(tw, "%s\t%s\n", k, v)
	}
	return tw.Flush()
}
