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

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available presets",
	Example: `  proftune preset list
  proftune preset list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.OutOrStdout(), cmdutil.NewApp(cmd))
	},
}

type presetOutput struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Settings    map[string]string `json:"settings"`
}

func runListWithWriter(w io.Writer, a *app.App) error {
	cat, err := a.Catalogue()
	if err != nil {
		return err
	}

	if listJSON {
		out := make([]presetOutput, 0, len(cat.IDs()))
		for _, p := range cat.All() {
			out = append(out, presetOutput{ID: p.ID, Name: p.Name, Description: p.Description, Settings: p.Entries()})
		}
		return cmdutil.WriteJSON(w, out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSETTINGS\tDESCRIPTION")
	for _, p := range cat.All() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", color.CyanString(p.ID), p.Name, p.Len(), cmdutil.Truncate(p.Description, 60))
	}
	return tw.Flush()
}
