package preset

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/preset"
)

var diffJSON bool

func init() {
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff <id>",
	Short: "Show what applying a preset would change",
	Long: `Compare a preset with the current profile. Nothing is written.

Values that are numerically equal ("240" and "240.000000") count as
unchanged.`,
	Example: `  proftune preset diff esports
  proftune preset diff quality --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiffWithWriter(cmd.Context(), cmd.OutOrStdout(), cmdutil.NewApp(cmd), args[0])
	},
}

func runDiffWithWriter(ctx context.Context, w io.Writer, a *app.App, id string) error {
	cat, err := a.Catalogue()
	if err != nil {
		return err
	}
	p, err := cat.Get(id)
	if err != nil {
		return markNotFound(err)
	}
	s, err := a.Open(ctx)
	if err != nil {
		return err
	}

	d := a.Engine(cat).Diff(p, s.Index)
	if diffJSON {
		return cmdutil.WriteJSON(w, d)
	}
	writeDiff(w, p, d)
	return nil
}

func writeDiff(w io.Writer, p preset.Preset, d preset.Diff) {
	if len(d.Changes) == 0 {
		fmt.Fprintf(w, "Profile already matches %s\n", p.ID)
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tCURRENT\t\tPRESET")
		for _, c := range d.Changes {
			fmt.Fprintf(tw, "%s\t%s\t->\t%s\n", c.Key, color.RedString(c.Old), color.GreenString(c.New))
		}
		_ = tw.Flush()
		fmt.Fprintf(w, "\n%d change(s), %d unchanged\n", len(d.Changes), len(d.Unchanged))
	}
	if len(d.SkippedUnknownKeys) > 0 {
		fmt.Fprintf(w, "%s %d preset key(s) not in profile, skipped\n", color.YellowString("!"), len(d.SkippedUnknownKeys))
	}
}
