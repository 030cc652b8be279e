package profile

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/discovery"
)

var pathAll bool

func init() {
	pathCmd.Flags().BoolVar(&pathAll, "all", false, "Show every candidate location and its status")
	Cmd.AddCommand(pathCmd)
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the located profile",
	Long: `Print the path of the profile proftune operates on.

With --all, every candidate location is listed in lookup order together
with what was found there.`,
	Example: `  proftune profile path
  proftune profile path --all`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPathWithWriter(cmd.OutOrStdout(), cmdutil.NewApp(cmd))
	},
}

func runPathWithWriter(w io.Writer, a *app.App) error {
	if !pathAll {
		path, err := a.Locate()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, path)
		return nil
	}

	r := a.Resolver()
	active, _ := r.Resolve()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  \tSTATUS\tSIZE\tPATH")
	for _, p := range r.Probe() {
		marker := " "
		if p.Path == active {
			marker = color.GreenString("*")
		}
		size := "-"
		if p.Status == discovery.StatusFound {
			size = fmt.Sprintf("%d", p.Size)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, statusText(p.Status), size, p.Path)
	}
	return tw.Flush()
}

func statusText(s discovery.Status) string {
	switch s {
	case discovery.StatusFound:
		return color.GreenString(string(s))
	case discovery.StatusMissing:
		return color.HiBlackString(string(s))
	default:
		return color.YellowString(string(s))
	}
}
