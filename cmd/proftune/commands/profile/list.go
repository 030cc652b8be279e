package profile

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/profile"
	"github.com/thoreinstein/proftune/internal/query"
)

var (
	listNamespace string
	listFilter    string
	listJSON      bool
)

func init() {
	listCmd.Flags().StringVarP(&listNamespace, "namespace", "n", "", "Only settings in this namespace (e.g. GstRender)")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Only settings matching an expression")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List settings",
	Long: `List the settings in the profile in file order.

--filter takes a boolean expression evaluated per setting. Available fields:
key, namespace, name, raw, kind ("bool", "int", "float", "string"), value,
number, numeric and line.`,
	Example: `  # Everything
  proftune profile list

  # Audio settings only
  proftune profile list --namespace GstAudio

  # Numeric graphics settings above 2
  proftune profile list -f 'namespace == "GstRender" && numeric && number > 2'

  # Keys containing Quality
  proftune profile list -f 'key contains "Quality"' --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.Context(), cmd.OutOrStdout(), cmdutil.NewApp(cmd))
	},
}

type settingOutput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Kind  string `json:"kind"`
	Line  int    `json:"line"`
}

func runListWithWriter(ctx context.Context, w io.Writer, a *app.App) error {
	s, err := a.Open(ctx)
	if err != nil {
		return err
	}

	settings := s.Index.All()
	if listNamespace != "" {
		settings = s.Index.Prefix(listNamespace)
	}
	if listFilter != "" {
		f, err := query.Compile(listFilter)
		if err != nil {
			return err
		}
		if settings, err = f.Select(settings); err != nil {
			return err
		}
	}

	if listJSON {
		out := make([]settingOutput, len(settings))
		for i, st := range settings {
			out[i] = settingOutput{Key: st.Key, Value: st.Raw, Kind: st.Kind.String(), Line: st.Line}
		}
		return cmdutil.WriteJSON(w, out)
	}

	if len(settings) == 0 {
		fmt.Fprintln(w, "No matching settings")
		return nil
	}
	return writeSettings(w, settings)
}

func writeSettings(w io.Writer, settings []profile.Setting) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tTYPE")
	for _, st := range settings {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", st.Key, st.Raw, st.Kind)
	}
	return tw.Flush()
}
