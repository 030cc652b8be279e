package profile

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/errors"
)

func init() {
	Cmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Long:  `Print the raw value of a setting exactly as stored in the profile.`,
	Example: `  proftune profile get GstRender.FrameRateLimit`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGetWithWriter(cmd.Context(), cmd.OutOrStdout(), cmdutil.NewApp(cmd), args[0])
	},
}

func runGetWithWriter(ctx context.Context, w io.Writer, a *app.App, key string) error {
	s, err := a.Open(ctx)
	if err != nil {
		return err
	}
	st, err := s.Index.Get(key)
	if err != nil {
		return errors.Mark(err, errors.ErrNotFound)
	}
	fmt.Fprintln(w, st.Raw)
	return nil
}
