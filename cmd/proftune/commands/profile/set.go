package profile

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/preset"
	"github.com/thoreinstein/proftune/internal/profile"
)

var (
	setForce  bool
	setDryRun bool
)

func init() {
	setCmd.Flags().BoolVar(&setForce, "force", false, "Write even while the game is running")
	setCmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Show the change without writing")
	Cmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change the value of an existing setting.

The value must keep the setting's type: a numeric setting takes a number,
a true/false setting takes true or false. Values are also checked against
the known ranges from the preset catalogue. Unknown keys are rejected;
proftune never adds settings the game did not write.

The profile is backed up before it is changed.`,
	Example: `  proftune profile set GstRender.FrameRateLimit 240.000000
  proftune profile set GstRender.MotionBlurWorld 0.000000 --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetWithWriter(cmd.Context(), cmd.OutOrStdout(), cmdutil.NewApp(cmd), args[0], args[1])
	},
}

func runSetWithWriter(ctx context.Context, w io.Writer, a *app.App, key, value string) error {
	s, err := a.Open(ctx)
	if err != nil {
		return err
	}
	if !s.Index.Has(key) {
		return errors.Mark(errors.Wrapf(profile.ErrKeyNotFound, "%s", key), errors.ErrNotFound)
	}
	if err := profile.ValidateValue(value); err != nil {
		return errors.Mark(errors.Wrapf(err, "%s", key), errors.ErrInvalidConfig)
	}

	cat, err := a.Catalogue()
	if err != nil {
		return err
	}
	res, err := a.Apply(ctx, s, cat, preset.Adhoc(map[string]string{key: value}), preset.ApplyOptions{
		Force:  setForce,
		DryRun: setDryRun,
		Reason: "set:" + key,
	})
	if err != nil {
		return err
	}

	if res.NoOp {
		fmt.Fprintf(w, "%s is already %s\n", key, value)
		return nil
	}
	c := res.Changes[0]
	if res.DryRun {
		fmt.Fprintf(w, "Would set %s: %s -> %s\n", c.Key, c.Old, c.New)
		return nil
	}
	fmt.Fprintf(w, "%s %s: %s -> %s (backup %s)\n", color.GreenString("✓"), c.Key, c.Old, c.New, res.Backup.ID)
	return nil
}
