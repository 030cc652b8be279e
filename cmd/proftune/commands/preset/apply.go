package preset

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/cli/prompt"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/preset"
)

var (
	applyForce       bool
	applyDryRun      bool
	applyInteractive bool
)

// newSelector is replaced in tests.
var newSelector = prompt.NewSelector

func init() {
	applyCmd.Flags().BoolVar(&applyForce, "force", false, "Apply even while the game is running")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show the changes without writing")
	applyCmd.Flags().BoolVarP(&applyInteractive, "interactive", "i", false, "Pick the preset from a list")
	Cmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply [id]",
	Short: "Apply a preset to the profile",
	Long: `Apply a preset to the profile.

The profile is backed up first, then the changed values are written to a
temporary file, read back and checked, and only then moved over the
profile. If any step fails the profile is left as it was.

Applying is refused while the game is running, because the game rewrites
the profile on exit. Use --force to write anyway.

Without an ID, or with -i, the preset is picked from a list.`,
	Example: `  proftune preset apply esports
  proftune preset apply quality --dry-run
  proftune preset apply -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return runApplyWithWriter(cmd.Context(), cmd.OutOrStdout(), cmdutil.NewApp(cmd), id)
	},
}

func runApplyWithWriter(ctx context.Context, w io.Writer, a *app.App, id string) error {
	cat, err := a.Catalogue()
	if err != nil {
		return err
	}

	var p preset.Preset
	if id == "" || applyInteractive {
		p, err = pick(cat)
	} else {
		p, err = cat.Get(id)
		err = markNotFound(err)
	}
	if err != nil {
		return err
	}

	s, err := a.Open(ctx)
	if err != nil {
		return err
	}
	res, err := a.Apply(ctx, s, cat, p, preset.ApplyOptions{Force: applyForce, DryRun: applyDryRun})
	if err != nil {
		return err
	}

	switch {
	case res.NoOp:
		fmt.Fprintf(w, "Profile already matches %s, nothing to do\n", p.ID)
	case res.DryRun:
		fmt.Fprintf(w, "Dry run, %s would change:\n\n", p.ID)
		writeDiff(w, p, preset.Diff{Changes: res.Changes, SkippedUnknownKeys: res.SkippedUnknownKeys, Unchanged: res.Unchanged})
	default:
		if res.Forced {
			fmt.Fprintf(w, "%s game is running; it may overwrite these changes on exit\n", color.YellowString("!"))
		}
		fmt.Fprintf(w, "%s Applied %s: %d setting(s) changed\n", color.GreenString("✓"), p.ID, len(res.Changes))
		fmt.Fprintf(w, "  Backup: %s\n", res.Backup.ID)
		if n := len(res.SkippedUnknownKeys); n > 0 {
			fmt.Fprintf(w, "  Skipped %d key(s) not in profile\n", n)
		}
	}
	return nil
}

func pick(cat *preset.Catalogue) (preset.Preset, error) {
	all := cat.All()
	items := make([]prompt.Item, len(all))
	for i, p := range all {
		items[i] = prompt.Item{Label: p.ID, Detail: p.Name, Preview: preview(p)}
	}
	i, err := newSelector().Select("Select a preset", items)
	if err != nil {
		return preset.Preset{}, err
	}
	return all[i], nil
}

func markNotFound(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, errors.ErrNotFound)
}
