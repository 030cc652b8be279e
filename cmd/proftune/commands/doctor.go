package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/config"
	"github.com/thoreinstein/proftune/internal/doctor"
	"github.com/thoreinstein/proftune/internal/errors"
)

var (
	doctorJSON bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair permission problems that can be fixed safely")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose profile, backup and configuration issues",
	Long: `Run diagnostic checks on the proftune configuration, the game profile
and the backup store.

Checks that the profile can be found and parsed, that it round-trips
byte for byte, that the profile and backup directory are writable, whether
the game is running, that every backup matches its checksum, and that the
preset catalogue loads.

Output modes:
  (default)   Show errors and warnings
  -v          Show all checks including passed ones
  -q          No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  proftune doctor
  proftune doctor -v
  proftune doctor --fix`,
	PreRunE: validateDoctorFlags,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := cmdutil.NewApp(cmd)
		runner := newDoctorRunner(a, config.FileUsed(), cmdutil.LoadError())
		return runDoctorWithWriter(cmd.Context(), cmd.OutOrStdout(), runner)
	},
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if quiet {
		count++
	}
	if verbosity > 0 {
		count++
	}

	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "Pick one output mode")
	}

	return nil
}

func newDoctorRunner(a *app.App, cfgFile string, loadErr error) *doctor.Runner {
	cfg := a.Config()
	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(cfg, cfgFile, loadErr))
	runner.AddCheck(doctor.NewDiscoveryCheck(a.Resolver()))
	runner.AddCheck(doctor.NewParseCheck(a.Resolver(), a.ParseOptions()...))
	runner.AddCheck(doctor.NewPathPermissionCheck(a.Resolver(), a.Backups().Dir()))

	var finder doctor.ProcessFinder
	if f, ok := a.Guard().(doctor.ProcessFinder); ok && cfg.Process.Check {
		finder = f
	}
	runner.AddCheck(doctor.NewProcessCheck(finder))
	runner.AddCheck(doctor.NewBackupStoreCheck(a.Backups()))
	runner.AddCheck(doctor.NewCatalogueCheck(cfg.Presets.File))
	return runner
}

func runDoctorWithWriter(ctx context.Context, w io.Writer, runner *doctor.Runner) error {
	report := runner.Run(ctx)

	if doctorFix {
		fixes := applyFixes(runner)
		if len(fixes) > 0 {
			if !quiet && !doctorJSON {
				outputFixes(w, fixes)
			}
			report = runner.Run(ctx)
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	switch report.Worst() {
	case doctor.SeverityError:
		return errDoctorErrors
	case doctor.SeverityWarning:
		return errDoctorWarnings
	}
	return nil
}

// applyFixes runs every check that can repair what it found.
func applyFixes(runner *doctor.Runner) []doctor.FixResult {
	var out []doctor.FixResult
	for _, c := range runner.Checks() {
		if f, ok := c.(doctor.Fixer); ok && f.CanFix() {
			out = append(out, f.Fix()...)
		}
	}
	return out
}

func outputFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		if f.Fixed {
			fmt.Fprintf(w, "%s fixed %s: %s\n", color.GreenString("✓"), f.Path, f.Description)
		} else {
			fmt.Fprintf(w, "%s could not fix %s: %s\n", color.RedString("✗"), f.Path, f.Error)
		}
	}
	fmt.Fprintln(w)
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	if quiet {
		return nil
	}

	if doctorJSON {
		return outputDoctorJSON(w, report)
	}

	outputDoctorText(w, report)
	return nil
}

func outputDoctorJSON(w io.Writer, report *doctor.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report) {
	// -v lists every check, otherwise only problems
	results := report.Problems()
	if verbosity > 0 {
		results = report.Results
	}

	for _, result := range results {
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && result.Status.Problem() {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}
	if len(results) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}

// The report already explains the failure, so these carry no message.
var (
	errDoctorWarnings = errors.NewExitError(nil, errors.ExitUser)
	errDoctorErrors   = errors.NewExitError(nil, errors.ExitSystem)
)
