// Package commands implements the CLI commands for proftune.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd"
	"github.com/thoreinstein/proftune/cmd/proftune/commands/backup"
	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/cmd/proftune/commands/preset"
	"github.com/thoreinstein/proftune/cmd/proftune/commands/profile"
	"github.com/thoreinstein/proftune/internal/config"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// profilePath holds the value of the --profile flag.
var profilePath string

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "",
		"profile file to operate on; skips discovery")

	rootCmd.AddCommand(profile.Cmd)
	rootCmd.AddCommand(preset.Cmd)
	rootCmd.AddCommand(backup.Cmd)

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("proftune version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, err := config.Load(configFile)
	cmdutil.SetConfig(cfg, err)
	cmdutil.SetProfileFlag(profilePath)
}

var rootCmd = &cobra.Command{
	Use:   "proftune",
	Short: "Inspect, tune and back up the Battlefield 6 settings profile",
	Long: `proftune reads and edits the Battlefield 6 PROFSAVE_profile settings file.

Edits are transactional: the file is backed up first, the new bytes are
written to a temporary file and verified, and only then renamed over the
original. Lines proftune does not change are kept byte for byte.

Writes are refused while the game is running, because the game rewrites
the profile when it exits. Use --force to override.`,
	Example: `  # Show where the profile is
  proftune profile path

  # Preview and apply a preset
  proftune preset diff esports
  proftune preset apply esports

  # Undo the last change
  proftune backup restore --latest

  # Check everything
  proftune doctor

  See Also: proftune preset, proftune backup, proftune doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger. Flags take precedence over
// log.level and log.format from the config file.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pick one of -q or -v")
	}

	cfg := cmdutil.Config()

	var level slog.Level
	switch {
	case quiet:
		level = slog.LevelError
	case verbosity > 0:
		level = logging.LevelFromVerbosity(verbosity)
	default:
		var ok bool
		level, ok = logging.ParseLevel(cfg.Log.Level)
		if !ok {
			level = slog.LevelWarn
		}
		// CLI flags take precedence, but if not set, check env var
		if val, ok := os.LookupEnv("PROFTUNE_DEBUG"); ok {
			switch val {
			case "1", "true":
				level = slog.LevelDebug
			case "2":
				level = logging.LevelTrace
			}
		}
	}

	name := cfg.Log.Format
	if cmd.Flags().Changed("log-format") || name == "" {
		name = logFormat
	}
	format, ok := logging.ParseFormat(name)
	if !ok {
		return errors.NewUserError(errors.Newf("unknown log format %q", name), "Use --log-format text or json")
	}

	opts := logging.Options{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
		}
		opts.File = f
	}
	color.NoColor = !logging.SupportsColor(cmd.OutOrStdout())

	logger := logging.New(opts)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load errors. Commands that help fix the
// config, or report on it, still run.
func checkConfig(cmd *cobra.Command, _ []string) error {
	err := cmdutil.LoadError()
	if err == nil {
		return nil
	}
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "doctor", "config":
			return nil
		}
	}
	return errors.NewConfigError(err)
}

// Execute runs the root command. An interrupt cancels the command context;
// an apply in progress aborts before its commit.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
