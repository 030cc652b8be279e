package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/config"
	"github.com/thoreinstein/proftune/internal/editor"
	"github.com/thoreinstein/proftune/internal/errors"
)

var configListKeys bool

func init() {
	configListCmd.Flags().BoolVar(&configListKeys, "keys", false, "list the settable keys with their descriptions")
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage proftune configuration",
	Long: `Manage proftune configuration stored in config.yaml.

Values come from the config file, then PROFTUNE_* environment variables
(PROFTUNE_BACKUP_KEEP for backup.keep), then built-in defaults.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  proftune config

  # Get a specific value
  proftune config get backup.keep

  # Set a value
  proftune config set profile.path "D:/Documents/Battlefield 6/settings/steam/PROFSAVE_profile"

See Also: proftune doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Keys use dot notation. List values are printed one per line.`,
	Example: `  proftune config get process.names

See Also: proftune config set, proftune config list`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigGetWithWriter(cmd.OutOrStdout(), args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

List values like process.names are comma separated. The file is created
when it does not exist, and the result is validated before it is written.`,
	Example: `  proftune config set backup.keep 20
  proftune config set process.names bf6.exe,bf6_trial.exe
  proftune config set process.check false

See Also: proftune config get, proftune config list`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSetWithWriter(cmd.OutOrStdout(), configTarget(), args[0], args[1])
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all effective configuration values in YAML format.`,
	Example: `  proftune config list
  proftune config list --keys

See Also: proftune config get, proftune config set`,
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR, then $VISUAL, then a platform default.`,
	Example: `  proftune config edit
  EDITOR=nano proftune config edit`,
	RunE: runConfigEdit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configTarget())
		return nil
	},
}

// configTarget is the file config set and edit write to: --config, then
// the file that was loaded, then the default location.
func configTarget() string {
	if configFile != "" {
		return configFile
	}
	if used := config.FileUsed(); used != "" {
		return used
	}
	return config.DefaultPath()
}

func runConfigGetWithWriter(w io.Writer, key string) error {
	val, err := config.Get(key)
	if err != nil {
		return errors.Mark(err, errors.ErrNotFound)
	}

	switch v := val.(type) {
	case []any:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	default:
		fmt.Fprintln(w, v)
	}
	return nil
}

func runConfigSetWithWriter(w io.Writer, path, key, value string) error {
	if err := config.Set(path, key, value); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			return errors.NewUserError(err, "Valid keys: "+strings.Join(config.KeyNames(), ", "))
		}
		return err
	}
	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, path)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	if configListKeys {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tDEFAULT\tDESCRIPTION")
		for _, k := range config.Keys {
			fmt.Fprintf(tw, "%s\t%v\t%s\n", k.Name, k.Default, k.Description)
		}
		return tw.Flush()
	}

	data, err := yaml.Marshal(cmdutil.Config())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = w.Write(data)
	return err
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := configTarget()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path),
			"Create it with: proftune config set <key> <value>",
		)
	}

	return editor.Open(cmd.Context(), path)
}
