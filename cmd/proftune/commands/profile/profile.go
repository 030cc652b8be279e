// Package profile provides CLI commands for reading and editing the
// settings profile.
package profile

import "github.com/spf13/cobra"

// Cmd is the root profile command.
var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "Read and edit the settings profile",
	Long: `Read and edit the Battlefield 6 PROFSAVE_profile.

The profile is located automatically under Documents/Battlefield 6/settings,
trying the Steam, EA App and Origin folders in turn. Use --profile or the
profile.path config key to point at a specific file.

Every write goes through the same transaction as a preset apply: the file
is backed up, staged, verified and atomically replaced.`,
	Example: `  # Where is the profile?
  proftune profile path

  # Show graphics settings
  proftune profile list --namespace GstRender

  # Change one value
  proftune profile set GstRender.FrameRateLimit 240.000000

  See Also:
    proftune profile path   - Show the located profile
    proftune profile list   - List settings
    proftune profile get    - Print one value
    proftune profile set    - Change one value
    proftune profile export - Export settings as JSON, YAML, TOML or INI`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
