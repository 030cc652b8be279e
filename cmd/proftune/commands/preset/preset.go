// Package preset provides CLI commands for listing and applying setting
// presets.
package preset

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/internal/preset"
)

// Cmd is the root preset command.
var Cmd = &cobra.Command{
	Use:   "preset",
	Short: "List, compare and apply setting presets",
	Long: `Presets are named sets of setting values. Five are built in: esports,
competitive, balanced, quality and performance. More can be added in a TOML
or YAML file named by the presets.file config key; a user preset with a
built-in ID replaces it.

Applying a preset only changes keys that exist in the profile and differ
from the preset. Keys the profile does not have are reported and skipped.`,
	Example: `  proftune preset list
  proftune preset diff esports
  proftune preset apply esports
  proftune preset apply -i

  See Also:
    proftune preset show  - Show a preset's values
    proftune backup list  - Backups taken before each apply`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// preview renders a preset's values for the interactive picker.
func preview(p preset.Preset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", p.Name, p.Description)
	for _, k := range p.Keys() {
		v, _ := p.Value(k)
		fmt.Fprintf(&b, "%s = %s\n", k, v)
	}
	return b.String()
}
