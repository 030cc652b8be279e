package profile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd/proftune/commands/cmdutil"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/export"
	"github.com/thoreinstein/proftune/pkg/fileutil"
)

var (
	exportFormat string
	exportOutput string
	exportTyped  bool
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: json, yaml, toml, ini (default from -o extension, else json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportTyped, "typed", false, "Emit numbers and booleans as typed values instead of raw strings")
	Cmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export settings as JSON, YAML, TOML or INI",
	Long: `Export the profile's settings grouped by namespace.

The export is for reading, diffing and sharing. It cannot be imported back;
use presets to apply values.`,
	Example: `  proftune profile export --format yaml
  proftune profile export -o settings.toml
  proftune profile export --typed --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runExportWithWriter(cmd.Context(), cmd.OutOrStdout(), cmdutil.NewApp(cmd))
	},
}

func runExportWithWriter(ctx context.Context, w io.Writer, a *app.App) error {
	name := exportFormat
	switch {
	case name == "" && exportOutput != "":
		name = filepath.Ext(exportOutput)
	case name == "":
		name = string(export.JSON)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	s, err := a.Open(ctx)
	if err != nil {
		return err
	}
	data, err := export.Encode(s.Index.All(), format, export.Options{Typed: exportTyped})
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err := w.Write(data)
		return err
	}
	if err := fileutil.AtomicWriteFile(exportOutput, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %d settings to %s\n", s.Index.Len(), exportOutput)
	return nil
}
