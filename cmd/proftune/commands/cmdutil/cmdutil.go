// Package cmdutil holds state shared between the root command and the noun
// subpackages (profile, preset, backup). It exists to avoid import cycles.
package cmdutil

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/proftune/cmd"
	"github.com/thoreinstein/proftune/internal/app"
	"github.com/thoreinstein/proftune/internal/config"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/logging"
)

var (
	loaded      *config.Config
	loadErr     error
	profileFlag string
)

// SetConfig records the outcome of loading the config file.
func SetConfig(cfg *config.Config, err error) {
	loaded, loadErr = cfg, err
}

// Config returns the loaded configuration, or defaults when loading failed
// or has not happened.
func Config() *config.Config {
	if loaded == nil {
		return config.Default()
	}
	return loaded
}

// LoadError returns the error from loading the config file.
func LoadError() error {
	return loadErr
}

// ProfileFlag returns the value of the --profile flag.
func ProfileFlag() string {
	return profileFlag
}

// SetProfileFlag sets the --profile value.
func SetProfileFlag(path string) {
	profileFlag = path
}

// NewApp builds the App for one command invocation. The logger comes from
// the command context set up by the root command.
func NewApp(c *cobra.Command, opts ...app.Option) *app.App {
	base := []app.Option{app.WithLogger(logging.FromContext(c.Context()))}
	if profileFlag != "" {
		base = append(base, app.WithProfile(profileFlag))
	}
	return app.New(Config(), cmd.Version, append(base, opts...)...)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding output")
}

// Truncate shortens s to maxLen characters, adding "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
