package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// Format specifies the output format for log messages.
type Format string

const (
	// FormatText produces the colourised console format.
	FormatText Format = "text"
	// FormatJSON produces one JSON object per record.
	FormatJSON Format = "json"
)

// ParseFormat accepts text or json, in any case. The empty string is text.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, true
	case FormatJSON:
		return FormatJSON, true
	}
	return FormatText, false
}

// Options configures New.
type Options struct {
	// Level is the minimum level written to both outputs.
	Level slog.Level
	// Format applies to Output. File is always JSON.
	Format Format
	// Output receives console logs. Defaults to os.Stderr.
	Output io.Writer
	// File, when set, additionally receives every record as JSON, e.g. the
	// --log-file target.
	File io.Writer
}

// New builds a logger from opts.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: opts.Level}

	var console slog.Handler
	if opts.Format == FormatJSON {
		console = slog.NewJSONHandler(out, ho)
	} else {
		console = NewHandler(out, ho)
	}
	if opts.File == nil {
		return slog.New(console)
	}
	return slog.New(NewMultiHandler(console, slog.NewJSONHandler(opts.File, ho)))
}

// testWriter forwards log lines to t.Log.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a trace level logger writing to t.Log, so engine
// transitions show up next to a failing assertion.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Options{
		Level:  LevelTrace,
		Format: FormatText,
		Output: &testWriter{t: t},
	})
}
