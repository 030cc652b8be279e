// Package editor launches the user's text editor on a file.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/thoreinstein/proftune/internal/errors"
)

// Open runs the user's editor on path and waits for it to exit. The editor
// comes from $EDITOR, then $VISUAL, then a platform default. The variables
// may carry arguments, e.g. "code --wait".
func Open(ctx context.Context, path string) error {
	return open(ctx, path, os.Stdin, os.Stdout, os.Stderr)
}

func open(ctx context.Context, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	argv := strings.Fields(detectEditor())
	if len(argv) == 0 {
		return errors.New("no editor configured")
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// detectEditor returns the editor command line. Fallback chain:
// $EDITOR, $VISUAL, nano, vi (notepad on Windows).
func detectEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}

	if runtime.GOOS == "windows" {
		return "notepad"
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
