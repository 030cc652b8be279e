//go:build linux

package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/proftune/internal/errors"
)

const procRoot = "/proc"

// listProcesses reads /proc. argv[0] from cmdline gives the full executable
// name, which matters for Wine and Proton where it is a Windows path;
// kernel threads and zombies fall back to the truncated comm.
func listProcesses(ctx context.Context) ([]Process, error) {
	return listProc(ctx, procRoot)
}

func listProc(ctx context.Context, root string) ([]Process, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", root)
	}

	procs := make([]Process, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())

		if cmdline, err := os.ReadFile(filepath.Join(dir, "cmdline")); err == nil && len(cmdline) > 0 {
			argv0, _, _ := bytes.Cut(cmdline, []byte{0})
			if name := baseName(string(argv0)); name != "" {
				procs = append(procs, Process{PID: pid, Name: name})
				continue
			}
		}

		// Processes can exit between ReadDir and here.
		comm, err := os.ReadFile(filepath.Join(dir, "comm"))
		if err != nil {
			continue
		}
		name := strings.TrimRight(string(comm), "\n")
		procs = append(procs, Process{PID: pid, Name: name, Truncated: len(name) >= commLen})
	}
	return procs, nil
}
