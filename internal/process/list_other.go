//go:build !linux && !windows

package process

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/thoreinstein/proftune/internal/errors"
)

// listProcesses runs ps. comm may be a full path on macOS.
func listProcesses(ctx context.Context) ([]Process, error) {
	out, err := exec.CommandContext(ctx, "ps", "-axo", "pid=,comm=").Output()
	if err != nil {
		return nil, errors.Wrap(err, "running ps")
	}
	return parsePS(string(out)), nil
}

func parsePS(out string) []Process {
	var procs []Process
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		pidField, rest, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		pid, err := strconv.Atoi(pidField)
		if err != nil {
			continue
		}
		procs = append(procs, Process{PID: pid, Name: baseName(strings.TrimSpace(rest))})
	}
	return procs
}
