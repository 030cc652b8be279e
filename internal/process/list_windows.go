//go:build windows

package process

import (
	"context"
	"encoding/csv"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/thoreinstein/proftune/internal/errors"
)

// listProcesses runs tasklist. Output lines look like:
//
//	"bf6.exe","1234","Console","1","1,234,567 K"
func listProcesses(ctx context.Context) ([]Process, error) {
	out, err := exec.CommandContext(ctx, "tasklist", "/FO", "CSV", "/NH").Output()
	if err != nil {
		return nil, errors.Wrap(err, "running tasklist")
	}
	return parseTasklist(string(out))
}

func parseTasklist(out string) ([]Process, error) {
	r := csv.NewReader(strings.NewReader(out))
	r.FieldsPerRecord = -1

	var procs []Process
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parsing tasklist output")
		}
		if len(rec) < 2 {
			continue
		}
		pid, err := strconv.Atoi(rec[1])
		if err != nil {
			continue
		}
		procs = append(procs, Process{PID: pid, Name: rec[0]})
	}
	return procs, nil
}
