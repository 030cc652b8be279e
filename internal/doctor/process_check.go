package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/thoreinstein/proftune/internal/process"
)

// ProcessFinder lists running game processes.
type ProcessFinder interface {
	Find(ctx context.Context) ([]process.Process, error)
}

// ProcessCheck reports whether the game is running. Writes are refused
// while it is, unless forced.
type ProcessCheck struct {
	finder ProcessFinder
}

var _ Check = (*ProcessCheck)(nil)

// NewProcessCheck creates a process check. A nil finder means process
// checking is disabled in the config.
func NewProcessCheck(f ProcessFinder) *ProcessCheck {
	return &ProcessCheck{finder: f}
}

// Name returns the unique identifier for this check.
func (c *ProcessCheck) Name() string {
	return "game-process"
}

// Category returns the grouping for this check.
func (c *ProcessCheck) Category() string {
	return "process"
}

// Run lists matching processes.
func (c *ProcessCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.finder == nil {
		result.Status = SeverityWarning
		result.Message = "process check disabled; writes are not guarded"
		result.FixHint = "proftune config set process.check true"
		return result
	}

	procs, err := c.finder.Find(ctx)
	if err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("cannot list processes: %v", err)
		return result
	}
	if len(procs) == 0 {
		result.Status = SeverityPass
		result.Message = "game is not running"
		return result
	}

	names := make([]string, len(procs))
	pids := make([]int, len(procs))
	for i, p := range procs {
		names[i] = p.Name
		pids[i] = p.PID
	}
	result.Status = SeverityWarning
	result.Message = fmt.Sprintf("game is running (%s); writes will be refused without --force", strings.Join(names, ", "))
	result.Details = map[string]any{"pids": pids, "names": names}
	result.FixHint = "close the game before applying presets"
	return result
}
