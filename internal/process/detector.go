package process

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/proftune/internal/errors"
)

// DefaultNames are the executable names of Battlefield 6 across launchers
// and builds.
var DefaultNames = []string{
	"bf6.exe",
	"battlefield6.exe",
	"battlefield 6.exe",
	"bf6_x64.exe",
	"bf6_x86.exe",
	"battlefield6_x64.exe",
	"battlefield6_x86.exe",
}

// commLen is the length Linux truncates /proc/<pid>/comm to.
const commLen = 15

// Process is one running process.
type Process struct {
	PID  int
	Name string
	// Truncated is set when Name may have been cut to commLen bytes by the
	// kernel.
	Truncated bool
}

// lister enumerates running processes.
type lister func(ctx context.Context) ([]Process, error)

// Detector reports whether the game is running by matching process names.
type Detector struct {
	names  []string
	list   lister
	logger *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// NewDetector returns a Detector matching names. An empty list uses
// DefaultNames.
func NewDetector(names []string, opts ...Option) *Detector {
	if len(names) == 0 {
		names = DefaultNames
	}
	d := &Detector{
		names:  normalizeAll(names),
		list:   listProcesses,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Names returns the normalized names the detector matches.
func (d *Detector) Names() []string {
	return append([]string(nil), d.names...)
}

// Find returns the running processes whose names match.
func (d *Detector) Find(ctx context.Context) ([]Process, error) {
	procs, err := d.list(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing processes")
	}

	var matches []Process
	for _, p := range procs {
		if d.matches(p) {
			matches = append(matches, p)
		}
	}
	d.logger.Debug("process scan", "scanned", len(procs), "matched", len(matches))
	return matches, nil
}

// IsOwningProcessRunning reports whether any game process is running.
func (d *Detector) IsOwningProcessRunning(ctx context.Context) (bool, error) {
	matches, err := d.Find(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range matches {
		d.logger.Info("game process is running", "pid", p.PID, "name", p.Name)
	}
	return len(matches) > 0, nil
}

func (d *Detector) matches(p Process) bool {
	name := normalize(p.Name)
	if name == "" {
		return false
	}
	for _, want := range d.names {
		if name == want {
			return true
		}
		// comm holds at most 15 bytes of the full name, ".exe" included.
		if p.Truncated && len(p.Name) >= commLen && strings.HasPrefix(want+".exe", strings.ToLower(p.Name)) {
			return true
		}
	}
	return false
}

// normalize lowercases a process name, keeps its base name and strips
// ".exe", so "C:\Games\BF6.EXE" and "bf6" compare equal.
func normalize(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ToLower(name)
	return strings.TrimSuffix(name, ".exe")
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = normalize(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// baseName returns the final element of a Unix or Windows style path.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return filepath.Base(path)
}

// Static is a guard with a fixed answer.
type Static bool

// IsOwningProcessRunning returns the fixed answer.
func (s Static) IsOwningProcessRunning(context.Context) (bool, error) {
	return bool(s), nil
}

// Disabled returns a guard that always reports the game as not running,
// for setups where process checks are turned off.
func Disabled() Static {
	return Static(false)
}
