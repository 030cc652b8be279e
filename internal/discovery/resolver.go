package discovery

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/paths"
)

// Sentinel errors. All are marked with errors.ErrDiscovery.
var (
	// ErrNotFound indicates no candidate location holds a profile.
	ErrNotFound = errors.New("no profile file found")

	// ErrAmbiguous indicates an explicit override path does not exist, so
	// the intended profile cannot be determined.
	ErrAmbiguous = errors.New("profile override path does not exist")

	// ErrInvalidPath indicates a manually supplied path is missing,
	// unreadable or a directory.
	ErrInvalidPath = errors.New("invalid profile path")
)

// Status is the outcome of probing one candidate.
type Status string

const (
	StatusFound      Status = "found"
	StatusMissing    Status = "missing"
	StatusEmpty      Status = "empty"
	StatusNotRegular Status = "not-regular"
	StatusError      Status = "error"
)

// Probe describes one candidate location.
type Probe struct {
	Path   string
	Status Status
	Size   int64
	Err    error
}

// Resolver locates the active profile file. It only reads the filesystem.
type Resolver struct {
	override   string
	candidates []string
	home       string
	gameDir    string
	fileName   string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOverride makes Resolve use path and nothing else.
func WithOverride(path string) Option {
	return func(r *Resolver) {
		r.override = path
	}
}

// WithCandidates replaces the derived candidate list.
func WithCandidates(candidates []string) Option {
	return func(r *Resolver) {
		r.candidates = append([]string(nil), candidates...)
	}
}

// WithHome derives candidates from home instead of the current user's home.
func WithHome(home string) Option {
	return func(r *Resolver) {
		r.home = home
	}
}

// WithGameDir sets the game folder name under Documents.
func WithGameDir(dir string) Option {
	return func(r *Resolver) {
		r.gameDir = dir
	}
}

// WithFileName sets the profile file name.
func WithFileName(name string) Option {
	return func(r *Resolver) {
		r.fileName = name
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates returns the locations probed by Resolve, in priority order.
func (r *Resolver) Candidates() []string {
	if r.candidates != nil {
		return append([]string(nil), r.candidates...)
	}
	return paths.ProfileCandidates(r.home, r.gameDir, r.fileName)
}

// Resolve returns the path of the active profile: the override when one is
// configured, otherwise the first candidate that is a non-empty regular
// file.
func (r *Resolver) Resolve() (string, error) {
	if r.override != "" {
		path, err := paths.ExpandHome(r.override)
		if err != nil {
			return "", errors.Mark(err, errors.ErrDiscovery)
		}
		if p := probe(path); p.Status != StatusFound {
			return "", errors.Mark(errors.Wrapf(ErrAmbiguous, "%s (%s)", path, p.Status), errors.ErrDiscovery)
		}
		return filepath.Clean(path), nil
	}

	candidates := r.Candidates()
	for _, c := range candidates {
		if probe(c).Status == StatusFound {
			return c, nil
		}
	}
	return "", errors.Mark(errors.Wrapf(ErrNotFound, "checked %d locations", len(candidates)), errors.ErrDiscovery)
}

// ResolveManual validates a user supplied path: it must exist, be readable
// and not be a directory. Used when automatic discovery fails.
func (r *Resolver) ResolveManual(path string) (string, error) {
	invalid := func(format string, args ...any) (string, error) {
		return "", errors.Mark(errors.Wrapf(ErrInvalidPath, format, args...), errors.ErrDiscovery)
	}

	if path == "" {
		return invalid("empty path")
	}
	expanded, err := paths.ExpandHome(path)
	if err != nil {
		return invalid("%s: %v", path, err)
	}
	expanded = filepath.Clean(expanded)

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", errors.Mark(errors.Mark(errors.Wrapf(ErrInvalidPath, "%s: %v", expanded, err), errors.ErrPermission), errors.ErrDiscovery)
		}
		return invalid("%s does not exist", expanded)
	}
	if info.IsDir() {
		return invalid("%s is a directory", expanded)
	}

	f, err := os.Open(expanded)
	if err != nil {
		return "", errors.Mark(errors.Mark(errors.Wrapf(ErrInvalidPath, "%s is not readable: %v", expanded, err), errors.ErrPermission), errors.ErrDiscovery)
	}
	f.Close()

	return expanded, nil
}

// Probe reports the status of every candidate, and of the override when
// one is set.
func (r *Resolver) Probe() []Probe {
	var out []Probe
	if r.override != "" {
		path, err := paths.ExpandHome(r.override)
		if err != nil {
			out = append(out, Probe{Path: r.override, Status: StatusError, Err: err})
		} else {
			out = append(out, probe(path))
		}
	}
	for _, c := range r.Candidates() {
		out = append(out, probe(c))
	}
	return out
}

func probe(path string) Probe {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Probe{Path: path, Status: StatusMissing}
	case err != nil:
		return Probe{Path: path, Status: StatusError, Err: err}
	case !info.Mode().IsRegular():
		return Probe{Path: path, Status: StatusNotRegular}
	case info.Size() == 0:
		return Probe{Path: path, Status: StatusEmpty}
	}
	return Probe{Path: path, Status: StatusFound, Size: info.Size()}
}
