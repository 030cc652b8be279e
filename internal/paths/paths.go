package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG roots.
const AppName = "proftune"

// Defaults for the Battlefield 6 profile.
const (
	DefaultProfileFile = "PROFSAVE_profile"
	DefaultGameDir     = "Battlefield 6"
)

// Storefront folders under <game>/settings, in lookup priority order. The
// empty entry is the settings folder itself, used by older installs.
var storefronts = []string{
	"steam",
	"",
	"EA App",
	"EA Desktop",
	"Origin",
}

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or "" when it cannot be
// determined. Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// StateHome returns the XDG state home directory.
// On Linux: ~/.local/state
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func StateHome() string {
	return xdg.StateHome
}

// ConfigDir returns <ConfigHome>/proftune.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// BackupDir returns the default backup store, <DataHome>/proftune/backups.
func BackupDir() string {
	return filepath.Join(DataHome(), AppName, "backups")
}

// LogDir returns <StateHome>/proftune/logs.
func LogDir() string {
	return filepath.Join(StateHome(), AppName, "logs")
}

// Storefronts returns the storefront folder names in lookup priority order.
func Storefronts() []string {
	return append([]string(nil), storefronts...)
}

// DocumentsRoots returns the folders the game may write its settings under,
// deduplicated and in priority order: the XDG documents dir, ~/Documents and
// the OneDrive redirected ~/OneDrive/Documents.
func DocumentsRoots(home string) []string {
	var roots []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" {
			return
		}
		p = filepath.Clean(p)
		if seen[p] {
			return
		}
		seen[p] = true
		roots = append(roots, p)
	}

	if home == "" {
		add(xdg.UserDirs.Documents)
		home = Home()
	} else if strings.HasPrefix(xdg.UserDirs.Documents, home) {
		add(xdg.UserDirs.Documents)
	}
	if home != "" {
		add(filepath.Join(home, "Documents"))
		add(filepath.Join(home, "OneDrive", "Documents"))
	}
	return roots
}

// ProfileCandidates returns every location the game may keep its profile
// file in, storefront-major: all documents roots for steam first, then the
// plain settings folder, then the EA and Origin launchers.
//
// An empty home uses the current user's home directory. Empty gameDir and
// fileName use the Battlefield 6 defaults.
func ProfileCandidates(home, gameDir, fileName string) []string {
	if gameDir == "" {
		gameDir = DefaultGameDir
	}
	if fileName == "" {
		fileName = DefaultProfileFile
	}

	roots := DocumentsRoots(home)
	out := make([]string, 0, len(roots)*len(storefronts))
	for _, store := range storefronts {
		for _, root := range roots {
			dir := filepath.Join(root, gameDir, "settings")
			if store != "" {
				dir = filepath.Join(dir, store)
			}
			out = append(out, filepath.Join(dir, fileName))
		}
	}
	return out
}
