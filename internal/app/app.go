// Package app wires configuration to the profile, backup, process and
// preset packages. One App serves one CLI invocation; a Session owns the
// single parsed document that invocation works on.
package app

import (
	"context"
	"io/fs"
	"log/slog"

	"github.com/thoreinstein/proftune/internal/backup"
	"github.com/thoreinstein/proftune/internal/config"
	"github.com/thoreinstein/proftune/internal/discovery"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/preset"
	"github.com/thoreinstein/proftune/internal/process"
	"github.com/thoreinstein/proftune/internal/profile"
	"github.com/thoreinstein/proftune/pkg/fileutil"
)

// App holds the collaborators built from configuration.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	backups  *backup.Manager
	guard    preset.ProcessGuard
	override string
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithProfile overrides the profile location for this invocation. It takes
// precedence over profile.path in the config.
func WithProfile(path string) Option {
	return func(a *App) {
		a.override = path
	}
}

// WithGuard replaces the process guard built from config.
func WithGuard(g preset.ProcessGuard) Option {
	return func(a *App) {
		a.guard = g
	}
}

// New builds an App. A nil cfg uses config.Default().
func New(cfg *config.Config, version string, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.override == "" {
		a.override = cfg.Profile.Path
	}

	a.backups = backup.NewManager(
		backup.WithBackupDir(cfg.Backup.Dir),
		backup.WithRetentionCount(cfg.Backup.Keep),
		backup.WithToolVersion(version),
	)
	if a.guard == nil {
		if cfg.Process.Check {
			a.guard = process.NewDetector(cfg.Process.Names, process.WithLogger(a.logger))
		} else {
			a.guard = process.Disabled()
		}
	}
	return a
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Backups returns the backup store.
func (a *App) Backups() *backup.Manager {
	return a.backups
}

// Guard returns the process guard.
func (a *App) Guard() preset.ProcessGuard {
	return a.guard
}

// Resolver returns a discovery resolver configured from the app settings.
func (a *App) Resolver() *discovery.Resolver {
	return discovery.NewResolver(
		discovery.WithOverride(a.override),
		discovery.WithGameDir(a.cfg.Profile.GameDir),
		discovery.WithFileName(a.cfg.Profile.FileName),
	)
}

// ParseOptions returns the profile parse options from config.
func (a *App) ParseOptions() []profile.Option {
	var opts []profile.Option
	if a.cfg.Profile.Header != "" {
		opts = append(opts, profile.WithHeader(a.cfg.Profile.Header))
	}
	if a.cfg.Profile.AllowUnterminated {
		opts = append(opts, profile.WithAllowUnterminated(true))
	}
	return opts
}

// Catalogue loads the built-in presets merged with presets.file.
func (a *App) Catalogue() (*preset.Catalogue, error) {
	return preset.LoadCatalogue(a.cfg.Presets.File)
}

// Engine returns a preset engine checking values against cat's rules.
func (a *App) Engine(cat *preset.Catalogue) *preset.Engine {
	opts := []preset.EngineOption{preset.WithLogger(a.logger)}
	if cat != nil {
		opts = append(opts, preset.WithRules(cat.Rules()))
	}
	return preset.NewEngine(a.backups, a.guard, opts...)
}

// Session is one located and parsed profile.
type Session struct {
	Path  string
	Doc   *profile.Document
	Index *profile.Index
}

// Locate resolves the profile path.
func (a *App) Locate() (string, error) {
	path, err := a.Resolver().Resolve()
	if err != nil {
		return "", err
	}
	a.logger.Debug("profile located", "path", path)
	return path, nil
}

// Open locates, reads and parses the profile.
func (a *App) Open(_ context.Context) (*Session, error) {
	path, err := a.Locate()
	if err != nil {
		return nil, err
	}
	return a.OpenPath(path)
}

// OpenPath reads and parses the profile at path.
func (a *App) OpenPath(path string) (*Session, error) {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "reading %s", path)
		if errors.Is(err, fs.ErrPermission) {
			err = errors.Mark(err, errors.ErrPermission)
		}
		return nil, errors.Mark(err, errors.ErrDiscovery)
	}
	doc, err := profile.Parse(data, a.ParseOptions()...)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	a.logger.Debug("profile parsed", "path", path, "records", doc.Len(), "settings", doc.SettingCount())
	return &Session{Path: path, Doc: doc, Index: profile.NewIndex(doc)}, nil
}

// Apply runs p through the engine against the session's document. On a
// commit the session moves to the written document.
func (a *App) Apply(ctx context.Context, s *Session, cat *preset.Catalogue, p preset.Preset, opts preset.ApplyOptions) (*preset.Result, error) {
	res, err := a.Engine(cat).Apply(ctx, p, preset.Target{Path: s.Path, Doc: s.Doc}, opts)
	if err != nil {
		return nil, err
	}
	if res.State == preset.StateCommitted && res.Document != s.Doc {
		s.Doc = res.Document
		s.Index = profile.NewIndex(res.Document)
	}
	return res, nil
}
