package preset

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/thoreinstein/proftune/internal/backup"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/logging"
	"github.com/thoreinstein/proftune/internal/profile"
	"github.com/thoreinstein/proftune/pkg/fileutil"
)

// BackupCreator snapshots the profile before it is rewritten.
// *backup.Manager satisfies it.
type BackupCreator interface {
	Create(sourcePath string, opts ...backup.CreateOption) (*backup.Backup, error)
}

// ProcessGuard reports whether the game, which rewrites the profile on
// exit, is running. *process.Detector satisfies it.
type ProcessGuard interface {
	IsOwningProcessRunning(ctx context.Context) (bool, error)
}

// Target is the profile an apply works on: its path and the document parsed
// from it. The document is never mutated; the engine works on a clone.
type Target struct {
	Path string
	Doc  *profile.Document
}

// ApplyOptions control a single apply.
type ApplyOptions struct {
	// Force applies even when the game is running.
	Force bool
	// DryRun computes the diff and runs the process check without writing.
	DryRun bool
	// Reason is recorded on the backup. It defaults to "preset:<id>".
	Reason string
}

// Result describes a finished apply.
type Result struct {
	TxID               string
	PresetID           string
	Changes            []Change
	SkippedUnknownKeys []string
	Unchanged          []string
	// Backup is the snapshot taken before the write. Nil for no-ops and dry
	// runs.
	Backup *backup.Backup
	// Forced is set when the write went ahead with the game running.
	Forced bool
	NoOp   bool
	DryRun bool
	State  State
	// Document is the profile as it now is on disk: the re-parsed written
	// file after a commit, or the input document otherwise.
	Document *profile.Document
}

// Engine applies presets to a profile as a transaction: diff, process
// check, backup, mutate a copy, write and verify a temporary file, then
// rename it over the profile. Any failure before the rename leaves the
// profile untouched.
type Engine struct {
	backups   BackupCreator
	guard     ProcessGuard
	logger    *slog.Logger
	rules     map[string]Rule
	stageOpts []fileutil.StageOption
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRules checks every target value against rules before writing.
func WithRules(rules []Rule) EngineOption {
	return func(e *Engine) {
		for _, r := range rules {
			e.rules[r.Key] = r
		}
	}
}

// withStageOptions passes options to fileutil.Stage. Tests use it to
// interrupt the temporary write.
func withStageOptions(opts ...fileutil.StageOption) EngineOption {
	return func(e *Engine) {
		e.stageOpts = append(e.stageOpts, opts...)
	}
}

// NewEngine returns an Engine.
func NewEngine(backups BackupCreator, guard ProcessGuard, opts ...EngineOption) *Engine {
	e := &Engine{
		backups: backups,
		guard:   guard,
		logger:  slog.Default(),
		rules:   make(map[string]Rule),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Diff compares p with the settings in idx.
func (e *Engine) Diff(p Preset, idx *profile.Index) Diff {
	return ComputeDiff(p, idx)
}

// txn tracks one apply.
type txn struct {
	ctx    context.Context
	id     string
	state  State
	logger *slog.Logger
	err    ApplyError
}

func (t *txn) advance(s State) {
	t.logger.Log(t.ctx, logging.LevelTrace, "apply transition", "from", t.state.String(), "to", s.String())
	t.state = s
}

// abort moves to StateAborted and returns the marked ApplyError.
func (t *txn) abort(step Step, key string, err error) error {
	t.logger.Log(t.ctx, logging.LevelTrace, "apply transition", "from", t.state.String(), "to", StateAborted.String(), "step", string(step))
	t.state = StateAborted
	ae := t.err
	ae.Step = step
	ae.Key = key
	ae.Err = err
	t.logger.Warn("apply aborted", "step", string(step), "error", err)
	return markApply(&ae)
}

// Apply applies p to target. It returns a *Result on success and an error
// marked errors.ErrApply otherwise; a refusal because the game is running
// is also marked errors.ErrProcessActive.
func (e *Engine) Apply(ctx context.Context, p Preset, target Target, opts ApplyOptions) (*Result, error) {
	id := uuid.NewString()
	tx := &txn{
		ctx:    ctx,
		id:     id,
		state:  StateIdle,
		logger: e.logger.With("tx", id, "preset", p.ID, "path", target.Path),
		err:    ApplyError{TxID: id, Preset: p.ID, Path: target.Path},
	}
	if target.Doc == nil {
		return nil, tx.abort(StepValidate, "", errors.New("no document to apply to"))
	}

	diff := ComputeDiff(p, profile.NewIndex(target.Doc))
	res := &Result{
		TxID:               id,
		PresetID:           p.ID,
		Changes:            diff.Changes,
		SkippedUnknownKeys: diff.SkippedUnknownKeys,
		Unchanged:          diff.Unchanged,
		DryRun:             opts.DryRun,
		Document:           target.Doc,
	}
	tx.advance(StateDiffComputed)
	if len(diff.SkippedUnknownKeys) > 0 {
		tx.logger.Warn("preset keys not in profile were skipped", "keys", diff.SkippedUnknownKeys)
	}

	if diff.Empty() {
		tx.logger.Info("profile already matches preset")
		tx.advance(StateCommitted)
		res.NoOp = true
		res.State = tx.state
		return res, nil
	}

	for _, c := range diff.Changes {
		if err := profile.CheckReplace(c.Old, c.New); err != nil {
			return nil, tx.abort(StepValidate, c.Key, err)
		}
		if r, ok := e.rules[c.Key]; ok {
			if err := r.Check(c.New); err != nil {
				return nil, tx.abort(StepValidate, c.Key, err)
			}
		}
	}

	running, err := e.guard.IsOwningProcessRunning(ctx)
	if err != nil {
		return nil, tx.abort(StepGuard, "", errors.Wrap(err, "checking for game process"))
	}
	if running {
		if !opts.Force {
			return nil, tx.abort(StepGuard, "", errors.ErrProcessActive)
		}
		tx.logger.Warn("forced apply while game is running")
		res.Forced = true
	}
	tx.advance(StateGuardChecked)

	if opts.DryRun {
		res.State = tx.state
		return res, nil
	}

	info, err := os.Stat(target.Path)
	if err != nil {
		return nil, tx.abort(StepStale, "", err)
	}
	onDisk, err := fileutil.ReadFile(target.Path)
	if err != nil {
		return nil, tx.abort(StepStale, "", err)
	}
	if fileutil.SHA256Hex(onDisk) != target.Doc.Checksum() {
		return nil, tx.abort(StepStale, "", ErrStaleDocument)
	}

	reason := opts.Reason
	if reason == "" {
		reason = "preset:" + p.ID
	}
	b, err := e.backups.Create(target.Path, backup.WithReason(reason), backup.WithTxID(id))
	if err != nil {
		return nil, tx.abort(StepBackup, "", err)
	}
	res.Backup = b
	tx.err.Backup = b
	tx.advance(StateBackedUp)
	tx.logger.Info("profile backed up", "backup", b.ID)

	work := target.Doc.Clone()
	idx := profile.NewIndex(work)
	for _, c := range diff.Changes {
		if _, err := idx.Set(c.Key, c.New); err != nil {
			return nil, tx.abort(StepMutate, c.Key, err)
		}
	}
	tx.advance(StateMutated)

	out := profile.Serialize(work)
	staged, err := fileutil.Stage(target.Path, out, info.Mode().Perm(), e.stageOpts...)
	if err != nil {
		return nil, tx.abort(StepWrite, "", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = staged.Discard()
		}
	}()

	written, key, err := verifyStaged(staged.Name(), out, work, diff.Changes)
	if err != nil {
		return nil, tx.abort(StepVerify, key, err)
	}
	tx.advance(StateVerified)

	if err := ctx.Err(); err != nil {
		return nil, tx.abort(StepCommit, "", err)
	}
	if err := staged.Commit(); err != nil {
		return nil, tx.abort(StepCommit, "", err)
	}
	committed = true
	tx.advance(StateCommitted)

	tx.logger.Info("preset applied", "changed", len(diff.Changes), "skipped", len(diff.SkippedUnknownKeys), "forced", res.Forced)
	res.State = tx.state
	res.Document = written
	return res, nil
}

// verifyStaged reads the staged file back and checks it holds exactly the
// intended bytes, re-parses with the original options, and that every change
// reads back with its new value. It returns the parsed document, or the key
// that failed.
func verifyStaged(path string, want []byte, work *profile.Document, changes []Change) (*profile.Document, string, error) {
	got, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	if !bytes.Equal(got, want) {
		return nil, "", errors.Wrap(ErrVerifyMismatch, "staged bytes differ from serialized document")
	}

	doc, err := work.Reparse(got)
	if err != nil {
		return nil, "", errors.Wrap(err, "re-parsing staged profile")
	}
	if doc.Len() != work.Len() || doc.SettingCount() != work.SettingCount() {
		return nil, "", errors.Wrapf(ErrVerifyMismatch, "record count changed from %d to %d", work.Len(), doc.Len())
	}

	idx := profile.NewIndex(doc)
	for _, c := range changes {
		s, err := idx.Get(c.Key)
		if err != nil {
			return nil, c.Key, err
		}
		if s.Raw != c.New {
			return nil, c.Key, errors.Wrapf(ErrVerifyMismatch, "read back %q, want %q", s.Raw, c.New)
		}
	}
	return doc, "", nil
}

