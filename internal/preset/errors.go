package preset

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/thoreinstein/proftune/internal/backup"
	"github.com/thoreinstein/proftune/internal/errors"
)

var (
	// ErrPresetNotFound is returned by Catalogue.Get for unknown IDs.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrInvalidCatalogue marks a catalogue that fails to load or validate.
	ErrInvalidCatalogue = errors.New("invalid preset catalogue")

	// ErrRuleViolation marks a target value outside its rule's bounds.
	ErrRuleViolation = errors.New("value violates setting rule")

	// ErrStaleDocument is returned when the profile on disk changed after it
	// was parsed.
	ErrStaleDocument = errors.New("profile changed on disk since it was read")

	// ErrVerifyMismatch is returned when the staged file does not read back
	// as the intended document.
	ErrVerifyMismatch = errors.New("written profile does not match the intended changes")
)

// Step names the point of an apply transaction where it failed.
type Step string

const (
	StepValidate Step = "validate"
	StepGuard    Step = "process-check"
	StepStale    Step = "stale-check"
	StepBackup   Step = "backup"
	StepMutate   Step = "mutate"
	StepWrite    Step = "write"
	StepVerify   Step = "verify"
	StepCommit   Step = "commit"
)

// ApplyError reports a failed apply. The profile file is unchanged whenever
// an ApplyError is returned; Backup is set when a backup was taken before
// the failure and can be used for manual recovery.
type ApplyError struct {
	TxID   string
	Preset string
	Path   string
	Step   Step
	Key    string
	Backup *backup.Backup
	Err    error
}

func (e *ApplyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "apply %s to %s failed at %s", e.Preset, e.Path, e.Step)
	if e.Key != "" {
		fmt.Fprintf(&b, " (key %s)", e.Key)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// markApply tags an ApplyError for errors.Classify.
func markApply(ae *ApplyError) error {
	err := errors.Mark(ae, errors.ErrApply)
	if errors.Is(ae.Err, fs.ErrPermission) {
		err = errors.Mark(err, errors.ErrPermission)
	}
	return err
}
