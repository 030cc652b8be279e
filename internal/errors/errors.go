package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, corrupted files).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Failure classes of the profile engine. Component errors are marked with
// one of these so callers can branch on the class without knowing the
// component's own sentinels.
var (
	// ErrDiscovery indicates no profile file could be located, or an
	// explicitly given path is unusable.
	ErrDiscovery = errors.New("profile discovery failed")

	// ErrParse indicates the profile bytes are structurally corrupt.
	ErrParse = errors.New("profile parse failed")

	// ErrPermission indicates a file could not be read or written due to
	// access rights.
	ErrPermission = errors.New("permission denied")

	// ErrProcessActive indicates the game is running and a write was refused.
	ErrProcessActive = errors.New("game process is running")

	// ErrBackup indicates a snapshot could not be created or verified.
	ErrBackup = errors.New("backup failed")

	// ErrApply indicates a preset application aborted. The profile file is
	// unchanged.
	ErrApply = errors.New("apply failed")

	// ErrRestore indicates a backup could not be restored. The target file is
	// unchanged.
	ErrRestore = errors.New("restore failed")
)

// New returns an error with a stack trace.
func New(msg string) error {
	return errors.NewWithDepth(1, msg)
}

// Newf returns a formatted error with a stack trace.
func Newf(format string, args ...any) error {
	return errors.NewWithDepthf(1, format, args...)
}

// Errorf is an alias of Newf. Use %w to wrap a cause.
func Errorf(format string, args ...any) error {
	return errors.NewWithDepthf(1, format, args...)
}

// Wrap annotates err with msg. Wrap(nil, ...) returns nil.
func Wrap(err error, msg string) error {
	return errors.WrapWithDepth(1, err, msg)
}

// Wrapf annotates err with a formatted message. Wrapf(nil, ...) returns nil.
func Wrapf(err error, format string, args ...any) error {
	return errors.WrapWithDepthf(1, err, format, args...)
}

// Mark makes errors.Is(err, reference) report true without changing the
// message of err.
func Mark(err, reference error) error {
	return errors.Mark(err, reference)
}

// Is reports whether any error in err's chain matches reference.
func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the next error in err's chain.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join combines errs into one error. Nil entries are dropped.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewExitErrorWithSuggestion creates an ExitError with a suggestion.
func NewExitErrorWithSuggestion(err error, code int, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       code,
		Suggestion: suggestion,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: proftune doctor",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Classify converts err into an ExitError using the failure class it is
// marked with. An err that already is an ExitError is returned as is.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	switch {
	case errors.Is(err, ErrProcessActive):
		return NewUserError(err, "Close the game first, or re-run with --force")
	case errors.Is(err, ErrPermission):
		return NewSystemError(err, "Check the file permissions, or re-run with elevated privileges")
	case errors.Is(err, ErrDiscovery):
		return NewUserError(err, "Pass --profile <path> or set profile.path in the config file")
	case errors.Is(err, ErrParse):
		return NewSystemError(err, "The profile looks corrupted. Run: proftune backup restore --latest")
	case errors.Is(err, ErrRestore):
		return NewSystemError(err, "Run: proftune backup verify")
	case errors.Is(err, ErrBackup):
		return NewSystemError(err, "Check that the backup directory is writable (backup.dir)")
	case errors.Is(err, ErrApply):
		return NewSystemError(err, "The profile was not modified. Run: proftune doctor")
	case errors.Is(err, ErrInvalidConfig):
		return NewConfigError(err)
	case errors.Is(err, ErrNotFound):
		return NewExitError(err, ExitUser)
	}
	return NewExitError(err, ExitSystem)
}
