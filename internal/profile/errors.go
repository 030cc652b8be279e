package profile

import (
	"fmt"

	"github.com/thoreinstein/proftune/internal/errors"
)

// Reasons a profile is rejected by Parse.
var (
	ErrEmpty         = errors.New("profile is empty")
	ErrBinary        = errors.New("profile contains NUL bytes")
	ErrTruncated     = errors.New("profile is truncated: last line has no terminator")
	ErrNoSettings    = errors.New("profile contains no settings")
	ErrMissingHeader = errors.New("profile header marker missing")
	ErrDuplicateKey  = errors.New("duplicate setting key")
)

// Errors returned by Index.
var (
	ErrKeyNotFound  = errors.New("setting not found")
	ErrInvalidValue = errors.New("invalid setting value")
	ErrTypeMismatch = errors.New("value type does not match setting")
)

// ParseError describes why a byte stream is not an acceptable profile.
// Errors returned by Parse are marked with errors.ErrParse.
type ParseError struct {
	// Line is the 1-based line the problem was found on, 0 for whole-file
	// problems.
	Line int
	// Key is the setting involved, if any.
	Key string
	// FirstLine is the line a duplicated key was first seen on.
	FirstLine int
	// Reason is one of the Err* sentinels above.
	Reason error
}

func (e *ParseError) Error() string {
	switch {
	case e.Key != "" && e.FirstLine > 0:
		return fmt.Sprintf("line %d: %v %q (first seen on line %d)", e.Line, e.Reason, e.Key, e.FirstLine)
	case e.Key != "":
		return fmt.Sprintf("line %d: %v %q", e.Line, e.Reason, e.Key)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Reason)
	}
	return e.Reason.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}

func parseError(pe *ParseError) error {
	return errors.Mark(pe, errors.ErrParse)
}
