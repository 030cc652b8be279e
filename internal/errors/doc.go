// Package errors provides error handling conventions for proftune.
//
// It wraps github.com/cockroachdb/errors so that every package imports a
// single errors package, defines the failure classes of the profile engine,
// and carries the ExitError type used by the CLI.
//
// # Failure Classes
//
// Component errors are marked with one class sentinel ([ErrDiscovery],
// [ErrParse], [ErrPermission], [ErrProcessActive], [ErrBackup], [ErrApply],
// [ErrRestore]) using [Mark]. Callers test the class with [Is]:
//
//	if errors.Is(err, errors.ErrProcessActive) {
//	    // ask the user to close the game
//	}
//
// The component's own sentinel stays in the chain, so
// errors.Is(err, preset.ErrStaleDocument) keeps working too.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, game running)
//   - ExitSystem (2): System-related error (I/O, permissions, corrupted files)
//
// [Classify] maps a failure class to an [ExitError] with an actionable
// suggestion.
package errors
