// Package logging provides structured logging for proftune using slog.
//
// Console output is either a colourised text format tuned for terminals or
// JSON. A log file, when configured, always receives JSON:
//
//	logger := logging.New(logging.Options{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//		File:   f,
//	})
//	logger.Info("preset applied", "preset", "esports", "changed", 12)
//
// [LevelTrace] sits below debug and carries the per-transition logs of
// preset applies. [NewContext] and [FromContext] carry the configured logger
// through cobra command contexts.
//
// Tests use [ForTest] so log lines land next to the failing assertion.
package logging
