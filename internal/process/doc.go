// Package process tells whether the game is running.
//
// The game rewrites its profile when it exits, so a profile edited while it
// runs is silently lost. [Detector] answers a single question,
// IsOwningProcessRunning, by listing host processes (/proc on Linux,
// tasklist on Windows, ps elsewhere) and matching executable names case
// insensitively with or without ".exe".
//
// [Static] and [Disabled] are fixed-answer guards for tests and for
// configurations that turn the check off.
package process
