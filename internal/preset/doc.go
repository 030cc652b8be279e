// Package preset holds the preset catalogue and the engine that applies
// presets to a profile.
//
// A [Preset] is a static bundle of target raw values. [ComputeDiff]
// compares one against a parsed profile: keys the profile lacks are
// reported as skipped and never added, and values that already match are
// left out.
//
// [Engine.Apply] runs each apply as a transaction:
//
//	idle -> diff-computed -> guard-checked -> backed-up -> mutated -> verified -> committed
//
// Any step may move to aborted instead, which leaves the profile file
// byte-for-byte unchanged. A backup taken before the failure is kept and
// reported in the [ApplyError]. Applying while the game runs requires
// ApplyOptions.Force and is logged as a warning.
//
// The built-in catalogue is embedded TOML; [LoadCatalogue] merges a user
// catalogue in TOML or YAML over it by preset ID.
package preset
