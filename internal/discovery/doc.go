// Package discovery locates the game's profile file.
//
// [Resolver.Resolve] walks a fixed, ordered list of candidate locations
// (see paths.ProfileCandidates) and returns the first non-empty regular
// file. An explicit override replaces the search entirely. When automatic
// discovery fails, [Resolver.ResolveManual] validates a path supplied by the
// user.
//
// Every error is marked with errors.ErrDiscovery.
package discovery
