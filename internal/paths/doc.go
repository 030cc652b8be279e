// Package paths provides cross-platform path resolution for proftune's own
// directories and for the game profile locations it probes.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg. proftune keeps its config under
// ConfigHome, backups under DataHome and logs under StateHome:
//
//	paths.ConfigDir() // ~/.config/proftune
//	paths.BackupDir() // ~/.local/share/proftune/backups
//	paths.LogDir()    // ~/.local/state/proftune/logs
//
// # Profile Candidates
//
// The game writes its profile under the user's Documents folder, in a
// storefront-specific subfolder:
//
//	<Documents>/Battlefield 6/settings/steam/PROFSAVE_profile
//	<Documents>/Battlefield 6/settings/PROFSAVE_profile
//	<Documents>/Battlefield 6/settings/EA App/PROFSAVE_profile
//	<Documents>/Battlefield 6/settings/EA Desktop/PROFSAVE_profile
//	<Documents>/Battlefield 6/settings/Origin/PROFSAVE_profile
//
// <Documents> is tried as the XDG documents dir, ~/Documents and
// ~/OneDrive/Documents. [ProfileCandidates] returns the full ordered list.
package paths
