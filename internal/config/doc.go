// Package config provides configuration management for the proftune CLI.
//
// # Configuration File
//
// The configuration file is config.yaml in the current directory or in
// ~/.config/proftune (PROFTUNE_CONFIG_DIR overrides the latter):
//
//	version: 1
//	profile:
//	  path: ~/Documents/Battlefield 6/settings/steam/PROFSAVE_profile
//	  allow_unterminated: false
//	backup:
//	  dir: ~/backups/bf6
//	  keep: 20
//	process:
//	  check: true
//	presets:
//	  file: ~/.config/proftune/presets.yaml
//	log:
//	  level: info
//
// Every key can be overridden from the environment with the PROFTUNE_
// prefix and dots replaced by underscores, e.g. PROFTUNE_BACKUP_KEEP=5.
//
// # Loading Configuration
//
// Call [Init] once, then [Load]. An empty path searches the default
// locations and falls back to defaults; an explicit path must exist:
//
//	config.Init()
//	cfg, err := config.Load("")
//
// Loaded configurations are validated; failures are marked
// errors.ErrInvalidConfig. [Set] edits one key in a config file and
// validates the result before writing it atomically.
package config
