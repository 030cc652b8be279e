package doctor

import (
	"context"

	"github.com/thoreinstein/proftune/internal/config"
)

// ConfigCheck reports which config file is in effect and whether it loaded.
type ConfigCheck struct {
	cfg     *config.Config
	file    string
	loadErr error
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check over the outcome of config.Load. file is
// the config file used, empty when only defaults apply.
func NewConfigCheck(cfg *config.Config, file string, loadErr error) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, file: file, loadErr: loadErr}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run reports the load error, if any, and the effective settings.
func (c *ConfigCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  make(map[string]any),
	}

	if c.loadErr != nil {
		result.Status = SeverityError
		result.Message = c.loadErr.Error()
		result.FixHint = "run 'proftune config edit' or remove the file to use defaults"
		return result
	}

	cfg := c.cfg
	if cfg == nil {
		cfg = config.Default()
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		result.Status = SeverityError
		result.Message = msgs[0]
		result.Details["errors"] = msgs
		return result
	}

	result.Details["backup_dir"] = cfg.Backup.Dir
	result.Details["backup_keep"] = cfg.Backup.Keep
	result.Details["process_check"] = cfg.Process.Check
	if cfg.Presets.File != "" {
		result.Details["presets_file"] = cfg.Presets.File
	}

	if c.file == "" {
		result.Status = SeverityInfo
		result.Message = "no config file; using defaults"
		return result
	}
	result.Details["file"] = c.file
	result.Status = SeverityPass
	result.Message = "loaded " + c.file
	return result
}
