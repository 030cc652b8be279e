package doctor

import (
	"context"
	"fmt"

	"github.com/thoreinstein/proftune/internal/backup"
)

// BackupStoreCheck verifies every stored backup against its manifest.
type BackupStoreCheck struct {
	mgr *backup.Manager
}

var _ Check = (*BackupStoreCheck)(nil)

// NewBackupStoreCheck creates a check over mgr's store.
func NewBackupStoreCheck(mgr *backup.Manager) *BackupStoreCheck {
	return &BackupStoreCheck{mgr: mgr}
}

// Name returns the unique identifier for this check.
func (c *BackupStoreCheck) Name() string {
	return "backup-store"
}

// Category returns the grouping for this check.
func (c *BackupStoreCheck) Category() string {
	return "backup"
}

// Run lists and verifies backups.
func (c *BackupStoreCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"dir": c.mgr.Dir()},
	}

	backups, err := c.mgr.List()
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}
	result.Details["count"] = len(backups)
	if len(backups) == 0 {
		result.Status = SeverityInfo
		result.Message = "no backups yet"
		return result
	}

	var corrupted []string
	for _, b := range backups {
		if err := c.mgr.Verify(b); err != nil {
			corrupted = append(corrupted, b.ID)
		}
	}
	result.Details["latest"] = backups[0].ID

	switch {
	case len(corrupted) > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d of %d backup(s) fail verification", len(corrupted), len(backups))
		result.Details["corrupted"] = corrupted
		result.FixHint = "delete them with 'proftune backup delete ID'"
	case len(backups) > c.mgr.RetentionCount():
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("%d backups verified, %d over the retention count", len(backups), len(backups)-c.mgr.RetentionCount())
		result.FixHint = "proftune backup prune"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d backup(s) verified", len(backups))
	}
	return result
}
