package doctor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/thoreinstein/proftune/internal/discovery"
	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/profile"
)

// DiscoveryCheck reports which candidate locations hold a profile.
type DiscoveryCheck struct {
	resolver *discovery.Resolver
}

var _ Check = (*DiscoveryCheck)(nil)

// NewDiscoveryCheck creates a check over the resolver's candidates.
func NewDiscoveryCheck(r *discovery.Resolver) *DiscoveryCheck {
	return &DiscoveryCheck{resolver: r}
}

// Name returns the unique identifier for this check.
func (c *DiscoveryCheck) Name() string {
	return "profile-discovery"
}

// Category returns the grouping for this check.
func (c *DiscoveryCheck) Category() string {
	return "profile"
}

// Run probes every candidate and resolves the active profile.
func (c *DiscoveryCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  make(map[string]any),
	}

	probes := c.resolver.Probe()
	var found []string
	locations := make([]map[string]any, 0, len(probes))
	for _, p := range probes {
		loc := map[string]any{
			"path":   p.Path,
			"status": string(p.Status),
		}
		if p.Err != nil {
			loc["error"] = p.Err.Error()
		}
		locations = append(locations, loc)
		if p.Status == discovery.StatusFound {
			found = append(found, p.Path)
		}
	}
	result.Details["locations"] = locations
	result.Details["checked"] = len(probes)

	path, err := c.resolver.Resolve()
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		result.FixHint = "pass --profile PATH or set profile.path in the config"
		return result
	}

	result.Details["active"] = path
	if len(found) > 1 {
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("using %s (%d profiles found)", path, len(found))
		return result
	}
	result.Status = SeverityPass
	result.Message = "using " + path
	return result
}

// ParseCheck parses the active profile and reports what it holds.
type ParseCheck struct {
	resolver *discovery.Resolver
	opts     []profile.Option
}

var _ Check = (*ParseCheck)(nil)

// NewParseCheck creates a parse check for the profile r resolves to.
func NewParseCheck(r *discovery.Resolver, opts ...profile.Option) *ParseCheck {
	return &ParseCheck{resolver: r, opts: opts}
}

// Name returns the unique identifier for this check.
func (c *ParseCheck) Name() string {
	return "profile-parse"
}

// Category returns the grouping for this check.
func (c *ParseCheck) Category() string {
	return "profile"
}

// Run reads and parses the profile.
func (c *ParseCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  make(map[string]any),
	}

	path, err := c.resolver.Resolve()
	if err != nil {
		result.Status = SeverityInfo
		result.Message = "skipped: no profile located"
		return result
	}
	result.Details["path"] = path

	data, err := os.ReadFile(path)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("read error: %v", err)
		return result
	}

	doc, err := profile.Parse(data, c.opts...)
	if err != nil {
		result.Status = SeverityError
		result.Message = formatParseError(err)
		result.FixHint = "restore a backup with 'proftune backup restore' or start the game once to regenerate the file"
		return result
	}

	idx := profile.NewIndex(doc)
	result.Details["records"] = doc.Len()
	result.Details["settings"] = doc.SettingCount()
	result.Details["namespaces"] = idx.Namespaces()
	result.Details["bytes"] = len(data)
	if !bytes.Equal(profile.Serialize(doc), data) {
		result.Status = SeverityError
		result.Message = "profile does not serialize back to the same bytes"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d settings in %d namespaces", doc.SettingCount(), len(idx.Namespaces()))
	return result
}

// formatParseError adds line information to parse failures.
func formatParseError(err error) string {
	var pe *profile.ParseError
	if errors.As(err, &pe) && pe.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %v", pe.Line, pe.Reason)
	}
	return fmt.Sprintf("parse error: %v", err)
}

// PathPermissionCheck checks that the profile and the backup store can be
// written the way apply and restore write them: a temp file created next to
// the target and renamed over it.
type PathPermissionCheck struct {
	PermissionFixer

	resolver  *discovery.Resolver
	backupDir string
}

var _ Check = (*PathPermissionCheck)(nil)
var _ Fixer = (*PathPermissionCheck)(nil)

// NewPathPermissionCheck creates a new path permission check.
func NewPathPermissionCheck(r *discovery.Resolver, backupDir string) *PathPermissionCheck {
	return &PathPermissionCheck{resolver: r, backupDir: backupDir}
}

// Name returns the unique identifier for this check.
func (c *PathPermissionCheck) Name() string {
	return "path-permissions"
}

// Category returns the grouping for this check.
func (c *PathPermissionCheck) Category() string {
	return "filesystem"
}

// Run executes the path and permission diagnostic check.
func (c *PathPermissionCheck) Run(_ context.Context) *CheckResult {
	var issues []pathIssue
	var checked int

	if path, err := c.resolver.Resolve(); err == nil {
		issues = append(issues, c.checkFile(path, "profile")...)
		issues = append(issues, c.checkDirectory(filepath.Dir(path), "profile")...)
		checked += 2
	}

	if c.backupDir != "" {
		issues = append(issues, c.checkDirectory(c.backupDir, "backup")...)
		checked++
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Role        string // "profile" or "backup"
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string // octal representation if available
	Fixable     bool
	FixHint     string
}

// checkFile validates that the profile can be read and replaced.
func (c *PathPermissionCheck) checkFile(path, role string) []pathIssue {
	var issues []pathIssue

	info, err := os.Stat(path)
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Role:     role,
			Type:     "file",
			Problem:  fmt.Sprintf("cannot stat file: %v", err),
			Severity: SeverityError,
		}}
	}

	f, err := os.Open(path)
	if err != nil {
		return []pathIssue{{
			Path:        path,
			Role:        role,
			Type:        "file",
			Problem:     "file is not readable",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		}}
	}
	f.Close()

	// Skip on Windows where Unix permissions don't apply
	if runtime.GOOS == "windows" {
		return issues
	}

	perm := info.Mode().Perm()
	if perm&0o200 == 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Role:        role,
			Type:        "file",
			Problem:     "file is read-only; the game may also refuse to save settings",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		})
	}
	if perm&0o002 != 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Role:        role,
			Type:        "file",
			Problem:     "file is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		})
	}

	return issues
}

// checkDirectory validates a directory can hold staged files. A missing
// backup directory is fine; it is created on first use.
func (c *PathPermissionCheck) checkDirectory(path, role string) []pathIssue {
	var issues []pathIssue

	info, err := os.Stat(path)
	if os.IsNotExist(err) && role == "backup" {
		return nil
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Role:     role,
			Type:     "directory",
			Problem:  fmt.Sprintf("cannot stat directory: %v", err),
			Severity: SeverityError,
		}}
	}

	if !info.IsDir() {
		return []pathIssue{{
			Path:     path,
			Role:     role,
			Type:     "directory",
			Problem:  "expected directory but found file",
			Severity: SeverityError,
		}}
	}

	if !isDirectoryWritable(path) {
		issues = append(issues, pathIssue{
			Path:        path,
			Role:        role,
			Type:        "directory",
			Problem:     "directory is not writable; atomic writes need a temp file here",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod u+w " + path,
		})
	}

	if runtime.GOOS != "windows" && info.Mode().Perm()&0o002 != 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Role:        role,
			Type:        "directory",
			Problem:     "directory is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 755 " + path,
		})
	}

	return issues
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) bool {
	tmpFile, err := os.CreateTemp(path, ".proftune-doctor-*")
	if err != nil {
		return false
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	os.Remove(tmpPath)
	return true
}

// buildResult constructs the final CheckResult from accumulated issues.
func (c *PathPermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("all %d paths are writable", checked),
		}
	}

	highest := SeverityPass
	for _, issue := range issues {
		if issue.Severity > highest {
			highest = issue.Severity
		}
	}

	issueDetails := make([]map[string]any, 0, len(issues))
	var fixHints []string
	for _, issue := range issues {
		m := map[string]any{
			"path":     issue.Path,
			"role":     issue.Role,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			m["permissions"] = issue.Permissions
		}
		if issue.FixHint != "" {
			m["fix_hint"] = issue.FixHint
			if issue.Fixable {
				fixHints = append(fixHints, issue.FixHint)
			}
		}
		issueDetails = append(issueDetails, m)
	}

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   highest,
		Message:  fmt.Sprintf("found %d permission issue(s) across %d paths", len(issues), checked),
		Details: map[string]any{
			"checked_paths": checked,
			"issue_count":   len(issues),
			"issues":        issueDetails,
		},
		Fixable: c.CanFix(),
	}
	if len(fixHints) > 0 {
		result.FixHint = strings.Join(fixHints, "; ")
	}
	return result
}

// formatPermissions returns a human-readable permission string (e.g., "0644").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
