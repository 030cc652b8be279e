package doctor

import (
	"fmt"
	"os"

	"github.com/thoreinstein/proftune/internal/errors"
)

// Fixer is implemented by checks that can repair what they find. Fix must
// be called after Run.
type Fixer interface {
	// CanFix returns true if the last Run found fixable issues.
	CanFix() bool

	// Fix repairs the fixable issues found by the last Run.
	Fix() []FixResult
}

// FixResult describes the outcome of one repair.
type FixResult struct {
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Error       error  `json:"-"`
}

// PermissionFixer repairs permissions on the profile and its directories.
// Existing bits are kept; the owner gets read/write (and search on
// directories) and group/other lose write.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix returns true if there are any fixable permission issues.
func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// CountFixable returns the number of fixable issues.
func (f *PermissionFixer) CountFixable() int {
	n := 0
	for _, issue := range f.issues {
		if issue.Fixable {
			n++
		}
	}
	return n
}

// Fix applies a chmod for every fixable issue. A path reported twice is
// changed once.
func (f *PermissionFixer) Fix() []FixResult {
	results := make([]FixResult, 0, f.CountFixable())
	done := make(map[string]bool)
	for _, issue := range f.issues {
		if !issue.Fixable || done[issue.Path] {
			continue
		}
		done[issue.Path] = true
		results = append(results, fixIssue(issue))
	}
	return results
}

func fixIssue(issue pathIssue) FixResult {
	result := FixResult{Path: issue.Path}

	info, err := os.Stat(issue.Path)
	if err != nil {
		result.Description = fmt.Sprintf("cannot stat: %v", err)
		result.Error = errors.Wrapf(err, "stat %s", issue.Path)
		return result
	}

	target, err := targetPerm(issue.Type, info.Mode().Perm())
	if err != nil {
		result.Description = err.Error()
		result.Error = err
		return result
	}
	if target == info.Mode().Perm() {
		result.Fixed = true
		result.Description = fmt.Sprintf("already %04o", target)
		return result
	}

	if err := os.Chmod(issue.Path, target); err != nil {
		result.Description = fmt.Sprintf("failed to chmod %04o: %v", target, err)
		result.Error = errors.Wrapf(err, "chmod %04o %s", target, issue.Path)
		return result
	}

	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o -> %04o", info.Mode().Perm(), target)
	return result
}

func targetPerm(kind string, current os.FileMode) (os.FileMode, error) {
	switch kind {
	case "file":
		return (current | 0o600) &^ 0o022, nil
	case "directory":
		return (current | 0o700) &^ 0o022, nil
	}
	return 0, errors.Newf("cannot fix unknown type: %s", kind)
}

// setIssues stores the issues found by Run for a later Fix.
func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}
