package doctor

import (
	"context"
	"fmt"
	"time"
)

// Check is a single diagnostic.
type Check interface {
	// Name identifies the check in reports, e.g. "profile-parse".
	Name() string

	// Category groups checks: "config", "profile", "backup", "game".
	Category() string

	Run(ctx context.Context) *CheckResult
}

// Runner runs checks in registration order.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner creates a Runner with the given checks.
func NewRunner(checks ...Check) *Runner {
	return &Runner{
		checks: append([]Check(nil), checks...),
		now:    time.Now,
	}
}

// AddCheck registers c after the existing checks.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Checks returns the registered checks in order.
func (r *Runner) Checks() []Check {
	return append([]Check(nil), r.checks...)
}

// Run executes every check and collects a Report. Once ctx is done the
// remaining checks are reported as skipped. A check that panics or returns
// no result is reported as an error rather than aborting the run.
func (r *Runner) Run(ctx context.Context) *Report {
	start := r.now()
	report := &Report{
		Timestamp: start.UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, c := range r.checks {
		var res *CheckResult
		if err := ctx.Err(); err != nil {
			res = &CheckResult{Status: SeverityInfo, Message: "skipped: " + err.Error()}
		} else {
			began := r.now()
			res = runCheck(ctx, c)
			res.Duration = r.now().Sub(began)
		}
		if res.Name == "" {
			res.Name = c.Name()
		}
		if res.Category == "" {
			res.Category = c.Category()
		}
		report.Results = append(report.Results, res)
		report.Summary.add(res.Status)
	}

	report.Duration = r.now().Sub(start)
	return report
}

func runCheck(ctx context.Context, c Check) (res *CheckResult) {
	defer func() {
		if p := recover(); p != nil {
			res = &CheckResult{Status: SeverityError, Message: fmt.Sprintf("check panicked: %v", p)}
		}
	}()

	res = c.Run(ctx)
	if res == nil {
		res = &CheckResult{Status: SeverityError, Message: "check returned no result"}
	}
	return res
}

// Report is the outcome of a Runner.Run.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Duration  time.Duration  `json:"duration"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors reports whether any check failed.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any check warned.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// Worst returns the highest severity in the report, SeverityPass when empty.
func (r *Report) Worst() Severity {
	worst := SeverityPass
	for _, res := range r.Results {
		if res.Status > worst {
			worst = res.Status
		}
	}
	return worst
}

// Problems returns the warning and error results in run order.
func (r *Report) Problems() []*CheckResult {
	var out []*CheckResult
	for _, res := range r.Results {
		if res.Status.Problem() {
			out = append(out, res)
		}
	}
	return out
}
