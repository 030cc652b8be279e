package doctor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCheck(t *testing.T, name string, res *CheckResult) *MockCheck {
	c := NewMockCheck(t)
	c.EXPECT().Name().Return(name).Maybe()
	c.EXPECT().Category().Return("test").Maybe()
	c.EXPECT().Run(mock.Anything).Return(res).Maybe()
	return c
}

func TestRunner_Checks(t *testing.T) {
	first := newCheck(t, "first", nil)
	r := NewRunner(first)
	r.AddCheck(newCheck(t, "second", nil))
	r.AddCheck(newCheck(t, "third", nil))

	var names []string
	for _, c := range r.Checks() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"first", "second", "third"}, names)

	// Checks returns a copy
	r.Checks()[0] = nil
	assert.Equal(t, first, r.Checks()[0])
}

func TestRunner_Run_Summary(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Severity
		want     Summary
		worst    Severity
	}{
		{"no checks", nil, Summary{}, SeverityPass},
		{"all pass", []Severity{SeverityPass, SeverityPass}, Summary{Passed: 2}, SeverityPass},
		{"info only", []Severity{SeverityPass, SeverityInfo}, Summary{Passed: 1, Info: 1}, SeverityInfo},
		{"warning", []Severity{SeverityWarning, SeverityPass}, Summary{Passed: 1, Warnings: 1}, SeverityWarning},
		{
			"mixed",
			[]Severity{SeverityPass, SeverityError, SeverityWarning, SeverityInfo},
			Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 1},
			SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			for _, s := range tt.statuses {
				r.AddCheck(newCheck(t, "c", &CheckResult{Status: s}))
			}

			report := r.Run(context.Background())

			assert.Len(t, report.Results, len(tt.statuses))
			assert.Equal(t, tt.want, report.Summary)
			assert.Equal(t, len(tt.statuses), report.Summary.Total())
			assert.Equal(t, tt.worst, report.Worst())
			assert.Equal(t, tt.want.Errors > 0, report.HasErrors())
			assert.Equal(t, tt.want.Warnings > 0, report.HasWarnings())
		})
	}
}

func TestRunner_Run_FillsNameAndTiming(t *testing.T) {
	r := NewRunner(
		newCheck(t, "profile-parse", &CheckResult{Status: SeverityPass}),
		newCheck(t, "ignored", &CheckResult{Name: "explicit", Category: "profile", Status: SeverityPass}),
	)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}

	report := r.Run(context.Background())
	require.Len(t, report.Results, 2)

	assert.Equal(t, "profile-parse", report.Results[0].Name)
	assert.Equal(t, "test", report.Results[0].Category)
	assert.Equal(t, "explicit", report.Results[1].Name)
	assert.Equal(t, "profile", report.Results[1].Category)

	assert.Equal(t, time.Millisecond, report.Results[0].Duration)
	assert.Equal(t, 5*time.Millisecond, report.Duration)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, int(time.Millisecond), time.UTC), report.Timestamp)
}

type panicCheck struct{}

func (panicCheck) Name() string     { return "boom" }
func (panicCheck) Category() string { return "test" }
func (panicCheck) Run(context.Context) *CheckResult {
	panic("unreadable")
}

func TestRunner_Run_BrokenChecks(t *testing.T) {
	r := NewRunner(
		panicCheck{},
		newCheck(t, "nil-result", nil),
		newCheck(t, "after", &CheckResult{Status: SeverityPass}),
	)

	report := r.Run(context.Background())
	require.Len(t, report.Results, 3)

	assert.Equal(t, SeverityError, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Message, "unreadable")
	assert.Equal(t, "boom", report.Results[0].Name)
	assert.Equal(t, SeverityError, report.Results[1].Status)
	assert.Equal(t, SeverityPass, report.Results[2].Status)
	assert.Equal(t, 2, report.Summary.Errors)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewMockCheck(t)
	c.EXPECT().Name().Return("game-process")
	c.EXPECT().Category().Return("game")

	report := NewRunner(c).Run(ctx)
	require.Len(t, report.Results, 1)
	assert.Equal(t, SeverityInfo, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Message, "skipped")
	c.AssertNotCalled(t, "Run", mock.Anything)
}

func TestReport_Problems(t *testing.T) {
	r := &Report{Results: []*CheckResult{
		{Name: "a", Status: SeverityPass},
		{Name: "b", Status: SeverityError},
		{Name: "c", Status: SeverityInfo},
		{Name: "d", Status: SeverityWarning},
	}}

	var names []string
	for _, p := range r.Problems() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"b", "d"}, names)

	var empty Report
	assert.Empty(t, empty.Problems())
	assert.Equal(t, SeverityPass, empty.Worst())
	assert.False(t, empty.HasErrors())
	assert.False(t, empty.HasWarnings())
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		sev     Severity
		name    string
		problem bool
	}{
		{SeverityPass, "pass", false},
		{SeverityInfo, "info", false},
		{SeverityWarning, "warning", true},
		{SeverityError, "error", true},
		{Severity(42), "unknown", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.sev.String())
		assert.Equal(t, tt.problem, tt.sev.Problem(), tt.name)
	}

	data, err := json.Marshal(CheckResult{Name: "config", Status: SeverityWarning})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"warning"`)
}
