// Package runner executes test suites: it resolves case parameters, drives
// the external command executor, evaluates expected results against the
// parsed output document, and aggregates pass/fail counts across cases,
// suites and the whole run.
package runner

import (
	"github.com/qcrbox/cifprobe/internal/expect"
	"github.com/qcrbox/cifprobe/internal/qcrbox"
)

// CaseResult is the outcome of executing one test case.
type CaseResult struct {
	CaseName string
	Passed   bool

	// Status is the executor-reported status, empty when the invocation
	// itself failed before reaching a terminal status.
	Status qcrbox.Status

	// OutputText is the raw output document, kept for debug artifacts.
	OutputText string

	// Checks holds one outcome per expected result, in declaration order.
	Checks []expect.Outcome

	// SetupErr records an infrastructure or definition failure (unreadable
	// file parameter, transport error, unparseable output) that aborted the
	// case. It is distinct from assertion failures: when set, Checks may be
	// incomplete and the case counts as failed.
	SetupErr error
}

// FailedChecks returns the outcomes that did not pass.
func (r *CaseResult) FailedChecks() []expect.Outcome {
	var failed []expect.Outcome
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// SuiteResult aggregates the case results of one suite.
type SuiteResult struct {
	ApplicationSlug    string
	ApplicationVersion string
	SourceFile         string
	Passed             bool
	Cases              []CaseResult
}

// CaseCounts returns passed and total case counts.
func (r *SuiteResult) CaseCounts() (passed, total int) {
	for _, c := range r.Cases {
		if c.Passed {
			passed++
		}
	}
	return passed, len(r.Cases)
}

// CheckCounts returns passed and total assertion counts across all cases.
func (r *SuiteResult) CheckCounts() (passed, total int) {
	for _, c := range r.Cases {
		for _, check := range c.Checks {
			if check.Passed {
				passed++
			}
			total++
		}
	}
	return passed, total
}

// RunResult is the aggregate outcome of one run across all suites.
// It is appended to sequentially by the runner; nothing reads it until the
// run completes.
type RunResult struct {
	RunID  string
	Suites []SuiteResult
}

// AllPassed reports whether every suite passed.
func (r *RunResult) AllPassed() bool {
	for _, s := range r.Suites {
		if !s.Passed {
			return false
		}
	}
	return true
}

// SuiteCounts returns passed and total suite counts.
func (r *RunResult) SuiteCounts() (passed, total int) {
	for _, s := range r.Suites {
		if s.Passed {
			passed++
		}
	}
	return passed, len(r.Suites)
}

// CaseCounts returns run-wide passed and total case counts.
func (r *RunResult) CaseCounts() (passed, total int) {
	for _, s := range r.Suites {
		p, t := s.CaseCounts()
		passed += p
		total += t
	}
	return passed, total
}

// CheckCounts returns run-wide passed and total assertion counts.
func (r *RunResult) CheckCounts() (passed, total int) {
	for _, s := range r.Suites {
		p, t := s.CheckCounts()
		passed += p
		total += t
	}
	return passed, total
}
