package runner

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/suite"
)

// FailureReporter persists debug artifacts for a failed suite. The returned
// path names the artifact directory for the final report; reporter errors
// must never change a test result, so the runner only logs them.
type FailureReporter interface {
	ReportSuite(result *SuiteResult, s *suite.TestSuite) (string, error)
}

// Runner executes suites sequentially. Suites and cases run in declaration
// order, each case against a fresh output document, so two runs over an
// unchanged backend produce identical results.
type Runner struct {
	exec     Executor
	reporter FailureReporter // nil disables debug artifacts
}

// New creates a Runner using exec for command invocations.
func New(exec Executor) *Runner {
	return &Runner{exec: exec}
}

// SetFailureReporter enables debug-artifact capture for failed suites.
func (r *Runner) SetFailureReporter(rep FailureReporter) {
	r.reporter = rep
}

// Run executes every suite and aggregates the outcome. Individual case
// failures, including per-case infrastructure errors, never stop the run;
// only an unreachable endpoint aborts it, returning ErrEndpointUnreachable
// alongside the partial results collected so far.
func (r *Runner) Run(ctx context.Context, suites []*suite.TestSuite) (*RunResult, error) {
	runID := uuid.NewString()
	log := zerolog.Ctx(ctx).With().
		Str("component", "runner").
		Str("run_id", runID).
		Logger()
	ctx = log.WithContext(ctx)

	result := &RunResult{RunID: runID}
	log.Info().Int("suites", len(suites)).Msg("starting test run")

	for _, s := range suites {
		suiteResult, err := r.runSuite(ctx, s)
		result.Suites = append(result.Suites, *suiteResult)
		if err != nil {
			log.Error().Err(err).Str("suite", s.ApplicationSlug).Msg("run aborted")
			return result, err
		}
	}

	passed, total := result.CaseCounts()
	log.Info().
		Bool("all_passed", result.AllPassed()).
		Int("cases_passed", passed).
		Int("cases_total", total).
		Msg("test run finished")
	return result, nil
}

// runSuite executes one suite's cases in order. The returned error is
// non-nil only for run-aborting conditions.
func (r *Runner) runSuite(ctx context.Context, s *suite.TestSuite) (*SuiteResult, error) {
	log := zerolog.Ctx(ctx)
	log.Info().
		Str("suite", s.ApplicationSlug).
		Str("version", s.ApplicationVersion).
		Int("cases", len(s.Cases)).
		Msg("running suite")

	suiteResult := &SuiteResult{
		ApplicationSlug:    s.ApplicationSlug,
		ApplicationVersion: s.ApplicationVersion,
		SourceFile:         s.SourceFile,
		Passed:             true,
	}

	for i := range s.Cases {
		tc := &s.Cases[i]
		caseResult := RunCase(ctx, r.exec, s, tc)
		suiteResult.Cases = append(suiteResult.Cases, caseResult)
		if !caseResult.Passed {
			suiteResult.Passed = false
		}

		if caseResult.SetupErr != nil && stderrors.Is(caseResult.SetupErr, errors.ErrEndpointUnreachable) {
			r.report(ctx, suiteResult, s)
			return suiteResult, errors.Wrap(caseResult.SetupErr, "cannot reach command executor")
		}
	}

	if !suiteResult.Passed {
		r.report(ctx, suiteResult, s)
	}
	return suiteResult, nil
}

// report captures debug artifacts for a failed suite when a reporter is
// configured. Reporter failures are logged and swallowed: a broken debug
// directory must not mask the underlying test failure.
func (r *Runner) report(ctx context.Context, suiteResult *SuiteResult, s *suite.TestSuite) {
	if r.reporter == nil {
		return
	}
	dir, err := r.reporter.ReportSuite(suiteResult, s)
	log := zerolog.Ctx(ctx)
	if err != nil {
		log.Warn().Err(err).Str("suite", s.ApplicationSlug).Msg("failed to write debug artifacts")
		return
	}
	log.Info().Str("suite", s.ApplicationSlug).Str("dir", dir).Msg("debug artifacts written")
}
