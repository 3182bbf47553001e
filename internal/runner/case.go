package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/qcrbox/cifprobe/internal/cif"
	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/expect"
	"github.com/qcrbox/cifprobe/internal/qcrbox"
	"github.com/qcrbox/cifprobe/internal/suite"
)

// Executor is the command-execution contract the runner consumes. The
// production implementation is qcrbox.Client; tests supply fakes.
type Executor interface {
	Invoke(ctx context.Context, req qcrbox.Request) (*qcrbox.Invocation, error)
}

// RunCase executes one test case: parameter resolution, a single command
// invocation, and in-order evaluation of every expected result. A failing
// assertion never stops evaluation of the remaining assertions; only
// infrastructure failures (unreadable file parameter, transport error,
// unparseable output) abort the case early via SetupErr.
func RunCase(ctx context.Context, exec Executor, s *suite.TestSuite, tc *suite.TestCase) CaseResult {
	log := zerolog.Ctx(ctx).With().
		Str("component", "runner").
		Str("suite", s.ApplicationSlug).
		Str("case", tc.Name).
		Logger()

	result := CaseResult{CaseName: tc.Name}

	params, err := resolveParameters(s, tc)
	if err != nil {
		log.Error().Err(err).Msg("parameter resolution failed")
		result.SetupErr = err
		return result
	}

	inv, err := exec.Invoke(ctx, qcrbox.Request{
		ApplicationSlug:    s.ApplicationSlug,
		ApplicationVersion: s.ApplicationVersion,
		CommandName:        tc.CommandName,
		Parameters:         params,
	})
	if err != nil {
		log.Error().Err(err).Str("command", tc.CommandName).Msg("command invocation failed")
		result.SetupErr = errors.Wrapf(err, "invocation of %q failed", tc.CommandName)
		return result
	}
	result.Status = inv.Status
	result.OutputText = inv.OutputText

	log.Debug().
		Str("status", string(inv.Status)).
		Int("output_bytes", len(inv.OutputText)).
		Msg("command completed")

	// The document is parsed once and owned by this case alone.
	var doc *cif.Document
	if inv.OutputText != "" {
		doc, err = cif.Parse(inv.OutputText)
		if err != nil {
			log.Error().Err(err).Msg("output document unparseable")
			result.SetupErr = errors.Wrap(err, "failed to parse command output")
			return result
		}
	}

	result.Checks = make([]expect.Outcome, 0, len(tc.Expected))
	for _, assertion := range tc.Expected {
		result.Checks = append(result.Checks, evaluateAssertion(assertion, inv, doc))
	}

	result.Passed = true
	for _, check := range result.Checks {
		if !check.Passed {
			result.Passed = false
			break
		}
	}
	return result
}

// evaluateAssertion dispatches one expected result. Document assertions
// against an invocation that produced no output are reported as failures
// with an output-unavailable diagnostic; they are never evaluated against
// an empty document, so "entry missing" diagnostics always mean the entry
// was genuinely absent from real output.
func evaluateAssertion(assertion expect.Assertion, inv *qcrbox.Invocation, doc *cif.Document) expect.Outcome {
	if statusAssertion, ok := assertion.(expect.Status); ok {
		return expect.EvaluateStatus(statusAssertion, inv.Status)
	}
	if doc == nil {
		return expect.Outcome{
			Check:  assertion.CheckName(),
			Passed: false,
			Detail: fmt.Sprintf("no output document available (command status %q); cannot check %s",
				inv.Status, assertion.CheckName()),
		}
	}
	return expect.Evaluate(assertion, doc)
}

// resolveParameters turns the case's declared parameters into executor
// parameters. External files are read fully here and released before the
// invocation; a missing file is an infrastructure error for the case, not
// an assertion failure.
func resolveParameters(s *suite.TestSuite, tc *suite.TestCase) ([]qcrbox.Parameter, error) {
	params := make([]qcrbox.Parameter, 0, len(tc.Parameters))
	for _, p := range tc.Parameters {
		switch p.Kind {
		case suite.ParamSimple:
			params = append(params, qcrbox.Parameter{Name: p.Name, Value: p.Value})

		case suite.ParamExternalFile:
			path := p.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(s.BaseDir, path)
			}
			content, err := os.ReadFile(path) //nolint:gosec // paths come from the operator's suite files
			if err != nil {
				return nil, errors.Wrapf(errors.ErrFileParameter,
					"parameter %q: cannot read %s: %v", p.Name, path, err)
			}
			params = append(params, qcrbox.Parameter{
				Name:        p.Name,
				FileContent: content,
				UploadName:  p.UploadName(),
			})

		case suite.ParamInternalFile:
			params = append(params, qcrbox.Parameter{
				Name:        p.Name,
				FileContent: []byte(p.Content),
				UploadName:  p.UploadName(),
			})

		default:
			return nil, errors.Wrapf(errors.ErrCaseInvalid, "parameter %q has unknown kind %v", p.Name, p.Kind)
		}
	}
	return params, nil
}
