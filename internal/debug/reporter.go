// Package debug captures on-disk artifacts for failed suites: a summary of
// every failed case plus the raw output document each one produced, so a
// failing run can be inspected without re-executing any command.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/qcrbox/cifprobe/internal/clock"
	"github.com/qcrbox/cifprobe/internal/runner"
	"github.com/qcrbox/cifprobe/internal/suite"
)

// dirTimeFormat names artifact directories; it sorts lexically by capture
// time and contains no characters that need escaping on any platform.
const dirTimeFormat = "20060102_150405"

// Reporter writes failure artifacts beneath a base directory. It implements
// runner.FailureReporter.
type Reporter struct {
	baseDir string
	clk     clock.Clock
	logger  zerolog.Logger
}

// NewReporter creates a reporter writing under baseDir.
func NewReporter(baseDir string, clk clock.Clock, logger zerolog.Logger) *Reporter {
	return &Reporter{baseDir: baseDir, clk: clk, logger: logger}
}

var _ runner.FailureReporter = (*Reporter)(nil)

// ReportSuite writes the artifacts for one failed suite into a fresh
// directory named <baseDir>/<timestamp>_<application-slug> and returns its
// path. Partial writes are possible; the summary is written last so its
// presence signals a complete capture.
func (r *Reporter) ReportSuite(result *runner.SuiteResult, s *suite.TestSuite) (string, error) {
	dir := filepath.Join(r.baseDir, r.clk.Now().Format(dirTimeFormat)+"_"+sanitize(result.ApplicationSlug))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create debug directory: %w", err)
	}

	for i := range result.Cases {
		c := &result.Cases[i]
		if c.Passed || c.OutputText == "" {
			continue
		}
		path := filepath.Join(dir, sanitize(c.CaseName)+"_result.cif")
		if err := os.WriteFile(path, []byte(c.OutputText), 0o640); err != nil {
			r.logger.Warn().Err(err).Str("path", path).Msg("failed to write output artifact")
		}
	}

	summary := r.renderSummary(result, s)
	path := filepath.Join(dir, "summary.log")
	if err := os.WriteFile(path, []byte(summary), 0o640); err != nil {
		return dir, fmt.Errorf("failed to write summary: %w", err)
	}
	return dir, nil
}

// renderSummary builds the plain-text summary: the suite identity and, for
// each failed case, the command, its parameters, the reported status and
// every failed check with its diagnostic.
func (r *Reporter) renderSummary(result *runner.SuiteResult, s *suite.TestSuite) string {
	var b strings.Builder
	fmt.Fprintf(&b, "suite: %s %s\n", result.ApplicationSlug, result.ApplicationVersion)
	fmt.Fprintf(&b, "source: %s\n", result.SourceFile)
	fmt.Fprintf(&b, "captured: %s\n\n", r.clk.Now().Format("2006-01-02 15:04:05 MST"))

	cases := make(map[string]*suite.TestCase, len(s.Cases))
	for i := range s.Cases {
		cases[s.Cases[i].Name] = &s.Cases[i]
	}

	for i := range result.Cases {
		c := &result.Cases[i]
		if c.Passed {
			continue
		}
		fmt.Fprintf(&b, "case: %s\n", c.CaseName)
		if tc, ok := cases[c.CaseName]; ok {
			fmt.Fprintf(&b, "  command: %s\n", tc.CommandName)
			for _, p := range tc.Parameters {
				fmt.Fprintf(&b, "  parameter %s: %s\n", p.Name, describeParameter(p))
			}
		}
		if c.Status != "" {
			fmt.Fprintf(&b, "  status: %s\n", c.Status)
		}
		if c.SetupErr != nil {
			fmt.Fprintf(&b, "  error: %v\n", c.SetupErr)
		}
		for _, check := range c.FailedChecks() {
			fmt.Fprintf(&b, "  failed %s: %s\n", check.Check, check.Detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// describeParameter summarizes a parameter without dumping file content.
func describeParameter(p suite.InputParameter) string {
	switch p.Kind {
	case suite.ParamExternalFile:
		return fmt.Sprintf("file %s (uploaded as %s)", p.Path, p.UploadName())
	case suite.ParamInternalFile:
		return fmt.Sprintf("inline content, %d bytes (uploaded as %s)", len(p.Content), p.UploadName())
	default:
		return fmt.Sprintf("%v", p.Value)
	}
}

// sanitize makes a name safe for use as a path component.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
