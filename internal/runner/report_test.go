package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/cifprobe/internal/expect"
	"github.com/qcrbox/cifprobe/internal/qcrbox"
	"github.com/qcrbox/cifprobe/internal/testutil"
)

func sampleRunResult() *RunResult {
	return &RunResult{
		RunID: "run-123",
		Suites: []SuiteResult{
			{
				ApplicationSlug:    "olex2",
				ApplicationVersion: "1.5",
				SourceFile:         "olex2.yaml",
				Passed:             false,
				Cases: []CaseResult{
					{
						CaseName: "refine_structure",
						Passed:   true,
						Status:   qcrbox.StatusSuccessful,
						Checks: []expect.Outcome{
							{Check: "status_test", Passed: true, Detail: "ok"},
						},
					},
					{
						CaseName: "check_cell",
						Passed:   false,
						Status:   qcrbox.StatusSuccessful,
						Checks: []expect.Outcome{
							{Check: "within__cell_length_a", Passed: false, Detail: "value 12 is outside [10, 11]"},
						},
					},
					{
						CaseName: "broken_setup",
						Passed:   false,
						SetupErr: testutil.ErrMockNetwork,
					},
				},
			},
		},
	}
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	require.NoError(t, WriteReport(&buf, sampleRunResult()))
	out := buf.String()

	assert.Contains(t, out, "FAIL olex2 1.5 (olex2.yaml)")
	assert.Contains(t, out, "PASS refine_structure")
	assert.Contains(t, out, "FAIL check_cell")
	assert.Contains(t, out, "value 12 is outside [10, 11]")
	assert.Contains(t, out, "error: network error")
	assert.Contains(t, out, "run run-123: FAILED")

	// The summary table carries the three aggregate rows.
	assert.Contains(t, out, "Suites")
	assert.Contains(t, out, "Cases")
	assert.Contains(t, out, "Assertions")
}

func TestWriteReportAllPassed(t *testing.T) {
	t.Parallel()

	result := &RunResult{
		RunID: "run-ok",
		Suites: []SuiteResult{{
			ApplicationSlug:    "olex2",
			ApplicationVersion: "1.5",
			SourceFile:         "olex2.yaml",
			Passed:             true,
			Cases: []CaseResult{{
				CaseName: "refine_structure",
				Passed:   true,
				Checks:   []expect.Outcome{{Check: "status_test", Passed: true}},
			}},
		}},
	}

	var buf strings.Builder
	require.NoError(t, WriteReport(&buf, result))
	out := buf.String()

	assert.Contains(t, out, "run run-ok: passed")
	assert.NotContains(t, out, "FAIL ")
}
