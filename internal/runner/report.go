package runner

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

const (
	glyphPass = "PASS"
	glyphFail = "FAIL"
)

// WriteReport renders the run result as a human-readable text report:
// one section per suite with a line per case and per failed check, then a
// summary table of run-wide counts.
func WriteReport(w io.Writer, result *RunResult) error {
	for i := range result.Suites {
		if err := writeSuiteReport(w, &result.Suites[i]); err != nil {
			return err
		}
	}
	return writeSummary(w, result)
}

func writeSuiteReport(w io.Writer, s *SuiteResult) error {
	if _, err := fmt.Fprintf(w, "%s %s %s (%s)\n",
		glyph(s.Passed), s.ApplicationSlug, s.ApplicationVersion, s.SourceFile); err != nil {
		return err
	}

	for i := range s.Cases {
		c := &s.Cases[i]
		if _, err := fmt.Fprintf(w, "  %s %s\n", glyph(c.Passed), c.CaseName); err != nil {
			return err
		}
		if c.SetupErr != nil {
			if _, err := fmt.Fprintf(w, "       error: %v\n", c.SetupErr); err != nil {
				return err
			}
			continue
		}
		for _, check := range c.FailedChecks() {
			if _, err := fmt.Fprintf(w, "       %s %s: %s\n", glyphFail, check.Check, check.Detail); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeSummary(w io.Writer, result *RunResult) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Passed", "Total"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

	appendCounts := func(label string, passed, total int) {
		table.Append([]string{label, strconv.Itoa(passed), strconv.Itoa(total)})
	}
	suitesPassed, suitesTotal := result.SuiteCounts()
	casesPassed, casesTotal := result.CaseCounts()
	checksPassed, checksTotal := result.CheckCounts()
	appendCounts("Suites", suitesPassed, suitesTotal)
	appendCounts("Cases", casesPassed, casesTotal)
	appendCounts("Assertions", checksPassed, checksTotal)
	table.Render()

	_, err := fmt.Fprintf(w, "\nrun %s: %s\n", result.RunID, verdict(result.AllPassed()))
	return err
}

func glyph(passed bool) string {
	if passed {
		return glyphPass
	}
	return glyphFail
}

func verdict(passed bool) string {
	if passed {
		return "passed"
	}
	return "FAILED"
}
