package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qcrbox/cifprobe/internal/clock"
	"github.com/qcrbox/cifprobe/internal/config"
	"github.com/qcrbox/cifprobe/internal/debug"
	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/qcrbox"
	"github.com/qcrbox/cifprobe/internal/runner"
	"github.com/qcrbox/cifprobe/internal/suite"
)

// runFlags holds the flags for the run command.
type runFlags struct {
	testLocation string
	url          string
	pollInterval time.Duration
	timeout      time.Duration
	debugEnabled bool
	debugDir     string
}

// AddRunCommand adds the run command to the parent command.
func AddRunCommand(parent *cobra.Command, global *GlobalFlags) {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute test suites against a QCrBox instance",
		Long: `Run discovers test suite files at the test location, executes every
case against the configured QCrBox API and reports pass/fail results.

The exit code is 0 when all suites pass, 1 when any suite fails and 2 for
invalid suite definitions or flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSuites(cmd, global, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.testLocation, "test-location", "t", "", "suite file or directory of suite files")
	cmd.Flags().StringVarP(&flags.url, "url", "u", "", "base URL of the QCrBox API")
	cmd.Flags().DurationVar(&flags.pollInterval, "poll-interval", 0, "delay between calculation status checks")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "maximum duration for a single command invocation")
	cmd.Flags().BoolVarP(&flags.debugEnabled, "debug", "d", false, "write debug artifacts for failed suites")
	cmd.Flags().StringVar(&flags.debugDir, "debug-dir", "", "base directory for debug artifacts")

	parent.AddCommand(cmd)
}

// runSuites loads configuration, discovers suites and drives the runner.
func runSuites(cmd *cobra.Command, global *GlobalFlags, flags *runFlags) error {
	logger := GetLogger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadWithOverrides(ctx, &config.Config{
		API: config.APIConfig{
			URL:          flags.url,
			PollInterval: flags.pollInterval,
			Timeout:      flags.timeout,
		},
		Tests: config.TestsConfig{Location: flags.testLocation},
		Debug: config.DebugConfig{Dir: flags.debugDir},
	})
	if err != nil {
		return err
	}
	// Booleans can't ride the override struct; apply the flag directly.
	if cmd.Flags().Changed("debug") {
		cfg.Debug.Enabled = flags.debugEnabled
	}

	suites, err := suite.Discover(cfg.Tests.Location)
	if err != nil {
		return err
	}
	logger.Info().
		Int("suites", len(suites)).
		Str("location", cfg.Tests.Location).
		Str("url", cfg.API.URL).
		Msg("discovered test suites")

	client := qcrbox.NewClient(cfg.API.URL, cfg.API.PollInterval, cfg.API.Timeout,
		qcrbox.WithLogger(logger))
	r := runner.New(client)
	if cfg.Debug.Enabled {
		r.SetFailureReporter(debug.NewReporter(cfg.Debug.Dir, clock.RealClock{}, logger))
	}

	result, runErr := r.Run(ctx, suites)

	if err := writeRunResult(cmd, global.Output, result); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if !result.AllPassed() {
		return errors.ErrTestsFailed
	}
	return nil
}

// writeRunResult renders the run result in the selected output format.
func writeRunResult(cmd *cobra.Command, format string, result *runner.RunResult) error {
	switch format {
	case OutputJSON:
		return writeRunResultJSON(cmd, result)
	default:
		return runner.WriteReport(cmd.OutOrStdout(), result)
	}
}

// jsonRunResult is the machine-readable run summary.
type jsonRunResult struct {
	RunID     string          `json:"run_id"`
	AllPassed bool            `json:"all_passed"`
	Suites    []jsonSuiteItem `json:"suites"`
}

type jsonSuiteItem struct {
	ApplicationSlug    string         `json:"application_slug"`
	ApplicationVersion string         `json:"application_version"`
	SourceFile         string         `json:"source_file"`
	Passed             bool           `json:"passed"`
	Cases              []jsonCaseItem `json:"cases"`
}

type jsonCaseItem struct {
	Name   string          `json:"name"`
	Passed bool            `json:"passed"`
	Status string          `json:"status,omitempty"`
	Error  string          `json:"error,omitempty"`
	Checks []jsonCheckItem `json:"checks"`
}

type jsonCheckItem struct {
	Check  string `json:"check"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

func writeRunResultJSON(cmd *cobra.Command, result *runner.RunResult) error {
	out := jsonRunResult{
		RunID:     result.RunID,
		AllPassed: result.AllPassed(),
		Suites:    make([]jsonSuiteItem, 0, len(result.Suites)),
	}
	for i := range result.Suites {
		s := &result.Suites[i]
		item := jsonSuiteItem{
			ApplicationSlug:    s.ApplicationSlug,
			ApplicationVersion: s.ApplicationVersion,
			SourceFile:         s.SourceFile,
			Passed:             s.Passed,
			Cases:              make([]jsonCaseItem, 0, len(s.Cases)),
		}
		for j := range s.Cases {
			c := &s.Cases[j]
			caseItem := jsonCaseItem{
				Name:   c.CaseName,
				Passed: c.Passed,
				Status: string(c.Status),
				Checks: make([]jsonCheckItem, 0, len(c.Checks)),
			}
			if c.SetupErr != nil {
				caseItem.Error = c.SetupErr.Error()
			}
			for _, check := range c.Checks {
				caseItem.Checks = append(caseItem.Checks, jsonCheckItem{
					Check:  check.Check,
					Passed: check.Passed,
					Detail: check.Detail,
				})
			}
			item.Cases = append(item.Cases, caseItem)
		}
		out.Suites = append(out.Suites, item)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode run result: %w", err)
	}
	return nil
}
