package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qcrbox/cifprobe/internal/config"
	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/suite"
)

// AddCheckCommand adds the check command to the parent command.
// Check loads and validates suite definitions without executing anything,
// so definition errors surface before a run is attempted.
func AddCheckCommand(parent *cobra.Command) {
	var testLocation string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate test suite definitions without running them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := GetLogger()
			ctx := logger.WithContext(cmd.Context())

			cfg, err := config.LoadWithOverrides(ctx, &config.Config{
				Tests: config.TestsConfig{Location: testLocation},
			})
			if err != nil {
				return err
			}

			suites, err := suite.Discover(cfg.Tests.Location)
			if err != nil {
				return err
			}

			totalCases := 0
			for _, s := range suites {
				totalCases += len(s.Cases)
				logger.Debug().
					Str("suite", s.ApplicationSlug).
					Str("source", s.SourceFile).
					Int("cases", len(s.Cases)).
					Msg("suite valid")
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d suite(s), %d case(s): all definitions valid\n",
				len(suites), totalCases); err != nil {
				return errors.Wrap(err, "failed to write check result")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&testLocation, "test-location", "t", "", "suite file or directory of suite files")

	parent.AddCommand(cmd)
}
