package cli

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qcrbox/cifprobe/internal/errors"
)

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("xml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"tests failed", errors.ErrTestsFailed, ExitError},
		{"transport failure", errors.ErrTransport, ExitError},
		{"endpoint unreachable", errors.Wrap(errors.ErrEndpointUnreachable, "dial"), ExitError},
		{"invalid output format", errors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"invalid suite", errors.Wrap(errors.ErrSuiteInvalid, "dup"), ExitInvalidInput},
		{"invalid case", errors.ErrCaseInvalid, ExitInvalidInput},
		{"invalid assertion", errors.Wrap(errors.ErrAssertionInvalid, "bad"), ExitInvalidInput},
		{"bad test location", errors.ErrTestLocation, ExitInvalidInput},
		{"no suites found", errors.ErrNoSuitesFound, ExitInvalidInput},
		{"cobra unknown flag", stderrors.New(`unknown flag: --frobnicate`), ExitInvalidInput},
		{"generic error", stderrors.New("boom"), ExitError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}
