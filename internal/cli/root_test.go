package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/cifprobe/internal/errors"
)

const checkSuiteYAML = `application_slug: olex2
application_version: "1.5"
test_cases:
  - name: refine_structure
    command_name: refine_iam
    expected_results:
      - result_type: status
        expected: successful
`

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandShowsHelp(t *testing.T) {
	out, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "cifprobe")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "check")
}

func TestRootRejectsInvalidOutputFormat(t *testing.T) {
	_, err := executeCommand(t, "--output", "xml", "check")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestCheckCommand(t *testing.T) {
	t.Run("valid suite", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "olex2.yaml"), []byte(checkSuiteYAML), 0o600))

		out, err := executeCommand(t, "check", "--test-location", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "1 suite(s), 1 case(s): all definitions valid")
	})

	t.Run("invalid suite yields definition error", func(t *testing.T) {
		dir := t.TempDir()
		broken := `application_slug: olex2
application_version: "1.5"
test_cases:
  - name: a
    command_name: c
    expected_results: []
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(broken), 0o600))

		_, err := executeCommand(t, "check", "--test-location", dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrCaseInvalid)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})

	t.Run("missing location", func(t *testing.T) {
		_, err := executeCommand(t, "check", "--test-location", filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrTestLocation)
	})
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "1.2.3", Commit: "abc", Date: "2026-08-25"})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "1.2.3 (commit: abc, built: 2026-08-25)")
}
