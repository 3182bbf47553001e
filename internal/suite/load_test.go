package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/expect"
)

const validSuiteYAML = `application_slug: olex2
application_version: "1.5"
description: refinement checks
test_cases:
  - name: refine_structure
    description: refine and check the cell
    command_name: refine_iam
    input_parameters:
      - name: structure_file
        type: external_file
        value: input/structure.cif
      - name: ls_cycles
        type: int
        value: 5
      - name: snippet
        type: internal_file
        value: "data_test\n_a 1\n"
        upload_filename: snippet.cif
    expected_results:
      - result_type: status
        expected: successful
      - result_type: cif_value
        test_type: within
        cif_entry_name: _cell_length_a
        expected_value: 10.234
        allowed_deviation: 0.001
      - result_type: cif_loop_value
        test_type: match
        cif_entry_name: _atom_site_adp_type
        expected_value: Uani
        row_lookup:
          - row_entry_name: _atom_site_label
            row_entry_value: O1
`

func writeSuite(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeSuite(t, dir, "olex2.yaml", validSuiteYAML)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "olex2", s.ApplicationSlug)
	assert.Equal(t, "1.5", s.ApplicationVersion)
	assert.Equal(t, path, s.SourceFile)
	assert.Equal(t, dir, s.BaseDir)
	require.Len(t, s.Cases, 1)

	tc := s.Cases[0]
	assert.Equal(t, "refine_structure", tc.Name)
	assert.Equal(t, "refine_iam", tc.CommandName)
	require.Len(t, tc.Parameters, 3)

	assert.Equal(t, ParamExternalFile, tc.Parameters[0].Kind)
	assert.Equal(t, "input/structure.cif", tc.Parameters[0].Path)
	assert.Equal(t, "structure_file.cif", tc.Parameters[0].UploadName())

	assert.Equal(t, ParamSimple, tc.Parameters[1].Kind)
	assert.Equal(t, 5, tc.Parameters[1].Value)

	assert.Equal(t, ParamInternalFile, tc.Parameters[2].Kind)
	assert.Equal(t, "snippet.cif", tc.Parameters[2].UploadName())

	require.Len(t, tc.Expected, 3)
	_, ok := tc.Expected[0].(expect.Status)
	assert.True(t, ok)
	_, ok = tc.Expected[1].(expect.ScalarWithin)
	assert.True(t, ok)
	_, ok = tc.Expected[2].(expect.LoopMatch)
	assert.True(t, ok)
}

func TestLoadDefinitionErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "not yaml",
			yaml:    "::: not yaml {{{",
			wantErr: errors.ErrSuiteInvalid,
		},
		{
			name: "missing application_slug",
			yaml: `application_version: "1"
test_cases:
  - name: a
    command_name: c
    expected_results:
      - result_type: status
        expected: successful
`,
			wantErr: errors.ErrSuiteInvalid,
		},
		{
			name: "no test cases",
			yaml: `application_slug: x
application_version: "1"
test_cases: []
`,
			wantErr: errors.ErrSuiteInvalid,
		},
		{
			name: "duplicate case names",
			yaml: `application_slug: x
application_version: "1"
test_cases:
  - name: a
    command_name: c
    expected_results:
      - result_type: status
        expected: successful
  - name: a
    command_name: c
    expected_results:
      - result_type: status
        expected: successful
`,
			wantErr: errors.ErrSuiteInvalid,
		},
		{
			name: "case without command",
			yaml: `application_slug: x
application_version: "1"
test_cases:
  - name: a
    expected_results:
      - result_type: status
        expected: successful
`,
			wantErr: errors.ErrCaseInvalid,
		},
		{
			name: "case without expected results",
			yaml: `application_slug: x
application_version: "1"
test_cases:
  - name: a
    command_name: c
    expected_results: []
`,
			wantErr: errors.ErrCaseInvalid,
		},
		{
			name: "duplicate parameter names",
			yaml: `application_slug: x
application_version: "1"
test_cases:
  - name: a
    command_name: c
    input_parameters:
      - name: p
        value: 1
      - name: p
        value: 2
    expected_results:
      - result_type: status
        expected: successful
`,
			wantErr: errors.ErrCaseInvalid,
		},
		{
			name: "unknown parameter type",
			yaml: `application_slug: x
application_version: "1"
test_cases:
  - name: a
    command_name: c
    input_parameters:
      - name: p
        type: blob
        value: 1
    expected_results:
      - result_type: status
        expected: successful
`,
			wantErr: errors.ErrCaseInvalid,
		},
		{
			name: "external_file without path",
			yaml: `application_slug: x
application_version: "1"
test_cases:
  - name: a
    command_name: c
    input_parameters:
      - name: p
        type: external_file
    expected_results:
      - result_type: status
        expected: successful
`,
			wantErr: errors.ErrCaseInvalid,
		},
		{
			name: "malformed expected result",
			yaml: `application_slug: x
application_version: "1"
test_cases:
  - name: a
    command_name: c
    expected_results:
      - result_type: cif_value
        test_type: teleport
        cif_entry_name: _x
`,
			wantErr: errors.ErrAssertionInvalid,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeSuite(t, t.TempDir(), "suite.yaml", tt.yaml)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		path := writeSuite(t, t.TempDir(), "one.yaml", validSuiteYAML)
		suites, err := Discover(path)
		require.NoError(t, err)
		require.Len(t, suites, 1)
		assert.Equal(t, "olex2", suites[0].ApplicationSlug)
	})

	t.Run("directory sorted by name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeSuite(t, dir, "b.yaml", validSuiteYAML)
		writeSuite(t, dir, "a.yml", validSuiteYAML)
		writeSuite(t, dir, "notes.txt", "ignored")

		suites, err := Discover(dir)
		require.NoError(t, err)
		require.Len(t, suites, 2)
		assert.Equal(t, filepath.Join(dir, "a.yml"), suites[0].SourceFile)
		assert.Equal(t, filepath.Join(dir, "b.yaml"), suites[1].SourceFile)
	})

	t.Run("nonexistent location", func(t *testing.T) {
		t.Parallel()

		_, err := Discover(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrTestLocation)
	})

	t.Run("non-yaml file", func(t *testing.T) {
		t.Parallel()

		path := writeSuite(t, t.TempDir(), "suite.json", "{}")
		_, err := Discover(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrTestLocation)
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		_, err := Discover(t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNoSuitesFound)
	})
}
