// Package suite defines the declarative test-suite schema (suites, cases,
// input parameters) and loads it from YAML files. Loading validates the
// definition up front: structural problems are reported before anything is
// executed, never during a run.
package suite

import (
	"fmt"

	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/expect"
)

// ParameterKind discriminates the three input-parameter forms.
type ParameterKind int

const (
	// ParamSimple is a typed literal passed through unchanged.
	ParamSimple ParameterKind = iota
	// ParamExternalFile names a file, resolved relative to the suite file,
	// whose content is read at execution time and uploaded.
	ParamExternalFile
	// ParamInternalFile carries its upload content inline in the suite file.
	ParamInternalFile
)

// String returns the suite-file spelling of the kind.
func (k ParameterKind) String() string {
	switch k {
	case ParamSimple:
		return "simple"
	case ParamExternalFile:
		return "external_file"
	case ParamInternalFile:
		return "internal_file"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// InputParameter is one command argument of a test case.
type InputParameter struct {
	Name string
	Kind ParameterKind

	// Value is the literal for ParamSimple (string, int, float or bool as
	// decoded from YAML).
	Value any

	// Path is the suite-relative file path for ParamExternalFile.
	Path string

	// Content is the inline file content for ParamInternalFile.
	Content string

	// UploadFilename overrides the name the file is uploaded under.
	// Empty means derive it from the parameter name.
	UploadFilename string
}

// UploadName returns the filename a file parameter is uploaded under.
func (p InputParameter) UploadName() string {
	if p.UploadFilename != "" {
		return p.UploadFilename
	}
	return p.Name + ".cif"
}

// TestCase is one named command invocation plus its expected results.
type TestCase struct {
	Name        string
	Description string
	CommandName string
	Parameters  []InputParameter
	Expected    []expect.Assertion
}

// TestSuite is an ordered collection of uniquely named test cases targeting
// one application version. BaseDir is the directory of the suite file and
// anchors external-file parameter paths.
type TestSuite struct {
	ApplicationSlug    string
	ApplicationVersion string
	Description        string
	SourceFile         string
	BaseDir            string
	Cases              []TestCase
}

// Validate checks the cross-field invariants the YAML shape cannot express:
// required identification fields, at least one case, unique case names,
// unique parameter names per case, and at least one expected result per
// case. Violations are definition errors.
func (s *TestSuite) Validate() error {
	if s.ApplicationSlug == "" {
		return errors.Wrap(errors.ErrSuiteInvalid, "application_slug is required")
	}
	if s.ApplicationVersion == "" {
		return errors.Wrap(errors.ErrSuiteInvalid, "application_version is required")
	}
	if len(s.Cases) == 0 {
		return errors.Wrap(errors.ErrSuiteInvalid, "test suite must contain at least one test case")
	}

	seen := make(map[string]struct{}, len(s.Cases))
	for i := range s.Cases {
		tc := &s.Cases[i]
		if tc.Name == "" {
			return errors.Wrapf(errors.ErrSuiteInvalid, "test case %d has no name", i)
		}
		if _, dup := seen[tc.Name]; dup {
			return errors.Wrapf(errors.ErrSuiteInvalid, "duplicate test case name %q", tc.Name)
		}
		seen[tc.Name] = struct{}{}

		if err := tc.validate(); err != nil {
			return errors.Wrapf(err, "test case %q", tc.Name)
		}
	}
	return nil
}

func (tc *TestCase) validate() error {
	if tc.CommandName == "" {
		return errors.Wrap(errors.ErrCaseInvalid, "command_name is required")
	}
	if len(tc.Expected) == 0 {
		return errors.Wrap(errors.ErrCaseInvalid, "test case must have at least one expected result")
	}

	names := make(map[string]struct{}, len(tc.Parameters))
	for _, p := range tc.Parameters {
		if p.Name == "" {
			return errors.Wrap(errors.ErrCaseInvalid, "input parameter has no name")
		}
		if _, dup := names[p.Name]; dup {
			return errors.Wrapf(errors.ErrCaseInvalid, "duplicate parameter name %q", p.Name)
		}
		names[p.Name] = struct{}{}
	}
	return nil
}
