package suite

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/expect"
)

// suiteFile mirrors the YAML document shape. Expected results stay generic
// mappings here; expect.Decode turns them into typed assertions so that
// discriminator errors surface with field-level context.
type suiteFile struct {
	ApplicationSlug    string     `yaml:"application_slug"`
	ApplicationVersion string     `yaml:"application_version"`
	Description        string     `yaml:"description"`
	TestCases          []caseFile `yaml:"test_cases"`
}

type caseFile struct {
	Name            string           `yaml:"name"`
	Description     string           `yaml:"description"`
	CommandName     string           `yaml:"command_name"`
	InputParameters []paramFile      `yaml:"input_parameters"`
	ExpectedResults []map[string]any `yaml:"expected_results"`
}

type paramFile struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	Value          any    `yaml:"value"`
	UploadFilename string `yaml:"upload_filename"`
}

// Load reads and validates a single suite file. All definition errors are
// reported here; a suite that loads cleanly will not produce definition
// errors during execution.
func Load(path string) (*TestSuite, error) {
	data, err := os.ReadFile(path) //nolint:gosec // suite paths come from the operator
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read suite file %s", path)
	}

	var sf suiteFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, errors.Wrapf(errors.ErrSuiteInvalid, "failed to parse %s: %v", path, err)
	}

	s := &TestSuite{
		ApplicationSlug:    sf.ApplicationSlug,
		ApplicationVersion: sf.ApplicationVersion,
		Description:        sf.Description,
		SourceFile:         path,
		BaseDir:            filepath.Dir(path),
	}

	for i, cf := range sf.TestCases {
		tc, err := buildCase(cf)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: test case %d (%s)", path, i, cf.Name)
		}
		s.Cases = append(s.Cases, tc)
	}

	if err := s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return s, nil
}

func buildCase(cf caseFile) (TestCase, error) {
	tc := TestCase{
		Name:        cf.Name,
		Description: cf.Description,
		CommandName: cf.CommandName,
	}

	for _, pf := range cf.InputParameters {
		param, err := buildParameter(pf)
		if err != nil {
			return TestCase{}, err
		}
		tc.Parameters = append(tc.Parameters, param)
	}

	for j, raw := range cf.ExpectedResults {
		assertion, err := expect.Decode(raw)
		if err != nil {
			return TestCase{}, errors.Wrapf(err, "expected result %d", j)
		}
		tc.Expected = append(tc.Expected, assertion)
	}
	return tc, nil
}

func buildParameter(pf paramFile) (InputParameter, error) {
	p := InputParameter{Name: pf.Name, UploadFilename: pf.UploadFilename}

	switch pf.Type {
	case "", "str", "int", "float", "bool":
		p.Kind = ParamSimple
		p.Value = pf.Value
	case "external_file":
		path, ok := pf.Value.(string)
		if !ok || path == "" {
			return InputParameter{}, errors.Wrapf(errors.ErrCaseInvalid,
				"external_file parameter %q requires a file path value", pf.Name)
		}
		p.Kind = ParamExternalFile
		p.Path = path
	case "internal_file":
		content, ok := pf.Value.(string)
		if !ok {
			return InputParameter{}, errors.Wrapf(errors.ErrCaseInvalid,
				"internal_file parameter %q requires string content", pf.Name)
		}
		p.Kind = ParamInternalFile
		p.Content = content
	default:
		return InputParameter{}, errors.Wrapf(errors.ErrCaseInvalid,
			"parameter %q has unknown type %q", pf.Name, pf.Type)
	}
	return p, nil
}

// Discover resolves a test location to an ordered list of loaded suites.
// A YAML file loads as a single suite; a directory loads every *.yaml and
// *.yml file in it, sorted by name for deterministic run order.
func Discover(location string) ([]*TestSuite, error) {
	info, err := os.Stat(location)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrTestLocation, "%s does not exist", location)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(location)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read directory %s", location)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if isYAML(e.Name()) {
				files = append(files, filepath.Join(location, e.Name()))
			}
		}
		sort.Strings(files)
	} else {
		if !isYAML(location) {
			return nil, errors.Wrapf(errors.ErrTestLocation, "%s is not a YAML file", location)
		}
		files = []string{location}
	}

	if len(files) == 0 {
		return nil, errors.Wrapf(errors.ErrNoSuitesFound, "no YAML suite files in %s", location)
	}

	suites := make([]*TestSuite, 0, len(files))
	for _, f := range files {
		s, err := Load(f)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
