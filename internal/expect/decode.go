package expect

import (
	"fmt"

	"github.com/qcrbox/cifprobe/internal/cif"
	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/qcrbox"
)

// Result and test type discriminator values as they appear in suite files.
const (
	ResultStatus   = "status"
	ResultCifValue = "cif_value"
	ResultCifLoop  = "cif_loop_value"
	TestMatch      = "match"
	TestNonMatch   = "non-match"
	TestWithin     = "within"
	TestContain    = "contain"
	TestPresent    = "present"
	TestMissing    = "missing"
)

// Decode turns one YAML-decoded expected-result mapping into its typed
// Assertion. All structural problems (unknown discriminators, missing or
// mistyped fields, malformed ranges, empty row lookups) are definition
// errors carrying ErrAssertionInvalid or ErrRangeInvalid.
func Decode(raw map[string]any) (Assertion, error) {
	resultType, err := requireString(raw, "result_type")
	if err != nil {
		return nil, err
	}

	switch resultType {
	case ResultStatus:
		return decodeStatus(raw)
	case ResultCifValue:
		return decodeCifValue(raw)
	case ResultCifLoop:
		return decodeCifLoop(raw)
	default:
		return nil, errors.Wrapf(errors.ErrAssertionInvalid, "unknown result_type %q", resultType)
	}
}

func decodeStatus(raw map[string]any) (Assertion, error) {
	expected, err := requireString(raw, "expected")
	if err != nil {
		return nil, err
	}
	status, err := qcrbox.ParseStatus(expected)
	if err != nil {
		return nil, errors.Wrap(errors.ErrAssertionInvalid, err.Error())
	}
	return Status{Expected: status}, nil
}

func decodeCifValue(raw map[string]any) (Assertion, error) {
	testType, entry, err := testTypeAndEntry(raw)
	if err != nil {
		return nil, err
	}

	switch testType {
	case TestMatch:
		expected, err := requireValue(raw, "expected_value")
		if err != nil {
			return nil, err
		}
		return ScalarMatch{Entry: entry, Expected: expected}, nil
	case TestNonMatch:
		forbidden, err := requireValue(raw, "forbidden_value")
		if err != nil {
			return nil, err
		}
		return ScalarNonMatch{Entry: entry, Forbidden: forbidden}, nil
	case TestWithin:
		minV, maxV, err := decodeRange(raw)
		if err != nil {
			return nil, err
		}
		return ScalarWithin{Entry: entry, Min: minV, Max: maxV}, nil
	case TestContain:
		substr, err := requireString(raw, "expected_value")
		if err != nil {
			return nil, err
		}
		return ScalarContain{Entry: entry, Substring: substr}, nil
	case TestPresent:
		allowUnknown, err := optionalBool(raw, "allow_unknown")
		if err != nil {
			return nil, err
		}
		return ScalarPresent{Entry: entry, AllowUnknown: allowUnknown}, nil
	case TestMissing:
		return ScalarMissing{Entry: entry}, nil
	default:
		return nil, errors.Wrapf(errors.ErrAssertionInvalid, "unknown test_type %q", testType)
	}
}

func decodeCifLoop(raw map[string]any) (Assertion, error) {
	testType, entry, err := testTypeAndEntry(raw)
	if err != nil {
		return nil, err
	}
	lookup, err := decodeRowLookup(raw)
	if err != nil {
		return nil, err
	}

	switch testType {
	case TestMatch:
		expected, err := requireValue(raw, "expected_value")
		if err != nil {
			return nil, err
		}
		return LoopMatch{Entry: entry, Lookup: lookup, Expected: expected}, nil
	case TestNonMatch:
		forbidden, err := requireValue(raw, "forbidden_value")
		if err != nil {
			return nil, err
		}
		return LoopNonMatch{Entry: entry, Lookup: lookup, Forbidden: forbidden}, nil
	case TestWithin:
		minV, maxV, err := decodeRange(raw)
		if err != nil {
			return nil, err
		}
		return LoopWithin{Entry: entry, Lookup: lookup, Min: minV, Max: maxV}, nil
	case TestContain:
		substr, err := requireString(raw, "expected_value")
		if err != nil {
			return nil, err
		}
		return LoopContain{Entry: entry, Lookup: lookup, Substring: substr}, nil
	case TestPresent:
		allowUnknown, err := optionalBool(raw, "allow_unknown")
		if err != nil {
			return nil, err
		}
		return LoopPresent{Entry: entry, Lookup: lookup, AllowUnknown: allowUnknown}, nil
	case TestMissing:
		return LoopMissing{Entry: entry, Lookup: lookup}, nil
	default:
		return nil, errors.Wrapf(errors.ErrAssertionInvalid, "unknown test_type %q", testType)
	}
}

func testTypeAndEntry(raw map[string]any) (testType, entry string, err error) {
	testType, err = requireString(raw, "test_type")
	if err != nil {
		return "", "", err
	}
	entry, err = requireString(raw, "cif_entry_name")
	if err != nil {
		return "", "", err
	}
	return testType, entry, nil
}

func decodeRowLookup(raw map[string]any) (RowLookup, error) {
	items, ok := raw["row_lookup"].([]any)
	if !ok || len(items) == 0 {
		return nil, errors.Wrap(errors.ErrAssertionInvalid, "cif_loop_value requires a non-empty row_lookup list")
	}
	lookup := make(RowLookup, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, errors.Wrapf(errors.ErrAssertionInvalid, "row_lookup[%d] is not a mapping", i)
		}
		name, err := requireString(entry, "row_entry_name")
		if err != nil {
			return nil, errors.Wrapf(err, "row_lookup[%d]", i)
		}
		value, err := requireValue(entry, "row_entry_value")
		if err != nil {
			return nil, errors.Wrapf(err, "row_lookup[%d]", i)
		}
		lookup = append(lookup, cif.Condition{Name: name, Value: value})
	}
	return lookup, nil
}

func decodeRange(raw map[string]any) (float64, float64, error) {
	expected, err := optionalFloat(raw, "expected_value")
	if err != nil {
		return 0, 0, err
	}
	deviation, err := optionalFloat(raw, "allowed_deviation")
	if err != nil {
		return 0, 0, err
	}
	minValue, err := optionalFloat(raw, "min_value")
	if err != nil {
		return 0, 0, err
	}
	maxValue, err := optionalFloat(raw, "max_value")
	if err != nil {
		return 0, 0, err
	}
	return NewRange(expected, deviation, minValue, maxValue)
}

func requireString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", errors.Wrapf(errors.ErrAssertionInvalid, "missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errors.Wrapf(errors.ErrAssertionInvalid, "field %q must be a non-empty string, got %v", key, v)
	}
	return s, nil
}

func requireValue(raw map[string]any, key string) (cif.Value, error) {
	v, ok := raw[key]
	if !ok {
		return cif.Value{}, errors.Wrapf(errors.ErrAssertionInvalid, "missing required field %q", key)
	}
	value, err := cif.FromAny(v)
	if err != nil {
		return cif.Value{}, errors.Wrapf(errors.ErrAssertionInvalid, "field %q: %s", key, err.Error())
	}
	return value, nil
}

func optionalBool(raw map[string]any, key string) (bool, error) {
	v, ok := raw[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Wrapf(errors.ErrAssertionInvalid, "field %q must be a boolean, got %v", key, v)
	}
	return b, nil
}

func optionalFloat(raw map[string]any, key string) (*float64, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	switch t := v.(type) {
	case int:
		f := float64(t)
		return &f, nil
	case int64:
		f := float64(t)
		return &f, nil
	case float64:
		f := t
		return &f, nil
	default:
		return nil, errors.Wrapf(errors.ErrRangeInvalid, "field %q must be numeric, got %v", key, fmt.Sprintf("%T", v))
	}
}
