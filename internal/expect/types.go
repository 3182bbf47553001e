// Package expect defines the expected-result specifications a test case
// carries and evaluates them against a parsed CIF document.
//
// The specifications form a closed set: one assertion per combination of
// result kind (execution status, scalar CIF entry, CIF loop entry) and test
// type (match, non-match, within, contain, present, missing). Each variant
// is its own struct with exactly the fields that variant needs, so malformed
// specifications are rejected when they are decoded, not when they run.
package expect

import (
	"fmt"

	"github.com/qcrbox/cifprobe/internal/cif"
	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/qcrbox"
)

// Assertion is one expected-result specification. The set of
// implementations is closed; Evaluate switches exhaustively over it.
type Assertion interface {
	// CheckName is the stable identifier used in reports and debug logs,
	// e.g. "match__cell.length_a" or "status_test".
	CheckName() string

	sealed()
}

// RowLookup is the ordered, non-empty set of AND-combined column=value
// conditions identifying one loop row.
type RowLookup []cif.Condition

// Status asserts the execution status reported by the command executor.
type Status struct {
	Expected qcrbox.Status
}

// ScalarMatch asserts a scalar entry equals an expected value.
type ScalarMatch struct {
	Entry    string
	Expected cif.Value
}

// ScalarNonMatch asserts a scalar entry differs from a forbidden value.
type ScalarNonMatch struct {
	Entry     string
	Forbidden cif.Value
}

// ScalarWithin asserts a numeric scalar entry lies in [Min, Max], both
// boundaries inclusive. Construct via NewRange so the two source forms
// (expected_value + allowed_deviation, min_value + max_value) are
// normalized and validated up front.
type ScalarWithin struct {
	Entry string
	Min   float64
	Max   float64
}

// ScalarContain asserts a scalar entry contains a case-sensitive substring.
type ScalarContain struct {
	Entry     string
	Substring string
}

// ScalarPresent asserts a scalar entry exists. AllowUnknown controls
// whether the unknown markers "?" and "." count as present.
type ScalarPresent struct {
	Entry        string
	AllowUnknown bool
}

// ScalarMissing asserts a scalar entry is entirely absent. An entry holding
// an unknown marker is present, not missing.
type ScalarMissing struct {
	Entry string
}

// LoopMatch asserts a loop cell, located by row lookup, equals an expected value.
type LoopMatch struct {
	Entry    string
	Lookup   RowLookup
	Expected cif.Value
}

// LoopNonMatch asserts a loop cell differs from a forbidden value.
type LoopNonMatch struct {
	Entry     string
	Lookup    RowLookup
	Forbidden cif.Value
}

// LoopWithin asserts a numeric loop cell lies in [Min, Max] inclusive.
type LoopWithin struct {
	Entry  string
	Lookup RowLookup
	Min    float64
	Max    float64
}

// LoopContain asserts a loop cell contains a case-sensitive substring.
type LoopContain struct {
	Entry     string
	Lookup    RowLookup
	Substring string
}

// LoopPresent asserts a loop cell exists in the looked-up row.
type LoopPresent struct {
	Entry        string
	Lookup       RowLookup
	AllowUnknown bool
}

// LoopMissing asserts a loop column does not exist. A failed row lookup also
// counts as missing: the column is unreachable either way.
type LoopMissing struct {
	Entry  string
	Lookup RowLookup
}

func (Status) sealed()         {}
func (ScalarMatch) sealed()    {}
func (ScalarNonMatch) sealed() {}
func (ScalarWithin) sealed()   {}
func (ScalarContain) sealed()  {}
func (ScalarPresent) sealed()  {}
func (ScalarMissing) sealed()  {}
func (LoopMatch) sealed()      {}
func (LoopNonMatch) sealed()   {}
func (LoopWithin) sealed()     {}
func (LoopContain) sealed()    {}
func (LoopPresent) sealed()    {}
func (LoopMissing) sealed()    {}

// CheckName implementations. The prefix is the test type, loop variants
// carry a loop_ marker, and the entry name keeps reports greppable.

func (Status) CheckName() string           { return "status_test" }
func (a ScalarMatch) CheckName() string    { return "match_" + a.Entry }
func (a ScalarNonMatch) CheckName() string { return "non_match_" + a.Entry }
func (a ScalarWithin) CheckName() string   { return "within_" + a.Entry }
func (a ScalarContain) CheckName() string  { return "contain_" + a.Entry }
func (a ScalarPresent) CheckName() string  { return "present_" + a.Entry }
func (a ScalarMissing) CheckName() string  { return "missing_" + a.Entry }
func (a LoopMatch) CheckName() string      { return "loop_match_" + a.Entry }
func (a LoopNonMatch) CheckName() string   { return "loop_non_match_" + a.Entry }
func (a LoopWithin) CheckName() string     { return "loop_within_" + a.Entry }
func (a LoopContain) CheckName() string    { return "loop_contain_" + a.Entry }
func (a LoopPresent) CheckName() string    { return "loop_present_" + a.Entry }
func (a LoopMissing) CheckName() string    { return "loop_missing_" + a.Entry }

// String renders the lookup as "name=value AND name=value" for diagnostics.
func (l RowLookup) String() string {
	out := ""
	for i, c := range l {
		if i > 0 {
			out += " AND "
		}
		out += fmt.Sprintf("%s=%s", c.Name, c.Value.String())
	}
	return out
}

// NewRange normalizes the two within-range source forms to an inclusive
// [min, max] interval. Exactly one form must be complete: either expected
// and deviation, or explicit min and max. Violations are definition errors.
func NewRange(expected, deviation, minValue, maxValue *float64) (float64, float64, error) {
	hasDeviation := expected != nil && deviation != nil
	hasMinMax := minValue != nil && maxValue != nil

	switch {
	case hasDeviation && hasMinMax:
		return 0, 0, errors.Wrap(errors.ErrRangeInvalid,
			"within accepts either expected_value+allowed_deviation or min_value+max_value, not both")
	case hasDeviation:
		return *expected - *deviation, *expected + *deviation, nil
	case hasMinMax:
		if *minValue > *maxValue {
			return 0, 0, errors.Wrapf(errors.ErrRangeInvalid,
				"min_value %v greater than max_value %v", *minValue, *maxValue)
		}
		return *minValue, *maxValue, nil
	default:
		return 0, 0, errors.Wrap(errors.ErrRangeInvalid,
			"within requires expected_value+allowed_deviation or min_value+max_value")
	}
}
