package expect

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/qcrbox/cifprobe/internal/cif"
	"github.com/qcrbox/cifprobe/internal/errors"
	"github.com/qcrbox/cifprobe/internal/qcrbox"
)

// Outcome is the result of evaluating one assertion: pass or fail plus a
// human-readable diagnostic. Assertion failures are values, never errors; a
// failing assertion must not stop evaluation of its siblings.
type Outcome struct {
	Check  string
	Passed bool
	Detail string
}

func pass(a Assertion, detail string) Outcome {
	return Outcome{Check: a.CheckName(), Passed: true, Detail: detail}
}

func fail(a Assertion, detail string) Outcome {
	return Outcome{Check: a.CheckName(), Passed: false, Detail: detail}
}

// EvaluateStatus compares the executor-reported status against a status
// assertion. It lives apart from Evaluate because no document is involved.
func EvaluateStatus(a Status, actual qcrbox.Status) Outcome {
	if actual == a.Expected {
		return pass(a, fmt.Sprintf("command status is %q as expected", actual))
	}
	return fail(a, fmt.Sprintf("expected command status %q, got %q", a.Expected, actual))
}

// Evaluate runs one document assertion against doc. Status assertions are
// not document assertions and must go through EvaluateStatus; passing one
// here reports a failed outcome rather than panicking.
func Evaluate(a Assertion, doc *cif.Document) Outcome {
	switch t := a.(type) {
	case ScalarMatch:
		return evalMatch(t, resolveScalar(doc, t.Entry), t.Entry, "", t.Expected)
	case ScalarNonMatch:
		return evalNonMatch(t, resolveScalar(doc, t.Entry), t.Entry, "", t.Forbidden)
	case ScalarWithin:
		return evalWithin(t, resolveScalar(doc, t.Entry), t.Entry, "", t.Min, t.Max)
	case ScalarContain:
		return evalContain(t, resolveScalar(doc, t.Entry), t.Entry, "", t.Substring)
	case ScalarPresent:
		return evalPresent(t, resolveScalar(doc, t.Entry), t.Entry, "", t.AllowUnknown)
	case ScalarMissing:
		if doc.HasScalar(t.Entry) {
			v, _ := doc.Scalar(t.Entry)
			return fail(t, fmt.Sprintf("entry %q should be missing but was found with value %q", t.Entry, v.String()))
		}
		return pass(t, fmt.Sprintf("entry %q is missing as expected", t.Entry))

	case LoopMatch:
		return evalMatch(t, resolveCell(doc, t.Entry, t.Lookup), t.Entry, t.Lookup.String(), t.Expected)
	case LoopNonMatch:
		return evalNonMatch(t, resolveCell(doc, t.Entry, t.Lookup), t.Entry, t.Lookup.String(), t.Forbidden)
	case LoopWithin:
		return evalWithin(t, resolveCell(doc, t.Entry, t.Lookup), t.Entry, t.Lookup.String(), t.Min, t.Max)
	case LoopContain:
		return evalContain(t, resolveCell(doc, t.Entry, t.Lookup), t.Entry, t.Lookup.String(), t.Substring)
	case LoopPresent:
		return evalPresent(t, resolveCell(doc, t.Entry, t.Lookup), t.Entry, t.Lookup.String(), t.AllowUnknown)
	case LoopMissing:
		return evalLoopMissing(t, doc)

	case Status:
		return fail(t, "status assertion evaluated without an execution status")
	default:
		return Outcome{Check: "unknown", Passed: false, Detail: fmt.Sprintf("unknown assertion type %T", a)}
	}
}

// resolution carries a resolved value or the classified failure to resolve it.
type resolution struct {
	value cif.Value
	err   error
}

func resolveScalar(doc *cif.Document, entry string) resolution {
	v, err := doc.Scalar(entry)
	return resolution{value: v, err: err}
}

func resolveCell(doc *cif.Document, entry string, lookup RowLookup) resolution {
	v, err := doc.Cell(entry, []cif.Condition(lookup))
	return resolution{value: v, err: err}
}

func evalMatch(a Assertion, r resolution, entry, where string, expected cif.Value) Outcome {
	if r.err != nil {
		return fail(a, r.err.Error())
	}
	if r.value.Equal(expected) {
		return pass(a, fmt.Sprintf("entry %q%s matches expected value %q", entry, at(where), expected.String()))
	}
	return fail(a, fmt.Sprintf("entry %q%s: expected %q, got %q", entry, at(where), expected.String(), r.value.String()))
}

func evalNonMatch(a Assertion, r resolution, entry, where string, forbidden cif.Value) Outcome {
	if r.err != nil {
		return fail(a, r.err.Error())
	}
	if !r.value.Equal(forbidden) {
		return pass(a, fmt.Sprintf("entry %q%s does not match forbidden value %q", entry, at(where), forbidden.String()))
	}
	return fail(a, fmt.Sprintf("entry %q%s has forbidden value %q", entry, at(where), forbidden.String()))
}

func evalWithin(a Assertion, r resolution, entry, where string, minV, maxV float64) Outcome {
	if r.err != nil {
		return fail(a, r.err.Error())
	}
	actual, ok := r.value.Float()
	if !ok {
		return fail(a, fmt.Sprintf("entry %q%s value %q is not a valid number", entry, at(where), r.value.String()))
	}
	interval := fmt.Sprintf("[%s, %s]", formatFloat(minV), formatFloat(maxV))
	if minV <= actual && actual <= maxV {
		return pass(a, fmt.Sprintf("entry %q%s value %s is within %s", entry, at(where), formatFloat(actual), interval))
	}
	return fail(a, fmt.Sprintf("entry %q%s value %s is outside %s", entry, at(where), formatFloat(actual), interval))
}

func evalContain(a Assertion, r resolution, entry, where, substring string) Outcome {
	if r.err != nil {
		return fail(a, r.err.Error())
	}
	if strings.Contains(r.value.String(), substring) {
		return pass(a, fmt.Sprintf("entry %q%s contains %q", entry, at(where), substring))
	}
	return fail(a, fmt.Sprintf("entry %q%s does not contain %q (actual: %q)", entry, at(where), substring, r.value.String()))
}

func evalPresent(a Assertion, r resolution, entry, where string, allowUnknown bool) Outcome {
	if r.err != nil {
		return fail(a, r.err.Error())
	}
	if r.value.IsUnknown() && !allowUnknown {
		return fail(a, fmt.Sprintf("entry %q%s is present but holds the unknown marker %q (allow_unknown is false)",
			entry, at(where), r.value.String()))
	}
	return pass(a, fmt.Sprintf("entry %q%s is present with value %q", entry, at(where), r.value.String()))
}

// evalLoopMissing passes when the column is genuinely unreachable: the
// column does not exist, or the row lookup matches nothing. Only a resolved
// value fails the assertion.
func evalLoopMissing(a LoopMissing, doc *cif.Document) Outcome {
	v, err := doc.Cell(a.Entry, []cif.Condition(a.Lookup))
	switch {
	case err == nil:
		return fail(a, fmt.Sprintf("entry %q should be missing but was found with value %q", a.Entry, v.String()))
	case stderrors.Is(err, errors.ErrRowNotFound):
		return pass(a, fmt.Sprintf("entry %q is missing (no row matches %s)", a.Entry, a.Lookup.String()))
	default:
		return pass(a, fmt.Sprintf("entry %q is missing as expected", a.Entry))
	}
}

// at renders the optional row-lookup context for diagnostics.
func at(where string) string {
	if where == "" {
		return ""
	}
	return " (where " + where + ")"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
