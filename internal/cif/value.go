package cif

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a CIF value.
type Kind int

// Value kinds. Unknown covers the CIF placeholder markers "?" (value unknown)
// and "." (value inapplicable): the entry is declared but carries no data.
const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindUnknown
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single typed CIF value: a scalar entry's value or one loop cell.
// Values are immutable once constructed.
type Value struct {
	kind Kind
	raw  string
	num  float64
	b    bool
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{kind: KindString, raw: s}
}

// NumberValue constructs a numeric Value. The raw form is the canonical
// formatting of f; use ParseToken to preserve source formatting.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, raw: strconv.FormatFloat(f, 'g', -1, 64), num: f}
}

// BoolValue constructs a boolean Value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, raw: strconv.FormatBool(b), b: b}
}

// UnknownValue constructs the unknown-marker Value for the given marker
// token ("?" or ".").
func UnknownValue(marker string) Value {
	return Value{kind: KindUnknown, raw: marker}
}

// ParseToken interprets a bare CIF data token. Unquoted "?" and "." are the
// unknown markers; tokens that parse as floats become numbers; everything
// else is a string. Quoted tokens never reach this function.
func ParseToken(tok string) Value {
	if tok == "?" || tok == "." {
		return UnknownValue(tok)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return Value{kind: KindNumber, raw: tok, num: f}
	}
	return StringValue(tok)
}

// FromAny converts a YAML-decoded scalar (string, int, float64 or bool) into
// a Value. Assertion expected values arrive through this path.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case int:
		return Value{kind: KindNumber, raw: strconv.Itoa(t), num: float64(t)}, nil
	case int64:
		return Value{kind: KindNumber, raw: strconv.FormatInt(t, 10), num: float64(t)}, nil
	case float64:
		return NumberValue(t), nil
	case nil:
		return Value{}, fmt.Errorf("value is null")
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsUnknown reports whether the value is an unknown marker.
func (v Value) IsUnknown() bool { return v.kind == KindUnknown }

// String returns the value's source text. For unknown markers this is the
// marker glyph itself.
func (v Value) String() string { return v.raw }

// Float returns the numeric interpretation of the value. Strings that parse
// as floats are accepted so that quoted numbers remain usable in range
// assertions. Returns false if no numeric interpretation exists.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.raw), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Equal reports type-aware equality. Two values with numeric
// interpretations compare as numbers, so "1.0" equals 1 regardless of
// source formatting. Booleans compare as booleans. Everything else
// compares verbatim and case-sensitively on the source text. Unknown
// markers equal only other unknown markers.
func (v Value) Equal(other Value) bool {
	if v.kind == KindUnknown || other.kind == KindUnknown {
		return v.kind == other.kind
	}
	if v.kind == KindBool || other.kind == KindBool {
		if v.kind == other.kind {
			return v.b == other.b
		}
		return v.raw == other.raw
	}
	// Numeric comparison applies when at least one side is a true number;
	// the other side may be a string with a numeric reading (quoted numbers).
	// Two plain strings always compare verbatim, case-sensitively.
	if v.kind == KindNumber || other.kind == KindNumber {
		if a, ok := v.Float(); ok {
			if b, ok := other.Float(); ok {
				return a == b
			}
		}
		return false
	}
	return v.raw == other.raw
}
