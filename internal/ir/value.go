package ir

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"
)

// Value is a sealed interface representing a scalar clause value.
// Only String, Int, Float and Bool implement it. A nil Value means the
// value is absent, which is distinct from the empty string or zero.
type Value interface {
	// Text renders the value the way leaf comparisons see it.
	Text() string
	irValue() // Sealed - only these types implement it
}

// String is a string value.
type String string

func (String) irValue() {}

// Text returns the string unchanged.
func (s String) Text() string { return string(s) }

// Int is an integer value.
type Int int64

func (Int) irValue() {}

// Text renders the integer in base 10.
func (i Int) Text() string { return strconv.FormatInt(int64(i), 10) }

// Float is a floating point value.
// Integral floats render without a fraction, so Float(5) and Int(5) share
// the text "5".
type Float float64

func (Float) irValue() {}

// Text renders the shortest representation that round-trips.
func (f Float) Text() string { return formatFloat(float64(f)) }

// Bool is a boolean value.
type Bool bool

func (Bool) irValue() {}

// Text renders "true" or "false".
func (b Bool) Text() string { return strconv.FormatBool(bool(b)) }

// TextOf renders v, reporting ok=false when v is absent.
func TextOf(v Value) (text string, ok bool) {
	if v == nil {
		return "", false
	}
	return v.Text(), true
}

// SameText reports whether a and b render to the same text.
// Two absent values are the same; an absent and a present value are not.
func SameText(a, b Value) bool {
	at, aok := TextOf(a)
	bt, bok := TextOf(b)
	if aok != bok {
		return false
	}
	return at == bt
}

// FromAny converts a decoded document scalar into a Value.
// nil converts to a nil Value. Composite values are rejected.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case float32:
		return Float(val), nil
	default:
		return nil, fmt.Errorf("unsupported scalar type: %T", v)
	}
}

// formatFloat renders f without exponent noise for integral values.
func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// SortedKeys returns the keys of m in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 byte order, which differs for supplementary characters.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < min(len(a16), len(b16)); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
