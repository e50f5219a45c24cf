package scenario

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ToFloat coerces a record value to a number. Numeric strings are parsed; the
// empty string, nil, booleans and non-numeric strings report false.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FloatOr coerces v to a number, returning def when v is missing, empty or not numeric.
func FloatOr(v any, def float64) float64 {
	if f, ok := ToFloat(v); ok {
		return f
	}
	return def
}

// OptionalFloat coerces v to a number, returning nil when it is missing or empty.
func OptionalFloat(v any) *float64 {
	if f, ok := ToFloat(v); ok {
		return &f
	}
	return nil
}

// LegacyBool applies the historical boolean convention: only the literal 1
// (as a number or the string "1") is true; everything else, including true, is false.
func LegacyBool(v any) bool {
	switch b := v.(type) {
	case float64:
		return b == 1
	case int:
		return b == 1
	case json.Number:
		return b.String() == "1"
	case string:
		return strings.TrimSpace(b) == "1"
	default:
		return false
	}
}

// LegacyBoolValue is the stored form of a legacy boolean.
func LegacyBoolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ToString returns v if it is a string and formats numbers without trailing zeros.
func ToString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

// ToInt coerces v to an integer by truncation, returning def when it is not numeric.
func ToInt(v any, def int) int {
	if f, ok := ToFloat(v); ok {
		return int(f)
	}
	return def
}
