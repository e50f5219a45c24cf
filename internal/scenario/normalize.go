package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Clone returns a deep copy of r that shares no maps or slices with it. The
// engine handle under ModelKey is not copied.
func Clone(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		if k == ModelKey {
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Record:
		return map[string]any(Clone(t))
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	case []float64:
		return append([]float64(nil), t...)
	default:
		return v
	}
}

// Normalize returns the JSON-equivalent form of r: NaN and infinities become
// nil, negative zero becomes zero, and values with no JSON form (including the
// engine handle) are dropped.
func Normalize(r Record) Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		if nv, ok := normalizeValue(v); ok {
			out[k] = nv
		}
	}
	return out
}

// normalizeValue returns the JSON form of v and false when v has none.
func normalizeValue(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case bool, string:
		return t, true
	case float64:
		return normalizeFloat(t), true
	case float32:
		return normalizeFloat(float64(t)), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, true
		}
		return normalizeFloat(f), true
	case map[string]any:
		return map[string]any(Normalize(Record(t))), true
	case Record:
		return map[string]any(Normalize(t)), true
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			// Array slots without a JSON form serialise as null.
			s[i], _ = normalizeValue(inner)
		}
		return s, true
	case []float64:
		s := make([]any, len(t))
		for i, f := range t {
			s[i] = normalizeFloat(f)
		}
		return s, true
	case [12]float64:
		s := make([]any, len(t))
		for i, f := range t {
			s[i] = normalizeFloat(f)
		}
		return s, true
	default:
		return nil, false
	}
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f == 0 {
		return 0.0
	}
	return f
}

// Equal reports whether a and b have identical normalized JSON forms.
func Equal(a, b Record) bool {
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}

// Diff returns the sorted dotted paths at which the normalized forms of a and
// b differ. List elements are addressed by index.
func Diff(a, b Record) []string {
	var out []string
	diffValue(nil, map[string]any(Normalize(a)), map[string]any(Normalize(b)), &out)
	sort.Strings(out)
	return out
}

func diffValue(path []string, a, b any, out *[]string) {
	am, aIsMap := a.(map[string]any)
	bm, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		seen := make(map[string]bool, len(am)+len(bm))
		for k := range am {
			seen[k] = true
		}
		for k := range bm {
			seen[k] = true
		}
		for k := range seen {
			diffValue(append(path[:len(path):len(path)], k), am[k], bm[k], out)
		}
		return
	}

	al, aIsList := a.([]any)
	bl, bIsList := b.([]any)
	if aIsList && bIsList && len(al) == len(bl) {
		for i := range al {
			diffValue(append(path[:len(path):len(path)], strconv.Itoa(i)), al[i], bl[i], out)
		}
		return
	}

	if !reflect.DeepEqual(a, b) {
		*out = append(*out, strings.Join(path, "."))
	}
}

// Encode serialises the normalized record as indented JSON.
func Encode(r Record) ([]byte, error) {
	data, err := json.MarshalIndent(Normalize(r), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	return data, nil
}

// Decode parses a JSON object into a Record.
func Decode(data []byte) (Record, error) {
	var r Record
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if r == nil {
		r = New()
	}
	return r, nil
}
