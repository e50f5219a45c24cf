// Package scenario provides access to the loosely-typed scenario record: one
// assessment variant held as a JSON-shaped map that is both the source of user
// input and the destination of every computed output.
//
// Values stored in a Record are restricted to JSON-native types (float64,
// string, bool, nil, []any, map[string]any) except for the ModelKey entry,
// which holds the typed engine handle and never survives Normalize or Clone.
package scenario

// ModelKey is the record key holding the typed engine handle.
const ModelKey = "model"

// Record is one scenario as a nested JSON-shaped map.
type Record map[string]any

// New returns an empty record.
func New() Record {
	return Record{}
}

// Get walks path through nested maps and returns the value found.
func (r Record) Get(path ...string) (any, bool) {
	if r == nil || len(path) == 0 {
		return nil, false
	}
	var current any = map[string]any(r)
	for _, key := range path {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Has reports whether path exists, even when it holds nil.
func (r Record) Has(path ...string) bool {
	_, ok := r.Get(path...)
	return ok
}

// Float returns the numeric value at path, coercing numeric strings. Missing or
// non-numeric values read as 0.
func (r Record) Float(path ...string) float64 {
	v, _ := r.Get(path...)
	f, _ := ToFloat(v)
	return f
}

// FloatOr returns the numeric value at path or def when it is missing, empty or
// not numeric.
func (r Record) FloatOr(def float64, path ...string) float64 {
	v, _ := r.Get(path...)
	return FloatOr(v, def)
}

// String returns the string at path, or "" when absent.
func (r Record) String(path ...string) string {
	v, _ := r.Get(path...)
	return ToString(v)
}

// Bool applies the legacy boolean coercion to the value at path.
func (r Record) Bool(path ...string) bool {
	v, _ := r.Get(path...)
	return LegacyBool(v)
}

// Sub returns the nested map at path, or nil when it is absent or not a map.
func (r Record) Sub(path ...string) Record {
	v, ok := r.Get(path...)
	if !ok {
		return nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	return Record(m)
}

// List returns the slice at path, or nil when it is absent or not a slice.
func (r Record) List(path ...string) []any {
	v, _ := r.Get(path...)
	list, _ := v.([]any)
	return list
}

// Monthly reads a twelve-element numeric array at path. Missing entries read as 0.
func (r Record) Monthly(path ...string) [12]float64 {
	var out [12]float64
	v, _ := r.Get(path...)
	switch list := v.(type) {
	case []any:
		for i := 0; i < len(list) && i < len(out); i++ {
			out[i], _ = ToFloat(list[i])
		}
	case []float64:
		copy(out[:], list)
	case [12]float64:
		out = list
	}
	return out
}

// Ensure returns the nested map at path, creating maps along the way and
// replacing any non-map value it meets.
func (r Record) Ensure(path ...string) Record {
	current := map[string]any(r)
	for _, key := range path {
		next, ok := asMap(current[key])
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
	return Record(current)
}

// Set stores value at path, creating intermediate maps. The value is converted
// to its JSON-native form first, except under ModelKey at the top level.
func (r Record) Set(value any, path ...string) {
	if len(path) == 0 {
		panic("scenario: Set called with empty path")
	}
	if len(path) == 1 && path[0] == ModelKey {
		r[ModelKey] = value
		return
	}
	parent := r.Ensure(path[:len(path)-1]...)
	parent[path[len(path)-1]] = toNative(value)
}

// SetDefault stores value at path only when nothing is there yet.
func (r Record) SetDefault(value any, path ...string) {
	if v, ok := r.Get(path...); ok && v != nil {
		return
	}
	r.Set(value, path...)
}

// Delete removes the key at path if present.
func (r Record) Delete(path ...string) {
	if len(path) == 0 {
		return
	}
	parent := r.Sub(path[:len(path)-1]...)
	if len(path) == 1 {
		parent = r
	}
	if parent != nil {
		delete(parent, path[len(path)-1])
	}
}

// Model returns the raw engine handle stored under ModelKey.
func (r Record) Model() (any, bool) {
	v, ok := r[ModelKey]
	return v, ok
}

// Monthly12 converts a twelve-month array into its stored form.
func Monthly12(values [12]float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

// toNative converts Go numeric and container types to their JSON-native form.
func toNative(value any) any {
	switch v := value.(type) {
	case Record:
		return map[string]any(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	case [12]float64:
		return Monthly12(v)
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out
	default:
		return value
	}
}
