// Package result provides the tagged success/failure value used for every
// recoverable, per-scenario failure in the engine, together with the two typed
// error kinds it carries: validation errors and model errors.
package result

// Result holds either a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure. A nil err is treated as a programming defect.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic("result.Err called with nil error")
	}
	return Result[T]{err: err}
}

// From converts a conventional (value, error) pair into a Result.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Err returns the failure, or nil on success.
func (r Result[T]) Err() error { return r.err }

// Unwrap returns the value and the error in the usual Go shape.
func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }

// ValueOr returns the value, or fallback when the result is a failure.
func (r Result[T]) ValueOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Map applies fn to a successful value and propagates failures unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Ok(fn(r.value))
}

// AndThen chains a fallible step after a successful result.
func AndThen[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return fn(r.value)
}
