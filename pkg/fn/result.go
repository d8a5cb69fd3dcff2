package fn

import (
	"errors"
	"fmt"
)

// ErrNotFound is what Unwrap reports for a NotFound result.
var ErrNotFound = errors.New("not found")

// Result[T] is a generic result type with three outcomes: a value, an
// expected absence, or a failure.
type Result[T any] struct {
	val      T
	err      error
	ok       bool
	notFound bool
}

// Ok creates a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{val: v, ok: true}
}

// NotFound creates a Result for a value that is legitimately absent.
// It is not a failure: callers skip rather than report.
func NotFound[T any]() Result[T] {
	return Result[T]{notFound: true}
}

// Err creates a failed Result from an error.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Errf creates a failed Result from a formatted string.
func Errf[T any](format string, args ...any) Result[T] {
	return Result[T]{err: fmt.Errorf(format, args...)}
}

// IsOk returns true if the result is successful.
func (r Result[T]) IsOk() bool { return r.ok }

// IsNotFound returns true if the result signals an expected absence.
func (r Result[T]) IsNotFound() bool { return r.notFound }

// IsErr returns true if the result is a failure.
func (r Result[T]) IsErr() bool { return !r.ok && !r.notFound }

// Unwrap returns the value and error. A NotFound result yields ErrNotFound.
func (r Result[T]) Unwrap() (T, error) {
	if r.notFound {
		return r.val, ErrNotFound
	}
	return r.val, r.err
}

// UnwrapOr returns the value or a fallback when not ok.
func (r Result[T]) UnwrapOr(fallback T) T {
	if !r.ok {
		return fallback
	}
	return r.val
}

// MapResult transforms Result[T] to Result[U]. NotFound and Err pass through.
func MapResult[T, U any](r Result[T], f func(T) U) Result[U] {
	switch {
	case r.notFound:
		return NotFound[U]()
	case !r.ok:
		return Err[U](r.err)
	}
	return Ok(f(r.val))
}

// FromPair creates a Result from a (value, error) pair.
func FromPair[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// Collect returns Ok with all values if all results are ok, or the first
// result that is not.
func Collect[T any](results []Result[T]) Result[[]T] {
	out := make([]T, len(results))
	for i, r := range results {
		if !r.ok {
			return MapResult(r, func(T) []T { return nil })
		}
		out[i] = r.val
	}
	return Ok(out)
}
