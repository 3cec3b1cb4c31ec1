// Package fn provides small generic helpers: a three-state Result, slice
// combinators, concurrent fan-out and retry.
package fn

import "fmt"

// Status is the outcome class of a Result.
type Status int

const (
	StatusOK       Status = iota // value is fully live
	StatusDegraded               // value is usable but came from a fallback
	StatusFailed                 // no usable value
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result[T] carries a value, an optional cause and a Status. A degraded
// result has both a usable value and the error that forced the fallback.
type Result[T any] struct {
	val    T
	err    error
	status Status
}

// Ok creates a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{val: v, status: StatusOK}
}

// Degraded creates a Result whose value is usable but not authoritative.
// cause may be nil when the fallback was taken without an error.
func Degraded[T any](v T, cause error) Result[T] {
	return Result[T]{val: v, err: cause, status: StatusDegraded}
}

// Err creates a failed Result from an error.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err, status: StatusFailed}
}

// Errf creates a failed Result from a formatted string.
func Errf[T any](format string, args ...any) Result[T] {
	return Err[T](fmt.Errorf(format, args...))
}

// Status returns the outcome class.
func (r Result[T]) Status() Status { return r.status }

// IsOk reports whether the value is usable (live or degraded).
func (r Result[T]) IsOk() bool { return r.status != StatusFailed }

// IsErr reports whether the result failed.
func (r Result[T]) IsErr() bool { return r.status == StatusFailed }

// IsDegraded reports whether the value came from a fallback.
func (r Result[T]) IsDegraded() bool { return r.status == StatusDegraded }

// Value returns the value, zero when failed.
func (r Result[T]) Value() T { return r.val }

// Cause returns the error that failed or degraded the result.
func (r Result[T]) Cause() error { return r.err }

// Unwrap returns the value and, only for failed results, the error.
func (r Result[T]) Unwrap() (T, error) {
	if r.status == StatusFailed {
		return r.val, r.err
	}
	return r.val, nil
}

// UnwrapOr returns the value or a fallback when failed.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.status == StatusFailed {
		return fallback
	}
	return r.val
}

// MapResult transforms Result[T] to Result[U], keeping status and cause.
func MapResult[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.status == StatusFailed {
		return Err[U](r.err)
	}
	return Result[U]{val: f(r.val), err: r.err, status: r.status}
}

// FromPair creates a Result from a (value, error) pair.
func FromPair[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}
