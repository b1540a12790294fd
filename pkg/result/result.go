// Package result provides a tagged outcome type for operations that never
// return an error to their caller but still need to say why they failed.
package result

import (
	"errors"

	"github.com/openkcm/auth-session/internal/serviceerr"
)

// Result is either a value or a coded failure.
type Result[T any] struct {
	value T
	err   *serviceerr.Error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err builds a failed result with the given code. cause is kept in the
// error chain and may be nil.
func Err[T any](code serviceerr.Code, cause error) Result[T] {
	e := &serviceerr.Error{Err: code}
	if cause != nil {
		e.Description = cause.Error()
	}

	return Result[T]{err: e.Wrap(cause)}
}

// From builds a failed result out of an existing coded error.
func From[T any](err *serviceerr.Error) Result[T] {
	return Result[T]{err: err}
}

// Fail builds a failed result from err, keeping its code when err carries
// one and using CodeUnknown otherwise.
func Fail[T any](err error) Result[T] {
	var e *serviceerr.Error
	if errors.As(err, &e) {
		return Result[T]{err: e}
	}

	return Err[T](serviceerr.CodeUnknown, err)
}

// OK reports success. It is the boolean view of the result.
func (r Result[T]) OK() bool {
	return r.err == nil
}

func (r Result[T]) Value() (T, bool) {
	return r.value, r.err == nil
}

// Code is empty on success.
func (r Result[T]) Code() serviceerr.Code {
	if r.err == nil {
		return ""
	}

	return r.err.Err
}

// Err returns nil on success.
func (r Result[T]) Err() error {
	if r.err == nil {
		return nil
	}

	return r.err
}
