// Package failure defines the error categories shared by every domain package.
//
// Domain sentinels wrap one of the category errors so callers can match either
// the precise condition or its category with errors.Is.
package failure

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest marks missing or invalid input.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound marks a referenced resource that does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict marks a request that collides with current state.
	ErrConflict = errors.New("conflict")
	// ErrDuplicate marks a uniqueness violation. It is also a conflict.
	ErrDuplicate = New(ErrConflict, "duplicate resource")
	// ErrBusiness marks an unexpected failure during a multi-step operation.
	ErrBusiness = errors.New("business error")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns a sentinel error with message msg that matches kind under errors.Is.
func New(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

// BusinessError wraps an unexpected lower-layer failure of a use case.
type BusinessError struct {
	Op  string
	Err error
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// Is reports ErrBusiness as a match so callers need not use errors.As.
func (e *BusinessError) Is(target error) bool {
	return target == ErrBusiness
}

// Business wraps err as a BusinessError for op.
func Business(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Op: op, Err: err}
}

// IsTyped reports whether err already carries a recoverable category.
func IsTyped(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict)
}
