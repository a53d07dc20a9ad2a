package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound marks lookups and updates that matched no row.
var ErrNotFound = errors.New("backend: row not found")

// Error annotates driver failures with an operation name and a coarse classification.
type Error struct {
	op          string
	status      int
	code        string
	err         error
	notFound    bool
	conflict    bool
	unavailable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.op != "" {
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
	return e.err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Op names the failed operation, e.g. "visit.update".
func (e *Error) Op() string {
	if e == nil {
		return ""
	}
	return e.op
}

// Status is the HTTP-like status reported by the driver, zero for transport failures.
func (e *Error) Status() int {
	if e == nil {
		return 0
	}
	return e.status
}

// Code is the backend specific error code (PostgREST or SQLSTATE), if any.
func (e *Error) Code() string {
	if e == nil {
		return ""
	}
	return e.code
}

// IsNotFound reports whether the error represents a missing row.
func (e *Error) IsNotFound() bool {
	return e != nil && e.notFound
}

// IsConflict reports whether the error represents a uniqueness violation.
func (e *Error) IsConflict() bool {
	return e != nil && e.conflict
}

// IsUnavailable reports whether the error represents a transient backend outage.
func (e *Error) IsUnavailable() bool {
	return e != nil && e.unavailable
}

// NewError classifies a driver failure from its status and code.
func NewError(op string, status int, code string, err error) *Error {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}
	e := &Error{op: op, status: status, code: code, err: err}
	switch {
	case status == http.StatusNotFound, code == "PGRST116":
		e.notFound = true
		e.err = fmt.Errorf("%w: %v", ErrNotFound, err)
	case status == http.StatusConflict, code == "23505":
		e.conflict = true
	case status == 0, status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		e.unavailable = true
	}
	return e
}

// NotFoundError reports that op matched no row.
func NotFoundError(op string) *Error {
	return &Error{op: op, status: http.StatusNotFound, err: ErrNotFound, notFound: true}
}

// ConflictError reports a uniqueness violation raised by op.
func ConflictError(op string, err error) *Error {
	return &Error{op: op, status: http.StatusConflict, err: err, conflict: true}
}

// WrapError annotates err with op. Context cancellations are passed through.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var backendErr *Error
	if errors.As(err, &backendErr) {
		if op != "" && backendErr.op == "" {
			backendErr.op = op
		}
		return err
	}
	if errors.Is(err, ErrNotFound) {
		return &Error{op: op, status: http.StatusNotFound, err: err, notFound: true}
	}
	return &Error{op: op, err: err}
}

// IsNotFound reports whether err means no row matched.
func IsNotFound(err error) bool {
	var backendErr *Error
	if errors.As(err, &backendErr) {
		return backendErr.IsNotFound()
	}
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	var backendErr *Error
	return errors.As(err, &backendErr) && backendErr.IsConflict()
}

// IsUnavailable reports whether err is a transport failure or backend outage.
func IsUnavailable(err error) bool {
	var backendErr *Error
	return errors.As(err, &backendErr) && backendErr.IsUnavailable()
}
