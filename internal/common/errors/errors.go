package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies a class of service error.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrExportFailed   ErrorCode = "EXPORT_FAILED"   // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// PlanError is a structured error with code, HTTP status and details.
type PlanError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	cause   error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PlanError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for malformed input.
func NewInvalidRequest(msg string) *PlanError {
	return &PlanError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing room or export.
func NewNotFound(kind, id string) *PlanError {
	return &PlanError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, id),
		Details: map[string]any{"kind": kind, "id": id},
	}
}

// NewExportFailed creates a 500 error for a serialization or archive failure.
func NewExportFailed(format string, err error) *PlanError {
	msg := "export failed"
	if err != nil {
		msg = fmt.Sprintf("%s export failed: %v", format, err)
	}
	return &PlanError{
		Code:    ErrExportFailed,
		Status:  500,
		Message: msg,
		Details: map[string]any{"format": format},
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PlanError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PlanError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is a PlanError with the given code. Wrapped errors
// are unwrapped.
func Is(err error, code ErrorCode) bool {
	var pErr *PlanError
	if stderrors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}

// As returns err as a PlanError, wrapping anything else as internal.
func As(err error) *PlanError {
	var pErr *PlanError
	if stderrors.As(err, &pErr) {
		return pErr
	}
	return NewInternal(err)
}
