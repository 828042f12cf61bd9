// Package errors provides coded error types for the seeding CLI.
package errors

import (
	"errors"
	"fmt"
)

// Error codes covering the failure taxonomy of the tool: fatal startup
// failures, fatal query failures, and the one recoverable case, a
// duplicate name tripping the unique constraint.
const (
	CodeOpenFailed          = "OPEN_FAILED"
	CodeSchemaFailed        = "SCHEMA_FAILED"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeQueryFailed         = "QUERY_FAILED"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeInternal            = "INTERNAL_ERROR"
)

// StoreError is an error with a stable code, a human message, and an
// optional wrapped cause plus detail fields.
type StoreError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is matches two StoreErrors by code.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail attaches a single detail field to the error.
func (e *StoreError) WithDetail(key string, value any) *StoreError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Common errors
var (
	ErrDuplicateName = &StoreError{Code: CodeConstraintViolation, Message: "name already exists"}
	ErrOpenFailed    = &StoreError{Code: CodeOpenFailed, Message: "failed to open database"}
	ErrSchemaFailed  = &StoreError{Code: CodeSchemaFailed, Message: "failed to ensure schema"}
)

// New creates a new StoreError with the given code and message.
func New(code, message string) *StoreError {
	return &StoreError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with a StoreError. Returns nil for a nil error.
func Wrap(err error, code, message string) *StoreError {
	if err == nil {
		return nil
	}
	return &StoreError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, code, format string, args ...any) *StoreError {
	if err == nil {
		return nil
	}
	return &StoreError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// IsConstraintViolation reports whether the error is a duplicate-name
// constraint failure. Workers use this to decide that an item is skippable.
func IsConstraintViolation(err error) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code == CodeConstraintViolation
	}
	return false
}

// IsSchemaFailed checks if an error is a schema creation failure.
func IsSchemaFailed(err error) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code == CodeSchemaFailed
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) string {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}
	return CodeInternal
}
