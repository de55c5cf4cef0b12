package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError so transport layers can map it to a
// status code without inspecting messages.
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal     ErrorType = "INTERNAL"
	ErrorTypeExternal     ErrorType = "EXTERNAL"
)

// AppError carries a classification alongside the message and, for wrapped
// failures, the underlying cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is, or wraps, an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

func typed(t ErrorType, message string) *AppError {
	return &AppError{Type: t, Message: message}
}

// NewNotFoundError marks a lookup that matched nothing.
func NewNotFoundError(message string) *AppError {
	return typed(ErrorTypeNotFound, message)
}

// NewValidationError marks rejected input.
func NewValidationError(message string) *AppError {
	return typed(ErrorTypeValidation, message)
}

// NewValidationErrorf is NewValidationError with Printf formatting.
func NewValidationErrorf(format string, args ...interface{}) *AppError {
	return typed(ErrorTypeValidation, fmt.Sprintf(format, args...))
}

// NewConflictError marks a write that collides with existing state.
func NewConflictError(message string) *AppError {
	return typed(ErrorTypeConflict, message)
}

// NewUnauthorizedError marks a request the caller may not make.
func NewUnauthorizedError(message string) *AppError {
	return typed(ErrorTypeUnauthorized, message)
}

// NewInternalError wraps a failure that is ours, not the caller's.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// NewExternalError wraps a failure from a dependency outside the service.
func NewExternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, Err: err}
}
