// Package errors provides application-level error types and utilities.
// It defines the error kinds raised by the build pipeline and the process
// exit code each kind maps to.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypePrecondition ErrorType = "precondition_error"
	ErrorTypeCompile      ErrorType = "compile_error"
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeInstall      ErrorType = "install_error"
	ErrorTypeInternal     ErrorType = "internal_error"
)

// Process exit codes
const (
	ExitFailure      = 1
	ExitPrecondition = 2
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithCause attaches an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewPreconditionError creates an error for an unmet precondition such as a
// missing compiler or an unsupported runtime version
func NewPreconditionError(message string, details ...string) *AppError {
	return newAppError(ErrorTypePrecondition, ExitPrecondition, message, details)
}

// NewCompileError creates a new catalog compilation error
func NewCompileError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeCompile, ExitFailure, message, details)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, ExitFailure, message, details)
}

// NewInstallError creates a new install error
func NewInstallError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInstall, ExitFailure, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, ExitFailure, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsPreconditionError checks if the error is a precondition error
func IsPreconditionError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypePrecondition
}

// IsCompileError checks if the error is a compile error
func IsCompileError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeCompile
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeValidation
}

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr := GetAppError(err); appErr != nil && appErr.Code != 0 {
		return appErr.Code
	}
	return ExitFailure
}
