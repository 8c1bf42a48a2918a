package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Ponder errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Planning error codes
const (
	PLAN_GENERATION_FAILED ErrorCode = "PLAN_GENERATION_FAILED"
	PLAN_CANCELLED         ErrorCode = "PLAN_CANCELLED"
)

// Processing error codes
const (
	PROCESS_FAILED     ErrorCode = "PROCESS_FAILED"
	PROCESS_CANCELLED  ErrorCode = "PROCESS_CANCELLED"
	REFLECTION_FAILED  ErrorCode = "REFLECTION_FAILED"
	VALIDATION_FAILED  ErrorCode = "VALIDATION_FAILED"
	SESSION_INVALID    ErrorCode = "SESSION_INVALID"
	FINALIZATION_ERROR ErrorCode = "FINALIZATION_ERROR"
)

// Archive error codes
const (
	ARCHIVE_OPEN_FAILED  ErrorCode = "ARCHIVE_OPEN_FAILED"
	ARCHIVE_QUERY_FAILED ErrorCode = "ARCHIVE_QUERY_FAILED"
	ARCHIVE_NOT_FOUND    ErrorCode = "ARCHIVE_NOT_FOUND"
)

// PonderError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type PonderError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *PonderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *PonderError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a PonderError with the same Code.
func (e *PonderError) Is(target error) bool {
	var perr *PonderError
	if errors.As(target, &perr) {
		return e.Code == perr.Code
	}
	return false
}

// NewError creates a new non-retryable PonderError with the given code and message.
func NewError(code ErrorCode, message string) *PonderError {
	return &PonderError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable PonderError with the given code and message.
// Use this for transient errors that may succeed on retry.
func NewRetryableError(code ErrorCode, message string) *PonderError {
	return &PonderError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable PonderError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *PonderError {
	return &PonderError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// IsRetryable reports whether err (or any error in its chain) is a
// retryable PonderError.
func IsRetryable(err error) bool {
	var perr *PonderError
	if errors.As(err, &perr) {
		return perr.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err if it is a PonderError.
// Returns an empty code when err is nil or not a PonderError.
func CodeOf(err error) ErrorCode {
	var perr *PonderError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ""
}
