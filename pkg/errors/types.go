package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Input errors
	ErrCodeValidation       ErrorCode = "VALIDATION"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// Pipeline errors
	ErrCodeTrimFailed      ErrorCode = "TRIM_FAILED"
	ErrCodeThumbnailFailed ErrorCode = "THUMBNAIL_FAILED"
	ErrCodePersistFailed   ErrorCode = "PERSIST_FAILED"

	// Catalog errors
	ErrCodeCatalog        ErrorCode = "CATALOG"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"

	// Coordination errors
	ErrCodeBusy ErrorCode = "BUSY"

	// Configuration errors
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
	HTTPCode int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(cause, code, fmt.Sprintf(format, args...))
}

// getDefaultHTTPCode returns the default HTTP status code for an error code
func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeBusy:
		return http.StatusConflict
	case ErrCodeTrimFailed, ErrCodeThumbnailFailed, ErrCodePersistFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

// NotFound creates a not found error
func NotFound(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// ValidationError creates a validation error
func ValidationError(field string, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NotInitialized creates an error for operations invoked before the
// backing store is ready. This is a programming error, not user input.
func NotInitialized(component string) *AppError {
	return New(ErrCodeNotInitialized, fmt.Sprintf("%s used before initialization", component)).
		WithDetail("component", component)
}

// CatalogError creates a database-layer error
func CatalogError(operation string, cause error) *AppError {
	return Wrap(cause, ErrCodeCatalog, fmt.Sprintf("catalog %s failed", operation)).
		WithDetail("operation", operation)
}

// Busy signals that another mutation of the same kind is in flight
func Busy(operation string) *AppError {
	return New(ErrCodeBusy, fmt.Sprintf("another %s operation is already in flight", operation)).
		WithDetail("operation", operation)
}

// Is checks if an error carries a specific code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetHTTPCode extracts the HTTP status code from an error
func GetHTTPCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.GetHTTPCode()
	}
	return http.StatusInternalServerError
}
