package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    int    // Business error code
	Message string // Human-readable message
	Err     error  // Underlying error (if any)
	Details string // Additional details
	// Status is the status reported by an upstream service; zero means use the code table
	Status int
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		if e.Details != "" {
			return fmt.Sprintf("[%d] %s: %s: %v", e.Code, e.Message, e.Details, e.Err)
		}
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus prefers the upstream status over the code table
func (e *AppError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return GetHTTPStatus(e.Code)
}

// New creates a new AppError with the given code
func New(code int, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Code:    code,
		Message: GetMessage(code),
		Details: detail,
	}
}

// Wrap wraps an existing error with an error code.
// An error that already is an AppError is returned as is.
func Wrap(err error, code int, details ...string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}

	return &AppError{
		Code:    code,
		Message: GetMessage(code),
		Err:     err,
		Details: detail,
	}
}

// Is checks if err is an AppError with the given code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatus returns the status an error maps to at the HTTP boundary
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return GetHTTPStatus(ErrInternalServer)
}

// GetDetails extracts error details
func GetDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Details != "" {
			return appErr.Details
		}
		if appErr.Err != nil {
			return appErr.Err.Error()
		}
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// NewValidationError is returned when a required request field is missing
func NewValidationError(details string) *AppError {
	return New(ErrInvalidParams, details)
}

// NewConfigError is returned when a call needs a secret that is not configured
func NewConfigError(setting string) *AppError {
	return New(ErrConfig, setting+" is not set")
}

// NewFetchError records the URL that could not be loaded and why
func NewFetchError(url string, err error) *AppError {
	return &AppError{
		Code:    ErrFetch,
		Message: GetMessage(ErrFetch),
		Err:     err,
		Details: url,
	}
}

// NewResolutionError is returned once the primary URL and every fallback are exhausted
func NewResolutionError(details string, err error) *AppError {
	return &AppError{
		Code:    ErrResolution,
		Message: GetMessage(ErrResolution),
		Err:     err,
		Details: details,
	}
}

// NewStreamError is logged when the completion stream breaks after written bytes were relayed
func NewStreamError(written int64, err error) *AppError {
	return &AppError{
		Code:    ErrStream,
		Message: GetMessage(ErrStream),
		Err:     err,
		Details: fmt.Sprintf("stream broke after %d bytes", written),
	}
}

// NewUpstreamError builds an error for a non-2xx upstream reply (status 0 for transport failures)
func NewUpstreamError(code int, status int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: GetMessage(code),
		Err:     err,
		Details: message,
		Status:  status,
	}
}
