package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents the type of error
type ErrorCode string

const (
	// Client errors
	ErrBadRequest   ErrorCode = "BAD_REQUEST"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCancelled    ErrorCode = "CANCELLED"

	// Server errors
	ErrInternal           ErrorCode = "INTERNAL_ERROR"
	ErrDatabaseError      ErrorCode = "DATABASE_ERROR"
	ErrExternalService    ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrTimeout            ErrorCode = "TIMEOUT"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// AppError represents an application error
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	StatusCode int                    `json:"-"`
	Err        error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError adds an underlying error
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newAppError(code ErrorCode, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: status}
}

// NewBadRequest creates a bad request error
func NewBadRequest(message string) *AppError {
	return newAppError(ErrBadRequest, http.StatusBadRequest, message)
}

// NewUnauthorized creates an unauthorized error
func NewUnauthorized(message string) *AppError {
	return newAppError(ErrUnauthorized, http.StatusUnauthorized, message)
}

// NewNotFound creates a not found error
func NewNotFound(resource string) *AppError {
	return newAppError(ErrNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// NewValidation creates a validation error
func NewValidation(message string) *AppError {
	return newAppError(ErrValidation, http.StatusBadRequest, message)
}

// NewCancelled creates an error for work stopped by its caller
func NewCancelled(message string) *AppError {
	return newAppError(ErrCancelled, http.StatusConflict, message)
}

// NewInternal creates an internal server error
func NewInternal(message string) *AppError {
	return newAppError(ErrInternal, http.StatusInternalServerError, message)
}

// NewDatabaseError creates a database error
func NewDatabaseError(message string) *AppError {
	return newAppError(ErrDatabaseError, http.StatusInternalServerError, message)
}

// NewExternalService creates an error for a failed call to a provider or the backend
func NewExternalService(service, message string) *AppError {
	return newAppError(ErrExternalService, http.StatusBadGateway, message).
		WithMetadata("service", service)
}

// NewTimeout creates a timeout error
func NewTimeout(message string) *AppError {
	return newAppError(ErrTimeout, http.StatusGatewayTimeout, message)
}

// NewServiceUnavailable creates a service unavailable error
func NewServiceUnavailable(message string) *AppError {
	return newAppError(ErrServiceUnavailable, http.StatusServiceUnavailable, message)
}

// As returns the AppError in err's chain, if any
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return hasCode(err, ErrNotFound)
}

// IsCancelled checks if error is a cancellation error
func IsCancelled(err error) bool {
	return hasCode(err, ErrCancelled)
}

// IsUnauthorized checks if error is an unauthorized error
func IsUnauthorized(err error) bool {
	return hasCode(err, ErrUnauthorized)
}

// IsValidation checks if error is a validation error
func IsValidation(err error) bool {
	return hasCode(err, ErrValidation)
}
