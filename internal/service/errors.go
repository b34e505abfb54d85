package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to status codes.
var (
	// ErrUnauthenticated indicates the request carries no usable identity,
	// for example because the token's user no longer exists.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates an authenticated user lacks admin rights.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("admin access required")
)

// ServiceError records which operation failed. It wraps the underlying error
// so errors.Is still sees store and validation errors.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
