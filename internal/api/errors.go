package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/phrazzld/catalog-api/internal/service/auth"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/phrazzld/catalog-api/internal/validation"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity

	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, shared.ErrInvalidBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Token absent"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrRevokedToken):
		return "Token invalid"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, service.ErrUnauthenticated):
		return "Unauthorized. Please log in."
	case errors.Is(err, service.ErrForbidden):
		return "Forbidden. Admin access only."

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, store.ErrLookupNotFound):
		return "Record not found"
	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, shared.ErrInvalidBody):
		return "Invalid request format"

	default:
		return "An unexpected error occurred"
	}
}

// ErrorResponder writes error responses for handler failures.
type ErrorResponder struct {
	exposeErrors bool
}

// NewErrorResponder creates an ErrorResponder. When exposeErrors is set, 500
// responses carry the redacted underlying error.
func NewErrorResponder(exposeErrors bool) *ErrorResponder {
	return &ErrorResponder{exposeErrors: exposeErrors}
}

// HandleAPIError writes the response for err. Validation failures get the 422
// field map; server errors get failureMessage; everything else gets the safe
// message for its type.
func (e *ErrorResponder) HandleAPIError(w http.ResponseWriter, r *http.Request, err error, failureMessage string) {
	if shared.RespondWithValidationError(w, r, err) {
		return
	}

	status := MapErrorToStatusCode(err)
	if status < http.StatusInternalServerError {
		shared.RespondWithError(w, r, status, GetSafeErrorMessage(err))
		return
	}

	if failureMessage == "" {
		failureMessage = GetSafeErrorMessage(err)
	}
	var opts []shared.ResponseOption
	if e != nil && e.exposeErrors {
		opts = append(opts, shared.WithErrorDetail())
	}
	shared.RespondWithErrorAndLog(w, r, status, failureMessage, err, opts...)
}
