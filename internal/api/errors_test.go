package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/phrazzld/catalog-api/internal/service/auth"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/phrazzld/catalog-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"validation errors", validation.Errors{{Field: "name", Message: "x"}}, http.StatusUnprocessableEntity},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"wrapped invalid token", fmt.Errorf("failed to authenticate: %w", auth.ErrInvalidToken), http.StatusUnauthorized},
		{"revoked token", auth.ErrRevokedToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"product not found", store.ErrProductNotFound, http.StatusNotFound},
		{"lookup not found", fmt.Errorf("get: %w", store.ErrLookupNotFound), http.StatusNotFound},
		{"invalid body", fmt.Errorf("%w: eof", shared.ErrInvalidBody), http.StatusBadRequest},
		{"service error", service.NewServiceError("op", "failed", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"missing token", auth.ErrMissingToken, "Token absent"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"invalid token", auth.ErrInvalidToken, "Token invalid"},
		{"revoked token", auth.ErrRevokedToken, "Token invalid"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid credentials"},
		{"forbidden", service.ErrForbidden, "Forbidden. Admin access only."},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"product not found", fmt.Errorf("wrap: %w", store.ErrProductNotFound), "Product not found"},
		{"unknown", errors.New("connection refused to 10.0.0.1"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestErrorResponder_HandleAPIError(t *testing.T) {
	internal := service.NewServiceError("create_product", "failed to save product",
		errors.New("insert failed: password=hunter2"))

	tests := []struct {
		name        string
		responder   *ErrorResponder
		err         error
		wantStatus  int
		wantMessage string
		wantDetail  bool
	}{
		{
			name:        "client error uses safe message",
			responder:   NewErrorResponder(false),
			err:         store.ErrProductNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Product not found",
		},
		{
			name:        "server error uses failure message",
			responder:   NewErrorResponder(false),
			err:         internal,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to create product",
		},
		{
			name:        "server error with detail",
			responder:   NewErrorResponder(true),
			err:         internal,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to create product",
			wantDetail:  true,
		},
		{
			name:        "nil responder",
			responder:   nil,
			err:         internal,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to create product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/v1/store-product", nil)

			tt.responder.HandleAPIError(w, r, tt.err, "Failed to create product")

			assert.Equal(t, tt.wantStatus, w.Code)
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, shared.StatusError, body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
			if tt.wantDetail {
				assert.NotEmpty(t, body.Error)
				assert.NotContains(t, body.Error, "hunter2")
			} else {
				assert.Empty(t, body.Error)
			}
		})
	}
}

func TestErrorResponder_Validation(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/register", nil)

	NewErrorResponder(false).HandleAPIError(w, r, validation.Errors{
		{Field: "email", Message: "The email field is required."},
	}, "Registration failed")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body shared.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, []string{"The email field is required."}, body.Errors["email"])
}
