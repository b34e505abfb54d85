package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/catalog-api/internal/api"
	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/mocks"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/phrazzld/catalog-api/internal/service/auth"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/phrazzld/catalog-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func testUser() *domain.User {
	return &domain.User{ID: 7, Name: "Ada", Email: "ada@example.com", HashedPassword: "hash"}
}

func testToken() *auth.Token {
	return &auth.Token{Value: "signed.jwt.value", ID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}
}

// withClaims stands in for the authentication middleware.
func withClaims(claims *auth.Claims) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims != nil {
				r = r.WithContext(shared.WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authRouter(svc service.AuthService, claims *auth.Claims) http.Handler {
	h := api.NewAuthHandler(svc, api.NewErrorResponder(false))
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.With(withClaims(claims)).Post("/logout", h.Logout)
	r.With(withClaims(claims)).Get("/me", h.Me)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("success with JSON body", func(t *testing.T) {
		svc := new(mocks.AuthService)
		svc.On("Register", mock.Anything, service.RegisterInput{
			Name:     strPtr("Ada"),
			Email:    strPtr("ada@example.com"),
			Password: strPtr("secret123"),
			IsAdmin:  strPtr("true"),
		}).Return(&service.AuthResult{User: testUser(), Token: testToken()}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/register",
			strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"secret123","is_admin":true}`))
		r.Header.Set("Content-Type", "application/json")
		authRouter(svc, nil).ServeHTTP(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "User registered successfully", body["message"])
		assert.Equal(t, "signed.jwt.value", body["token"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "ada@example.com", user["email"])
		assert.NotContains(t, user, "password")
		assert.NotContains(t, user, "HashedPassword")
		svc.AssertExpectations(t)
	})

	t.Run("form body", func(t *testing.T) {
		svc := new(mocks.AuthService)
		svc.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
			return in.Name != nil && *in.Name == "Ada" && in.IsAdmin == nil
		})).Return(&service.AuthResult{User: testUser(), Token: testToken()}, nil)

		form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"secret123"}}
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		authRouter(svc, nil).ServeHTTP(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := new(mocks.AuthService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, validation.Errors{
			{Field: "email", Message: "The email has already been taken."},
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "application/json")
		authRouter(svc, nil).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Validation failed", body["message"])
		assert.Equal(t, []any{"The email has already been taken."}, body["errors"].(map[string]any)["email"])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		svc := new(mocks.AuthService)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":`))
		r.Header.Set("Content-Type", "application/json")
		authRouter(svc, nil).ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", decodeBody(t, w)["message"])
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("service failure", func(t *testing.T) {
		svc := new(mocks.AuthService)
		svc.On("Register", mock.Anything, mock.Anything).
			Return(nil, service.NewServiceError("register", "failed to save user", errors.New("db down")))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{}`))
		authRouter(svc, nil).ServeHTTP(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Registration failed", decodeBody(t, w)["message"])
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(mocks.AuthService)
		svc.On("Login", mock.Anything, service.LoginInput{
			Email:    strPtr("ada@example.com"),
			Password: strPtr("secret123"),
		}).Return(&service.AuthResult{User: testUser(), Token: testToken()}, nil)
		svc.On("TokenLifetime").Return(time.Hour)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"email":"ada@example.com","password":"secret123"}`))
		r.Header.Set("Content-Type", "application/json")
		authRouter(svc, nil).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "bearer", body["token_type"])
		assert.Equal(t, float64(3600), body["expires_in"])
		assert.Equal(t, "signed.jwt.value", body["token"])
		svc.AssertExpectations(t)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := new(mocks.AuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, auth.ErrInvalidCredentials)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"email":"ada@example.com","password":"wrong-one"}`))
		authRouter(svc, nil).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "Invalid credentials", body["message"])
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := new(mocks.AuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, validation.Errors{
			{Field: "password", Message: "The password field is required."},
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ada@example.com"}`))
		authRouter(svc, nil).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	claims := &auth.Claims{UserID: 7, ID: "jti-1"}

	t.Run("success", func(t *testing.T) {
		svc := new(mocks.AuthService)
		svc.On("Logout", mock.Anything, claims).Return(nil)

		w := httptest.NewRecorder()
		authRouter(svc, claims).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "Successfully logged out", body["message"])
		svc.AssertExpectations(t)
	})

	t.Run("failure", func(t *testing.T) {
		svc := new(mocks.AuthService)
		svc.On("Logout", mock.Anything, claims).
			Return(service.NewServiceError("logout", "failed to revoke token", errors.New("redis down")))

		w := httptest.NewRecorder()
		authRouter(svc, claims).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Logout failed", decodeBody(t, w)["message"])
	})

	t.Run("no claims", func(t *testing.T) {
		svc := new(mocks.AuthService)
		w := httptest.NewRecorder()
		authRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token absent", decodeBody(t, w)["message"])
	})
}

func TestAuthHandler_Me(t *testing.T) {
	claims := &auth.Claims{UserID: 7, ID: "jti-1"}

	tests := []struct {
		name        string
		user        *domain.User
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "current user", user: testUser(), wantStatus: http.StatusOK},
		{name: "deleted user", err: store.ErrUserNotFound, wantStatus: http.StatusNotFound, wantMessage: "User not found"},
		{
			name:        "store failure",
			err:         errors.New("connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to get user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.AuthService)
			if tt.user != nil {
				svc.On("CurrentUser", mock.Anything, claims).Return(tt.user, nil)
			} else {
				svc.On("CurrentUser", mock.Anything, claims).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/me", nil)
			authRouter(svc, claims).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["message"])
				return
			}
			assert.Equal(t, "Ada", body["name"])
			assert.Equal(t, false, body["is_admin"])
		})
	}
}
