package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/phrazzld/catalog-api/internal/service/auth"
	"github.com/phrazzld/catalog-api/internal/store"
)

// maxFormMemory bounds the memory used for non-file form fields.
const maxFormMemory = 1 << 20

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService service.AuthService
	errors      *ErrorResponder
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService service.AuthService, responder *ErrorResponder) *AuthHandler {
	return &AuthHandler{authService: authService, errors: responder}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	fields, err := shared.ReadFields(r, maxFormMemory)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:     fields.Get("name"),
		Email:    fields.Get("email"),
		Password: fields.Get("password"),
		IsAdmin:  fields.Get("is_admin"),
	})
	if err != nil {
		h.errors.HandleAPIError(w, r, err, "Registration failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Status:  shared.StatusSuccess,
		Message: "User registered successfully",
		User:    res.User,
		Token:   res.Token.Value,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields, err := shared.ReadFields(r, maxFormMemory)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    fields.Get("email"),
		Password: fields.Get("password"),
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
				shared.WithElevatedLogLevel())
			return
		}
		h.errors.HandleAPIError(w, r, err, "Login failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Status:    shared.StatusSuccess,
		User:      res.User,
		Token:     res.Token.Value,
		TokenType: "bearer",
		ExpiresIn: int64(h.authService.TokenLifetime().Seconds()),
	})
}

// Logout handles POST /logout. The token used for the request is revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := shared.GetClaims(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Token absent")
		return
	}

	if err := h.authService.Logout(r.Context(), claims); err != nil {
		h.errors.HandleAPIError(w, r, err, "Logout failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Status:  shared.StatusSuccess,
		Message: "Successfully logged out",
	})
}

// Me handles GET /me and returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := shared.GetClaims(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Token absent")
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), claims)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("token user no longer exists",
				slog.Int64("user_id", claims.UserID))
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.errors.HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}
