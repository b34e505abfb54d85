package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/service/auth"
	"github.com/phrazzld/catalog-api/internal/store"
)

// Messages returned by the authentication and admin middleware.
const (
	MsgTokenAbsent   = "Token absent"
	MsgTokenExpired  = "Token expired"
	MsgTokenInvalid  = "Token invalid"
	MsgAuthFailed    = "Failed to authenticate"
	MsgPleaseLogIn   = "Unauthorized. Please log in."
	MsgAdminOnly     = "Forbidden. Admin access only."
	MsgAdminCheckErr = "Failed to verify admin access."
)

// Authenticator resolves bearer tokens and the users they belong to.
// service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	CurrentUser(ctx context.Context, claims *auth.Claims) (*domain.User, error)
}

// AuthMiddleware provides bearer token authentication and the admin gate.
type AuthMiddleware struct {
	auth Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: authenticator}
}

// Authenticate validates the bearer token from the Authorization header,
// rejects revoked tokens, and adds the claims to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.auth.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, MsgTokenAbsent)
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, MsgTokenExpired)
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrRevokedToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, MsgTokenInvalid)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgAuthFailed, err)
			}
			return
		}

		ctx := shared.WithClaims(r.Context(), claims)
		log := logger.FromContextOrDefault(ctx, slog.Default()).With(slog.Int64("user_id", claims.UserID))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin lets the request through only if the authenticated user
// exists and is an admin. It must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := shared.GetClaims(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgPleaseLogIn)
			return
		}

		user, err := m.auth.CurrentUser(r.Context(), claims)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, MsgPleaseLogIn)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgAdminCheckErr, err)
			return
		}
		if !user.IsAdmin {
			shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, MsgAdminOnly, nil,
				shared.WithElevatedLogLevel())
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
	})
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header,
// or "" if there is none.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
