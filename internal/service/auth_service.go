package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/service/auth"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/phrazzld/catalog-api/internal/validation"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// RegisterInput carries the raw registration fields. Nil means absent.
type RegisterInput struct {
	Name     *string
	Email    *string
	Password *string
	IsAdmin  *string
}

// LoginInput carries the raw login fields.
type LoginInput struct {
	Email    *string
	Password *string
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User  *domain.User
	Token *auth.Token
}

// AuthService provides registration, login, logout and token resolution.
type AuthService interface {
	// Register creates a user and issues a token. Returns validation.Errors
	// for invalid or duplicate input.
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)

	// Login checks the credentials and issues a token. Returns
	// auth.ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)

	// Logout revokes the token described by claims.
	Logout(ctx context.Context, claims *auth.Claims) error

	// Authenticate validates a bearer token and checks it was not revoked.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)

	// CurrentUser loads the user a token was issued for. Returns
	// store.ErrUserNotFound if the user no longer exists.
	CurrentUser(ctx context.Context, claims *auth.Claims) (*domain.User, error)

	// TokenLifetime is how long issued tokens stay valid.
	TokenLifetime() time.Duration
}

type authServiceImpl struct {
	users    store.UserStore
	revoked  store.RevokedTokenStore
	jwt      auth.JWTService
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users store.UserStore,
	revoked store.RevokedTokenStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authServiceImpl{
		users:    users,
		revoked:  revoked,
		jwt:      jwtService,
		hasher:   hasher,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "auth_service")),
		now:      time.Now,
	}
}

func (s *authServiceImpl) TokenLifetime() time.Duration {
	return s.jwt.TokenLifetime()
}

func (s *authServiceImpl) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	v := validation.New()
	v.Check("name", deref(in.Name), validation.Required(), validation.MaxLength(domain.MaxNameLength))
	if v.Check("email", deref(in.Email), validation.Required(), validation.Email()) {
		_, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(*in.Email))
		switch {
		case err == nil:
			v.Add("email", validation.Taken("email"))
		case !errors.Is(err, store.ErrUserNotFound):
			log.Error("failed to check email uniqueness", slog.String("error", redact.Error(err)))
			return nil, NewServiceError("register", "failed to check email", err)
		}
	}
	v.Check("password", deref(in.Password), validation.Required(), validation.MinLength(MinPasswordLength))
	isAdmin := false
	if in.IsAdmin != nil && strings.TrimSpace(*in.IsAdmin) != "" {
		if v.Check("is_admin", *in.IsAdmin, validation.Boolean()) {
			isAdmin, _ = strconv.ParseBool(strings.TrimSpace(*in.IsAdmin))
		}
	}
	if err := v.Err(); err != nil {
		log.Debug("registration input rejected", slog.String("error", err.Error()))
		return nil, err
	}

	hashed, err := s.hasher.Hash(*in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("register", "failed to hash password", err)
	}

	user, err := domain.NewUser(*in.Name, *in.Email, hashed, isAdmin)
	if err != nil {
		return nil, NewServiceError("register", "invalid user", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			// Lost a race with a concurrent registration.
			return nil, validation.Errors{{Field: "email", Message: validation.Taken("email")}}
		}
		log.Error("failed to save user", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("register", "failed to save user", err)
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue token", slog.String("error", redact.Error(err)), slog.Int64("user_id", user.ID))
		return nil, NewServiceError("register", "failed to issue token", err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID), slog.Bool("is_admin", user.IsAdmin))
	return &AuthResult{User: user, Token: token}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	v := validation.New()
	v.Check("email", deref(in.Email), validation.Required(), validation.Email())
	v.Check("password", deref(in.Password), validation.Required(), validation.MinLength(MinPasswordLength))
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(*in.Email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("failed to load user for login", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("login", "failed to load user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, *in.Password); err != nil {
		log.Debug("login attempt with wrong password", slog.Int64("user_id", user.ID))
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue token", slog.String("error", redact.Error(err)), slog.Int64("user_id", user.ID))
		return nil, NewServiceError("login", "failed to issue token", err)
	}

	log.Debug("user logged in", slog.Int64("user_id", user.ID))
	return &AuthResult{User: user, Token: token}, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, claims *auth.Claims) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if claims == nil || claims.ID == "" {
		return auth.ErrInvalidToken
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		log.Error("failed to revoke token",
			slog.String("error", redact.Error(err)),
			slog.Int64("user_id", claims.UserID))
		return NewServiceError("logout", "failed to revoke token", err)
	}

	if n, err := s.revoked.PurgeExpired(ctx, s.now()); err != nil {
		log.Warn("failed to purge expired revocations", slog.String("error", redact.Error(err)))
	} else if n > 0 {
		log.Debug("purged expired revocations", slog.Int64("count", n))
	}

	log.Debug("user logged out", slog.Int64("user_id", claims.UserID))
	return nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check token revocation",
			slog.String("error", redact.Error(err)))
		return nil, NewServiceError("authenticate", "failed to check token revocation", err)
	}
	if revoked {
		return nil, auth.ErrRevokedToken
	}
	return claims, nil
}

func (s *authServiceImpl) CurrentUser(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load current user",
				slog.String("error", redact.Error(err)),
				slog.Int64("user_id", claims.UserID))
		}
		return nil, err
	}
	return user, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
