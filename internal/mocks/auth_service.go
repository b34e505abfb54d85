package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/phrazzld/catalog-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
)

// AuthService is a testify mock of service.AuthService.
type AuthService struct {
	mock.Mock
}

var _ service.AuthService = (*AuthService)(nil)

// Register implements service.AuthService.
func (m *AuthService) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

// Login implements service.AuthService.
func (m *AuthService) Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

// Logout implements service.AuthService.
func (m *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

// Authenticate implements service.AuthService.
func (m *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

// CurrentUser implements service.AuthService.
func (m *AuthService) CurrentUser(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// TokenLifetime implements service.AuthService.
func (m *AuthService) TokenLifetime() time.Duration {
	return m.Called().Get(0).(time.Duration)
}
