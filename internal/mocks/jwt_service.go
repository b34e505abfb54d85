package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/catalog-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
// By default it issues tokens of the form "token-<userID>-<n>" and validates
// only tokens it issued.
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, userID int64) (*auth.Token, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Lifetime is reported by TokenLifetime and used for expiries.
	Lifetime time.Duration

	mu     sync.Mutex
	issued map[string]*auth.Claims
	n      int
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, userID int64) (*auth.Token, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.issued == nil {
		m.issued = make(map[string]*auth.Claims)
	}
	m.n++
	now := time.Now()
	value := fmt.Sprintf("token-%d-%d", userID, m.n)
	claims := &auth.Claims{
		UserID:    userID,
		Subject:   fmt.Sprint(userID),
		IssuedAt:  now,
		ExpiresAt: now.Add(m.TokenLifetime()),
		ID:        fmt.Sprintf("jti-%d", m.n),
	}
	m.issued[value] = claims
	return &auth.Token{Value: value, ID: claims.ID, ExpiresAt: claims.ExpiresAt}, nil
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if tokenString == "" {
		return nil, auth.ErrMissingToken
	}
	if strings.HasPrefix(tokenString, "expired") {
		return nil, auth.ErrExpiredToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	claims, ok := m.issued[tokenString]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	c := *claims
	return &c, nil
}

// TokenLifetime implements the auth.JWTService interface
func (m *MockJWTService) TokenLifetime() time.Duration {
	if m.Lifetime == 0 {
		return time.Hour
	}
	return m.Lifetime
}
