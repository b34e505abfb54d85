package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/catalog-api/internal/store"
)

// MockRevokedTokenStore implements store.RevokedTokenStore in memory.
type MockRevokedTokenStore struct {
	RevokeFn    func(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevokedFn func(ctx context.Context, jti string) (bool, error)
	PurgeFn     func(ctx context.Context, now time.Time) (int64, error)

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMockRevokedTokenStore creates an empty store.
func NewMockRevokedTokenStore() *MockRevokedTokenStore {
	return &MockRevokedTokenStore{revoked: make(map[string]time.Time)}
}

var _ store.RevokedTokenStore = (*MockRevokedTokenStore)(nil)

// Revoke implements store.RevokedTokenStore.
func (m *MockRevokedTokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, jti, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = expiresAt
	return nil
}

// IsRevoked implements store.RevokedTokenStore.
func (m *MockRevokedTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

// PurgeExpired implements store.RevokedTokenStore.
func (m *MockRevokedTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.PurgeFn != nil {
		return m.PurgeFn(ctx, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for jti, exp := range m.revoked {
		if exp.Before(now) {
			delete(m.revoked, jti)
			n++
		}
	}
	return n, nil
}

// Len returns the number of tracked revocations.
func (m *MockRevokedTokenStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.revoked)
}
