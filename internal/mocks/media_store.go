package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/store"
)

// MockMediaStore implements store.MediaStore in memory.
type MockMediaStore struct {
	CreateFn          func(ctx context.Context, m *domain.Media) error
	ListByProductsFn  func(ctx context.Context, productIDs []int64) (map[int64][]*domain.Media, error)
	DeleteByProductFn func(ctx context.Context, productID int64) ([]*domain.Media, error)

	mu     sync.Mutex
	items  []*domain.Media
	nextID int64
}

// NewMockMediaStore creates an empty store.
func NewMockMediaStore() *MockMediaStore {
	return &MockMediaStore{}
}

var _ store.MediaStore = (*MockMediaStore)(nil)

// ListByProduct implements store.MediaStore.
func (m *MockMediaStore) ListByProduct(ctx context.Context, productID int64) ([]*domain.Media, error) {
	byProduct, err := m.ListByProducts(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	return byProduct[productID], nil
}

// ListByProducts implements store.MediaStore.
func (m *MockMediaStore) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]*domain.Media, error) {
	if m.ListByProductsFn != nil {
		return m.ListByProductsFn(ctx, productIDs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	out := make(map[int64][]*domain.Media)
	for _, item := range m.items {
		if wanted[item.ProductID] {
			out[item.ProductID] = append(out[item.ProductID], copyMedia(item))
		}
	}
	return out, nil
}

// Create implements store.MediaStore.
func (m *MockMediaStore) Create(ctx context.Context, item *domain.Media) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	item.ID = m.nextID
	item.CreatedAt = time.Now().UTC()
	m.items = append(m.items, copyMedia(item))
	return nil
}

// DeleteByProduct implements store.MediaStore.
func (m *MockMediaStore) DeleteByProduct(ctx context.Context, productID int64) ([]*domain.Media, error) {
	if m.DeleteByProductFn != nil {
		return m.DeleteByProductFn(ctx, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []*domain.Media
	kept := m.items[:0]
	for _, item := range m.items {
		if item.ProductID == productID {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	m.items = kept
	return removed, nil
}

// Len returns the number of stored rows.
func (m *MockMediaStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// WithTx implements store.MediaStore.
func (m *MockMediaStore) WithTx(tx *sql.Tx) store.MediaStore {
	return m
}

func copyMedia(item *domain.Media) *domain.Media {
	c := *item
	c.Conversions = make(map[string]string, len(item.Conversions))
	for k, v := range item.Conversions {
		c.Conversions[k] = v
	}
	return &c
}
