package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/store"
)

// MockProductStore implements store.ProductStore in memory. Category and
// Status are resolved from the linked lookup stores on every read.
type MockProductStore struct {
	ListFn          func(ctx context.Context, filter domain.ProductFilter, page domain.PageRequest) ([]*domain.Product, int64, error)
	GetByIDFn       func(ctx context.Context, id int64) (*domain.Product, error)
	CreateFn        func(ctx context.Context, p *domain.Product) error
	UpdateFn        func(ctx context.Context, p *domain.Product) error
	DeleteFn        func(ctx context.Context, id int64) error
	CountFn         func(ctx context.Context) (int64, error)
	CountByStatusFn func(ctx context.Context) (map[string]int64, error)

	categories *MockLookupStore
	statuses   *MockLookupStore
	media      *MockMediaStore

	mu       sync.Mutex
	products []*domain.Product
	nextID   int64
	clock    time.Time
}

// NewMockProductStore creates an empty store joined to the given lookup stores.
func NewMockProductStore(categories, statuses *MockLookupStore) *MockProductStore {
	return &MockProductStore{
		categories: categories,
		statuses:   statuses,
		clock:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var _ store.ProductStore = (*MockProductStore)(nil)

// List implements store.ProductStore.
func (m *MockProductStore) List(
	ctx context.Context,
	filter domain.ProductFilter,
	page domain.PageRequest,
) ([]*domain.Product, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, page)
	}

	all := m.snapshot()
	search := strings.ToLower(filter.Search)
	var matched []*domain.Product
	for _, p := range all {
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.StatusID != nil && p.StatusID != *filter.StatusID {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	var out []*domain.Product
	for i := page.Offset(); i < len(matched) && len(out) < page.PerPage; i++ {
		out = append(out, matched[i])
	}
	return out, int64(len(matched)), nil
}

func matches(p *domain.Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) {
		return true
	}
	if p.Category != nil && strings.Contains(strings.ToLower(p.Category.Name), search) {
		return true
	}
	return p.Status != nil && strings.Contains(strings.ToLower(p.Status.Name), search)
}

// GetByID implements store.ProductStore.
func (m *MockProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for _, p := range m.snapshot() {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, store.ErrProductNotFound
}

// Create implements store.ProductStore.
func (m *MockProductStore) Create(ctx context.Context, p *domain.Product) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.clock = m.clock.Add(time.Second)
	p.ID = m.nextID
	p.CreatedAt, p.UpdatedAt = m.clock, m.clock
	m.products = append(m.products, stripRelations(p))
	return nil
}

// Update implements store.ProductStore.
func (m *MockProductStore) Update(ctx context.Context, p *domain.Product) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.products {
		if existing.ID == p.ID {
			m.products[i] = stripRelations(p)
			return nil
		}
	}
	return store.ErrProductNotFound
}

// Delete implements store.ProductStore. Media of the product is removed from
// the linked media store, like the cascading foreign key does.
func (m *MockProductStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	found := false
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()

	if !found {
		return store.ErrProductNotFound
	}
	if m.media != nil {
		_, _ = m.media.DeleteByProduct(ctx, id)
	}
	return nil
}

// Count implements store.ProductStore.
func (m *MockProductStore) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

// CountByStatus implements store.ProductStore.
func (m *MockProductStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	out := make(map[string]int64)
	for _, p := range m.snapshot() {
		name := domain.UnknownStatus
		if p.Status != nil {
			name = p.Status.Name
		}
		out[name]++
	}
	return out, nil
}

// WithTx implements store.ProductStore.
func (m *MockProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return m
}

// snapshot returns copies of every product with relations resolved.
func (m *MockProductStore) snapshot() []*domain.Product {
	m.mu.Lock()
	out := make([]*domain.Product, len(m.products))
	for i, p := range m.products {
		c := *p
		out[i] = &c
	}
	m.mu.Unlock()

	for _, p := range out {
		if m.categories != nil {
			p.Category = m.categories.lookup(p.CategoryID)
		}
		if m.statuses != nil {
			p.Status = m.statuses.lookup(p.StatusID)
		}
	}
	return out
}

// countBy counts products per referenced id of kind.
func (m *MockProductStore) countBy(kind domain.LookupKind) map[int64]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]int64)
	for _, p := range m.products {
		if kind == domain.StatusKind {
			out[p.StatusID]++
		} else {
			out[p.CategoryID]++
		}
	}
	return out
}

func stripRelations(p *domain.Product) *domain.Product {
	c := *p
	c.Category, c.Status, c.Media = nil, nil, nil
	return &c
}
