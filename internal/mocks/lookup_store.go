package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/store"
)

// MockLookupStore implements store.LookupStore in memory.
type MockLookupStore struct {
	ListFn          func(ctx context.Context, page domain.PageRequest) ([]*domain.Lookup, int64, error)
	GetByIDFn       func(ctx context.Context, id int64) (*domain.Lookup, error)
	ExistsFn        func(ctx context.Context, id int64) (bool, error)
	CreateFn        func(ctx context.Context, l *domain.Lookup) error
	DeleteFn        func(ctx context.Context, id int64) error
	CountFn         func(ctx context.Context) (int64, error)
	ProductCountsFn func(ctx context.Context) ([]domain.CategoryCount, error)

	kind     domain.LookupKind
	products *MockProductStore

	mu      sync.Mutex
	records []*domain.Lookup // creation order
	nextID  int64
	clock   time.Time
}

// NewMockLookupStore creates an empty store for kind.
func NewMockLookupStore(kind domain.LookupKind) *MockLookupStore {
	return &MockLookupStore{kind: kind, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

var _ store.LookupStore = (*MockLookupStore)(nil)

// Kind implements store.LookupStore.
func (m *MockLookupStore) Kind() domain.LookupKind { return m.kind }

// Seed creates records with the given names and returns them.
func (m *MockLookupStore) Seed(names ...string) []*domain.Lookup {
	out := make([]*domain.Lookup, 0, len(names))
	for _, name := range names {
		l, err := domain.NewLookup(name)
		if err != nil {
			panic(err)
		}
		if err := m.Create(context.Background(), l); err != nil {
			panic(err)
		}
		out = append(out, l)
	}
	return out
}

// List implements store.LookupStore.
func (m *MockLookupStore) List(ctx context.Context, page domain.PageRequest) ([]*domain.Lookup, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := make([]*domain.Lookup, len(m.records))
	copy(sorted, m.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	var out []*domain.Lookup
	for i := page.Offset(); i < len(sorted) && len(out) < page.PerPage; i++ {
		l := *sorted[i]
		out = append(out, &l)
	}
	return out, int64(len(sorted)), nil
}

// GetByID implements store.LookupStore.
func (m *MockLookupStore) GetByID(ctx context.Context, id int64) (*domain.Lookup, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if l := m.find(id); l != nil {
		c := *l
		return &c, nil
	}
	return nil, store.ErrLookupNotFound
}

// ExistsByName implements store.LookupStore.
func (m *MockLookupStore) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.records {
		if l.Name == name && l.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Exists implements store.LookupStore.
func (m *MockLookupStore) Exists(ctx context.Context, id int64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(id) != nil, nil
}

// Create implements store.LookupStore.
func (m *MockLookupStore) Create(ctx context.Context, l *domain.Lookup) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.Name == l.Name {
			return store.ErrNameExists
		}
	}
	m.nextID++
	// Strictly increasing timestamps keep newest-first ordering deterministic.
	m.clock = m.clock.Add(time.Second)
	l.ID = m.nextID
	l.CreatedAt, l.UpdatedAt = m.clock, m.clock
	stored := *l
	m.records = append(m.records, &stored)
	return nil
}

// Update implements store.LookupStore.
func (m *MockLookupStore) Update(ctx context.Context, l *domain.Lookup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.Name == l.Name && existing.ID != l.ID {
			return store.ErrNameExists
		}
	}
	existing := m.find(l.ID)
	if existing == nil {
		return store.ErrLookupNotFound
	}
	existing.Name = l.Name
	existing.UpdatedAt = l.UpdatedAt
	return nil
}

// Delete implements store.LookupStore.
func (m *MockLookupStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.records {
		if l.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return store.ErrLookupNotFound
}

// Count implements store.LookupStore.
func (m *MockLookupStore) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

// ProductCounts implements store.LookupStore. Counts come from the product
// store linked by NewCatalog; without one every count is zero.
func (m *MockLookupStore) ProductCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	if m.ProductCountsFn != nil {
		return m.ProductCountsFn(ctx)
	}
	var counts map[int64]int64
	if m.products != nil {
		counts = m.products.countBy(m.kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CategoryCount, 0, len(m.records))
	for _, l := range m.records {
		out = append(out, domain.CategoryCount{Name: l.Name, Count: counts[l.ID]})
	}
	return out, nil
}

// WithTx implements store.LookupStore.
func (m *MockLookupStore) WithTx(tx *sql.Tx) store.LookupStore {
	return m
}

func (m *MockLookupStore) find(id int64) *domain.Lookup {
	for _, l := range m.records {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// lookup returns a copy of record id, or nil.
func (m *MockLookupStore) lookup(id int64) *domain.Lookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l := m.find(id); l != nil {
		c := *l
		return &c
	}
	return nil
}
