package mocks

import "github.com/phrazzld/catalog-api/internal/domain"

// Catalog bundles in-memory category, status, product and media stores that
// see each other's data, so joins, search and dashboard counts behave like
// the Postgres stores.
type Catalog struct {
	Categories *MockLookupStore
	Statuses   *MockLookupStore
	Products   *MockProductStore
	Media      *MockMediaStore
}

// NewCatalog creates empty, linked stores.
func NewCatalog() *Catalog {
	categories := NewMockLookupStore(domain.CategoryKind)
	statuses := NewMockLookupStore(domain.StatusKind)
	products := NewMockProductStore(categories, statuses)
	mediaStore := NewMockMediaStore()

	products.media = mediaStore
	categories.products = products
	statuses.products = products

	return &Catalog{
		Categories: categories,
		Statuses:   statuses,
		Products:   products,
		Media:      mediaStore,
	}
}
