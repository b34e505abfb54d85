package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/catalog-api/internal/domain"
)

// ProductStore defines the interface for product data persistence.
// Products are returned with Category and Status populated when the
// referenced rows exist; Media is left for the MediaStore to fill.
type ProductStore interface {
	// List returns one page of products matching filter, newest first, and
	// the total number of matching rows.
	List(ctx context.Context, filter domain.ProductFilter, page domain.PageRequest) ([]*domain.Product, int64, error)

	// GetByID returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Create saves a new product and sets its ID.
	Create(ctx context.Context, p *domain.Product) error

	// Update saves every column of p.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes the product; its media rows cascade.
	// Returns ErrProductNotFound if the product does not exist.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of products.
	Count(ctx context.Context) (int64, error)

	// CountByStatus groups products by status name. Products whose status
	// no longer exists are counted under domain.UnknownStatus.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// WithTx returns a ProductStore that runs its queries in tx.
	WithTx(tx *sql.Tx) ProductStore
}
