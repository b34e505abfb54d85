package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/catalog-api/internal/domain"
)

// MediaStore persists the metadata of uploaded product images.
type MediaStore interface {
	// ListByProduct returns a product's media in upload order.
	ListByProduct(ctx context.Context, productID int64) ([]*domain.Media, error)

	// ListByProducts batch-loads media for several products, keyed by product ID.
	ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]*domain.Media, error)

	// Create saves a media row and sets its ID.
	Create(ctx context.Context, m *domain.Media) error

	// DeleteByProduct removes every media row of a product and returns the
	// removed rows so their stored objects can be deleted.
	DeleteByProduct(ctx context.Context, productID int64) ([]*domain.Media, error)

	// WithTx returns a MediaStore that runs its queries in tx.
	WithTx(tx *sql.Tx) MediaStore
}
