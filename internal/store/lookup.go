package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/catalog-api/internal/domain"
)

// LookupStore persists one kind of lookup record (categories or statuses).
type LookupStore interface {
	// Kind reports which lookup table the store is bound to.
	Kind() domain.LookupKind

	// List returns one page of records, newest first, and the total row count.
	List(ctx context.Context, page domain.PageRequest) ([]*domain.Lookup, int64, error)

	// GetByID returns ErrLookupNotFound if the record does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Lookup, error)

	// ExistsByName reports whether another record already uses name.
	// A positive excludeID ignores that record, for updates.
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)

	// Exists reports whether a record with id exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// Create saves a new record and sets its ID.
	// Returns ErrNameExists on a unique violation.
	Create(ctx context.Context, l *domain.Lookup) error

	// Update saves the record's name.
	// Returns ErrLookupNotFound or ErrNameExists.
	Update(ctx context.Context, l *domain.Lookup) error

	// Delete removes the record. Products referencing it are left untouched.
	// Returns ErrLookupNotFound if the record does not exist.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of records.
	Count(ctx context.Context) (int64, error)

	// ProductCounts returns, for every record, its name and the number of
	// products referencing it, in creation order.
	ProductCounts(ctx context.Context) ([]domain.CategoryCount, error)

	// WithTx returns a LookupStore that runs its queries in tx.
	WithTx(tx *sql.Tx) LookupStore
}
