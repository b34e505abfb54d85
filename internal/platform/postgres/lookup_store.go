package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/store"
)

// PostgresLookupStore implements store.LookupStore for one lookup table.
// Table and column names come from domain.LookupKind, never from input.
type PostgresLookupStore struct {
	db     store.DBTX
	kind   domain.LookupKind
	logger *slog.Logger
}

// NewPostgresLookupStore creates a store bound to kind's table.
func NewPostgresLookupStore(db store.DBTX, kind domain.LookupKind, logger *slog.Logger) *PostgresLookupStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if kind.Table == "" || kind.ProductColumn == "" {
		panic("lookup kind must name a table and a product column")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLookupStore{
		db:     db,
		kind:   kind,
		logger: logger.With(slog.String("component", kind.Name+"_store")),
	}
}

// NewPostgresCategoryStore creates the product category store.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresLookupStore {
	return NewPostgresLookupStore(db, domain.CategoryKind, logger)
}

// NewPostgresStatusStore creates the product status store.
func NewPostgresStatusStore(db store.DBTX, logger *slog.Logger) *PostgresLookupStore {
	return NewPostgresLookupStore(db, domain.StatusKind, logger)
}

var _ store.LookupStore = (*PostgresLookupStore)(nil)

// Kind implements store.LookupStore.Kind.
func (s *PostgresLookupStore) Kind() domain.LookupKind {
	return s.kind
}

// List implements store.LookupStore.List.
func (s *PostgresLookupStore) List(ctx context.Context, page domain.PageRequest) ([]*domain.Lookup, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	total, err := s.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, created_at, updated_at
		FROM %s
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, s.kind.Table)

	rows, err := s.db.QueryContext(ctx, query, page.PerPage, page.Offset())
	if err != nil {
		log.Error("failed to list records",
			slog.Int("page", page.Page),
			slog.String("error", redact.Error(err)))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.Lookup, 0, page.PerPage)
	for rows.Next() {
		var l domain.Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			log.Error("failed to scan record", slog.String("error", redact.Error(err)))
			return nil, 0, MapError(err)
		}
		items = append(items, &l)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating records", slog.String("error", redact.Error(err)))
		return nil, 0, MapError(err)
	}

	return items, total, nil
}

// GetByID implements store.LookupStore.GetByID.
func (s *PostgresLookupStore) GetByID(ctx context.Context, id int64) (*domain.Lookup, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s WHERE id = $1`, s.kind.Table)

	var l domain.Lookup
	err := s.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("record not found", slog.Int64("id", id))
			return nil, fmt.Errorf("%w: %s %d", store.ErrLookupNotFound, s.kind.Name, id)
		}
		log.Error("failed to get record", slog.Int64("id", id), slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	return &l, nil
}

// ExistsByName implements store.LookupStore.ExistsByName.
func (s *PostgresLookupStore) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE name = $1 AND id <> $2)`, s.kind.Table)
	return s.exists(ctx, query, name, excludeID)
}

// Exists implements store.LookupStore.Exists.
func (s *PostgresLookupStore) Exists(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, s.kind.Table)
	return s.exists(ctx, query, id)
}

func (s *PostgresLookupStore) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check existence",
			slog.String("error", redact.Error(err)))
		return false, MapError(err)
	}
	return found, nil
}

// Create implements store.LookupStore.Create.
func (s *PostgresLookupStore) Create(ctx context.Context, l *domain.Lookup) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := l.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, s.kind.Table)

	if err := s.db.QueryRowContext(ctx, query, l.Name, l.CreatedAt, l.UpdatedAt).Scan(&l.ID); err != nil {
		if !IsUniqueViolation(err) {
			log.Error("failed to create record", slog.String("error", redact.Error(err)))
		}
		return MapUniqueViolation(err, store.ErrNameExists)
	}

	log.Info("record created", slog.Int64("id", l.ID))
	return nil
}

// Update implements store.LookupStore.Update.
func (s *PostgresLookupStore) Update(ctx context.Context, l *domain.Lookup) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := l.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := fmt.Sprintf(`UPDATE %s SET name = $1, updated_at = $2 WHERE id = $3`, s.kind.Table)

	result, err := s.db.ExecContext(ctx, query, l.Name, l.UpdatedAt, l.ID)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.Error("failed to update record", slog.Int64("id", l.ID), slog.String("error", redact.Error(err)))
		}
		return MapUniqueViolation(err, store.ErrNameExists)
	}
	if err := CheckRowsAffected(result, store.ErrLookupNotFound); err != nil {
		return err
	}

	log.Info("record updated", slog.Int64("id", l.ID))
	return nil
}

// Delete implements store.LookupStore.Delete.
func (s *PostgresLookupStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.kind.Table)

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete record", slog.Int64("id", id), slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrLookupNotFound); err != nil {
		return err
	}

	log.Info("record deleted", slog.Int64("id", id))
	return nil
}

// Count implements store.LookupStore.Count.
func (s *PostgresLookupStore) Count(ctx context.Context) (int64, error) {
	var total int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.kind.Table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count records",
			slog.String("error", redact.Error(err)))
		return 0, MapError(err)
	}
	return total, nil
}

// ProductCounts implements store.LookupStore.ProductCounts.
func (s *PostgresLookupStore) ProductCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT l.name, COUNT(p.id)
		FROM %s l
		LEFT JOIN products p ON p.%s = l.id
		GROUP BY l.id, l.name
		ORDER BY l.id
	`, s.kind.Table, s.kind.ProductColumn)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to count products", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := []domain.CategoryCount{}
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, MapError(err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return counts, nil
}

// WithTx implements store.LookupStore.WithTx.
func (s *PostgresLookupStore) WithTx(tx *sql.Tx) store.LookupStore {
	return &PostgresLookupStore{db: tx, kind: s.kind, logger: s.logger}
}
