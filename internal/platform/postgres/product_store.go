package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/store"
)

// productSelect loads products with their category and status. The joins are
// outer joins because the referenced rows may have been deleted.
const productSelect = `
	SELECT p.id, p.name, p.price, p.product_category_id, p.product_status_id, p.created_at, p.updated_at,
		c.id, c.name, c.created_at, c.updated_at,
		s.id, s.name, s.created_at, s.updated_at
	FROM products p
	LEFT JOIN product_categories c ON c.id = p.product_category_id
	LEFT JOIN product_statuses s ON s.id = p.product_status_id`

const productFrom = `
	FROM products p
	LEFT JOIN product_categories c ON c.id = p.product_category_id
	LEFT JOIN product_statuses s ON s.id = p.product_status_id`

// PostgresProductStore implements store.ProductStore.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a product store over db.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

var _ store.ProductStore = (*PostgresProductStore)(nil)

// escapeLike escapes the LIKE wildcards in s so it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// productWhere builds the WHERE clause for filter. The search term matches
// product, category or status names; the id filters are AND-ed with it.
func productWhere(filter domain.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(p.name ILIKE $%d OR c.name ILIKE $%d OR s.name ILIKE $%d)", n, n, n))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("p.product_category_id = $%d", len(args)))
	}
	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		conds = append(conds, fmt.Sprintf("p.product_status_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p                  domain.Product
		catID, statusID    sql.NullInt64
		catName, statusNm  sql.NullString
		catCreated, catUpd sql.NullTime
		stCreated, stUpd   sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.CategoryID, &p.StatusID, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catCreated, &catUpd,
		&statusID, &statusNm, &stCreated, &stUpd,
	)
	if err != nil {
		return nil, err
	}
	if catID.Valid {
		p.Category = &domain.Category{ID: catID.Int64, Name: catName.String, CreatedAt: catCreated.Time, UpdatedAt: catUpd.Time}
	}
	if statusID.Valid {
		p.Status = &domain.Status{ID: statusID.Int64, Name: statusNm.String, CreatedAt: stCreated.Time, UpdatedAt: stUpd.Time}
	}
	return &p, nil
}

// List implements store.ProductStore.List.
func (s *PostgresProductStore) List(
	ctx context.Context,
	filter domain.ProductFilter,
	page domain.PageRequest,
) ([]*domain.Product, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := productWhere(filter)

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+productFrom+where, args...).Scan(&total); err != nil {
		log.Error("failed to count products", slog.String("error", redact.Error(err)))
		return nil, 0, MapError(err)
	}

	query := productSelect + where + fmt.Sprintf(
		" ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list products", slog.String("error", redact.Error(err)))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]*domain.Product, 0, page.PerPage)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product", slog.String("error", redact.Error(err)))
			return nil, 0, MapError(err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating products", slog.String("error", redact.Error(err)))
		return nil, 0, MapError(err)
	}

	log.Debug("products listed",
		slog.Int("page", page.Page),
		slog.Int("count", len(products)),
		slog.Int64("total", total))
	return products, total, nil
}

// GetByID implements store.ProductStore.GetByID.
func (s *PostgresProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := scanProduct(s.db.QueryRowContext(ctx, productSelect+" WHERE p.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("product not found", slog.Int64("product_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrProductNotFound, id)
		}
		log.Error("failed to get product", slog.Int64("product_id", id), slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	return p, nil
}

// Create implements store.ProductStore.Create.
func (s *PostgresProductStore) Create(ctx context.Context, p *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO products (name, price, product_category_id, product_status_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		p.Name, p.Price, p.CategoryID, p.StatusID, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		log.Error("failed to create product", slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	log.Info("product created", slog.Int64("product_id", p.ID))
	return nil
}

// Update implements store.ProductStore.Update.
func (s *PostgresProductStore) Update(ctx context.Context, p *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE products
		SET name = $1, price = $2, product_category_id = $3, product_status_id = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query, p.Name, p.Price, p.CategoryID, p.StatusID, p.UpdatedAt, p.ID)
	if err != nil {
		log.Error("failed to update product", slog.Int64("product_id", p.ID), slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrProductNotFound); err != nil {
		return err
	}

	log.Info("product updated", slog.Int64("product_id", p.ID))
	return nil
}

// Delete implements store.ProductStore.Delete.
func (s *PostgresProductStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete product", slog.Int64("product_id", id), slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrProductNotFound); err != nil {
		return err
	}

	log.Info("product deleted", slog.Int64("product_id", id))
	return nil
}

// Count implements store.ProductStore.Count.
func (s *PostgresProductStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count products",
			slog.String("error", redact.Error(err)))
		return 0, MapError(err)
	}
	return total, nil
}

// CountByStatus implements store.ProductStore.CountByStatus.
func (s *PostgresProductStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT s.name, COUNT(*)
		FROM products p
		LEFT JOIN product_statuses s ON s.id = p.product_status_id
		GROUP BY s.name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to count products by status", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			name  sql.NullString
			count int64
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, MapError(err)
		}
		key := domain.UnknownStatus
		if name.Valid {
			key = name.String
		}
		counts[key] += count
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return counts, nil
}

// WithTx implements store.ProductStore.WithTx.
func (s *PostgresProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return &PostgresProductStore{db: tx, logger: s.logger}
}
