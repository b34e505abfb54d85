package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/store"
)

const mediaColumns = `id, product_id, collection_name, file_name, mime_type, size, disk,
	original_key, conversions, order_column, created_at`

// PostgresMediaStore implements store.MediaStore.
type PostgresMediaStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMediaStore creates a media store over db.
func NewPostgresMediaStore(db store.DBTX, logger *slog.Logger) *PostgresMediaStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresMediaStore{
		db:     db,
		logger: logger.With(slog.String("component", "media_store")),
	}
}

var _ store.MediaStore = (*PostgresMediaStore)(nil)

func scanMedia(row rowScanner) (*domain.Media, error) {
	var (
		m           domain.Media
		conversions []byte
	)
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Collection, &m.FileName, &m.MimeType, &m.Size, &m.Disk,
		&m.OriginalKey, &conversions, &m.OrderColumn, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Conversions = map[string]string{}
	if len(conversions) > 0 {
		if err := json.Unmarshal(conversions, &m.Conversions); err != nil {
			return nil, fmt.Errorf("invalid conversions for media %d: %w", m.ID, err)
		}
	}
	return &m, nil
}

func (s *PostgresMediaStore) query(ctx context.Context, query string, args ...any) ([]*domain.Media, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query media", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			log.Error("failed to scan media", slog.String("error", redact.Error(err)))
			return nil, MapError(err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return items, nil
}

// ListByProduct implements store.MediaStore.ListByProduct.
func (s *PostgresMediaStore) ListByProduct(ctx context.Context, productID int64) ([]*domain.Media, error) {
	items, err := s.query(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE product_id = $1 ORDER BY order_column, id`,
		productID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Media{}
	}
	return items, nil
}

// ListByProducts implements store.MediaStore.ListByProducts.
func (s *PostgresMediaStore) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]*domain.Media, error) {
	result := make(map[int64][]*domain.Media, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(productIDs))
	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	items, err := s.query(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE product_id IN (`+strings.Join(placeholders, ", ")+
			`) ORDER BY product_id, order_column, id`,
		args...)
	if err != nil {
		return nil, err
	}
	for _, m := range items {
		result[m.ProductID] = append(result[m.ProductID], m)
	}
	return result, nil
}

// Create implements store.MediaStore.Create.
func (s *PostgresMediaStore) Create(ctx context.Context, m *domain.Media) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	conversions, err := json.Marshal(m.Conversions)
	if err != nil {
		return fmt.Errorf("%w: conversions: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO media (product_id, collection_name, file_name, mime_type, size, disk,
			original_key, conversions, order_column, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id
	`
	err = s.db.QueryRowContext(ctx, query,
		m.ProductID, m.Collection, m.FileName, m.MimeType, m.Size, m.Disk,
		m.OriginalKey, string(conversions), m.OrderColumn, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		log.Error("failed to create media",
			slog.Int64("product_id", m.ProductID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	log.Debug("media created", slog.Int64("media_id", m.ID), slog.Int64("product_id", m.ProductID))
	return nil
}

// DeleteByProduct implements store.MediaStore.DeleteByProduct.
func (s *PostgresMediaStore) DeleteByProduct(ctx context.Context, productID int64) ([]*domain.Media, error) {
	items, err := s.query(ctx,
		`DELETE FROM media WHERE product_id = $1 RETURNING `+mediaColumns,
		productID)
	if err != nil {
		return nil, err
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("media deleted",
		slog.Int64("product_id", productID),
		slog.Int("count", len(items)))
	return items, nil
}

// WithTx implements store.MediaStore.WithTx.
func (s *PostgresMediaStore) WithTx(tx *sql.Tx) store.MediaStore {
	return &PostgresMediaStore{db: tx, logger: s.logger}
}
