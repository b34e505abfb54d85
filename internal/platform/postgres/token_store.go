package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/store"
)

// PostgresRevokedTokenStore implements store.RevokedTokenStore over the
// revoked_tokens table.
type PostgresRevokedTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRevokedTokenStore creates a revocation store over db.
func NewPostgresRevokedTokenStore(db store.DBTX, logger *slog.Logger) *PostgresRevokedTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRevokedTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "revoked_token_store")),
	}
}

var _ store.RevokedTokenStore = (*PostgresRevokedTokenStore)(nil)

// Revoke implements store.RevokedTokenStore.Revoke.
func (s *PostgresRevokedTokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, jti, expiresAt.UTC()); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to revoke token",
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return nil
}

// IsRevoked implements store.RevokedTokenStore.IsRevoked.
func (s *PostgresRevokedTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti,
	).Scan(&revoked)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check token revocation",
			slog.String("error", redact.Error(err)))
		return false, MapError(err)
	}
	return revoked, nil
}

// PurgeExpired implements store.RevokedTokenStore.PurgeExpired.
func (s *PostgresRevokedTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to purge revoked tokens",
			slog.String("error", redact.Error(err)))
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
