package store

import (
	"context"
	"time"
)

// RevokedTokenStore records token IDs that were invalidated by logout before
// their natural expiry.
type RevokedTokenStore interface {
	// Revoke marks jti as unusable until expiresAt. Revoking twice is not an error.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// IsRevoked reports whether jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// PurgeExpired drops revocations whose tokens expired before now and
	// returns how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
