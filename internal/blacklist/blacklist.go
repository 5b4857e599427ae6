package blacklist

import (
	"context"
	"time"
)

// TokenBlacklist records revoked refresh tokens by their jti until they
// would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}
