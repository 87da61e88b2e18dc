package auth

import (
	"context"
	"time"
)

// Revocations is a deny-list of token ids (jti). Entries only need to live
// until the token would have expired anyway.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
