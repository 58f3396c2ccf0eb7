package service

import (
	"context"
	"time"

	"github.com/licx/authgate/internal/kv"
)

const denyKeyPrefix = "authgate:jwt:deny:"

// RevocationRegistry is the denylist layered on the otherwise stateless
// token scheme. Entries live exactly as long as the token they revoke
// would have, so the list stays proportional to revoked-not-yet-expired
// tokens.
type RevocationRegistry struct {
	store kv.Store
}

func NewRevocationRegistry(store kv.Store) *RevocationRegistry {
	return &RevocationRegistry{store: store}
}

// Revoke adds jti to the denylist until expiresAt. It returns false
// without error when the identifier is already revoked or the token has
// already expired.
func (r *RevocationRegistry) Revoke(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return false, nil
	}
	return r.store.SetNX(ctx, denyKeyPrefix+jti, "", ttl)
}

func (r *RevocationRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r.store.Exists(ctx, denyKeyPrefix+jti)
}
