package service

import (
	"context"
	"time"

	"github.com/licx/authgate/internal/kv"
)

// RateLimiter is a per-key cooldown gate backed by the shared key/value
// store, so the window holds across server instances. The check and the
// mark are one atomic SetNX; two concurrent callers on the same key can
// never both pass.
type RateLimiter struct {
	store  kv.Store
	window time.Duration
}

func NewRateLimiter(store kv.Store, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, window: window}
}

// Allow reports whether key is outside its cooldown window and, when it
// is, starts a new window. Store failures propagate as errors rather
// than rate-limit decisions.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.store.SetNX(ctx, key, "", l.window)
}
