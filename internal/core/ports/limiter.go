package ports

import "context"

// LoginLimiter counts login attempts per key within a fixed window.
type LoginLimiter interface {
	// Allow records one attempt for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}
