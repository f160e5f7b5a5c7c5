package cache

import (
	"context"
	"time"
)

// Cache is a small string cache used for code-to-promotion lookups on the
// read-only validate path. Redemption and stats writes never go through it.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
