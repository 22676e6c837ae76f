package cache

import (
	"context"
	"errors"
	"time"
)

// based on github.com/kittpat1413/go-common/framework/cache/cache.go

var ErrCacheMiss = errors.New("cache miss")

type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (*V, error)
	Invalidate(ctx context.Context, key K)
}

// Store is a cache which is filled from the outside.
// Used for raw responses of remote data sources.
type Store interface {
	// Get returns ErrCacheMiss if there is no (valid) entry for key
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, ttl time.Duration) error
}
