package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository supplies the materialized store catalog.
// Ordering of the returned slice is arbitrary.
type CatalogRepository interface {
	ListStores(ctx context.Context) ([]StoreCandidate, error)
}
