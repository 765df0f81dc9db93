package resolver

import (
	"context"

	"github.com/matzehuels/npmtree/pkg/cache"
	"github.com/matzehuels/npmtree/pkg/npmtree"
)

// CachedResolver memoizes resolved PackageInfo values by "{name}@{descriptor}"
// in front of a plain Resolver, so that repeated requests for the same
// descriptor (e.g. "express@^4" asked twice) never re-run version
// resolution or re-fetch the registry. Concurrent requests for the same key
// share a single in-flight resolution (see pkg/cache.MetadataCache).
type CachedResolver struct {
	inner *Resolver
	cache *cache.MetadataCache
}

// NewCachedResolver builds a CachedResolver over fetcher, using cacheImpl to
// memoize resolved descriptors.
func NewCachedResolver(fetcher Fetcher, cacheImpl *cache.MetadataCache) *CachedResolver {
	return &CachedResolver{inner: New(fetcher), cache: cacheImpl}
}

// Resolve resolves (name, descriptor) through the metadata cache.
func (r *CachedResolver) Resolve(ctx context.Context, name, descriptor string) (*npmtree.PackageInfo, error) {
	key := npmtree.Key(name, descriptor)
	return r.cache.Resolve(ctx, key, func(ctx context.Context) (*npmtree.PackageInfo, error) {
		return r.inner.Resolve(ctx, name, descriptor)
	})
}
