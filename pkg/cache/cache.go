// Package cache provides the memoization layer sitting in front of the
// registry client: resolved package metadata is keyed by "name@descriptor"
// (the literal descriptor string a caller asked for, not the version it
// resolved to) and populated at most once per key, even under concurrent
// lookups of the same key.
//
// The pluggable Backend interface lets a caller choose how that memoization
// is stored: MemoryBackend (the default, unbounded, process-lifetime),
// LRUBackend (bounded, process-lifetime), or RedisBackend (shared across
// processes). MetadataCache adds single-flight deduplication and JSON
// (de)serialization on top of whichever Backend is configured.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/npmtree/pkg/npmtree"
	"github.com/matzehuels/npmtree/pkg/observability"
)

// Backend stores and retrieves raw, already-serialized cache entries. It is
// the seam pluggable cache implementations satisfy; MetadataCache is the
// only caller.
type Backend interface {
	// Get returns the stored bytes for key and true, or (nil, false) on a
	// miss (including an expired entry).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key with the given TTL. A zero TTL means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Close releases any resources (network connections, background
	// goroutines) held by the backend.
	Close() error
}

// MetadataCache memoizes package metadata resolution. The zero value is not
// usable; construct with NewMetadataCache.
type MetadataCache struct {
	backend Backend
	ttl     time.Duration
	group   singleflight.Group
}

// NewMetadataCache builds a MetadataCache over backend, storing entries with
// the given TTL (0 means entries never expire, appropriate for MemoryBackend
// and LRUBackend since eviction there is by capacity or process lifetime,
// not time).
func NewMetadataCache(backend Backend, ttl time.Duration) *MetadataCache {
	return &MetadataCache{backend: backend, ttl: ttl}
}

// Resolve returns the cached PackageInfo for key, calling fetch to populate
// it on a miss. Concurrent Resolve calls for the same key share a single
// in-flight fetch; only one of them actually invokes fetch.
func (m *MetadataCache) Resolve(ctx context.Context, key string, fetch func(context.Context) (*npmtree.PackageInfo, error)) (*npmtree.PackageInfo, error) {
	if data, ok, err := m.backend.Get(ctx, key); err != nil {
		return nil, err
	} else if ok {
		var info npmtree.PackageInfo
		if err := json.Unmarshal(data, &info); err != nil {
			return nil, err
		}
		observability.Cache().OnCacheHit(ctx, key)
		return &info, nil
	}

	observability.Cache().OnCacheMiss(ctx, key)

	v, err, _ := m.group.Do(key, func() (any, error) {
		info, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(info)
		if err != nil {
			return nil, err
		}
		if err := m.backend.Set(ctx, key, data, m.ttl); err != nil {
			return nil, err
		}
		observability.Cache().OnCacheSet(ctx, key, len(data))
		return info, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*npmtree.PackageInfo), nil
}

// Close releases the underlying backend's resources.
func (m *MetadataCache) Close() error {
	return m.backend.Close()
}
