package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUBackend is a bounded, process-lifetime cache backend for callers who
// want to cap memory use instead of accepting MemoryBackend's unbounded
// growth, e.g. a long-running service resolving many distinct packages
// across many requests.
type LRUBackend struct {
	cache *lru.Cache[string, memoryEntry]
}

// NewLRUBackend returns an LRUBackend holding at most size entries,
// evicting least-recently-used entries once full.
func NewLRUBackend(size int) (*LRUBackend, error) {
	c, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUBackend{cache: c}, nil
}

// Get implements Backend.
func (b *LRUBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := b.cache.Get(key)
	if !ok || entry.expired() {
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set implements Backend.
func (b *LRUBackend) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	b.cache.Add(key, entry)
	return nil
}

// Close implements Backend. LRUBackend holds no external resources.
func (b *LRUBackend) Close() error {
	return nil
}

var _ Backend = (*LRUBackend)(nil)
