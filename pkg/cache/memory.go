package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry wraps stored bytes with an optional expiration.
type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// MemoryBackend is an unbounded, mutex-guarded, process-lifetime cache
// backend. It is the default: metadata resolution never needs eviction
// within a single Analyzer's lifetime, so the simplest possible storage is
// the right one.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]memoryEntry)}
}

// Get implements Backend.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	entry, ok := b.data[key]
	b.mu.RUnlock()
	if !ok || entry.expired() {
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set implements Backend.
func (b *MemoryBackend) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	b.mu.Lock()
	b.data[key] = entry
	b.mu.Unlock()
	return nil
}

// Close implements Backend. MemoryBackend holds no external resources.
func (b *MemoryBackend) Close() error {
	return nil
}

var _ Backend = (*MemoryBackend)(nil)
