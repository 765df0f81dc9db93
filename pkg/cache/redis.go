package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend shares resolved-descriptor memoization across multiple
// analyzer processes, e.g. a fleet of resolver workers behind a queue. A
// miss in one process that then populates Redis becomes a hit in every
// other process using the same key. Because a cache value is a pure
// function of its key, two processes racing to populate the same key is
// harmless: the loser's write is simply redundant.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps an existing redis.Client. The caller owns the
// client's lifecycle beyond Close, which only closes the connection this
// backend was given.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements Backend. A zero TTL stores the entry without expiration.
func (b *RedisBackend) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, data, ttl).Err()
}

// Close implements Backend.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

var _ Backend = (*RedisBackend)(nil)
