package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/txcache/internal/application/adapter"
)

// redisStore implements the adapter.KeyValueStore interface on Redis.
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed key-value store. Every key is prefixed with prefix.
func NewRedisStore(client *redis.Client, prefix string) adapter.KeyValueStore {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves the value stored under key.
func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key without expiry.
func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
