package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport-level Redis failures so callers can
// distinguish an unreachable backend from an absent credential.
var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisStore persists the credential as a single opaque value under one
// Redis key. A zero TTL stores the credential without expiry.
//
// RedisStore suits deployments where the client process is ephemeral but a
// Redis instance outlives it, so a restart can resume the previous session.
type RedisStore struct {
	redis redis.UniversalClient
	key   string
	ttl   time.Duration
}

// NewRedisStore creates a [RedisStore] writing to key on the given client.
func NewRedisStore(client redis.UniversalClient, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis: client,
		key:   key,
		ttl:   ttl,
	}
}

// Save stores the credential, refreshing the configured TTL.
func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := s.redis.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Load returns the stored credential, or (nil, nil) when the key is absent
// or expired.
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return data, nil
}

// Remove deletes the key. A missing key is success.
func (s *RedisStore) Remove(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
