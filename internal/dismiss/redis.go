package dismiss

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultTTL bounds how long a durable dismissal set outlives the
// shopper's last interaction.
const defaultTTL = 30 * 24 * time.Hour

// RedisStore persists dismissal sets in Redis. This is the durable
// persistence backend: dismissals survive service restarts and are shared
// across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store backed by the given client. A zero ttl
// uses the default of 30 days.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns the dismissed priorities for a session. A missing key or an
// undecodable value reads as empty.
func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]int, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var priorities []int
	if err := json.Unmarshal(data, &priorities); err != nil {
		return nil, nil
	}
	return Normalize(priorities), nil
}

// Set replaces the dismissed priorities for a session.
func (s *RedisStore) Set(ctx context.Context, sessionID string, priorities []int) error {
	data, err := json.Marshal(Normalize(priorities))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+sessionID, data, s.ttl).Err()
}

// Clear removes the session's dismissal set.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, keyPrefix+sessionID).Err()
}
