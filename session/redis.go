package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores the session key in Redis, shared by every process that uses
// the same key.
type Redis struct {
	client redis.UniversalClient
	key    string
	// TTL expires the stored key; zero keeps it until cleared.
	TTL time.Duration
}

var _ Store = (*Redis)(nil)

// NewRedis stores the session under key. See KeyFor.
func NewRedis(client redis.UniversalClient, key string, ttl time.Duration) *Redis {
	return &Redis{client: client, key: key, TTL: ttl}
}

func (r *Redis) Load(ctx context.Context) (string, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return val, nil
}

func (r *Redis) Save(ctx context.Context, key string) error {
	if err := r.client.Set(ctx, r.key, key, r.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}
