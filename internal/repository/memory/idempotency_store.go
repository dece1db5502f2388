package memory

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore claims keys so a webhook delivery is handled once.
type IdempotencyStore interface {
	// Claim returns true when the key was not seen before.
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration) IdempotencyStore {
	return &redisIdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *redisIdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	return s.rdb.SetNX(ctx, "idempotency:"+key, time.Now().Unix(), s.ttl).Result()
}

func (s *redisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, "idempotency:"+key).Err()
}
