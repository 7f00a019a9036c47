package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a redis-backed duplicate suppressor. The first caller to
// claim a key proceeds; later callers within the TTL see it as already
// handled.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Seen claims key with SET NX and reports whether it was already
// claimed.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	claimed, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !claimed, nil
}
