// AngelaMos | 2026
// idempotency.go

package order

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers checkout attempts so a retried request
// (double click, client retry) places at most one order per key.
type IdempotencyStore interface {
	// Claim returns true when the key was free and is now held by this
	// attempt.
	Claim(ctx context.Context, buyerID, key string) (bool, error)
	// Release frees the key so the buyer can retry after a declined
	// payment.
	Release(ctx context.Context, buyerID, key string) error
}

type redisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) IdempotencyStore {
	return &redisIdempotencyStore{client: client, ttl: ttl}
}

func checkoutKey(buyerID, key string) string {
	return "checkout:" + buyerID + ":" + key
}

func (s *redisIdempotencyStore) Claim(
	ctx context.Context,
	buyerID, key string,
) (bool, error) {
	ok, err := s.client.SetNX(ctx, checkoutKey(buyerID, key), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim checkout key: %w", err)
	}
	return ok, nil
}

func (s *redisIdempotencyStore) Release(
	ctx context.Context,
	buyerID, key string,
) error {
	if err := s.client.Del(ctx, checkoutKey(buyerID, key)).Err(); err != nil {
		return fmt.Errorf("release checkout key: %w", err)
	}
	return nil
}
