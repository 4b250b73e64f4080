// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Repository persists carts as a single JSON blob per buyer. The blob is
// the whole cart; partial updates read, mutate and rewrite it.
type Repository interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, userID string) error
}

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) Repository {
	return &redisRepository{client: client}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Get returns an empty cart when no blob exists; a missing cart and an
// empty one are the same thing to callers.
func (r *redisRepository) Get(ctx context.Context, userID string) (*Cart, error) {
	raw, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{UserID: userID, Items: []Item{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []Item{}
	}
	cart.UserID = userID

	return &cart, nil
}

func (r *redisRepository) Save(ctx context.Context, cart *Cart) error {
	if len(cart.Items) == 0 {
		return r.Delete(ctx, cart.UserID)
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cart.UserID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	return nil
}

func (r *redisRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
