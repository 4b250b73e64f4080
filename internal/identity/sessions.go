// AngelaMos | 2026
// sessions.go

package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps the two volatile session facts: the per-user session
// pointer (which user id is active) and the revoked-token set consulted
// on every verification.
type SessionStore interface {
	SetSession(ctx context.Context, userID, jti string, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID string) error
	HasSession(ctx context.Context, userID string) (bool, error)
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

const (
	sessionKeyPrefix   = "session:"
	blacklistKeyPrefix = "blacklist:"
)

type redisSessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) SetSession(
	ctx context.Context,
	userID, jti string,
	ttl time.Duration,
) error {
	key := sessionKeyPrefix + userID
	if err := s.client.Set(ctx, key, jti, ttl).Err(); err != nil {
		return fmt.Errorf("set session pointer: %w", err)
	}
	return nil
}

func (s *redisSessionStore) DeleteSession(
	ctx context.Context,
	userID string,
) error {
	key := sessionKeyPrefix + userID
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete session pointer: %w", err)
	}
	return nil
}

func (s *redisSessionStore) HasSession(
	ctx context.Context,
	userID string,
) (bool, error) {
	key := sessionKeyPrefix + userID

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check session pointer: %w", err)
	}

	return exists > 0, nil
}

func (s *redisSessionStore) RevokeToken(
	ctx context.Context,
	jti string,
	ttl time.Duration,
) error {
	if ttl <= 0 {
		return nil
	}

	key := blacklistKeyPrefix + jti
	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func (s *redisSessionStore) IsTokenRevoked(
	ctx context.Context,
	jti string,
) (bool, error) {
	key := blacklistKeyPrefix + jti

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check token revoked: %w", err)
	}

	return exists > 0, nil
}
