// Copyright (c) 2026 Epylog. All rights reserved.

package user

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/epylog/epylog/internal/platform/constants"
)

// RedisTokenRepository implements [TokenRepository] on a per-user Redis set.
//
// Issuing a token adds it to the set; logout removes one member and logoutall
// drops the whole key. The set expires alongside the longest-lived token it
// could contain, so abandoned accounts don't accumulate keys forever.
type RedisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository creates a new Redis-backed TokenRepository.
func NewRedisTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client}
}

func tokenKey(userID string) string {
	return constants.RedisPrefixAuthTokens + userID
}

// Add registers a freshly issued token and refreshes the set's expiry window.
func (repository *RedisTokenRepository) Add(context context.Context, userID, token string, ttl time.Duration) error {
	key := tokenKey(userID)

	pipe := repository.client.TxPipeline()
	pipe.SAdd(context, key, token)
	pipe.Expire(context, key, ttl)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_token_add_failed: %w", err)
	}
	return nil
}

// Contains reports whether the token is currently valid for the user.
func (repository *RedisTokenRepository) Contains(context context.Context, userID, token string) (bool, error) {
	member, err := repository.client.SIsMember(context, tokenKey(userID), token).Result()
	if err != nil {
		return false, fmt.Errorf("redis_token_check_failed: %w", err)
	}
	return member, nil
}

// Remove revokes a single token.
func (repository *RedisTokenRepository) Remove(context context.Context, userID, token string) error {
	if err := repository.client.SRem(context, tokenKey(userID), token).Err(); err != nil {
		return fmt.Errorf("redis_token_remove_failed: %w", err)
	}
	return nil
}

// RemoveAll revokes every token of the user at once.
func (repository *RedisTokenRepository) RemoveAll(context context.Context, userID string) error {
	if err := repository.client.Del(context, tokenKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_token_remove_all_failed: %w", err)
	}
	return nil
}
