// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/constants"
)

// redisSessionStore implements [SessionStore] using Redis.
type redisSessionStore struct {
	client redis.UniversalClient
}

// NewSessionStore creates a Redis-backed [SessionStore].
func NewSessionStore(client redis.UniversalClient) SessionStore {
	return &redisSessionStore{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixRefreshToken + tokenHash
}

// Save writes the session with its TTL.
func (store *redisSessionStore) Save(context context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := store.client.Set(context, sessionKey(tokenHash), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

// Take uses GETDEL so two concurrent refreshes cannot both succeed.
func (store *redisSessionStore) Take(context context.Context, tokenHash string) (string, error) {
	userID, err := store.client.GetDel(context, sessionKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Session")
		}
		return "", fmt.Errorf("redis_session_take_failed: %w", err)
	}
	return userID, nil
}

// Delete removes the session key.
func (store *redisSessionStore) Delete(context context.Context, tokenHash string) error {
	if err := store.client.Del(context, sessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
