// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/storyvoter/internal/platform/constants"
)

// PageCache stores serialized feed pages.
type PageCache interface {
	Get(context context.Context, key string) ([]byte, bool, error)
	Set(context context.Context, key string, value []byte, ttl time.Duration) error
}

// cacheKey hashes the canonical query text into a short, fixed-length key.
func cacheKey(query Query) string {
	return constants.RedisPrefixFeedPage + strconv.FormatUint(xxhash.Sum64String(query.key()), 16)
}

// redisPageCache implements [PageCache] on Redis.
type redisPageCache struct {
	client redis.UniversalClient
}

// NewRedisCache constructs a Redis backed [PageCache].
func NewRedisCache(client redis.UniversalClient) PageCache {
	return &redisPageCache{client: client}
}

func (cache *redisPageCache) Get(context context.Context, key string) ([]byte, bool, error) {
	value, err := cache.client.Get(context, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (cache *redisPageCache) Set(context context.Context, key string, value []byte, ttl time.Duration) error {
	return cache.client.Set(context, key, value, ttl).Err()
}
