// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cinemateca/internal/platform/constants"
	"github.com/taibuivan/cinemateca/internal/platform/ctxutil"
)

// optionsKey holds the JSON encoded [FilterOptions].
const optionsKey = constants.RedisPrefixFilterOptions + "in-use"

// redisOptionsCache implements [OptionsCache] on Redis.
//
// Redis failures are logged and treated as a miss; the search page falls back
// to the database rather than failing.
type redisOptionsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOptionsCache returns an [OptionsCache] whose entries expire after ttl.
func NewRedisOptionsCache(client *redis.Client, ttl time.Duration) OptionsCache {
	return &redisOptionsCache{client: client, ttl: ttl}
}

func (cache *redisOptionsCache) Get(context context.Context) (*FilterOptions, bool) {
	raw, err := cache.client.Get(context, optionsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			ctxutil.GetLogger(context).WarnContext(context, "filter_cache_read_failed", slog.Any("error", err))
		}
		return nil, false
	}

	options := &FilterOptions{}
	if err := json.Unmarshal(raw, options); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "filter_cache_corrupt", slog.Any("error", err))
		return nil, false
	}
	return options, true
}

func (cache *redisOptionsCache) Set(context context.Context, options *FilterOptions) {
	raw, err := json.Marshal(options)
	if err != nil {
		return
	}

	if err := cache.client.Set(context, optionsKey, raw, cache.ttl).Err(); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "filter_cache_write_failed", slog.Any("error", err))
	}
}

func (cache *redisOptionsCache) Invalidate(context context.Context) {
	if err := cache.client.Del(ctxutil.Detach(context), optionsKey).Err(); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "filter_cache_invalidate_failed", slog.Any("error", err))
	}
}
