// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cinemateca/internal/platform/constants"
	"github.com/taibuivan/cinemateca/pkg/uuid"
)

// retryInterval is how often a blocked Lock call retries SET NX.
const retryInterval = 25 * time.Millisecond

// releaseScript deletes the key only while it still holds our token, so a
// holder whose TTL expired cannot release somebody else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements lock.Locker with one Redis key per locked resource.
//
// The TTL bounds how long a crashed holder can block others; it must exceed
// the longest critical section.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocker constructs a [Locker].
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

// Lock blocks until key is acquired or the context is done.
func (locker *Locker) Lock(context stdctx.Context, key string) (func(), error) {
	redisKey := constants.RedisPrefixActorLock + key
	token := uuid.New()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		acquired, err := locker.client.SetNX(context, redisKey, token, locker.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis: lock %s: %w", key, err)
		}
		if acquired {
			break
		}

		select {
		case <-ticker.C:
		case <-context.Done():
			return nil, context.Err()
		}
	}

	release := func() {
		// Release must succeed even when the request context is already cancelled.
		releaseCtx, cancel := stdctx.WithTimeout(stdctx.WithoutCancel(context), writeTimeout)
		defer cancel()

		// A failed release is reclaimed by the TTL.
		_ = releaseScript.Run(releaseCtx, locker.client, []string{redisKey}, token).Err()
	}
	return release, nil
}
