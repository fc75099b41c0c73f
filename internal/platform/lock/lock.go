// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package lock serialises mutations that span several store operations.

Removing an actor from a movie reads the actor's movie count, removes one
link and may delete the actor. Two such removals for the same actor must not
interleave, so callers take a keyed lock around the whole sequence.

Implementations:

  - [Local]: in-process keyed mutex, for single-instance deployments and tests.
  - redis.Locker: SET NX with a TTL, for several API instances.
*/
package lock

import (
	"context"
	"sync"
)

// Locker acquires exclusive ownership of a key until the returned release
// function is called. Lock blocks until the key is free or ctx is done.
type Locker interface {
	Lock(context context.Context, key string) (release func(), err error)
}

// Local is an in-process [Locker]. The zero value is ready to use.
type Local struct {
	mu      sync.Mutex
	holders map[string]*holder
}

// holder is a one-slot semaphore shared by every waiter on the same key.
type holder struct {
	slot    chan struct{}
	waiters int
}

// NewLocal returns an empty [Local].
func NewLocal() *Local {
	return &Local{}
}

func (local *Local) Lock(context context.Context, key string) (func(), error) {
	local.mu.Lock()
	if local.holders == nil {
		local.holders = make(map[string]*holder)
	}
	entry, ok := local.holders[key]
	if !ok {
		entry = &holder{slot: make(chan struct{}, 1)}
		local.holders[key] = entry
	}
	entry.waiters++
	local.mu.Unlock()

	select {
	case entry.slot <- struct{}{}:
	case <-context.Done():
		local.forget(key, entry)
		return nil, context.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.slot
			local.forget(key, entry)
		})
	}, nil
}

// forget drops the entry once nobody holds or waits for it.
func (local *Local) forget(key string, entry *holder) {
	local.mu.Lock()
	defer local.mu.Unlock()

	entry.waiters--
	if entry.waiters == 0 {
		delete(local.holders, key)
	}
}
