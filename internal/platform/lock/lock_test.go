// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinemateca/internal/platform/lock"
)

/*
TestLocal_Exclusive verifies that holders of one key never overlap.
*/
func TestLocal_Exclusive(t *testing.T) {
	locker := lock.NewLocal()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maximum int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := locker.Lock(context.Background(), "actor-1")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			inside++
			if inside > maximum {
				maximum = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, maximum)
}

/*
TestLocal_IndependentKeys verifies that different keys do not block each other.
*/
func TestLocal_IndependentKeys(t *testing.T) {
	locker := lock.NewLocal()

	releaseA, err := locker.Lock(context.Background(), "actor-a")
	require.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	releaseB, err := locker.Lock(ctx, "actor-b")
	require.NoError(t, err)
	releaseB()
}

/*
TestLocal_ContextCancel verifies that a waiter gives up when its context ends,
and that release is idempotent.
*/
func TestLocal_ContextCancel(t *testing.T) {
	locker := lock.NewLocal()

	release, err := locker.Lock(context.Background(), "actor-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "actor-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release()

	again, err := locker.Lock(context.Background(), "actor-1")
	require.NoError(t, err)
	again()
}
