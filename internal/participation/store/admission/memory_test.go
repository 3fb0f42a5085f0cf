package admission

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_SerializesSameParticipant(t *testing.T) {
	lock := NewInMemory()
	ctx := context.Background()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := lock.Acquire(ctx, "alice")
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			assert.NoError(t, release(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Zero(t, lock.Held(), "slots are dropped once nobody waits")
}

func TestInMemory_DistinctParticipantsDoNotBlock(t *testing.T) {
	lock := NewInMemory()
	ctx := context.Background()

	releaseA, err := lock.Acquire(ctx, "alice")
	require.NoError(t, err)
	defer func() { _ = releaseA(ctx) }()

	ctx2, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	releaseB, err := lock.Acquire(ctx2, "bob")
	require.NoError(t, err)
	require.NoError(t, releaseB(ctx))
}

func TestInMemory_WaiterHonoursContext(t *testing.T) {
	lock := NewInMemory()
	ctx := context.Background()

	release, err := lock.Acquire(ctx, "alice")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = lock.Acquire(waitCtx, "alice")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx), "double release is a no-op")
	assert.Zero(t, lock.Held())
}
