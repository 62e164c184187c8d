package app

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsPostedWorkInOrder(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	var order []int
	for i := 0; i < 50; i++ {
		i := i
		require.True(t, loop.Post(func() { order = append(order, i) }))
	}
	loop.Wait()

	require.Len(t, order, 50)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestLoopContinuationsNeverOverlap(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	var running, overlaps, done int32
	for i := 0; i < 20; i++ {
		loop.Go(context.Background(), func(ctx context.Context) func() {
			return func() {
				if atomic.AddInt32(&running, 1) > 1 {
					atomic.AddInt32(&overlaps, 1)
				}
				atomic.AddInt32(&done, 1)
				atomic.AddInt32(&running, -1)
			}
		})
	}
	loop.Wait()

	assert.Equal(t, int32(20), atomic.LoadInt32(&done))
	assert.Zero(t, atomic.LoadInt32(&overlaps))
}

func TestLoopRunBlocksUntilExecuted(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	ran := false
	require.True(t, loop.Run(func() { ran = true }))
	assert.True(t, ran)
}

func TestLoopGoWithoutContinuation(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	var calls int32
	loop.Go(context.Background(), func(ctx context.Context) func() {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	loop.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoopClose(t *testing.T) {
	loop := NewLoop()

	var ran int32
	loop.Go(context.Background(), func(ctx context.Context) func() {
		return func() { atomic.AddInt32(&ran, 1) }
	})
	require.NoError(t, loop.Close())
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran), "close waits for outstanding work")

	assert.False(t, loop.Post(func() {}))
	assert.False(t, loop.Go(context.Background(), func(ctx context.Context) func() { return nil }))
	assert.False(t, loop.Run(func() {}))
	assert.NoError(t, loop.Close())
}
