package rex

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscription(t *testing.T) {
	t.Run("invalidate runs the action once", func(t *testing.T) {
		var calls atomic.Int32
		sub := NewSubscription(func() { calls.Add(1) })
		require.True(t, sub.IsActive())
		assert.NotEqual(t, uuid.Nil, sub.ID())

		sub.Invalidate()
		sub.Invalidate()
		require.NoError(t, sub.Close())

		assert.False(t, sub.IsActive())
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("concurrent invalidate runs the action once", func(t *testing.T) {
		var calls atomic.Int32
		sub := NewSubscription(func() { calls.Add(1) })

		var wg sync.WaitGroup
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sub.Invalidate()
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("invalidate from within the action", func(t *testing.T) {
		var calls int
		var sub *Subscription
		sub = NewSubscription(func() {
			calls++
			sub.Invalidate()
		})
		sub.Invalidate()

		assert.Equal(t, 1, calls)
		assert.False(t, sub.IsActive())
	})

	t.Run("nil action", func(t *testing.T) {
		sub := NewSubscription(nil)
		sub.Invalidate()
		assert.False(t, sub.IsActive())
	})

	t.Run("empty is inactive and shared", func(t *testing.T) {
		assert.False(t, Empty().IsActive())
		assert.Same(t, Empty(), Empty())
		assert.Equal(t, uuid.Nil, Empty().ID())
		Empty().Invalidate()
	})

	t.Run("nil subscription is safe", func(t *testing.T) {
		var sub *Subscription
		assert.False(t, sub.IsActive())
		assert.Equal(t, uuid.Nil, sub.ID())
		sub.Invalidate()
	})

	t.Run("log value", func(t *testing.T) {
		sub := NewSubscription(nil)
		defer sub.Invalidate()

		v := sub.LogValue()
		require.Equal(t, slog.KindGroup, v.Kind())
		attrs := v.Group()
		require.Len(t, attrs, 2)
		assert.Equal(t, sub.ID().String(), attrs[0].Value.String())
		assert.True(t, attrs[1].Value.Bool())
	})

	t.Run("collected active subscription is invalidated", func(t *testing.T) {
		logs := captureLogs(t)
		invalidated := make(chan struct{})

		func() {
			_ = NewSubscription(func() { close(invalidated) })
		}()

		require.Eventually(t, func() bool {
			runtime.GC()
			select {
			case <-invalidated:
				return true
			default:
				return false
			}
		}, 2*time.Second, 10*time.Millisecond)
		assert.Eventually(t, func() bool {
			return logs.Contains(slog.LevelWarn, "subscription collected while still active")
		}, time.Second, time.Millisecond)
	})
}

func TestWrapSubscription(t *testing.T) {
	t.Run("release before delivery invalidates on arrival", func(t *testing.T) {
		var deliver func(*Subscription)
		sub := WrapSubscription(func(d func(*Subscription)) { deliver = d }, nil)

		sub.Invalidate()
		inner := NewSubscription(nil)
		deliver(inner)

		assert.False(t, inner.IsActive())
	})

	t.Run("release after delivery invalidates inner", func(t *testing.T) {
		inner := NewSubscription(nil)
		sub := WrapSubscription(func(d func(*Subscription)) { d(inner) }, nil)
		require.True(t, inner.IsActive())

		sub.Invalidate()
		assert.False(t, inner.IsActive())
	})

	t.Run("unsubscribe decides when to release", func(t *testing.T) {
		inner := NewSubscription(nil)
		var release func()
		sub := WrapSubscription(func(d func(*Subscription)) { d(inner) }, func(r func()) { release = r })

		sub.Invalidate()
		assert.True(t, inner.IsActive())
		require.NotNil(t, release)

		release()
		assert.False(t, inner.IsActive())
	})

	t.Run("replacing the inner subscription invalidates the previous one", func(t *testing.T) {
		first, second := NewSubscription(nil), NewSubscription(nil)
		sub := WrapSubscription(func(d func(*Subscription)) {
			d(first)
			d(second)
		}, nil)
		defer sub.Invalidate()

		assert.False(t, first.IsActive())
		assert.True(t, second.IsActive())
	})
}
