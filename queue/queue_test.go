package queue_test

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/casualjim/rex/internal/rextest"
	"github.com/casualjim/rex/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	t.Run("runs work in order", func(t *testing.T) {
		q := queue.New(queue.Name("order"))
		defer q.Shutdown()

		var mu sync.Mutex
		var got []int
		for i := range 100 {
			q.Async(func() {
				mu.Lock()
				got = append(got, i)
				mu.Unlock()
			})
		}
		rextest.Drain(t, q)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, got, 100)
		for i, v := range got {
			assert.Equal(t, i, v)
		}
	})

	t.Run("never runs two functions at once", func(t *testing.T) {
		q := queue.New()
		defer q.Shutdown()

		var inFlight, maxInFlight atomic.Int32
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 25 {
					q.Async(func() {
						n := inFlight.Add(1)
						for {
							m := maxInFlight.Load()
							if n <= m || maxInFlight.CompareAndSwap(m, n) {
								break
							}
						}
						inFlight.Add(-1)
					})
				}
			}()
		}
		wg.Wait()
		rextest.Drain(t, q)

		assert.Equal(t, int32(1), maxInFlight.Load())
	})

	t.Run("zero value is usable and restarts after going idle", func(t *testing.T) {
		var q queue.Queue
		defer q.Shutdown()

		var n atomic.Int32
		q.Async(func() { n.Add(1) })
		rextest.Drain(t, &q)
		q.Async(func() { n.Add(1) })
		rextest.Drain(t, &q)

		assert.Equal(t, int32(2), n.Load())
	})

	t.Run("names default to the id", func(t *testing.T) {
		q := queue.New()
		assert.NotEmpty(t, q.Name())
		assert.Equal(t, "named", queue.New(queue.Name("named")).Name())
	})
}

func TestQueue_AsyncAfter(t *testing.T) {
	t.Run("runs after the delay", func(t *testing.T) {
		q := queue.New()
		defer q.Shutdown()

		ran := make(chan time.Time, 1)
		start := time.Now()
		q.AsyncAfter(20*time.Millisecond, func() { ran <- time.Now() })

		at := rextest.ReceiveSoon(t, ran)
		assert.GreaterOrEqual(t, at.Sub(start), 20*time.Millisecond)
	})

	t.Run("stop prevents the work", func(t *testing.T) {
		q := queue.New()
		defer q.Shutdown()

		ran := make(chan struct{}, 1)
		stop := q.AsyncAfter(50*time.Millisecond, func() { ran <- struct{}{} })
		assert.True(t, stop())

		rextest.NotReceived(t, ran, 100*time.Millisecond)
	})
}

func TestQueue_RunSync(t *testing.T) {
	t.Run("waits for the function", func(t *testing.T) {
		q := queue.New()
		defer q.Shutdown()

		var ran bool
		require.NoError(t, q.RunSync(context.Background(), func() { ran = true }))
		assert.True(t, ran)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		q := queue.New()
		defer q.Shutdown()

		release := make(chan struct{})
		defer close(release)
		q.Async(func() { <-release })

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, q.Wait(ctx), context.DeadlineExceeded)
	})

	t.Run("shutdown from inside the queue does not block", func(t *testing.T) {
		q := queue.New()
		require.NoError(t, q.RunSync(context.Background(), q.Shutdown))
	})
}

func TestQueue_Shutdown(t *testing.T) {
	q := queue.New()

	release := make(chan struct{})
	var ran atomic.Bool
	q.Async(func() { <-release })
	q.Async(func() { ran.Store(true) })

	q.Shutdown()
	close(release)

	assert.ErrorIs(t, q.Wait(context.Background()), queue.ErrShutdown)
	q.Async(func() { ran.Store(true) })
	time.Sleep(20 * time.Millisecond)
	assert.False(t, ran.Load())

	q.Shutdown()
}

func TestQueue_Logger(t *testing.T) {
	logs := rextest.NewLogRecorder(t)
	q := queue.New(queue.Name("logged"), queue.WithLogger(logs.Logger()))
	q.Shutdown()

	q.Async(func() {})
	assert.True(t, logs.Contains(slog.LevelDebug, "dropping work added after shutdown"))
}
