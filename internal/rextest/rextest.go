// Package rextest contains helpers shared by the rex test suites.
package rextest

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/casualjim/rex/queue"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
)

// Timeout bounds every wait in the helpers below.
const Timeout = 2 * time.Second

// Recorder collects the updates delivered to a subscriber callback.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

// NewRecorder returns an empty recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// Record is meant to be passed as the update callback.
func (r *Recorder[T]) Record(v T) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

// Values returns a copy of everything recorded so far.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

// Len returns the number of recorded updates.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// WaitFor blocks until at least n updates were recorded and returns them.
func (r *Recorder[T]) WaitFor(t testing.TB, n int) []T {
	t.Helper()
	require.Eventually(t, func() bool { return r.Len() >= n }, Timeout, time.Millisecond,
		"expected at least %d updates", n)
	return r.Values()
}

// Drain waits for q to run everything queued so far.
func Drain(t testing.TB, q *queue.Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	require.NoError(t, q.Wait(ctx))
}

// ReceiveSoon receives from ch or fails the test after Timeout.
func ReceiveSoon[T any](t testing.TB, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(Timeout):
		require.FailNow(t, "no value received in time")
		var zero T
		return zero
	}
}

// NotReceived fails the test if ch yields a value within d.
func NotReceived[T any](t testing.TB, ch <-chan T, d time.Duration) {
	t.Helper()
	select {
	case v := <-ch:
		require.FailNow(t, "unexpected value received", "%v", v)
	case <-time.After(d):
	}
}

// Logger returns a logger writing through t.
func Logger(t testing.TB) *slog.Logger {
	return slogt.New(t)
}
