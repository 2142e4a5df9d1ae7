// Package queue provides serial execution contexts.
//
// A [Queue] runs the functions handed to it one at a time, in the order they
// were added, on a worker goroutine that is started on demand and exits when
// the queue runs dry. Components that need their state mutations serialized
// (tasks, dispatching publishers) confine that state to a single Queue instead
// of guarding it with locks held across callbacks.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/casualjim/rex/pkg/slogx"
	"github.com/casualjim/rex/pkg/uuidx"
	"github.com/fogfish/opts"
	"github.com/google/uuid"
)

// ErrShutdown is returned by RunSync and Wait once the queue has been shut down.
var ErrShutdown = errors.New("queue: shut down")

var (
	// Name sets the queue name used in log output.
	Name = opts.ForName[Queue, string]("name")

	// WithLogger sets the logger used for queue diagnostics.
	WithLogger = opts.ForName[Queue, *slog.Logger]("logger")
)

// Queue is a serial execution context. The zero value is ready to use.
type Queue struct {
	id     uuid.UUID
	name   string
	logger *slog.Logger

	mu       sync.Mutex
	items    []func()
	running  bool
	closed   bool
	shutdown chan struct{}
}

// New creates a named queue.
func New(options ...opts.Option[Queue]) *Queue {
	q := &Queue{}
	if err := opts.Apply(q, options); err != nil {
		panic(err)
	}
	q.id = uuidx.New()
	if q.name == "" {
		q.name = "queue-" + uuidx.Short(q.id)
	}
	return q
}

// Name returns the queue name, empty for a zero value queue.
func (q *Queue) Name() string { return q.name }

// ID returns the queue identity, uuid.Nil for a zero value queue.
func (q *Queue) ID() uuid.UUID { return q.id }

func (q *Queue) log() *slog.Logger {
	l := q.logger
	if l == nil {
		l = slog.Default()
	}
	return l.With(slogx.LoggerName("queue"), slog.String("queue", q.name))
}

// Async adds f to the end of the queue. Work added after Shutdown is dropped.
func (q *Queue) Async(f func()) {
	if !q.add(f) {
		q.log().Debug("dropping work added after shutdown")
	}
}

// AsyncAfter adds f to the queue once d has elapsed. The returned stop
// function prevents f from being queued if the delay has not elapsed yet and
// reports whether it did so.
func (q *Queue) AsyncAfter(d time.Duration, f func()) (stop func() bool) {
	t := time.AfterFunc(d, func() { q.Async(f) })
	return t.Stop
}

// RunSync runs f on the queue and waits for it to return.
// Calling RunSync from work running on the same queue deadlocks.
func (q *Queue) RunSync(ctx context.Context, f func()) error {
	done := make(chan struct{})
	var started atomic.Bool
	if !q.add(func() {
		started.Store(true)
		defer close(done)
		f()
	}) {
		return ErrShutdown
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.shutdownCh():
		if !started.Load() {
			return ErrShutdown
		}
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Wait blocks until everything queued before the call has run.
func (q *Queue) Wait(ctx context.Context) error {
	return q.RunSync(ctx, func() {})
}

// Shutdown stops the queue. Work that has not started yet is dropped, the
// function currently running (if any) is allowed to finish.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.items = nil
	if q.shutdown == nil {
		q.shutdown = make(chan struct{})
	}
	close(q.shutdown)
}

func (q *Queue) shutdownCh() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.shutdown == nil {
		q.shutdown = make(chan struct{})
	}
	return q.shutdown
}

func (q *Queue) add(f func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, f)
	start := !q.running
	q.running = true
	q.mu.Unlock()

	if start {
		go q.run()
	}
	return true
}

func (q *Queue) run() {
	for {
		q.mu.Lock()
		if q.closed || len(q.items) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		f := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		f()
	}
}
