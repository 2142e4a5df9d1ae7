package rex

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/casualjim/rex/pkg/slogx"
	"github.com/casualjim/rex/pkg/stdx"
	"github.com/casualjim/rex/pkg/uuidx"
	"github.com/casualjim/rex/queue"
	"github.com/fogfish/opts"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Work starts the operation behind a task. It runs on the task queue and must
// not block: long running work hops to another goroutine and reports back
// through update, which can be called from any goroutine.
//
// The work reports any number of progress statuses followed by exactly one
// final status. ctx is canceled once the task finishes or is abandoned.
type Work[P, S any] func(ctx context.Context, update func(Status[P, S]))

type taskState uint8

const (
	taskNotStarted taskState = iota
	taskRunning
	taskFinished
)

func (s taskState) String() string {
	switch s {
	case taskNotStarted:
		return "not started"
	case taskRunning:
		return "running"
	case taskFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Task is a lazily started operation that publishes progress and then a
// single final result.
//
// The work starts when the first subscriber registers. Subscribers that
// arrive after completion get the stored final status. Progress goes to the
// subscribers registered at the time and is never replayed.
//
// When cancellation is configured (WithCancel or CancelOnAbandon) and every
// subscriber leaves before completion, the task cancels the running work and
// goes back to not started. Whatever that run reports afterwards is ignored.
//
// All state is owned by the task queue; callbacks run on it.
type Task[P, S any] struct {
	id      string
	q       *queue.Queue
	work    Work[P, S]
	options TaskOptions

	final atomic.Pointer[Status[P, S]]

	// owned by q
	state       taskState
	generation  uint64
	cancelRun   context.CancelFunc
	subscribers *orderedmap.OrderedMap[uuid.UUID, *subscriber[Status[P, S]]]
}

// NewTask creates a task that runs work on q. A nil queue or nil work panics.
func NewTask[P, S any](q *queue.Queue, work Work[P, S], options ...opts.Option[TaskOptions]) *Task[P, S] {
	if q == nil {
		panic("rex: task without queue")
	}
	if work == nil {
		panic("rex: task without work")
	}

	t := &Task[P, S]{
		id:          uuidx.NewString(),
		q:           q,
		work:        work,
		subscribers: orderedmap.New[uuid.UUID, *subscriber[Status[P, S]]](),
	}
	if err := opts.Apply(&t.options, options); err != nil {
		panic(err)
	}
	return t
}

// NewDiscreteTask creates a task that reports no progress, only its result.
func NewDiscreteTask[S any](q *queue.Queue, work func(ctx context.Context, complete func(Result[S])), options ...opts.Option[TaskOptions]) *Task[NoProgress, S] {
	if work == nil {
		panic("rex: task without work")
	}
	return NewTask(q, func(ctx context.Context, update func(Status[NoProgress, S])) {
		work(ctx, func(r Result[S]) {
			update(Completed[NoProgress](r))
		})
	}, options...)
}

// NewResultTask creates a task that completes with result after delay. It is
// mostly useful as a stand-in for real work in tests and previews.
func NewResultTask[P, S any](q *queue.Queue, result Result[S], delay time.Duration) *Task[P, S] {
	status := Completed[P](result)
	return NewTask(q, func(_ context.Context, update func(Status[P, S])) {
		if delay <= 0 {
			update(status)
			return
		}
		q.AsyncAfter(delay, func() { update(status) })
	})
}

func (t *Task[P, S]) log() *slog.Logger {
	l := t.options.logger
	if l == nil {
		l = logger()
	}
	return l.With(slog.String("task", t.id))
}

// Publisher returns the task as a Publisher of its statuses.
func (t *Task[P, S]) Publisher() Publisher[Status[P, S]] {
	return t.Subscribe
}

// Subscribe registers update for the statuses of the task and starts the work
// if nothing started it yet. Once the task finished, update is called with the
// final status on the task queue and the returned subscription is Empty.
func (t *Task[P, S]) Subscribe(update func(Status[P, S])) *Subscription {
	if update == nil {
		panic("rex: subscribe with nil update callback")
	}

	if final := t.final.Load(); final != nil {
		status := *final
		t.q.Async(func() { update(status) })
		return Empty()
	}

	id := uuidx.New()
	sub := newSubscription(id, func() {
		t.q.Async(func() { t.unsubscribe(id) })
	})
	entry := &subscriber[Status[P, S]]{state: sub.state, update: update}
	t.q.Async(func() { t.register(id, entry) })
	return sub
}

// SubscribeResult registers result for the final result only.
func (t *Task[P, S]) SubscribeResult(result func(Result[S])) *Subscription {
	if result == nil {
		panic("rex: subscribe with nil update callback")
	}
	return t.Subscribe(func(s Status[P, S]) {
		if r, ok := s.Result(); ok {
			result(r)
		}
	})
}

// SubscribeSplit registers separate callbacks per kind of update. Any of them
// may be nil; when all are, nothing is subscribed and Empty is returned.
func (t *Task[P, S]) SubscribeSplit(success func(S), failure func(error), progress func(P)) *Subscription {
	if success == nil && failure == nil && progress == nil {
		return Empty()
	}
	return t.Subscribe(func(s Status[P, S]) {
		r, final := s.Result()
		switch {
		case !final:
			if progress != nil {
				p, _ := s.Progress()
				progress(p)
			}
		case r.Err != nil:
			if failure != nil {
				failure(r.Err)
			}
		default:
			if success != nil {
				success(r.Value)
			}
		}
	})
}

// SubscribeHook routes the updates of the task to h.
func (t *Task[P, S]) SubscribeHook(h TaskHook[P, S]) *Subscription {
	if h == nil {
		return Empty()
	}
	return t.SubscribeSplit(h.OnResult, h.OnError, h.OnProgress)
}

// Await subscribes and blocks until the task finishes or ctx is done. Giving
// up on ctx unsubscribes, which may abandon the task.
//
// Await must not be called from the task queue.
func (t *Task[P, S]) Await(ctx context.Context) (S, error) {
	done := make(chan Result[S], 1)
	sub := t.SubscribeResult(func(r Result[S]) {
		done <- r
	})
	defer sub.Invalidate()

	select {
	case r := <-done:
		return r.Get()
	case <-ctx.Done():
		return stdx.Zero[S](), ctx.Err()
	}
}

// Result returns the final result once the task finished.
func (t *Task[P, S]) Result() (Result[S], bool) {
	final := t.final.Load()
	if final == nil {
		return Result[S]{}, false
	}
	return final.Result()
}

// Done reports whether the task finished.
func (t *Task[P, S]) Done() bool {
	return t.final.Load() != nil
}

func (t *Task[P, S]) register(id uuid.UUID, entry *subscriber[Status[P, S]]) {
	if !entry.state.active.Load() {
		return
	}
	if final := t.final.Load(); final != nil {
		entry.update(*final)
		return
	}

	t.subscribers.Set(id, entry)
	if t.state == taskNotStarted {
		t.start()
	}
}

func (t *Task[P, S]) start() {
	t.state = taskRunning
	t.generation++
	generation := t.generation

	ctx, cancel := context.WithCancel(context.Background())
	t.cancelRun = cancel
	t.log().Debug("starting task", slog.Uint64("generation", generation), slog.String("queue", t.q.Name()))

	t.work(ctx, func(status Status[P, S]) {
		t.q.Async(func() { t.receive(generation, status) })
	})
}

func (t *Task[P, S]) receive(generation uint64, status Status[P, S]) {
	if generation != t.generation || t.state == taskNotStarted {
		t.log().Debug("dropping update from abandoned run",
			slog.Uint64("generation", generation),
			slog.String("state", t.state.String()),
			slog.Any("status", status))
		return
	}

	if t.state == taskFinished {
		if status.IsFinal() {
			t.log().Error("dropping update", slogx.Error(ErrAlreadyCompleted), slog.Any("status", status))
		} else {
			t.log().Debug("dropping progress after completion", slog.Any("status", status))
		}
		return
	}

	if !status.IsFinal() {
		t.deliver(status)
		return
	}

	t.state = taskFinished
	t.final.Store(&status)
	t.stopRun()

	t.deliver(status)
	t.subscribers = orderedmap.New[uuid.UUID, *subscriber[Status[P, S]]]()
}

func (t *Task[P, S]) deliver(status Status[P, S]) {
	for pair := t.subscribers.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.state.active.Load() {
			pair.Value.update(status)
		}
	}
}

func (t *Task[P, S]) unsubscribe(id uuid.UUID) {
	if _, ok := t.subscribers.Delete(id); !ok {
		return
	}
	if t.subscribers.Len() > 0 || t.state != taskRunning || !t.options.cancelOnAbandon {
		return
	}

	t.log().Debug("canceling abandoned task", slog.Uint64("generation", t.generation), slog.String("state", t.state.String()))
	if t.options.onCancel != nil {
		t.options.onCancel()
	}
	t.stopRun()
	t.state = taskNotStarted
}

func (t *Task[P, S]) stopRun() {
	if t.cancelRun != nil {
		t.cancelRun()
		t.cancelRun = nil
	}
}

// TransformTask maps the statuses of a task into another status type.
func TransformTask[P, S, P2, S2 any](src Subscribable[Status[P, S]], fn func(Status[P, S]) Status[P2, S2]) Publisher[Status[P2, S2]] {
	return Transform(src, fn)
}

// MapResult maps the value of a successful result and passes progress and
// failures through unchanged. An error from fn fails the mapped task.
func MapResult[P, S, S2 any](src Subscribable[Status[P, S]], fn func(S) (S2, error)) Publisher[Status[P, S2]] {
	return TransformTask(src, func(s Status[P, S]) Status[P, S2] {
		r, final := s.Result()
		switch {
		case !final:
			p, _ := s.Progress()
			return InProgress[P, S2](p)
		case r.Err != nil:
			return Failure[P, S2](r.Err)
		}
		v, err := fn(r.Value)
		if err != nil {
			return Failure[P, S2](err)
		}
		return Success[P](v)
	})
}
