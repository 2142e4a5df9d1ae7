package rex

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/casualjim/rex/pkg/slogx"
	"github.com/casualjim/rex/pkg/uuidx"
	"github.com/google/uuid"
)

// Subscription is returned by every subscribe operation. Keep it for as long
// as updates are wanted and call Invalidate (or Close) to stop them.
//
// Invalidating runs the unsubscribe action exactly once and drops it, which
// releases whatever the action captured, including references to the source
// publisher. A subscription that becomes unreachable while still active is
// invalidated when the garbage collector reclaims it and a warning is logged;
// relying on that is a bug since collection timing is not deterministic.
type Subscription struct {
	id    uuid.UUID
	state *subscriptionState
}

type subscriptionState struct {
	active atomic.Bool

	mu          sync.Mutex
	unsubscribe func()
}

// invalidate reports whether this call deactivated the subscription.
func (s *subscriptionState) invalidate() bool {
	s.mu.Lock()
	if !s.active.Load() {
		s.mu.Unlock()
		return false
	}
	s.active.Store(false)
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return true
}

var empty = &Subscription{state: &subscriptionState{}}

// Empty returns the shared, already inactive subscription. Publishers return
// it when there is nothing to unsubscribe from.
func Empty() *Subscription {
	return empty
}

// NewSubscription returns an active subscription that runs unsubscribe when
// invalidated. A nil action is allowed.
func NewSubscription(unsubscribe func()) *Subscription {
	return newSubscription(uuidx.New(), unsubscribe)
}

type subscriptionCleanup struct {
	id    uuid.UUID
	state *subscriptionState
}

func newSubscription(id uuid.UUID, unsubscribe func()) *Subscription {
	state := &subscriptionState{unsubscribe: unsubscribe}
	state.active.Store(true)

	s := &Subscription{id: id, state: state}
	runtime.AddCleanup(s, collectSubscription, subscriptionCleanup{id: id, state: state})
	return s
}

func collectSubscription(c subscriptionCleanup) {
	if c.state.invalidate() {
		logger().Warn("subscription collected while still active", slogx.ID("subscription", c.id))
	}
}

// ID identifies the subscription. It is uuid.Nil for Empty.
func (s *Subscription) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.id
}

// IsActive reports whether the subscription has not been invalidated yet.
func (s *Subscription) IsActive() bool {
	return s != nil && s.state.active.Load()
}

// Invalidate stops updates. Calling it more than once, concurrently or from
// within the unsubscribe action itself is safe.
//
// An update that was already dispatched to another goroutine before the call
// may still arrive.
func (s *Subscription) Invalidate() {
	if s == nil {
		return
	}
	s.state.invalidate()
}

// Close invalidates the subscription. It always returns nil.
func (s *Subscription) Close() error {
	s.Invalidate()
	return nil
}

// LogValue implements slog.LogValuer.
func (s *Subscription) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", s.ID().String()),
		slog.Bool("active", s.IsActive()),
	)
}

// WrapSubscription builds a subscription whose real (inner) subscription only
// becomes available later, for example after work hops to another goroutine.
//
// subscribe is called right away and must eventually hand the inner
// subscription to deliver. When the returned subscription is invalidated,
// unsubscribe is called with a release function (release is called directly
// when unsubscribe is nil). release invalidates the inner subscription if it
// has arrived; if it has not, the inner subscription is invalidated as soon as
// it is delivered.
func WrapSubscription(subscribe func(deliver func(*Subscription)), unsubscribe func(release func())) *Subscription {
	w := &wrappedSubscription{}
	s := NewSubscription(func() {
		if unsubscribe == nil {
			w.release()
			return
		}
		unsubscribe(w.release)
	})
	subscribe(w.deliver)
	return s
}

type wrappedSubscription struct {
	mu       sync.Mutex
	inner    *Subscription
	released bool
}

func (w *wrappedSubscription) deliver(inner *Subscription) {
	if inner == nil {
		return
	}

	w.mu.Lock()
	if w.released {
		w.mu.Unlock()
		inner.Invalidate()
		return
	}
	previous := w.inner
	w.inner = inner
	w.mu.Unlock()

	if previous != nil && previous != inner {
		previous.Invalidate()
	}
}

func (w *wrappedSubscription) release() {
	w.mu.Lock()
	w.released = true
	inner := w.inner
	w.inner = nil
	w.mu.Unlock()

	if inner != nil {
		inner.Invalidate()
	}
}
