package rex

import (
	"sync"
	"weak"

	"github.com/casualjim/rex/pkg/slogx"
	"github.com/casualjim/rex/pkg/uuidx"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RootPublisher is a subscriber registry: the stateful source behind
// Broadcaster and PublishedValue, and a building block for custom sources.
//
// Subscribers are delivered to in the order they subscribed. Subscriptions it
// hands out only keep a weak reference to it, and so does its Publisher: once
// the root is closed or collected new subscriptions are Empty and
// invalidating old ones does nothing.
type RootPublisher[T any] struct {
	mu          sync.Mutex
	subscribers *orderedmap.OrderedMap[uuid.UUID, *subscriber[T]]
	closed      bool

	self      weak.Pointer[RootPublisher[T]]
	publisher Publisher[T]
}

type subscriber[T any] struct {
	state  *subscriptionState
	update func(T)
}

// NewRootPublisher returns an empty registry.
func NewRootPublisher[T any]() *RootPublisher[T] {
	r := &RootPublisher[T]{
		subscribers: orderedmap.New[uuid.UUID, *subscriber[T]](),
	}
	r.self = weak.Make(r)
	r.publisher = rootPublisher(r.self)
	return r
}

func rootPublisher[T any](wr weak.Pointer[RootPublisher[T]]) Publisher[T] {
	return func(update func(T)) *Subscription {
		r := wr.Value()
		if r == nil {
			logger().Warn("returning empty subscription", slogx.Error(ErrSourceGone))
			return Empty()
		}
		return r.Subscribe(update)
	}
}

// Publisher returns the publisher for this registry. It does not keep the
// registry alive.
func (r *RootPublisher[T]) Publisher() Publisher[T] {
	return r.publisher
}

// Subscribe registers update. Subscribing a nil callback panics.
func (r *RootPublisher[T]) Subscribe(update func(T)) *Subscription {
	if update == nil {
		panic("rex: subscribe with nil update callback")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		logger().Warn("returning empty subscription", slogx.Error(ErrSourceGone))
		return Empty()
	}

	id := uuidx.New()
	self := r.self
	sub := newSubscription(id, func() {
		if r := self.Value(); r != nil {
			r.remove(id)
		}
	})
	r.subscribers.Set(id, &subscriber[T]{state: sub.state, update: update})
	return sub
}

func (r *RootPublisher[T]) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subscribers != nil {
		r.subscribers.Delete(id)
	}
}

// Deliver calls every active subscriber with v, in subscription order.
//
// Subscribers added while a delivery is running do not receive it. A
// subscriber whose subscription is invalidated before its turn comes is
// skipped.
func (r *RootPublisher[T]) Deliver(v T) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	targets := make([]*subscriber[T], 0, r.subscribers.Len())
	for pair := r.subscribers.Oldest(); pair != nil; pair = pair.Next() {
		targets = append(targets, pair.Value)
	}
	r.mu.Unlock()

	for _, s := range targets {
		if s.state.active.Load() {
			s.update(v)
		}
	}
}

// SubscriberCount returns the number of registered subscribers.
func (r *RootPublisher[T]) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0
	}
	return r.subscribers.Len()
}

// Close destroys the registry. Outstanding subscriptions stop receiving
// updates, and new subscriptions are Empty.
func (r *RootPublisher[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.subscribers = nil
}
