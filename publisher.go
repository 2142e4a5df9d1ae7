package rex

import (
	"time"

	"github.com/casualjim/rex/pkg/slogx"
	"github.com/casualjim/rex/queue"
)

// Subscribable is anything updates can be subscribed to.
type Subscribable[T any] interface {
	Subscribe(update func(T)) *Subscription
}

// Publisher is the subscribe capability of some update source. It holds no
// subscriber state of its own: calling it registers update with whatever
// source built it and returns the subscription for that registration.
//
// Publishers are cheap values; every combinator in this package builds a new
// Publisher around the subscribe function of another one.
type Publisher[T any] func(update func(T)) *Subscription

// NewPublisher turns a subscribe function into a Publisher. This is how
// adapters for external event sources plug into rex.
func NewPublisher[T any](subscribe func(update func(T)) *Subscription) Publisher[T] {
	return Publisher[T](subscribe)
}

// Subscribe registers update and returns its subscription. Subscribing to a
// nil Publisher logs a diagnostic and returns Empty.
func (p Publisher[T]) Subscribe(update func(T)) *Subscription {
	if p == nil {
		logger().Warn("ignoring subscription", slogx.Error(ErrNilPublisher), slogx.Type("update", update))
		return Empty()
	}
	return p(update)
}

// Filter forwards only the updates for which keep returns true.
func (p Publisher[T]) Filter(keep func(T) bool) Publisher[T] {
	return Filter[T](p, keep)
}

// SubscribeOn moves subscribing and unsubscribing onto q.
func (p Publisher[T]) SubscribeOn(q *queue.Queue) Publisher[T] {
	return SubscribeOn[T](p, q)
}

// DeliverOn forwards updates to subscribers through q.
func (p Publisher[T]) DeliverOn(q *queue.Queue) Publisher[T] {
	return DeliverOn[T](p, q)
}

// Delay postpones subscribing to p by d.
func (p Publisher[T]) Delay(d time.Duration) Publisher[T] {
	return Delay[T](p, d)
}

// SubscribeOnce subscribes update for the next update only.
func (p Publisher[T]) SubscribeOnce(update func(T)) *Subscription {
	return SubscribeOnce[T](p, update)
}
