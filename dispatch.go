package rex

import (
	"sync/atomic"

	"github.com/casualjim/rex/queue"
)

// SubscribeOn returns a publisher that subscribes to and unsubscribes from src
// on q, for sources whose state is confined to that queue.
//
// The returned subscription is not backed by a source subscription yet when
// SubscribeOn's subscribe returns; value publishers deliver their current value
// later, on q. Invalidating before the queued subscribe has run keeps it from
// ever reaching src.
func SubscribeOn[T any](src Subscribable[T], q *queue.Queue) Publisher[T] {
	return func(update func(T)) *Subscription {
		var canceled atomic.Bool
		return WrapSubscription(func(deliver func(*Subscription)) {
			q.Async(func() {
				if canceled.Load() {
					return
				}
				deliver(src.Subscribe(update))
			})
		}, func(release func()) {
			canceled.Store(true)
			q.Async(release)
		})
	}
}

// DeliverOn returns a publisher whose subscribers are called on q, whichever
// goroutine src delivers on. Updates still waiting on q when the subscription
// is invalidated are dropped.
func DeliverOn[T any](src Subscribable[T], q *queue.Queue) Publisher[T] {
	return func(update func(T)) *Subscription {
		active := &atomic.Bool{}
		active.Store(true)

		inner := src.Subscribe(func(v T) {
			q.Async(func() {
				if active.Load() {
					update(v)
				}
			})
		})
		if !inner.IsActive() {
			return inner
		}
		return NewSubscription(func() {
			active.Store(false)
			inner.Invalidate()
		})
	}
}
