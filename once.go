package rex

import "sync/atomic"

// SubscribeOnce subscribes update to the next update of src only. After that
// update the subscription invalidates itself; a second update delivered while
// the first callback is still running (reentrantly or from another goroutine)
// is dropped.
//
// The returned subscription can be ignored: the source keeps it alive until
// the update arrives. If src delivers synchronously while subscribing, the
// returned subscription is already inactive.
func SubscribeOnce[T any](src Subscribable[T], update func(T)) *Subscription {
	var fired atomic.Bool
	w := &wrappedSubscription{}

	sub := src.Subscribe(func(v T) {
		if !fired.CompareAndSwap(false, true) {
			return
		}
		update(v)
		w.release()
	})
	w.deliver(sub)
	return sub
}
