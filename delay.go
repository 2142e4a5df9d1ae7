package rex

import (
	"sync"
	"time"

	"github.com/casualjim/rex/queue"
)

var delayQueue = queue.New(queue.Name("rex.delay"))

// Delay returns a publisher that subscribes to src d after being subscribed
// to. Subscribing to a task through it postpones the start of the work.
func Delay[T any](src Subscribable[T], d time.Duration) Publisher[T] {
	return DelayOn(src, d, delayQueue)
}

// DelayOn is Delay with the delayed subscribe, and the unsubscribe, running on
// q. Invalidating the subscription before the delay elapses means src never
// sees the subscribe.
func DelayOn[T any](src Subscribable[T], d time.Duration, q *queue.Queue) Publisher[T] {
	return func(update func(T)) *Subscription {
		var (
			mu       sync.Mutex
			canceled bool
			stop     func() bool
		)
		return WrapSubscription(func(deliver func(*Subscription)) {
			mu.Lock()
			defer mu.Unlock()
			stop = q.AsyncAfter(d, func() {
				mu.Lock()
				skip := canceled
				mu.Unlock()
				if skip {
					return
				}
				deliver(src.Subscribe(update))
			})
		}, func(release func()) {
			mu.Lock()
			canceled = true
			stopTimer := stop
			mu.Unlock()

			if stopTimer != nil {
				stopTimer()
			}
			q.Async(release)
		})
	}
}
