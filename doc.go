/*
Package rex provides small, typed publish/subscribe building blocks for
propagating state changes and task progress between components.

The package is built around a few abstractions:

  - Subscriptions: the handle every subscribe call returns. Invalidating it
    stops updates and releases the subscriber.
  - Publishers: the subscribe capability of a source, as a plain function
    value that combinators wrap.
  - Roots: RootPublisher, Broadcaster and PublishedValue own subscriber
    registries and deliver updates to them in subscription order.
  - Tasks: lazily started operations that report progress and one result.

# Basic Usage

A broadcaster fans updates out to its subscribers:

	b := rex.NewBroadcaster[string]()
	sub := b.Subscribe(func(s string) {
		fmt.Println("got", s)
	})
	defer sub.Invalidate()

	b.Broadcast("hello")

A published value replays its current value to new subscribers and only
publishes real changes:

	temperature := rex.NewPublishedValue(21.5)
	sub := temperature.Subscribe(func(v float64) { ... }) // 21.5 right away
	temperature.Set(21.5)                                 // not delivered
	temperature.Set(22.0)                                 // delivered

A task starts its work when the first subscriber arrives:

	q := queue.New(queue.Name("downloads"))
	download := rex.NewDiscreteTask(q, func(ctx context.Context, complete func(rex.Result[[]byte])) {
		go func() {
			data, err := fetch(ctx)
			if err != nil {
				complete(rex.Failed[[]byte](err))
				return
			}
			complete(rex.Succeeded(data))
		}()
	})
	data, err := download.Await(ctx)

# Combinators

Publishers compose: Filter, Transform, ValueTransform, SubscribeOn,
DeliverOn, Delay and SubscribeOnce each wrap a source and return a new
Publisher. Most are also available as methods on Publisher.

# Lifetimes

Subscriptions hold only weak references to roots. Closing (or dropping) a
root makes new subscriptions to it Empty; a warning is logged so that the
mistake does not go unnoticed. A subscription that is dropped while still
active is invalidated when it is collected, which also logs a warning:
invalidate subscriptions explicitly.

# Thread Safety

Roots are safe for concurrent use, but updates from different goroutines
are delivered in whatever order they arrive. Use a queue.Queue to give
updates a total order. Task state is owned by its queue and all task
callbacks run on it.
*/
package rex
