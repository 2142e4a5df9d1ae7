package rex

// Broadcaster delivers every broadcast value to the subscribers present at
// the time of the broadcast. There is no replay: a subscriber added after N
// broadcasts sees broadcast N+1 onwards.
//
// Its Publisher does not keep the Broadcaster alive. Once the Broadcaster is
// closed or collected, subscribing returns Empty and logs a diagnostic.
type Broadcaster[T any] struct {
	root *RootPublisher[T]
}

// NewBroadcaster returns a broadcaster without subscribers.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{root: NewRootPublisher[T]()}
}

// Broadcast delivers v to all current subscribers.
func (b *Broadcaster[T]) Broadcast(v T) {
	b.root.Deliver(v)
}

// Publisher returns the publisher for broadcasts.
func (b *Broadcaster[T]) Publisher() Publisher[T] {
	return b.root.Publisher()
}

// Subscribe is shorthand for b.Publisher().Subscribe(update).
func (b *Broadcaster[T]) Subscribe(update func(T)) *Subscription {
	return b.root.Subscribe(update)
}

// SubscriberCount returns the number of active subscribers.
func (b *Broadcaster[T]) SubscriberCount() int {
	return b.root.SubscriberCount()
}

// Close drops all subscribers. Later subscriptions are Empty.
func (b *Broadcaster[T]) Close() {
	b.root.Close()
}
