package rex

import (
	"runtime"
	"sync"
)

// PublishedValue holds a value and publishes it: every new subscriber first
// receives the current value, then every change.
//
// Whether a write is a change is decided by the ChangeDetection strategy the
// value was built with. Writes are always stored; they are only delivered when
// the strategy reports a change.
//
// Value access is safe for concurrent use, but delivery order between
// concurrent writers is only meaningful when writes and subscriptions happen
// on one goroutine or queue.
type PublishedValue[T any] struct {
	root    *RootPublisher[T]
	changed ChangeDetection[T]

	mu      sync.RWMutex
	value   T
	version uint64
}

// NewPublishedValue returns a published value that suppresses writes equal
// (==) to the current value.
func NewPublishedValue[T comparable](initial T) *PublishedValue[T] {
	return NewPublishedValueFunc(initial, Equality[T]())
}

// NewPublishedValueFunc returns a published value using changed to detect
// changes. A nil changed delivers every write.
func NewPublishedValueFunc[T any](initial T, changed ChangeDetection[T]) *PublishedValue[T] {
	return &PublishedValue[T]{
		root:    NewRootPublisher[T](),
		changed: changed,
		value:   initial,
	}
}

// Value returns the current value.
func (v *PublishedValue[T]) Value() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set stores next and delivers it if it is a change. It reports whether
// subscribers were updated.
func (v *PublishedValue[T]) Set(next T) bool {
	v.mu.Lock()
	prev := v.value
	v.value = next
	v.version++
	v.mu.Unlock()

	if !v.changed.changed(prev, next) {
		return false
	}
	v.root.Deliver(next)
	return true
}

// Update replaces the value with fn(current) and delivers the result if it
// is a change.
//
// fn runs without any lock held, so it may read v. When another write lands
// while fn runs, fn is called again with the newer value; keep it free of side
// effects. A panic in fn leaves the value untouched.
func (v *PublishedValue[T]) Update(fn func(T) T) bool {
	for {
		v.mu.RLock()
		prev, version := v.value, v.version
		v.mu.RUnlock()

		next := fn(prev)

		v.mu.Lock()
		if v.version != version {
			v.mu.Unlock()
			continue
		}
		v.value = next
		v.version++
		v.mu.Unlock()

		if !v.changed.changed(prev, next) {
			return false
		}
		v.root.Deliver(next)
		return true
	}
}

// Subscribe registers update and immediately calls it with the current value.
func (v *PublishedValue[T]) Subscribe(update func(T)) *Subscription {
	sub := v.root.Subscribe(update)
	if !sub.IsActive() {
		return sub
	}
	update(v.Value())
	return sub
}

// Publisher returns the publisher for the value. Unlike a Broadcaster's,
// it keeps the PublishedValue alive so it can replay the current value.
func (v *PublishedValue[T]) Publisher() Publisher[T] {
	return v.Subscribe
}

// SubscriberCount returns the number of active subscribers.
func (v *PublishedValue[T]) SubscriberCount() int {
	return v.root.SubscriberCount()
}

// Close drops all subscribers. Later subscriptions are Empty.
func (v *PublishedValue[T]) Close() {
	v.root.Close()
}

// Constant returns a publisher that calls every subscriber once with v,
// synchronously, and returns Empty since nothing else will ever happen.
func Constant[T any](v T) Publisher[T] {
	return func(update func(T)) *Subscription {
		update(v)
		return Empty()
	}
}

// PublishedFrom gives value semantics to a source without them, typically a
// Broadcaster: subscribers get the latest value (initial until src updates)
// and then its changes according to changed.
//
// The source is subscribed right away and stays subscribed for as long as the
// returned publisher is reachable.
func PublishedFrom[T any](src Subscribable[T], initial T, changed ChangeDetection[T]) Publisher[T] {
	value := NewPublishedValueFunc(initial, changed)
	sub := src.Subscribe(func(next T) { value.Set(next) })
	return func(update func(T)) *Subscription {
		runtime.KeepAlive(sub)
		return value.Subscribe(update)
	}
}
