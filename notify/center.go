// Package notify is an in-process notification center: named notifications
// are posted once and delivered to every observer of that name.
package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/casualjim/rex"
	"github.com/casualjim/rex/internal/registry"
	"github.com/casualjim/rex/pkg/slogx"
	"github.com/casualjim/rex/pkg/stdx"
)

// Notification is a named event with an optional sender and payload.
type Notification struct {
	Name   string
	Sender any
	Info   map[string]any
}

// LogValue implements slog.LogValuer.
func (n Notification) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", n.Name),
		slogx.Type("sender", n.Sender),
		slog.Int("info", len(n.Info)),
	)
}

// Center routes posted notifications to observers. The zero value is not
// usable, create one with NewCenter.
type Center struct {
	// mu orders subscribing to a name against dropping its idle broadcaster.
	mu     sync.Mutex
	names  *registry.Registry[*rex.Broadcaster[Notification]]
	all    *rex.Broadcaster[Notification]
	closed atomic.Bool
	logger *slog.Logger
}

// NewCenter returns a center without observers.
func NewCenter() *Center {
	return &Center{
		names:  registry.New[*rex.Broadcaster[Notification]](),
		all:    rex.NewBroadcaster[Notification](),
		logger: slog.Default().With(slogx.LoggerName("rex.notify")),
	}
}

var defaultCenter = NewCenter()

// Default returns the process wide center.
func Default() *Center {
	return defaultCenter
}

func (c *Center) subscribe(name string, update func(Notification)) *rex.Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		c.logger.Warn("returning empty subscription for closed center", slog.String("name", name))
		return rex.Empty()
	}
	if name == "" {
		return c.all.Subscribe(update)
	}

	b, _ := c.names.Ensure(name, func() *rex.Broadcaster[Notification] {
		return rex.NewBroadcaster[Notification]()
	})
	inner := b.Subscribe(update)
	return rex.NewSubscription(func() {
		inner.Invalidate()
		c.release(name, b)
	})
}

// release drops the broadcaster for name once nobody observes it anymore.
func (c *Center) release(name string, b *rex.Broadcaster[Notification]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b.SubscriberCount() > 0 {
		return
	}
	if current, ok := c.names.Get(name); !ok || current != b {
		return
	}
	c.names.Remove(name)
	b.Close()
	c.logger.Debug("dropped idle notification name", slog.String("name", name), slog.Int("names", c.names.Len()))
}

// Post delivers n to the observers of every notification and then to the
// observers of n.Name, on the calling goroutine.
func (c *Center) Post(n Notification) {
	if c.closed.Load() {
		c.logger.Debug("dropping notification posted after close", slog.Any("notification", n))
		return
	}
	c.all.Broadcast(n)
	if b, ok := c.names.Get(n.Name); ok {
		b.Broadcast(n)
	}
}

// PostName is shorthand for posting a Notification built from its parts.
func (c *Center) PostName(name string, sender any, info map[string]any) {
	c.Post(Notification{Name: name, Sender: sender, Info: info})
}

// Publisher returns a publisher of the notifications posted under name. An
// empty name observes every notification. A name is only tracked while it has
// observers.
func (c *Center) Publisher(name string) rex.Publisher[Notification] {
	return func(update func(Notification)) *rex.Subscription {
		return c.subscribe(name, update)
	}
}

// PublisherFor is Publisher restricted to notifications posted by sender. A
// nil sender matches any sender. Senders are matched by identity, so a sender
// whose type is not comparable never matches.
func (c *Center) PublisherFor(name string, sender any) rex.Publisher[Notification] {
	p := c.Publisher(name)
	if sender == nil {
		return p
	}
	if !stdx.Comparable(sender) {
		c.logger.Warn("sender is not comparable, nothing will match", slogx.Type("sender", sender))
	}
	return p.Filter(func(n Notification) bool {
		return stdx.SameIdentity(n.Sender, sender)
	})
}

// Close drops all observers. Posting afterwards does nothing and new
// subscriptions are Empty.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.all.Close()
	c.names.Range(func(_ string, b *rex.Broadcaster[Notification]) bool {
		b.Close()
		return true
	})
}
