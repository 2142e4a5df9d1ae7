package natsx

import (
	"log/slog"

	"github.com/casualjim/rex"
	"github.com/casualjim/rex/pkg/slogx"
	"github.com/nats-io/nats.go"
)

func logger() *slog.Logger {
	return slog.Default().With(slogx.LoggerName("rex.natsx"))
}

// Publisher returns a publisher of the messages received on subject. Every
// subscriber gets its own NATS subscription; invalidating it unsubscribes.
// Messages are delivered on the goroutine of the NATS connection.
//
// When NATS refuses the subscription the error is logged and the returned
// subscription is Empty.
func Publisher(nc *nats.Conn, subject string) rex.Publisher[*nats.Msg] {
	return QueuePublisher(nc, subject, "")
}

// QueuePublisher is Publisher for a queue group: each message is delivered to
// only one subscriber of the group across all connections. An empty group is
// a plain subscription.
func QueuePublisher(nc *nats.Conn, subject, group string) rex.Publisher[*nats.Msg] {
	return func(update func(*nats.Msg)) *rex.Subscription {
		if update == nil {
			panic("natsx: subscribe with nil update callback")
		}

		handler := func(msg *nats.Msg) { update(msg) }
		var (
			ns  *nats.Subscription
			err error
		)
		if group == "" {
			ns, err = nc.Subscribe(subject, handler)
		} else {
			ns, err = nc.QueueSubscribe(subject, group, handler)
		}
		if err != nil {
			logger().Error("failed to subscribe", slog.String("subject", subject), slog.String("group", group), slogx.Error(err))
			return rex.Empty()
		}

		return rex.NewSubscription(func() {
			if err := ns.Unsubscribe(); err != nil {
				logger().Warn("failed to unsubscribe", slog.String("subject", subject), slogx.Error(err))
			}
		})
	}
}

// Data returns a publisher of the payloads received on subject.
func Data(nc *nats.Conn, subject string) rex.Publisher[[]byte] {
	return rex.Transform(Publisher(nc, subject), func(msg *nats.Msg) []byte {
		return msg.Data
	})
}

// Forward publishes every update of src to subject until the returned
// subscription is invalidated. Publish failures are logged and skipped.
func Forward(nc *nats.Conn, subject string, src rex.Subscribable[[]byte]) *rex.Subscription {
	return src.Subscribe(func(data []byte) {
		if err := nc.Publish(subject, data); err != nil {
			logger().Error("failed to publish", slog.String("subject", subject), slogx.Error(err))
		}
	})
}
