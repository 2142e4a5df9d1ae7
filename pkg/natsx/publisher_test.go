package natsx

import (
	"testing"
	"time"

	"github.com/casualjim/rex"
	"github.com/casualjim/rex/internal/rextest"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNATS(t *testing.T) *nats.Conn {
	t.Helper()
	nc, err := NewClient(nats.Name("rex-test"), nats.Timeout(500*time.Millisecond))
	if err != nil {
		t.Skipf("nats server not reachable: %v", err)
	}
	t.Cleanup(nc.Close)
	return nc
}

func TestPublisher(t *testing.T) {
	t.Run("delivers messages on the subject", func(t *testing.T) {
		nc := setupNATS(t)
		subject := "rex.test." + t.Name()

		received := make(chan string, 4)
		sub := Publisher(nc, subject).Subscribe(func(msg *nats.Msg) {
			received <- string(msg.Data)
		})
		defer sub.Invalidate()
		require.True(t, sub.IsActive())
		require.NoError(t, nc.Flush())

		require.NoError(t, nc.Publish(subject, []byte("hello")))
		assert.Equal(t, "hello", rextest.ReceiveSoon(t, received))
	})

	t.Run("stops after invalidate", func(t *testing.T) {
		nc := setupNATS(t)
		subject := "rex.test." + t.Name()

		received := make(chan string, 4)
		sub := Data(nc, subject).Subscribe(func(data []byte) {
			received <- string(data)
		})
		require.NoError(t, nc.Flush())
		sub.Invalidate()
		require.NoError(t, nc.Flush())

		require.NoError(t, nc.Publish(subject, []byte("late")))
		rextest.NotReceived(t, received, 100*time.Millisecond)
	})

	t.Run("queue group shares messages", func(t *testing.T) {
		nc := setupNATS(t)
		subject := "rex.test." + t.Name()

		received := make(chan string, 8)
		record := func(msg *nats.Msg) { received <- string(msg.Data) }
		p := QueuePublisher(nc, subject, "workers")
		s1, s2 := p.Subscribe(record), p.Subscribe(record)
		defer s1.Invalidate()
		defer s2.Invalidate()
		require.NoError(t, nc.Flush())

		require.NoError(t, nc.Publish(subject, []byte("job")))
		assert.Equal(t, "job", rextest.ReceiveSoon(t, received))
		rextest.NotReceived(t, received, 100*time.Millisecond)
	})

	t.Run("invalid subject yields empty subscription", func(t *testing.T) {
		nc := setupNATS(t)

		sub := Publisher(nc, "").Subscribe(func(*nats.Msg) {})
		assert.False(t, sub.IsActive())
	})
}

func TestForward(t *testing.T) {
	nc := setupNATS(t)
	subject := "rex.test.forward"

	received := make(chan string, 4)
	in := Data(nc, subject).Subscribe(func(data []byte) {
		received <- string(data)
	})
	defer in.Invalidate()
	require.NoError(t, nc.Flush())

	b := rex.NewBroadcaster[[]byte]()
	out := Forward(nc, subject, b)
	defer out.Invalidate()

	b.Broadcast([]byte("one"))
	assert.Equal(t, "one", rextest.ReceiveSoon(t, received))

	out.Invalidate()
	b.Broadcast([]byte("two"))
	rextest.NotReceived(t, received, 100*time.Millisecond)
}
