package rex

import (
	"testing"

	"github.com/casualjim/rex/internal/rextest"
	"github.com/casualjim/rex/queue"
)

// captureLogs routes rex diagnostics to a recorder for the rest of the test.
func captureLogs(t *testing.T) *rextest.LogRecorder {
	t.Helper()
	rec := rextest.NewLogRecorder(t)
	SetLogger(rec.Logger())
	t.Cleanup(func() { SetLogger(nil) })
	return rec
}

func newQueue(t *testing.T) *queue.Queue {
	t.Helper()
	q := queue.New(queue.Name(t.Name()))
	t.Cleanup(q.Shutdown)
	return q
}
