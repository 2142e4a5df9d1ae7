package rextest

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/neilotoole/slogt"
)

// LogRecorder is a slog.Handler that keeps the records it handles and also
// forwards them to the test log.
type LogRecorder struct {
	next slog.Handler
	mu   *sync.Mutex
	recs *[]slog.Record
}

// NewLogRecorder returns a recorder forwarding to t.
func NewLogRecorder(t testing.TB) *LogRecorder {
	return &LogRecorder{
		next: slogt.New(t).Handler(),
		mu:   &sync.Mutex{},
		recs: &[]slog.Record{},
	}
}

// Logger returns a logger backed by the recorder.
func (l *LogRecorder) Logger() *slog.Logger { return slog.New(l) }

func (l *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (l *LogRecorder) Handle(ctx context.Context, r slog.Record) error {
	l.mu.Lock()
	*l.recs = append(*l.recs, r.Clone())
	l.mu.Unlock()
	return l.next.Handle(ctx, r)
}

func (l *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogRecorder{next: l.next.WithAttrs(attrs), mu: l.mu, recs: l.recs}
}

func (l *LogRecorder) WithGroup(name string) slog.Handler {
	return &LogRecorder{next: l.next.WithGroup(name), mu: l.mu, recs: l.recs}
}

// Messages returns the messages logged at or above level.
func (l *LogRecorder) Messages(level slog.Level) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, r := range *l.recs {
		if r.Level >= level {
			out = append(out, r.Message)
		}
	}
	return out
}

// Contains reports whether msg was logged at or above level.
func (l *LogRecorder) Contains(level slog.Level, msg string) bool {
	return slices.Contains(l.Messages(level), msg)
}

// Attrs returns the attributes of the first record logged with msg, rendered
// as strings.
func (l *LogRecorder) Attrs(msg string) (map[string]string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range *l.recs {
		if r.Message != msg {
			continue
		}
		attrs := make(map[string]string, r.NumAttrs())
		r.Attrs(func(a slog.Attr) bool {
			attrs[a.Key] = a.Value.String()
			return true
		})
		return attrs, true
	}
	return nil, false
}
