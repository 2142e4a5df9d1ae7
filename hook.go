package rex

import (
	"log/slog"
	"slices"

	"github.com/casualjim/rex/pkg/slogx"
)

// TaskHook receives the updates of a task split by kind. Implementations
// decide explicitly what to do for each of them.
type TaskHook[P, S any] interface {
	OnProgress(P)
	OnResult(S)
	OnError(error)
}

// LoggingTaskHook returns a hook that logs every task update.
func LoggingTaskHook[P, S any](l *slog.Logger) TaskHook[P, S] {
	if l == nil {
		l = logger()
	}
	return &loggingTaskHook[P, S]{logger: l}
}

type loggingTaskHook[P, S any] struct {
	logger *slog.Logger
}

func (h *loggingTaskHook[P, S]) OnProgress(p P) {
	h.logger.Debug("task progress", slog.Any("progress", p))
}

func (h *loggingTaskHook[P, S]) OnResult(s S) {
	h.logger.Info("task result", slog.Any("result", s))
}

func (h *loggingTaskHook[P, S]) OnError(err error) {
	h.logger.Error("task failed", slogx.Error(err))
}

// NewCompositeTaskHook fans updates out to hooks, in order.
func NewCompositeTaskHook[P, S any](hooks ...TaskHook[P, S]) TaskHook[P, S] {
	return CompositeTaskHook[P, S](hooks)
}

// CompositeTaskHook combines several hooks into one.
type CompositeTaskHook[P, S any] []TaskHook[P, S]

func (c CompositeTaskHook[P, S]) OnProgress(p P) {
	for h := range slices.Values(c) {
		h.OnProgress(p)
	}
}

func (c CompositeTaskHook[P, S]) OnResult(s S) {
	for h := range slices.Values(c) {
		h.OnResult(s)
	}
}

func (c CompositeTaskHook[P, S]) OnError(err error) {
	for h := range slices.Values(c) {
		h.OnError(err)
	}
}
