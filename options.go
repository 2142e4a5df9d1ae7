package rex

import (
	"log/slog"

	"github.com/fogfish/opts"
)

// TaskOptions configures a Task.
type TaskOptions struct {
	onCancel        func()
	cancelOnAbandon bool
	logger          *slog.Logger
}

// WithCancel sets the action run when every subscriber leaves before the
// task completes. The task then goes back to not started, and the next
// subscriber starts the work again.
func WithCancel(cancel func()) opts.Option[TaskOptions] {
	return opts.Type[TaskOptions](func(o *TaskOptions) error {
		o.onCancel = cancel
		o.cancelOnAbandon = true
		return nil
	})
}

var (
	// CancelOnAbandon makes the task restartable without a cancel action:
	// abandoning it only cancels the context handed to the work.
	CancelOnAbandon = opts.ForName[TaskOptions, bool]("cancelOnAbandon")

	// WithTaskLogger sets the logger for task diagnostics.
	WithTaskLogger = opts.ForName[TaskOptions, *slog.Logger]("logger")
)
