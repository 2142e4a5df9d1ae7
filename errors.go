package rex

import "errors"

var (
	// ErrNilPublisher is reported when subscribing to a nil Publisher.
	ErrNilPublisher = errors.New("rex: subscribe on nil publisher")

	// ErrSourceGone is reported when subscribing to a publisher whose source
	// has been closed or garbage collected.
	ErrSourceGone = errors.New("rex: subscribing to updates for a freed source")

	// ErrAlreadyCompleted is reported when a task run delivers a second
	// terminal status.
	ErrAlreadyCompleted = errors.New("rex: task completed more than once")
)
