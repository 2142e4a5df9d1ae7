package uuidx

import "github.com/google/uuid"

// New generates a time ordered (version 7) UUID.
// It panics if the random source fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns New formatted as a string.
func NewString() string {
	return New().String()
}

// Short returns the last 12 hex digits of id, which is enough to tell
// subscriptions apart in log output.
func Short(id uuid.UUID) string {
	s := id.String()
	return s[len(s)-12:]
}
