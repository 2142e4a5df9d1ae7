package rex

import (
	"fmt"

	"github.com/casualjim/rex/pkg/stdx"
)

// NoProgress is the progress type of tasks that never report progress.
type NoProgress = struct{}

// Result is the outcome of a task: a value on success, an error on failure.
type Result[S any] struct {
	Value S
	Err   error
}

// Succeeded returns a successful result.
func Succeeded[S any](v S) Result[S] {
	return Result[S]{Value: v}
}

// Failed returns a failed result. A nil err is a programmer error and panics.
func Failed[S any](err error) Result[S] {
	if err == nil {
		panic("rex: failed result without error")
	}
	return Result[S]{Err: err}
}

// Get unpacks the result. On failure the value is the zero value.
func (r Result[S]) Get() (S, error) {
	if r.Err != nil {
		return stdx.Zero[S](), r.Err
	}
	return r.Value, nil
}

// IsSuccess reports whether the result carries a value.
func (r Result[S]) IsSuccess() bool {
	return r.Err == nil
}

func (r Result[S]) String() string {
	if r.Err != nil {
		return fmt.Sprintf("failure(%v)", r.Err)
	}
	return fmt.Sprintf("success(%v)", r.Value)
}

// Status is the update a task publishes: either progress or its final result.
type Status[P, S any] struct {
	progress P
	result   *Result[S]
}

// InProgress returns a progress status.
func InProgress[P, S any](p P) Status[P, S] {
	return Status[P, S]{progress: p}
}

// Completed returns a final status.
func Completed[P, S any](r Result[S]) Status[P, S] {
	return Status[P, S]{result: &r}
}

// Success returns a final status with a value.
func Success[P, S any](v S) Status[P, S] {
	return Completed[P](Succeeded(v))
}

// Failure returns a final status with an error.
func Failure[P, S any](err error) Status[P, S] {
	return Completed[P](Failed[S](err))
}

// IsFinal reports whether the status carries the task result.
func (s Status[P, S]) IsFinal() bool {
	return s.result != nil
}

// Progress returns the progress payload of a non final status.
func (s Status[P, S]) Progress() (P, bool) {
	if s.result != nil {
		return stdx.Zero[P](), false
	}
	return s.progress, true
}

// Result returns the result of a final status.
func (s Status[P, S]) Result() (Result[S], bool) {
	if s.result == nil {
		return Result[S]{}, false
	}
	return *s.result, true
}

func (s Status[P, S]) String() string {
	if s.result != nil {
		return s.result.String()
	}
	return fmt.Sprintf("inProgress(%v)", s.progress)
}
