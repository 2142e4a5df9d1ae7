package rex

// ChangeDetection decides whether replacing prev with next is a change that
// subscribers should hear about. It returns true when the values differ.
// A nil ChangeDetection behaves like Always.
type ChangeDetection[T any] func(prev, next T) bool

func (c ChangeDetection[T]) changed(prev, next T) bool {
	if c == nil {
		return true
	}
	return c(prev, next)
}

// Equality compares values with ==.
func Equality[T comparable]() ChangeDetection[T] {
	return func(prev, next T) bool { return prev != next }
}

// EqualFunc compares values with eq.
func EqualFunc[T any](eq func(a, b T) bool) ChangeDetection[T] {
	return func(prev, next T) bool { return !eq(prev, next) }
}

// Equatable compares values with their Equal method.
func Equatable[T interface{ Equal(T) bool }]() ChangeDetection[T] {
	return func(prev, next T) bool { return !prev.Equal(next) }
}

// Identity compares pointers, ignoring what they point to.
func Identity[E any]() ChangeDetection[*E] {
	return func(prev, next *E) bool { return prev != next }
}

// Always treats every write as a change.
func Always[T any]() ChangeDetection[T] {
	return func(T, T) bool { return true }
}
