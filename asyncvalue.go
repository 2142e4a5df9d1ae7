package rex

// AsyncValue is a value that can only be observed through a publisher and
// changed by asking for it. Whoever builds it decides how a requested value
// is applied; the outcome shows up through Value.
type AsyncValue[T any] struct {
	// Value publishes the value.
	Value Publisher[T]

	setter func(T)
}

// NewAsyncValue pairs a publisher with the function applying requested values.
func NewAsyncValue[T any](value Publisher[T], setter func(T)) AsyncValue[T] {
	return AsyncValue[T]{Value: value, setter: setter}
}

// Set requests v. Errors applying it are the setter's business; the published
// value only reflects what actually happened.
func (a AsyncValue[T]) Set(v T) {
	if a.setter != nil {
		a.setter(v)
	}
}
