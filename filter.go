package rex

// Filter returns a publisher forwarding only the updates of src for which
// keep returns true. keep should decide based on the update alone.
func Filter[T any](src Subscribable[T], keep func(T) bool) Publisher[T] {
	return func(update func(T)) *Subscription {
		return src.Subscribe(func(v T) {
			if keep(v) {
				update(v)
			}
		})
	}
}
