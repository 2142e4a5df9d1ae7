package rex

import "sync"

// Transform returns a publisher forwarding every update of src converted by
// fn. Use ValueTransform to keep value semantics.
func Transform[T, U any](src Subscribable[T], fn func(T) U) Publisher[U] {
	return func(update func(U)) *Subscription {
		return src.Subscribe(func(v T) {
			update(fn(v))
		})
	}
}

// ValueTransform is Transform with change suppression on the converted
// values: a converted update equal to the previous one is not forwarded.
func ValueTransform[T any, U comparable](src Subscribable[T], fn func(T) U) Publisher[U] {
	return ValueTransformFunc(src, fn, Equality[U]())
}

// ValueTransformFunc is ValueTransform with an explicit change detection
// strategy. Each subscription keeps its own last converted value, so the first
// update a subscription sees is never suppressed, whatever src does.
func ValueTransformFunc[T, U any](src Subscribable[T], fn func(T) U, changed ChangeDetection[U]) Publisher[U] {
	return func(update func(U)) *Subscription {
		var (
			mu          sync.Mutex
			initialized bool
			last        U
		)
		return src.Subscribe(func(v T) {
			next := fn(v)

			mu.Lock()
			forward := !initialized || changed.changed(last, next)
			initialized = true
			last = next
			mu.Unlock()

			if forward {
				update(next)
			}
		})
	}
}
