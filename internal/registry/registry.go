// Package registry is a concurrent name to value table for lazily created,
// long lived entries such as per-name broadcasters.
package registry

import "github.com/alphadose/haxmap"

// Registry maps names to values. It is safe for concurrent use.
type Registry[T any] struct {
	values *haxmap.Map[string, T]
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{values: haxmap.New[string, T]()}
}

// Get returns the value registered under name.
func (r *Registry[T]) Get(name string) (T, bool) {
	return r.values.Get(name)
}

// Ensure returns the value registered under name, creating it with create
// when there is none. The boolean reports whether the value already existed.
func (r *Registry[T]) Ensure(name string, create func() T) (T, bool) {
	return r.values.GetOrCompute(name, create)
}

// Remove drops the entry for name.
func (r *Registry[T]) Remove(name string) {
	r.values.Del(name)
}

// Len returns the number of entries.
func (r *Registry[T]) Len() int {
	return int(r.values.Len())
}

// Range calls fn for every entry until fn returns false.
func (r *Registry[T]) Range(fn func(name string, value T) bool) {
	r.values.ForEach(fn)
}
