// Package stdx holds small generic helpers shared by the rex packages.
package stdx

import "reflect"

// Zero returns the zero value for T.
func Zero[T any]() T {
	var zero T
	return zero
}

// Comparable reports whether v can be compared with == without panicking.
// A nil interface is comparable.
func Comparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// SameIdentity reports whether a and b are the same comparable value.
// Values whose dynamic type is not comparable are never considered the same.
func SameIdentity(a, b any) bool {
	if !Comparable(a) || !Comparable(b) {
		return false
	}
	return a == b
}
