// Package traits holds the pluggable equality, hashing, and ordering
// functions the containers are parameterized over. Nothing in this module
// assumes identity equality: a store compares keys with the EqualFunc (or
// CompareFunc) it was built with, and the defaults here merely cover the
// common comparable/ordered cases.
package traits

import "cmp"

// EqualFunc reports whether a and b are equal.
type EqualFunc[T any] func(a, b T) bool

// HashFunc maps a key to a 64-bit hash. Equal keys (per the paired
// EqualFunc) must hash to the same value.
type HashFunc[K any] func(k K) uint64

// CompareFunc orders a against b: negative if a < b, zero if equal,
// positive if a > b.
type CompareFunc[T any] func(a, b T) int

// Equal returns the == equality for comparable types.
func Equal[T comparable]() EqualFunc[T] {
	return func(a, b T) bool { return a == b }
}

// Ordered returns the natural ordering for ordered types.
func Ordered[T cmp.Ordered]() CompareFunc[T] {
	return func(a, b T) int { return cmp.Compare(a, b) }
}

// Hash returns the default HashFunc for comparable keys, backed by Fnv64a.
// Keys outside Fnv64a's supported set need a custom HashFunc.
func Hash[K comparable]() HashFunc[K] {
	return Fnv64a[K]
}
