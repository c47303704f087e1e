package store

// Entry is an immutable key/value snapshot produced by iteration and by the
// ordered-map navigation operations. Changing a value means re-inserting it
// under the same key, never mutating an Entry in place.
type Entry[K, V any] struct {
	Key   K
	Value V
}
