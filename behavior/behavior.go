// Package behavior defines the composition protocol that layers
// cross-cutting concerns (capacity bounds, LRU eviction, TTL expiry,
// locking, loading) over any store.Map without the store knowing it is
// wrapped.
//
// A Behavior is a transformation from a Map to a Map. Concrete behaviors
// are typed decorators: the wrapper struct embeds the wrapped store.Map and
// overrides exactly the operations it intercepts, so every non-intercepted
// call forwards untouched through the embedded interface. A behavior's own
// bookkeeping happens strictly after the delegated call succeeds, unless
// the behavior short-circuits (for example an overflow rejection), in which
// case the delegated call never runs.
//
// Behaviors stack. Compose applies left to right:
//
//	Compose(b1, b2, b3)(s) == b3(b2(b1(s)))
//
// so the first behavior listed sits closest to the store and the last one
// listed sees calls first. Order matters: bounding outside a TTL wrapper
// counts unswept entries; bounding inside it does not.
package behavior

import "github.com/IvanBrykalov/collections/store"

// Behavior wraps a map store, returning a store with the same interface
// plus the behavior's concern layered on top.
type Behavior[K, V any] func(store.Map[K, V]) store.Map[K, V]

// Compose stacks behaviors into one. The leftmost behavior is applied
// first (innermost, closest to the store); the rightmost wrapper sees
// calls first. Compose of nothing is the identity.
func Compose[K, V any](behaviors ...Behavior[K, V]) Behavior[K, V] {
	return func(s store.Map[K, V]) store.Map[K, V] {
		for _, b := range behaviors {
			s = b(s)
		}
		return s
	}
}
