package lock

import (
	"sync"

	"github.com/IvanBrykalov/collections/behavior"
	"github.com/IvanBrykalov/collections/store"
)

// RWLock returns a Behavior that admits the read-only operations (Has,
// Get, GetOrDefault, Len, IsEmpty, Range) shared and everything else
// exclusive, backed by sync.RWMutex.
//
// Admission follows the RWMutex contract: a blocked writer stops later
// readers from acquiring the lock, so writers cannot be starved by a
// steady read stream. The flip side is retained as a known trade-off
// rather than worked around: readers arriving while writers keep the lock
// queued wait behind every one of those writers.
//
// Note: the shared admission means read operations observe the wrapped
// store concurrently. Only wrap stores whose reads are pure — an inner
// LRU wrapper mutates its access list on Get and must sit OUTSIDE this
// lock (or under Mutex), not inside it.
func RWLock[K, V any]() behavior.Behavior[K, V] {
	return func(s store.Map[K, V]) store.Map[K, V] {
		return &rwStore[K, V]{s: s}
	}
}

type rwStore[K, V any] struct {
	mu sync.RWMutex
	s  store.Map[K, V]
}

// ---- shared admission ----

func (r *rwStore[K, V]) Has(k K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.Has(k)
}

func (r *rwStore[K, V]) Get(k K) (V, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.Get(k)
}

func (r *rwStore[K, V]) GetOrDefault(k K, def V) V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.GetOrDefault(k, def)
}

func (r *rwStore[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.Len()
}

func (r *rwStore[K, V]) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.IsEmpty()
}

func (r *rwStore[K, V]) Range(fn func(k K, v V) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.s.Range(fn)
}

// ---- exclusive admission ----

func (r *rwStore[K, V]) Set(k K, v V) (V, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.Set(k, v)
}

func (r *rwStore[K, V]) Delete(k K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.Delete(k)
}

func (r *rwStore[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Clear()
}

func (r *rwStore[K, V]) KeyEq(a, b K) bool { return r.s.KeyEq(a, b) }

func (r *rwStore[K, V]) ValueEq(a, b V) bool { return r.s.ValueEq(a, b) }

var _ store.Map[string, int] = (*rwStore[string, int])(nil)
