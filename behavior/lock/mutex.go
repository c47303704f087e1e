// Package lock serializes operations on a wrapped store.
//
// Three strategies are provided:
//
//   - Mutex: full mutual exclusion — every operation takes one lock, so
//     overlapping calls execute in a single total order.
//   - Reentrant: like Mutex, but a nested call issued from the goroutine
//     currently holding the lock executes immediately instead of
//     deadlocking (callbacks that re-enter the store are the typical case).
//   - RWLock: reader/writer admission — the fixed read set (Has, Get,
//     GetOrDefault, Len, IsEmpty, Range) runs shared, everything else
//     exclusive.
//
// No cancellation or timeout is threaded through: once a call is admitted
// it runs to completion, and lock acquisition itself does not time out.
package lock

import (
	"sync"

	"github.com/IvanBrykalov/collections/behavior"
	"github.com/IvanBrykalov/collections/store"
)

// Mutex returns a Behavior that serializes every operation on the wrapped
// store behind a single mutex.
func Mutex[K, V any]() behavior.Behavior[K, V] {
	return func(s store.Map[K, V]) store.Map[K, V] {
		return &mutexStore[K, V]{s: s}
	}
}

type mutexStore[K, V any] struct {
	mu sync.Mutex
	s  store.Map[K, V]
}

func (m *mutexStore[K, V]) Has(k K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.Has(k)
}

func (m *mutexStore[K, V]) Get(k K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.Get(k)
}

func (m *mutexStore[K, V]) GetOrDefault(k K, def V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.GetOrDefault(k, def)
}

func (m *mutexStore[K, V]) Set(k K, v V) (V, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.Set(k, v)
}

func (m *mutexStore[K, V]) Delete(k K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.Delete(k)
}

func (m *mutexStore[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.Clear()
}

func (m *mutexStore[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.Len()
}

func (m *mutexStore[K, V]) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.IsEmpty()
}

func (m *mutexStore[K, V]) Range(fn func(k K, v V) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.Range(fn)
}

// KeyEq/ValueEq delegate unlocked: the equality traits are pure functions.

func (m *mutexStore[K, V]) KeyEq(a, b K) bool { return m.s.KeyEq(a, b) }

func (m *mutexStore[K, V]) ValueEq(a, b V) bool { return m.s.ValueEq(a, b) }

var _ store.Map[string, int] = (*mutexStore[string, int])(nil)
