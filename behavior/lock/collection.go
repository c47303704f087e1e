package lock

import (
	"sync"

	"github.com/IvanBrykalov/collections/store"
)

// MutexCollection serializes every operation on a non-map store behind a
// single mutex, mirroring Mutex for the Collection interface.
func MutexCollection[T any](c store.Collection[T]) store.Collection[T] {
	return &mutexCollection[T]{c: c}
}

type mutexCollection[T any] struct {
	mu sync.Mutex
	c  store.Collection[T]
}

func (m *mutexCollection[T]) Add(v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.Add(v)
}

func (m *mutexCollection[T]) Remove(v T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.Remove(v)
}

func (m *mutexCollection[T]) Contains(v T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.Contains(v)
}

func (m *mutexCollection[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Clear()
}

func (m *mutexCollection[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.Len()
}

func (m *mutexCollection[T]) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.IsEmpty()
}

func (m *mutexCollection[T]) Range(fn func(v T) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Range(fn)
}

var _ store.Collection[int] = (*mutexCollection[int])(nil)
