package lock

import (
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/collections/behavior"
	"github.com/IvanBrykalov/collections/internal/goid"
	"github.com/IvanBrykalov/collections/store"
)

// Reentrant returns a Behavior that serializes operations like Mutex but
// lets the goroutine currently holding the lock re-enter without blocking.
// The holder is released only when the outermost call completes. This is
// the wrapper to reach for when eviction or expiry callbacks call back
// into the same store.
func Reentrant[K, V any]() behavior.Behavior[K, V] {
	return func(s store.Map[K, V]) store.Map[K, V] {
		return &reentrantStore[K, V]{s: s}
	}
}

// reentrantMutex is a mutex with goroutine-id based ownership. The holder
// field is atomic so a nested call can test ownership without touching the
// contended mutex; depth is only accessed by the holder.
type reentrantMutex struct {
	mu     sync.Mutex
	holder atomic.Int64 // goroutine id, 0 = unheld
	depth  int
}

func (m *reentrantMutex) lock() {
	id := goid.Get()
	if m.holder.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.holder.Store(id)
	m.depth = 1
}

func (m *reentrantMutex) unlock() {
	if m.holder.Load() != goid.Get() {
		panic("lock: reentrant unlock by non-holder goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.holder.Store(0)
		m.mu.Unlock()
	}
}

type reentrantStore[K, V any] struct {
	rm reentrantMutex
	s  store.Map[K, V]
}

func (r *reentrantStore[K, V]) Has(k K) bool {
	r.rm.lock()
	defer r.rm.unlock()
	return r.s.Has(k)
}

func (r *reentrantStore[K, V]) Get(k K) (V, error) {
	r.rm.lock()
	defer r.rm.unlock()
	return r.s.Get(k)
}

func (r *reentrantStore[K, V]) GetOrDefault(k K, def V) V {
	r.rm.lock()
	defer r.rm.unlock()
	return r.s.GetOrDefault(k, def)
}

func (r *reentrantStore[K, V]) Set(k K, v V) (V, bool, error) {
	r.rm.lock()
	defer r.rm.unlock()
	return r.s.Set(k, v)
}

func (r *reentrantStore[K, V]) Delete(k K) (V, bool) {
	r.rm.lock()
	defer r.rm.unlock()
	return r.s.Delete(k)
}

func (r *reentrantStore[K, V]) Clear() {
	r.rm.lock()
	defer r.rm.unlock()
	r.s.Clear()
}

func (r *reentrantStore[K, V]) Len() int {
	r.rm.lock()
	defer r.rm.unlock()
	return r.s.Len()
}

func (r *reentrantStore[K, V]) IsEmpty() bool {
	r.rm.lock()
	defer r.rm.unlock()
	return r.s.IsEmpty()
}

func (r *reentrantStore[K, V]) Range(fn func(k K, v V) bool) {
	r.rm.lock()
	defer r.rm.unlock()
	r.s.Range(fn)
}

func (r *reentrantStore[K, V]) KeyEq(a, b K) bool { return r.s.KeyEq(a, b) }

func (r *reentrantStore[K, V]) ValueEq(a, b V) bool { return r.s.ValueEq(a, b) }

var _ store.Map[string, int] = (*reentrantStore[string, int])(nil)
