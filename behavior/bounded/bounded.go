// Package bounded enforces a maximum element count on a wrapped store and
// applies a configurable overflow policy when an insert would exceed it.
package bounded

import (
	"container/list"
	"fmt"
	"time"

	"github.com/IvanBrykalov/collections/behavior"
	"github.com/IvanBrykalov/collections/store"
)

// OverflowPolicy selects what happens when a size-increasing call arrives
// at a full store.
type OverflowPolicy int

const (
	// Fail rejects the write with store.ErrCapacityExceeded.
	Fail OverflowPolicy = iota
	// DropOldest evicts the earliest-inserted entry, then proceeds.
	DropOldest
	// DropNewest silently discards the new entry; the store is unchanged.
	DropNewest
	// Reject silently discards the new entry; the store is unchanged.
	Reject
	// Grow disables the capacity check entirely.
	Grow
	// Block is not supported under synchronous admission; writes at
	// capacity return store.ErrUnsupported.
	Block
)

// OverflowEvent describes an insert that arrived at a full store. It is
// passed to OnOverflow before the policy is applied.
type OverflowEvent[K, V any] struct {
	Key      K
	Value    V
	Size     int
	Capacity int
	Time     time.Time
}

// Options configures a bounded wrapper. Capacity must be > 0; the zero
// Policy is Fail. Zero values are safe for everything else:
// nil Metrics => NoopMetrics, nil Clock => time.Now.
type Options[K, V any] struct {
	Capacity int
	Policy   OverflowPolicy

	// OnOverflow is called before the policy is applied, under whatever
	// lock the composition holds; keep it lightweight.
	OnOverflow func(OverflowEvent[K, V])

	Metrics behavior.Metrics
	Clock   behavior.Clock
}

// Store is a capacity-bounded map wrapper. It intercepts Set, Delete, and
// Clear; everything else forwards to the wrapped store.
//
// Not safe for concurrent use on its own — compose with behavior/lock.
type Store[K comparable, V any] struct {
	store.Map[K, V]

	opt Options[K, V]

	// Insertion-order queue for DropOldest, kept in 1:1 sync with the
	// wrapped store's key set on every Set/Delete/Clear.
	order *list.List // element values are K, front = oldest
	elem  map[K]*list.Element
}

// New returns a Behavior that bounds a map store with opt.
func New[K comparable, V any](opt Options[K, V]) behavior.Behavior[K, V] {
	return func(s store.Map[K, V]) store.Map[K, V] { return Wrap(s, opt) }
}

// Wrap bounds s with opt, returning the concrete wrapper so callers can
// reach the capacity accessors. Panics if Capacity <= 0.
func Wrap[K comparable, V any](s store.Map[K, V], opt Options[K, V]) *Store[K, V] {
	if opt.Capacity <= 0 {
		panic(fmt.Sprintf("bounded: Capacity must be > 0, got %d", opt.Capacity))
	}
	if opt.Metrics == nil {
		opt.Metrics = behavior.NoopMetrics{}
	}
	b := &Store[K, V]{
		Map:   s,
		opt:   opt,
		order: list.New(),
		elem:  make(map[K]*list.Element, opt.Capacity),
	}
	// Adopt any entries the store already holds, in iteration order.
	s.Range(func(k K, _ V) bool {
		b.elem[k] = b.order.PushBack(k)
		return true
	})
	return b
}

// Capacity returns the configured maximum element count.
func (b *Store[K, V]) Capacity() int { return b.opt.Capacity }

// IsFull reports whether the store is at or above capacity.
func (b *Store[K, V]) IsFull() bool { return b.Map.Len() >= b.opt.Capacity }

// Remaining returns how many entries fit before the store is full,
// never negative.
func (b *Store[K, V]) Remaining() int {
	if r := b.opt.Capacity - b.Map.Len(); r > 0 {
		return r
	}
	return 0
}

// Set applies the overflow policy when inserting a new key into a full
// store; replacing an existing key is never size-increasing and always
// delegates directly.
func (b *Store[K, V]) Set(k K, v V) (V, bool, error) {
	var zero V

	if !b.Map.Has(k) && b.opt.Policy != Grow && b.Map.Len() >= b.opt.Capacity {
		if cb := b.opt.OnOverflow; cb != nil {
			cb(OverflowEvent[K, V]{
				Key:      k,
				Value:    v,
				Size:     b.Map.Len(),
				Capacity: b.opt.Capacity,
				Time:     time.Unix(0, behavior.Now(b.opt.Clock)),
			})
		}
		switch b.opt.Policy {
		case Fail:
			return zero, false, store.ErrCapacityExceeded
		case DropNewest, Reject:
			// Documented silent discard; the delegated call never runs.
			return zero, false, nil
		case Block:
			return zero, false, store.ErrUnsupported
		case DropOldest:
			b.evictOldest()
		}
	}

	prev, existed, err := b.Map.Set(k, v)
	if err != nil {
		return prev, existed, err
	}
	if !existed {
		b.elem[k] = b.order.PushBack(k)
	}
	b.opt.Metrics.Size(b.Map.Len())
	return prev, existed, nil
}

// Delete forwards the removal and drops the key from the insertion queue.
func (b *Store[K, V]) Delete(k K) (V, bool) {
	prev, existed := b.Map.Delete(k)
	if existed {
		if e, ok := b.elem[k]; ok {
			b.order.Remove(e)
			delete(b.elem, k)
		}
		b.opt.Metrics.Size(b.Map.Len())
	}
	return prev, existed
}

// Clear forwards and resets the insertion queue.
func (b *Store[K, V]) Clear() {
	b.Map.Clear()
	b.order.Init()
	clear(b.elem)
	b.opt.Metrics.Size(0)
}

// evictOldest removes earliest-inserted keys until one eviction actually
// lands. Queue entries whose key already vanished from the wrapped store
// (an inner wrapper expired it) are discarded on the way.
func (b *Store[K, V]) evictOldest() {
	for e := b.order.Front(); e != nil; e = b.order.Front() {
		k := e.Value.(K)
		b.order.Remove(e)
		delete(b.elem, k)
		if _, existed := b.Map.Delete(k); existed {
			b.opt.Metrics.Evict(behavior.EvictCapacity)
			return
		}
	}
}

// Compile-time check: Store satisfies the map interface.
var _ store.Map[string, int] = (*Store[string, int])(nil)
