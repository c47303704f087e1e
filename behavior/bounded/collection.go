package bounded

import (
	"container/list"
	"fmt"
	"time"

	"github.com/IvanBrykalov/collections/behavior"
	"github.com/IvanBrykalov/collections/store"
)

// ElementOverflowEvent is the collection-side counterpart of OverflowEvent.
type ElementOverflowEvent[T any] struct {
	Value    T
	Size     int
	Capacity int
	Time     time.Time
}

// CollectionOptions configures a bounded collection wrapper.
type CollectionOptions[T any] struct {
	Capacity   int
	Policy     OverflowPolicy
	OnOverflow func(ElementOverflowEvent[T])
	Clock      behavior.Clock
}

// Collection bounds a non-map store. Only Add is intercepted for the
// capacity check; Remove and Clear keep the insertion queue in sync.
type Collection[T comparable] struct {
	store.Collection[T]

	opt   CollectionOptions[T]
	order *list.List // element values are T, front = oldest
}

// WrapCollection bounds c with opt. Panics if Capacity <= 0.
func WrapCollection[T comparable](c store.Collection[T], opt CollectionOptions[T]) *Collection[T] {
	if opt.Capacity <= 0 {
		panic(fmt.Sprintf("bounded: Capacity must be > 0, got %d", opt.Capacity))
	}
	b := &Collection[T]{Collection: c, opt: opt, order: list.New()}
	c.Range(func(v T) bool {
		b.order.PushBack(v)
		return true
	})
	return b
}

// Capacity returns the configured maximum element count.
func (b *Collection[T]) Capacity() int { return b.opt.Capacity }

// IsFull reports whether the collection is at or above capacity.
func (b *Collection[T]) IsFull() bool { return b.Collection.Len() >= b.opt.Capacity }

// Remaining returns how many elements fit before the collection is full.
func (b *Collection[T]) Remaining() int {
	if r := b.opt.Capacity - b.Collection.Len(); r > 0 {
		return r
	}
	return 0
}

// Add applies the overflow policy when the collection is full, then
// forwards the insert.
func (b *Collection[T]) Add(v T) error {
	if b.opt.Policy != Grow && b.Collection.Len() >= b.opt.Capacity {
		if cb := b.opt.OnOverflow; cb != nil {
			cb(ElementOverflowEvent[T]{
				Value:    v,
				Size:     b.Collection.Len(),
				Capacity: b.opt.Capacity,
				Time:     time.Unix(0, behavior.Now(b.opt.Clock)),
			})
		}
		switch b.opt.Policy {
		case Fail:
			return store.ErrCapacityExceeded
		case DropNewest, Reject:
			return nil
		case Block:
			return store.ErrUnsupported
		case DropOldest:
			if e := b.order.Front(); e != nil {
				b.order.Remove(e)
				b.Collection.Remove(e.Value.(T))
			}
		}
	}

	if err := b.Collection.Add(v); err != nil {
		return err
	}
	b.order.PushBack(v)
	return nil
}

// Remove forwards the removal and drops the first matching queue entry.
func (b *Collection[T]) Remove(v T) bool {
	if !b.Collection.Remove(v) {
		return false
	}
	for e := b.order.Front(); e != nil; e = e.Next() {
		if e.Value.(T) == v {
			b.order.Remove(e)
			break
		}
	}
	return true
}

// Clear forwards and resets the insertion queue.
func (b *Collection[T]) Clear() {
	b.Collection.Clear()
	b.order.Init()
}

// Compile-time check: Collection satisfies the collection interface.
var _ store.Collection[int] = (*Collection[int])(nil)
