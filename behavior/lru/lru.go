// Package lru tracks access recency for a wrapped map store and evicts the
// least recently used entry when a new key would exceed capacity.
package lru

import (
	"fmt"
	"time"

	"github.com/IvanBrykalov/collections/behavior"
	"github.com/IvanBrykalov/collections/internal/util"
	"github.com/IvanBrykalov/collections/store"
)

// EvictEvent describes an entry evicted to make room for a new key.
type EvictEvent[K, V any] struct {
	Key   K
	Value V
	Time  time.Time
}

// Options configures an LRU wrapper. Capacity must be > 0.
// nil Metrics => NoopMetrics, nil Clock => time.Now.
type Options[K, V any] struct {
	Capacity int

	// OnEvict is called for each capacity eviction, under whatever lock
	// the composition holds; keep it lightweight.
	OnEvict func(EvictEvent[K, V])

	Metrics behavior.Metrics
	Clock   behavior.Clock
}

// node is an intrusive access-list element: head is most recently used,
// tail is least recently used.
type node[K, V any] struct {
	key        K
	val        V
	lastAccess int64 // UnixNano of the most recent touch
	prev       *node[K, V]
	next       *node[K, V]
}

// Store is an LRU map wrapper. Get/Has/GetOrDefault hits and Set promote
// the entry to the head of the access list in O(1); inserting into a full
// store evicts the tail from both the list and the wrapped store.
//
// Invariant: the key index and the wrapped store's key set stay in 1:1
// correspondence — every resident key has exactly one tracking node. If an
// inner wrapper drops a key on its own (TTL expiry), the stale node is
// released on the next access to that key.
//
// Not safe for concurrent use on its own — compose with behavior/lock.
type Store[K comparable, V any] struct {
	store.Map[K, V]

	opt   Options[K, V]
	index map[K]*node[K, V]
	head  *node[K, V] // MRU
	tail  *node[K, V] // LRU

	// hot counters (separate cache lines to avoid false sharing)
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

// Stats is a point-in-time snapshot of the wrapper's counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions uint64
}

// New returns a Behavior that adds LRU eviction with opt.
func New[K comparable, V any](opt Options[K, V]) behavior.Behavior[K, V] {
	return func(s store.Map[K, V]) store.Map[K, V] { return Wrap(s, opt) }
}

// Wrap adds LRU tracking to s, returning the concrete wrapper so callers
// can reach IsFull and Stats. Panics if Capacity <= 0.
func Wrap[K comparable, V any](s store.Map[K, V], opt Options[K, V]) *Store[K, V] {
	if opt.Capacity <= 0 {
		panic(fmt.Sprintf("lru: Capacity must be > 0, got %d", opt.Capacity))
	}
	if opt.Metrics == nil {
		opt.Metrics = behavior.NoopMetrics{}
	}
	l := &Store[K, V]{
		Map:   s,
		opt:   opt,
		index: make(map[K]*node[K, V], opt.Capacity),
	}
	// Adopt existing entries; iteration order stands in for recency.
	now := behavior.Now(opt.Clock)
	s.Range(func(k K, v V) bool {
		l.pushFront(&node[K, V]{key: k, val: v, lastAccess: now})
		return true
	})
	return l
}

// IsFull reports whether the store is at or above capacity.
func (l *Store[K, V]) IsFull() bool { return len(l.index) >= l.opt.Capacity }

// Stats returns a snapshot of hit/miss/eviction counters.
func (l *Store[K, V]) Stats() Stats {
	return Stats{
		Hits:      l.hits.Load(),
		Misses:    l.misses.Load(),
		Evictions: l.evicts.Load(),
	}
}

// Has forwards the check and promotes the entry on a hit.
func (l *Store[K, V]) Has(k K) bool {
	ok := l.Map.Has(k)
	l.touch(k, ok)
	return ok
}

// Get forwards the read and promotes the entry on a hit.
func (l *Store[K, V]) Get(k K) (V, error) {
	v, err := l.Map.Get(k)
	if err != nil {
		l.touch(k, false)
		l.misses.Add(1)
		l.opt.Metrics.Miss()
		return v, err
	}
	l.touch(k, true)
	l.hits.Add(1)
	l.opt.Metrics.Hit()
	return v, nil
}

// GetOrDefault forwards the read and promotes the entry on a hit.
func (l *Store[K, V]) GetOrDefault(k K, def V) V {
	v, err := l.Map.Get(k)
	if err != nil {
		l.touch(k, false)
		l.misses.Add(1)
		l.opt.Metrics.Miss()
		return def
	}
	l.touch(k, true)
	l.hits.Add(1)
	l.opt.Metrics.Hit()
	return v
}

// Set updates and promotes an existing key, or inserts a new one, evicting
// the least recently used entry first when the store is full.
func (l *Store[K, V]) Set(k K, v V) (V, bool, error) {
	if n, ok := l.index[k]; ok && l.Map.Has(k) {
		prev, existed, err := l.Map.Set(k, v)
		if err != nil {
			return prev, existed, err
		}
		n.val = v
		n.lastAccess = behavior.Now(l.opt.Clock)
		l.moveToFront(n)
		return prev, existed, nil
	}

	if len(l.index) >= l.opt.Capacity {
		l.evictTail()
	}
	prev, existed, err := l.Map.Set(k, v)
	if err != nil {
		return prev, existed, err
	}
	if stale, ok := l.index[k]; ok {
		// The inner store had dropped this key behind our back.
		l.unlink(stale)
	}
	l.pushFront(&node[K, V]{key: k, val: v, lastAccess: behavior.Now(l.opt.Clock)})
	l.opt.Metrics.Size(len(l.index))
	return prev, existed, nil
}

// Delete forwards the removal and releases the tracking node.
func (l *Store[K, V]) Delete(k K) (V, bool) {
	prev, existed := l.Map.Delete(k)
	if n, ok := l.index[k]; ok {
		l.unlink(n)
	}
	return prev, existed
}

// Clear forwards and resets the access list.
func (l *Store[K, V]) Clear() {
	l.Map.Clear()
	l.head, l.tail = nil, nil
	clear(l.index)
	l.opt.Metrics.Size(0)
}

// ---- internals ----

// touch reconciles the tracking node for k after a delegated read:
// promote on a hit, release a stale node on a miss.
func (l *Store[K, V]) touch(k K, hit bool) {
	n, ok := l.index[k]
	switch {
	case hit && ok:
		n.lastAccess = behavior.Now(l.opt.Clock)
		l.moveToFront(n)
	case !hit && ok:
		l.unlink(n)
	}
}

// evictTail removes the least recently used entry from both the tracking
// list and the wrapped store.
func (l *Store[K, V]) evictTail() {
	t := l.tail
	if t == nil {
		return
	}
	l.unlink(t)
	l.Map.Delete(t.key)
	l.evicts.Add(1)
	l.opt.Metrics.Evict(behavior.EvictLRU)
	if cb := l.opt.OnEvict; cb != nil {
		cb(EvictEvent[K, V]{
			Key:   t.key,
			Value: t.val,
			Time:  time.Unix(0, behavior.Now(l.opt.Clock)),
		})
	}
}

// pushFront inserts n at MRU in O(1).
func (l *Store[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.index[n.key] = n
}

// moveToFront promotes n to MRU in O(1).
func (l *Store[K, V]) moveToFront(n *node[K, V]) {
	if n == l.head {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if l.tail == n {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

// unlink removes n from the list and the index in O(1).
func (l *Store[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if l.head == n {
		l.head = n.next
	}
	if l.tail == n {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
	delete(l.index, n.key)
}

// Compile-time check: Store satisfies the map interface.
var _ store.Map[string, int] = (*Store[string, int])(nil)
