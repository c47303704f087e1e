package hashmap

import (
	"reflect"

	"github.com/IvanBrykalov/collections/internal/util"
	"github.com/IvanBrykalov/collections/store"
	"github.com/IvanBrykalov/collections/traits"
)

const (
	// DefaultCapacity is the initial bucket count when none is given.
	DefaultCapacity = 16
	// DefaultLoadFactor triggers a doubling resize when
	// size > bucketCount * loadFactor.
	DefaultLoadFactor = 0.75

	minCapacity = 4
)

// Options configures a Map. Zero values are safe for NewWith as long as
// Hash and KeyEq are set; sane defaults are applied for the rest:
//   - InitialCapacity <= 0 => DefaultCapacity (always rounded up to a
//     power of two, never below 4)
//   - LoadFactor <= 0      => DefaultLoadFactor
//   - nil ValueEq          => reflect.DeepEqual
type Options[K, V any] struct {
	InitialCapacity int
	LoadFactor      float64

	// Hash and KeyEq define key identity. Equal keys must hash equally.
	Hash  traits.HashFunc[K]
	KeyEq traits.EqualFunc[K]

	// ValueEq is only consulted by ValueEq-based queries; it never
	// affects key placement.
	ValueEq traits.EqualFunc[V]
}

// Map is a chained hash map: a power-of-two bucket array with singly linked
// collision chains. It is not safe for concurrent use; compose with a lock
// behavior when sharing across goroutines.
//
// Iteration order is bucket-then-chain order and changes across resizes —
// it is NOT an ordering guarantee of any kind.
type Map[K, V any] struct {
	buckets []*node[K, V]
	size    int

	loadFactor float64
	hash       traits.HashFunc[K]
	keyEq      traits.EqualFunc[K]
	valEq      traits.EqualFunc[V]
}

// node is a collision-chain element. The hash is memoized so resizes never
// rehash keys.
type node[K, V any] struct {
	key  K
	val  V
	hash uint64
	next *node[K, V]
}

// New constructs an empty Map for comparable keys with the default FNV-1a
// hash, == key equality, and default sizing.
func New[K comparable, V any]() *Map[K, V] {
	return NewWith(Options[K, V]{
		Hash:  traits.Hash[K](),
		KeyEq: traits.Equal[K](),
	})
}

// NewWith constructs an empty Map from opt. It panics if Hash or KeyEq is
// nil: without them there is no key identity to build on.
func NewWith[K, V any](opt Options[K, V]) *Map[K, V] {
	if opt.Hash == nil || opt.KeyEq == nil {
		panic("hashmap: Options.Hash and Options.KeyEq are required")
	}
	capacity := opt.InitialCapacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if capacity < minCapacity {
		capacity = minCapacity
	}
	capacity = int(util.NextPow2(uint64(capacity)))

	lf := opt.LoadFactor
	if lf <= 0 {
		lf = DefaultLoadFactor
	}

	valEq := opt.ValueEq
	if valEq == nil {
		valEq = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}

	return &Map[K, V]{
		buckets:    make([]*node[K, V], capacity),
		loadFactor: lf,
		hash:       opt.Hash,
		keyEq:      opt.KeyEq,
		valEq:      valEq,
	}
}

// ---- store.Map implementation ----

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	return m.lookup(k) != nil
}

// Get returns the value for k, or store.ErrNotFound if absent.
func (m *Map[K, V]) Get(k K) (V, error) {
	if n := m.lookup(k); n != nil {
		return n.val, nil
	}
	var zero V
	return zero, store.ErrNotFound
}

// GetOrDefault returns the value for k, or def if absent.
func (m *Map[K, V]) GetOrDefault(k K, def V) V {
	if n := m.lookup(k); n != nil {
		return n.val
	}
	return def
}

// Set inserts or replaces the value for k, returning the previous value.
// On a miss the new node is prepended to its bucket chain; inserting may
// trigger a doubling resize.
func (m *Map[K, V]) Set(k K, v V) (V, bool, error) {
	h := m.hash(k)
	idx := m.bucketIndex(h)
	for n := m.buckets[idx]; n != nil; n = n.next {
		if n.hash == h && m.keyEq(n.key, k) {
			prev := n.val
			n.val = v
			return prev, true, nil
		}
	}
	m.buckets[idx] = &node[K, V]{key: k, val: v, hash: h, next: m.buckets[idx]}
	m.size++
	if float64(m.size) > float64(len(m.buckets))*m.loadFactor {
		m.resize()
	}
	var zero V
	return zero, false, nil
}

// Delete removes k, returning the removed value if it was present.
func (m *Map[K, V]) Delete(k K) (V, bool) {
	h := m.hash(k)
	idx := m.bucketIndex(h)
	var prev *node[K, V]
	for n := m.buckets[idx]; n != nil; n = n.next {
		if n.hash == h && m.keyEq(n.key, k) {
			if prev == nil {
				m.buckets[idx] = n.next
			} else {
				prev.next = n.next
			}
			m.size--
			return n.val, true
		}
		prev = n
	}
	var zero V
	return zero, false
}

// Clear removes all entries, keeping the current bucket count.
func (m *Map[K, V]) Clear() {
	clear(m.buckets)
	m.size = 0
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.size }

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool { return m.size == 0 }

// Range calls fn for each entry in bucket-then-chain order until fn
// returns false. The order is unstable across resizes.
// Mutating the map during Range is not supported.
func (m *Map[K, V]) Range(fn func(k K, v V) bool) {
	for _, b := range m.buckets {
		for n := b; n != nil; n = n.next {
			if !fn(n.key, n.val) {
				return
			}
		}
	}
}

// KeyEq reports key equality per the configured trait.
func (m *Map[K, V]) KeyEq(a, b K) bool { return m.keyEq(a, b) }

// ValueEq reports value equality per the configured trait.
func (m *Map[K, V]) ValueEq(a, b V) bool { return m.valEq(a, b) }

// ---- compute / merge / bulk ----

// ComputeIfAbsent returns the value for k, inserting fn(k) first if k is
// absent.
func (m *Map[K, V]) ComputeIfAbsent(k K, fn func(k K) V) V {
	if n := m.lookup(k); n != nil {
		return n.val
	}
	v := fn(k)
	m.Set(k, v)
	return v
}

// ComputeIfPresent remaps the value for k if present. fn returns the new
// value and whether to keep the entry; keep=false deletes it. The second
// result reports whether the entry remains present.
func (m *Map[K, V]) ComputeIfPresent(k K, fn func(k K, old V) (V, bool)) (V, bool) {
	n := m.lookup(k)
	if n == nil {
		var zero V
		return zero, false
	}
	v, keep := fn(k, n.val)
	if !keep {
		m.Delete(k)
		var zero V
		return zero, false
	}
	n.val = v
	return v, true
}

// Compute remaps the value for k whether or not it is present. fn receives
// the old value and a presence flag and returns the new value and whether
// the entry should exist afterwards.
func (m *Map[K, V]) Compute(k K, fn func(k K, old V, present bool) (V, bool)) (V, bool) {
	var old V
	present := false
	if n := m.lookup(k); n != nil {
		old, present = n.val, true
	}
	v, keep := fn(k, old, present)
	if !keep {
		if present {
			m.Delete(k)
		}
		var zero V
		return zero, false
	}
	m.Set(k, v)
	return v, true
}

// Merge sets k to v if absent, otherwise to fn(old, v), and returns the
// resulting value.
func (m *Map[K, V]) Merge(k K, v V, fn func(old, incoming V) V) V {
	if n := m.lookup(k); n != nil {
		n.val = fn(n.val, v)
		return n.val
	}
	m.Set(k, v)
	return v
}

// PutAll copies every entry of src into m, overwriting existing keys.
func (m *Map[K, V]) PutAll(src store.Map[K, V]) {
	src.Range(func(k K, v V) bool {
		m.Set(k, v)
		return true
	})
}

// Entries returns a snapshot of all entries in iteration order.
func (m *Map[K, V]) Entries() []store.Entry[K, V] {
	out := make([]store.Entry[K, V], 0, m.size)
	m.Range(func(k K, v V) bool {
		out = append(out, store.Entry[K, V]{Key: k, Value: v})
		return true
	})
	return out
}

// ---- internals ----

// bucketIndex masks a hash into the bucket array.
// len(m.buckets) is guaranteed to be a power of two.
func (m *Map[K, V]) bucketIndex(h uint64) int {
	return int(h) & (len(m.buckets) - 1)
}

func (m *Map[K, V]) lookup(k K) *node[K, V] {
	h := m.hash(k)
	for n := m.buckets[m.bucketIndex(h)]; n != nil; n = n.next {
		if n.hash == h && m.keyEq(n.key, k) {
			return n
		}
	}
	return nil
}

// resize doubles the bucket array and redistributes every chain node using
// its memoized hash. Nodes are appended through per-bucket tail pointers so
// the relative order of keys that land in the same new bucket is preserved.
func (m *Map[K, V]) resize() {
	old := m.buckets
	next := make([]*node[K, V], len(old)*2)
	tails := make([]*node[K, V], len(next))
	mask := len(next) - 1

	for _, b := range old {
		for n := b; n != nil; {
			rest := n.next
			n.next = nil
			idx := int(n.hash) & mask
			if tails[idx] == nil {
				next[idx] = n
			} else {
				tails[idx].next = n
			}
			tails[idx] = n
			n = rest
		}
	}
	m.buckets = next
}

// Compile-time check: Map satisfies the store interface.
var _ store.Map[string, int] = (*Map[string, int])(nil)
