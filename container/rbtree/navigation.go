package rbtree

import "github.com/IvanBrykalov/collections/store"

// Ordered navigation. All entry-returning methods hand back snapshots; the
// boolean is false when no qualifying entry exists.

// FirstKey returns the smallest key, or store.ErrNotFound on an empty map.
func (m *Map[K, V]) FirstKey() (K, error) {
	if n := m.firstNode(); n != nil {
		return n.key, nil
	}
	var zero K
	return zero, store.ErrNotFound
}

// LastKey returns the largest key, or store.ErrNotFound on an empty map.
func (m *Map[K, V]) LastKey() (K, error) {
	if n := m.lastNode(); n != nil {
		return n.key, nil
	}
	var zero K
	return zero, store.ErrNotFound
}

// FirstEntry returns the entry with the smallest key.
func (m *Map[K, V]) FirstEntry() (store.Entry[K, V], bool) {
	return entryOf(m.firstNode())
}

// LastEntry returns the entry with the largest key.
func (m *Map[K, V]) LastEntry() (store.Entry[K, V], bool) {
	return entryOf(m.lastNode())
}

// FloorEntry returns the entry with the largest key <= k.
func (m *Map[K, V]) FloorEntry(k K) (store.Entry[K, V], bool) {
	return entryOf(m.floorNode(k, true))
}

// CeilingEntry returns the entry with the smallest key >= k.
func (m *Map[K, V]) CeilingEntry(k K) (store.Entry[K, V], bool) {
	return entryOf(m.ceilingNode(k, true))
}

// LowerEntry returns the entry with the largest key strictly < k.
func (m *Map[K, V]) LowerEntry(k K) (store.Entry[K, V], bool) {
	return entryOf(m.floorNode(k, false))
}

// HigherEntry returns the entry with the smallest key strictly > k.
func (m *Map[K, V]) HigherEntry(k K) (store.Entry[K, V], bool) {
	return entryOf(m.ceilingNode(k, false))
}

// PollFirstEntry removes and returns the entry with the smallest key.
func (m *Map[K, V]) PollFirstEntry() (store.Entry[K, V], bool) {
	n := m.firstNode()
	e, ok := entryOf(n)
	if ok {
		m.deleteNode(n)
	}
	return e, ok
}

// PollLastEntry removes and returns the entry with the largest key.
func (m *Map[K, V]) PollLastEntry() (store.Entry[K, V], bool) {
	n := m.lastNode()
	e, ok := entryOf(n)
	if ok {
		m.deleteNode(n)
	}
	return e, ok
}

// ---- range views ----

// HeadMap returns a new Map holding every entry with key < hi.
// The view is materialized: later mutations of either map are independent.
func (m *Map[K, V]) HeadMap(hi K) *Map[K, V] {
	out := m.emptyClone()
	// Keys arrive in sorted order, so the scan stops at the bound.
	for n := m.firstNode(); n != nil; n = successor(n) {
		if m.cmp(n.key, hi) >= 0 {
			break
		}
		out.Set(n.key, n.val)
	}
	return out
}

// TailMap returns a new Map holding every entry with key >= lo.
func (m *Map[K, V]) TailMap(lo K) *Map[K, V] {
	out := m.emptyClone()
	for n := m.ceilingNode(lo, true); n != nil; n = successor(n) {
		out.Set(n.key, n.val)
	}
	return out
}

// SubMap returns a new Map holding every entry with lo <= key < hi.
func (m *Map[K, V]) SubMap(lo, hi K) *Map[K, V] {
	out := m.emptyClone()
	for n := m.ceilingNode(lo, true); n != nil; n = successor(n) {
		if m.cmp(n.key, hi) >= 0 {
			break
		}
		out.Set(n.key, n.val)
	}
	return out
}

// ---- internals ----

func (m *Map[K, V]) emptyClone() *Map[K, V] {
	return &Map[K, V]{cmp: m.cmp, valEq: m.valEq}
}

func entryOf[K, V any](n *node[K, V]) (store.Entry[K, V], bool) {
	if n == nil {
		return store.Entry[K, V]{}, false
	}
	return store.Entry[K, V]{Key: n.key, Value: n.val}, true
}

// ceilingNode returns the node with the smallest key >= k (inclusive=true)
// or > k (inclusive=false), or nil.
func (m *Map[K, V]) ceilingNode(k K, inclusive bool) *node[K, V] {
	n := m.root
	for n != nil {
		c := m.cmp(k, n.key)
		if c == 0 && inclusive {
			return n
		}
		if c < 0 {
			if n.left == nil {
				return n
			}
			n = n.left
		} else {
			if n.right == nil {
				// Climb until coming up from a left subtree.
				p := n.parent
				ch := n
				for p != nil && ch == p.right {
					ch = p
					p = p.parent
				}
				return p
			}
			n = n.right
		}
	}
	return nil
}

// floorNode returns the node with the largest key <= k (inclusive=true)
// or < k (inclusive=false), or nil.
func (m *Map[K, V]) floorNode(k K, inclusive bool) *node[K, V] {
	n := m.root
	for n != nil {
		c := m.cmp(k, n.key)
		if c == 0 && inclusive {
			return n
		}
		if c > 0 {
			if n.right == nil {
				return n
			}
			n = n.right
		} else {
			if n.left == nil {
				p := n.parent
				ch := n
				for p != nil && ch == p.left {
					ch = p
					p = p.parent
				}
				return p
			}
			n = n.left
		}
	}
	return nil
}
