package rbtree

import (
	stdcmp "cmp"
	"reflect"

	"github.com/IvanBrykalov/collections/store"
	"github.com/IvanBrykalov/collections/traits"
)

type color bool

const (
	red   color = false
	black color = true
)

// node is a tree node. Parent links are non-owning back-references used
// only for rebalancing and in-order walks, never for lifetime.
type node[K, V any] struct {
	key    K
	val    V
	left   *node[K, V]
	right  *node[K, V]
	parent *node[K, V]
	col    color
}

// Options configures a Map for NewWith.
//   - Compare is required: it defines key ordering AND key equality
//     (Compare(a,b)==0 means same key; equal keys are never both retained).
//   - nil ValueEq => reflect.DeepEqual.
type Options[K, V any] struct {
	Compare traits.CompareFunc[K]
	ValueEq traits.EqualFunc[V]
}

// Map is a red-black ordered map.
//
// Invariants maintained after every mutation: the root is black, no red
// node has a red child, and every path from the root to a nil leaf passes
// through the same number of black nodes. In-order traversal therefore
// yields keys in comparator order with O(log n) reads and writes.
//
// Not safe for concurrent use; compose with a lock behavior when shared.
type Map[K, V any] struct {
	root  *node[K, V]
	size  int
	cmp   traits.CompareFunc[K]
	valEq traits.EqualFunc[V]
}

// New constructs an empty Map with the natural ordering of K.
func New[K stdcmp.Ordered, V any]() *Map[K, V] {
	return NewWith(Options[K, V]{Compare: traits.Ordered[K]()})
}

// NewWith constructs an empty Map from opt. It panics if Compare is nil.
func NewWith[K, V any](opt Options[K, V]) *Map[K, V] {
	if opt.Compare == nil {
		panic("rbtree: Options.Compare is required")
	}
	valEq := opt.ValueEq
	if valEq == nil {
		valEq = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}
	return &Map[K, V]{cmp: opt.Compare, valEq: valEq}
}

// ---- store.Map implementation ----

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool { return m.lookup(k) != nil }

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
// Replacement never inserts a second node: comparator ties are resolved by
// the comparator alone.
func (m *Map[K, V]) Set(k K, v V) (V, bool, error) {
	var zero V
	if m.root == nil {
		m.root = &node[K, V]{key: k, val: v, col: black}
		m.size = 1
		return zero, false, nil
	}

	p := m.root
	for {
		c := m.cmp(k, p.key)
		switch {
		case c == 0:
			prev := p.val
			p.val = v
			return prev, true, nil
		case c < 0:
			if p.left == nil {
				n := &node[K, V]{key: k, val: v, parent: p}
				p.left = n
				m.size++
				m.fixAfterInsertion(n)
				return zero, false, nil
			}
			p = p.left
		default:
			if p.right == nil {
				n := &node[K, V]{key: k, val: v, parent: p}
				p.right = n
				m.size++
				m.fixAfterInsertion(n)
				return zero, false, nil
			}
			p = p.right
		}
	}
}

// Delete removes k, returning the removed value if it was present.
func (m *Map[K, V]) Delete(k K) (V, bool) {
	n := m.lookup(k)
	if n == nil {
		var zero V
		return zero, false
	}
	prev := n.val
	m.deleteNode(n)
	return prev, true
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.root = nil
	m.size = 0
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.size }

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool { return m.size == 0 }

// Range calls fn for each entry in ascending key order until fn returns
// false. Mutating the map during Range is not supported.
func (m *Map[K, V]) Range(fn func(k K, v V) bool) {
	for n := m.firstNode(); n != nil; n = successor(n) {
		if !fn(n.key, n.val) {
			return
		}
	}
}

// KeyEq reports whether the comparator considers a and b the same key.
func (m *Map[K, V]) KeyEq(a, b K) bool { return m.cmp(a, b) == 0 }

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
// value and whether to keep the entry; keep=false deletes it.
func (m *Map[K, V]) ComputeIfPresent(k K, fn func(k K, old V) (V, bool)) (V, bool) {
	n := m.lookup(k)
	if n == nil {
		var zero V
		return zero, false
	}
	v, keep := fn(k, n.val)
	if !keep {
		m.deleteNode(n)
		var zero V
		return zero, false
	}
	n.val = v
	return v, true
}

// Compute remaps the value for k whether or not it is present.
func (m *Map[K, V]) Compute(k K, fn func(k K, old V, present bool) (V, bool)) (V, bool) {
	var old V
	n := m.lookup(k)
	if n != nil {
		old = n.val
	}
	v, keep := fn(k, old, n != nil)
	if !keep {
		if n != nil {
			m.deleteNode(n)
		}
		var zero V
		return zero, false
	}
	if n != nil {
		n.val = v
	} else {
		m.Set(k, v)
	}
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

// Entries returns a snapshot of all entries in ascending key order.
func (m *Map[K, V]) Entries() []store.Entry[K, V] {
	out := make([]store.Entry[K, V], 0, m.size)
	m.Range(func(k K, v V) bool {
		out = append(out, store.Entry[K, V]{Key: k, Value: v})
		return true
	})
	return out
}

// ---- lookup & balancing internals ----

func (m *Map[K, V]) lookup(k K) *node[K, V] {
	n := m.root
	for n != nil {
		c := m.cmp(k, n.key)
		switch {
		case c == 0:
			return n
		case c < 0:
			n = n.left
		default:
			n = n.right
		}
	}
	return nil
}

// nil-safe accessors: nil leaves count as black.

func colorOf[K, V any](n *node[K, V]) color {
	if n == nil {
		return black
	}
	return n.col
}

func setColor[K, V any](n *node[K, V], c color) {
	if n != nil {
		n.col = c
	}
}

func parentOf[K, V any](n *node[K, V]) *node[K, V] {
	if n == nil {
		return nil
	}
	return n.parent
}

func leftOf[K, V any](n *node[K, V]) *node[K, V] {
	if n == nil {
		return nil
	}
	return n.left
}

func rightOf[K, V any](n *node[K, V]) *node[K, V] {
	if n == nil {
		return nil
	}
	return n.right
}

func (m *Map[K, V]) rotateLeft(p *node[K, V]) {
	r := p.right
	p.right = r.left
	if r.left != nil {
		r.left.parent = p
	}
	r.parent = p.parent
	switch {
	case p.parent == nil:
		m.root = r
	case p.parent.left == p:
		p.parent.left = r
	default:
		p.parent.right = r
	}
	r.left = p
	p.parent = r
}

func (m *Map[K, V]) rotateRight(p *node[K, V]) {
	l := p.left
	p.left = l.right
	if l.right != nil {
		l.right.parent = p
	}
	l.parent = p.parent
	switch {
	case p.parent == nil:
		m.root = l
	case p.parent.right == p:
		p.parent.right = l
	default:
		p.parent.left = l
	}
	l.right = p
	p.parent = l
}

// fixAfterInsertion restores the red-black invariants after x was inserted
// red: while the parent is also red, recolor when the uncle is red and walk
// up, otherwise rotate and recolor. The root is forced black at the end.
func (m *Map[K, V]) fixAfterInsertion(x *node[K, V]) {
	x.col = red

	for x != nil && x != m.root && colorOf(parentOf(x)) == red {
		if parentOf(x) == leftOf(parentOf(parentOf(x))) {
			y := rightOf(parentOf(parentOf(x))) // uncle
			if colorOf(y) == red {
				setColor(parentOf(x), black)
				setColor(y, black)
				setColor(parentOf(parentOf(x)), red)
				x = parentOf(parentOf(x))
			} else {
				if x == rightOf(parentOf(x)) {
					x = parentOf(x)
					m.rotateLeft(x)
				}
				setColor(parentOf(x), black)
				setColor(parentOf(parentOf(x)), red)
				m.rotateRight(parentOf(parentOf(x)))
			}
		} else {
			y := leftOf(parentOf(parentOf(x)))
			if colorOf(y) == red {
				setColor(parentOf(x), black)
				setColor(y, black)
				setColor(parentOf(parentOf(x)), red)
				x = parentOf(parentOf(x))
			} else {
				if x == leftOf(parentOf(x)) {
					x = parentOf(x)
					m.rotateRight(x)
				}
				setColor(parentOf(x), black)
				setColor(parentOf(parentOf(x)), red)
				m.rotateLeft(parentOf(parentOf(x)))
			}
		}
	}
	m.root.col = black
}

// deleteNode splices n out of the tree. A node with two children first
// swaps key/value with its in-order successor (which has at most one
// child) and deletes that node instead. Removing a black node runs the
// deletion fix-up to restore equal black-heights.
func (m *Map[K, V]) deleteNode(n *node[K, V]) {
	m.size--

	if n.left != nil && n.right != nil {
		s := successor(n)
		n.key = s.key
		n.val = s.val
		n = s
	}

	repl := n.left
	if repl == nil {
		repl = n.right
	}

	switch {
	case repl != nil:
		// Splice the single child into n's place.
		repl.parent = n.parent
		switch {
		case n.parent == nil:
			m.root = repl
		case n == n.parent.left:
			n.parent.left = repl
		default:
			n.parent.right = repl
		}
		n.left, n.right, n.parent = nil, nil, nil
		if n.col == black {
			m.fixAfterDeletion(repl)
		}
	case n.parent == nil:
		m.root = nil
	default:
		// Leaf: fix up with n still linked as a phantom, then unlink.
		if n.col == black {
			m.fixAfterDeletion(n)
		}
		if n.parent != nil {
			if n == n.parent.left {
				n.parent.left = nil
			} else if n == n.parent.right {
				n.parent.right = nil
			}
			n.parent = nil
		}
	}
}

// fixAfterDeletion pushes the "double black" defect introduced by removing
// a black node up the tree: a red sibling is rotated into a black one, a
// black sibling with black children absorbs the defect by recoloring, and
// a black sibling with a red child resolves it with a final rotation.
func (m *Map[K, V]) fixAfterDeletion(x *node[K, V]) {
	for x != m.root && colorOf(x) == black {
		if x == leftOf(parentOf(x)) {
			sib := rightOf(parentOf(x))

			if colorOf(sib) == red {
				setColor(sib, black)
				setColor(parentOf(x), red)
				m.rotateLeft(parentOf(x))
				sib = rightOf(parentOf(x))
			}

			if colorOf(leftOf(sib)) == black && colorOf(rightOf(sib)) == black {
				setColor(sib, red)
				x = parentOf(x)
			} else {
				if colorOf(rightOf(sib)) == black {
					setColor(leftOf(sib), black)
					setColor(sib, red)
					m.rotateRight(sib)
					sib = rightOf(parentOf(x))
				}
				setColor(sib, colorOf(parentOf(x)))
				setColor(parentOf(x), black)
				setColor(rightOf(sib), black)
				m.rotateLeft(parentOf(x))
				x = m.root
			}
		} else {
			sib := leftOf(parentOf(x))

			if colorOf(sib) == red {
				setColor(sib, black)
				setColor(parentOf(x), red)
				m.rotateRight(parentOf(x))
				sib = leftOf(parentOf(x))
			}

			if colorOf(rightOf(sib)) == black && colorOf(leftOf(sib)) == black {
				setColor(sib, red)
				x = parentOf(x)
			} else {
				if colorOf(leftOf(sib)) == black {
					setColor(rightOf(sib), black)
					setColor(sib, red)
					m.rotateLeft(sib)
					sib = leftOf(parentOf(x))
				}
				setColor(sib, colorOf(parentOf(x)))
				setColor(parentOf(x), black)
				setColor(leftOf(sib), black)
				m.rotateRight(parentOf(x))
				x = m.root
			}
		}
	}
	setColor(x, black)
}

// ---- ordered walk helpers ----

func (m *Map[K, V]) firstNode() *node[K, V] {
	n := m.root
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

func (m *Map[K, V]) lastNode() *node[K, V] {
	n := m.root
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

// successor returns the in-order successor of n, or nil.
func successor[K, V any](n *node[K, V]) *node[K, V] {
	if n == nil {
		return nil
	}
	if n.right != nil {
		s := n.right
		for s.left != nil {
			s = s.left
		}
		return s
	}
	p := n.parent
	ch := n
	for p != nil && ch == p.right {
		ch = p
		p = p.parent
	}
	return p
}

// predecessor returns the in-order predecessor of n, or nil.
func predecessor[K, V any](n *node[K, V]) *node[K, V] {
	if n == nil {
		return nil
	}
	if n.left != nil {
		s := n.left
		for s.right != nil {
			s = s.right
		}
		return s
	}
	p := n.parent
	ch := n
	for p != nil && ch == p.left {
		ch = p
		p = p.parent
	}
	return p
}

// Compile-time check: Map satisfies the store interface.
var _ store.Map[string, int] = (*Map[string, int])(nil)
