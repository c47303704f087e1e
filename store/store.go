package store

// Map is the key/value capability interface implemented by the backing
// stores (container/hashmap, container/rbtree) and by every map behavior.
// Behaviors consume and produce this interface; they never depend on a
// concrete store type.
//
// Equality is pluggable: implementations carry their own key/value equality
// functions and expose them through KeyEq/ValueEq so wrappers can keep
// auxiliary bookkeeping consistent with the store's notion of "same key".
//
// Concrete stores also provide compute/merge operations (ComputeIfAbsent,
// Merge, ...) — those are store-level conveniences, deliberately kept off
// this interface so behaviors only have to intercept the mutation set below.
type Map[K, V any] interface {
	// Has reports whether k is present.
	Has(k K) bool

	// Get returns the value for k, or ErrNotFound if absent.
	// Callers for whom absence is a normal case should prefer
	// GetOrDefault.
	Get(k K) (V, error)

	// GetOrDefault returns the value for k, or def if absent.
	// It never returns an error.
	GetOrDefault(k K, def V) V

	// Set inserts or replaces the value for k. It returns the previous
	// value (zero if none) and whether a previous value existed.
	// A non-nil error means the store rejected the write (for example a
	// bounded wrapper at capacity); the store is unchanged in that case.
	Set(k K, v V) (prev V, existed bool, err error)

	// Delete removes k and returns the removed value, if any.
	Delete(k K) (prev V, existed bool)

	// Clear removes all entries.
	Clear()

	// Len returns the number of entries.
	Len() int

	// IsEmpty reports whether the store has no entries.
	IsEmpty() bool

	// Range calls fn for each entry until fn returns false.
	// Iteration order is implementation-defined unless the concrete
	// store documents otherwise.
	Range(fn func(k K, v V) bool)

	// KeyEq reports whether a and b are the same key for this store.
	KeyEq(a, b K) bool

	// ValueEq reports whether a and b are equal values for this store.
	ValueEq(a, b V) bool
}

// Collection is the capability interface for non-map stores (lists, deques,
// heaps, sets). The sequential containers themselves live outside this
// module; the interface exists so capacity and locking behaviors can wrap
// them the same way they wrap maps.
type Collection[T any] interface {
	// Add appends or inserts v. A non-nil error means the collection
	// rejected the element (for example a bounded wrapper at capacity).
	Add(v T) error

	// Remove deletes the first element equal to v, reporting success.
	Remove(v T) bool

	// Contains reports whether v is present.
	Contains(v T) bool

	// Clear removes all elements.
	Clear()

	// Len returns the number of elements.
	Len() int

	// IsEmpty reports whether the collection has no elements.
	IsEmpty() bool

	// Range calls fn for each element until fn returns false.
	Range(fn func(v T) bool)
}
