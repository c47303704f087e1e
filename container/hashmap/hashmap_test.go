package hashmap

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/collections/store"
	"github.com/IvanBrykalov/collections/traits"
)

func TestMap_SetGetDelete(t *testing.T) {
	t.Parallel()

	m := New[string, int]()

	require.False(t, m.Has("a"))
	_, err := m.Get("a")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Equal(t, 42, m.GetOrDefault("a", 42))

	prev, existed, err := m.Set("a", 1)
	require.NoError(t, err)
	require.False(t, existed)
	require.Zero(t, prev)

	prev, existed, err = m.Set("a", 2)
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, 1, prev)

	v, err := m.Get("a")
	require.NoError(t, err)
	require.Equal(t, 2, v)
	require.Equal(t, 1, m.Len())

	prev, existed = m.Delete("a")
	require.True(t, existed)
	require.Equal(t, 2, prev)
	require.True(t, m.IsEmpty())

	_, existed = m.Delete("a")
	require.False(t, existed)
}

// Resize must preserve contents: after inserting well past the initial
// capacity, every previously set key still maps to its value.
func TestMap_ResizePreservesContents(t *testing.T) {
	t.Parallel()

	m := NewWith(Options[string, int]{
		InitialCapacity: 4,
		Hash:            traits.Hash[string](),
		KeyEq:           traits.Equal[string](),
	})

	const n = 10_000
	for i := 0; i < n; i++ {
		_, existed, err := m.Set("k:"+strconv.Itoa(i), i)
		require.NoError(t, err)
		require.False(t, existed)
	}
	require.Equal(t, n, m.Len())

	for i := 0; i < n; i++ {
		v, err := m.Get("k:" + strconv.Itoa(i))
		require.NoError(t, err, "key %d lost across resizes", i)
		require.Equal(t, i, v)
	}
}

// Keys are compared with the configured equality over a hash match, so a
// case-insensitive map treats "Key" and "KEY" as the same key.
func TestMap_CustomTraits(t *testing.T) {
	t.Parallel()

	m := NewWith(Options[string, int]{
		Hash:  func(k string) uint64 { return traits.Fnv64a(strings.ToLower(k)) },
		KeyEq: func(a, b string) bool { return strings.EqualFold(a, b) },
	})

	m.Set("Key", 1)
	prev, existed, err := m.Set("KEY", 2)
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, 1, prev)
	require.Equal(t, 1, m.Len())

	require.True(t, m.Has("kEy"))
	require.True(t, m.KeyEq("a", "A"))
}

func TestMap_ComputeOperations(t *testing.T) {
	t.Parallel()

	m := New[string, int]()

	require.Equal(t, 7, m.ComputeIfAbsent("a", func(string) int { return 7 }))
	// Present: the existing value wins, fn is not consulted.
	require.Equal(t, 7, m.ComputeIfAbsent("a", func(string) int { return 99 }))

	_, present := m.ComputeIfPresent("missing", func(string, int) (int, bool) { return 0, true })
	require.False(t, present)

	v, present := m.ComputeIfPresent("a", func(_ string, old int) (int, bool) { return old + 1, true })
	require.True(t, present)
	require.Equal(t, 8, v)

	// keep=false deletes the entry.
	_, present = m.ComputeIfPresent("a", func(string, int) (int, bool) { return 0, false })
	require.False(t, present)
	require.False(t, m.Has("a"))

	v, present = m.Compute("b", func(_ string, old int, was bool) (int, bool) {
		require.False(t, was)
		return 10, true
	})
	require.True(t, present)
	require.Equal(t, 10, v)

	_, present = m.Compute("b", func(_ string, old int, was bool) (int, bool) {
		require.True(t, was)
		require.Equal(t, 10, old)
		return 0, false
	})
	require.False(t, present)
	require.False(t, m.Has("b"))
}

func TestMap_Merge(t *testing.T) {
	t.Parallel()

	m := New[string, int]()
	sum := func(old, incoming int) int { return old + incoming }

	require.Equal(t, 5, m.Merge("a", 5, sum))
	require.Equal(t, 8, m.Merge("a", 3, sum))
	v, err := m.Get("a")
	require.NoError(t, err)
	require.Equal(t, 8, v)
}

func TestMap_PutAllAndEntries(t *testing.T) {
	t.Parallel()

	src := New[string, int]()
	src.Set("a", 1)
	src.Set("b", 2)

	dst := New[string, int]()
	dst.Set("b", 99)
	dst.PutAll(src)

	require.Equal(t, 2, dst.Len())
	require.Equal(t, 2, dst.GetOrDefault("b", -1), "PutAll overwrites")

	got := map[string]int{}
	for _, e := range dst.Entries() {
		got[e.Key] = e.Value
	}
	require.Equal(t, map[string]int{"a": 1, "b": 2}, got)
}

func TestMap_ClearKeepsWorking(t *testing.T) {
	t.Parallel()

	m := New[string, string]()
	for i := 0; i < 100; i++ {
		m.Set(strconv.Itoa(i), "v")
	}
	m.Clear()
	require.Zero(t, m.Len())
	require.True(t, m.IsEmpty())

	m.Set("x", "y")
	v, err := m.Get("x")
	require.NoError(t, err)
	require.Equal(t, "y", v)
}

func TestMap_RangeEarlyStop(t *testing.T) {
	t.Parallel()

	m := New[int, int]()
	for i := 0; i < 64; i++ {
		m.Set(i, i)
	}
	seen := 0
	m.Range(func(int, int) bool {
		seen++
		return seen < 10
	})
	require.Equal(t, 10, seen)
}

func TestNewWith_RequiresTraits(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { NewWith(Options[string, int]{}) })
}

// Sanity: interleaved writes and deletes across several resize boundaries
// never lose or resurrect keys.
func TestMap_MixedWorkload(t *testing.T) {
	t.Parallel()

	m := NewWith(Options[int, int]{
		InitialCapacity: 4,
		Hash:            traits.Hash[int](),
		KeyEq:           traits.Equal[int](),
	})
	alive := map[int]int{}

	for i := 0; i < 5_000; i++ {
		switch i % 5 {
		case 0, 1, 2:
			m.Set(i, i*10)
			alive[i] = i * 10
		case 3:
			k := i - 3
			m.Delete(k)
			delete(alive, k)
		case 4:
			m.Set(i-4, i)
			alive[i-4] = i
		}
	}

	require.Equal(t, len(alive), m.Len())
	for k, want := range alive {
		v, err := m.Get(k)
		if errors.Is(err, store.ErrNotFound) {
			t.Fatalf("key %d missing", k)
		}
		require.Equal(t, want, v)
	}
}
