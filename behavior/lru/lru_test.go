package lru

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/collections/container/hashmap"
	"github.com/IvanBrykalov/collections/store"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnixNano() int64  { return f.t }
func (f *fakeClock) add(d time.Duration) { f.t += int64(d) }

func newLRU(t *testing.T, capacity int, opt Options[string, int]) *Store[string, int] {
	t.Helper()
	opt.Capacity = capacity
	return Wrap(hashmap.New[string, int](), opt)
}

// Inserting capacity+1 distinct keys with no intervening reads evicts
// exactly the first-inserted key.
func TestEviction_Order(t *testing.T) {
	t.Parallel()

	l := newLRU(t, 3, Options[string, int]{})
	for i, k := range []string{"a", "b", "c", "d"} {
		_, _, err := l.Set(k, i)
		require.NoError(t, err)
	}

	require.Equal(t, 3, l.Len())
	require.False(t, l.Has("a"), "first-inserted key must be evicted")
	for _, k := range []string{"b", "c", "d"} {
		require.True(t, l.Has(k))
	}
}

// Reading a key before the next insert promotes it and saves it from
// eviction; the eviction falls on the new least-recent key instead.
func TestEviction_ReadPromotes(t *testing.T) {
	t.Parallel()

	l := newLRU(t, 2, Options[string, int]{})
	l.Set("a", 1)
	l.Set("b", 2)

	_, err := l.Get("a") // a becomes MRU, b is now LRU
	require.NoError(t, err)

	l.Set("c", 3)
	require.False(t, l.Has("b"), "b must be evicted")
	require.True(t, l.Has("a"), "a must survive after promotion")
	require.True(t, l.Has("c"))
}

// Has counts as an access too.
func TestEviction_HasPromotes(t *testing.T) {
	t.Parallel()

	l := newLRU(t, 2, Options[string, int]{})
	l.Set("a", 1)
	l.Set("b", 2)
	require.True(t, l.Has("a"))

	l.Set("c", 3)
	require.True(t, l.Has("a"))
	require.False(t, l.Has("b"))
}

// Set on an existing key updates in place, promotes, and never evicts.
func TestSet_UpdatePromotes(t *testing.T) {
	t.Parallel()

	l := newLRU(t, 2, Options[string, int]{})
	l.Set("a", 1)
	l.Set("b", 2)
	l.Set("a", 11) // update: a becomes MRU

	l.Set("c", 3)
	require.False(t, l.Has("b"))
	v, err := l.Get("a")
	require.NoError(t, err)
	require.Equal(t, 11, v)
}

func TestOnEvict_Payload(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: 1_000}
	var events []EvictEvent[string, int]
	l := newLRU(t, 1, Options[string, int]{
		OnEvict: func(ev EvictEvent[string, int]) { events = append(events, ev) },
		Clock:   clk,
	})

	l.Set("a", 7)
	clk.add(time.Second)
	l.Set("b", 8)

	require.Len(t, events, 1)
	require.Equal(t, "a", events[0].Key)
	require.Equal(t, 7, events[0].Value)
	require.Equal(t, time.Unix(0, clk.t), events[0].Time)
}

// Delete and Clear must keep the tracking index in 1:1 sync with the
// wrapped store, so follow-up inserts never evict ghosts.
func TestDeleteAndClear_SyncIndex(t *testing.T) {
	t.Parallel()

	evicted := 0
	l := newLRU(t, 3, Options[string, int]{
		OnEvict: func(EvictEvent[string, int]) { evicted++ },
	})
	l.Set("a", 1)
	l.Set("b", 2)
	l.Set("c", 3)

	l.Delete("b")
	l.Set("d", 4) // fits: no eviction should fire
	require.Zero(t, evicted)
	require.Equal(t, 3, l.Len())

	l.Clear()
	require.Zero(t, l.Len())
	require.False(t, l.IsFull())

	l.Set("x", 1)
	l.Set("y", 2)
	l.Set("z", 3)
	require.Zero(t, evicted)
	require.Equal(t, 3, l.Len())
}

func TestIsFullAndStats(t *testing.T) {
	t.Parallel()

	l := newLRU(t, 2, Options[string, int]{})
	require.False(t, l.IsFull())

	l.Set("a", 1)
	l.Set("b", 2)
	require.True(t, l.IsFull())

	l.Get("a")       // hit
	l.Get("missing") // miss
	l.Set("c", 3)    // evicts b

	st := l.Stats()
	require.Equal(t, int64(1), st.Hits)
	require.Equal(t, int64(1), st.Misses)
	require.Equal(t, uint64(1), st.Evictions)
}

func TestGetOrDefault_PromotesOnHit(t *testing.T) {
	t.Parallel()

	l := newLRU(t, 2, Options[string, int]{})
	l.Set("a", 1)
	l.Set("b", 2)

	require.Equal(t, 1, l.GetOrDefault("a", -1))
	require.Equal(t, -1, l.GetOrDefault("zzz", -1))

	l.Set("c", 3)
	require.True(t, l.Has("a"))
	require.False(t, l.Has("b"))
}

// The eviction deletes from the wrapped store through the delegate, so a
// direct look at the backing map agrees with the wrapper.
func TestEviction_ReachesBackingStore(t *testing.T) {
	t.Parallel()

	base := hashmap.New[string, int]()
	l := Wrap(base, Options[string, int]{Capacity: 2})

	l.Set("a", 1)
	l.Set("b", 2)
	l.Set("c", 3)

	require.False(t, base.Has("a"))
	require.Equal(t, 2, base.Len())
}

func TestWrap_PanicsOnBadCapacity(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		Wrap(hashmap.New[string, int](), Options[string, int]{})
	})
}

// Longer mixed sequence: the resident set is always the capacity most
// recently touched keys.
func TestEviction_SlidingWindow(t *testing.T) {
	t.Parallel()

	const capacity = 8
	l := newLRU(t, capacity, Options[string, int]{})

	const n = 100
	for i := 0; i < n; i++ {
		l.Set("k:"+strconv.Itoa(i), i)
	}
	require.Equal(t, capacity, l.Len())

	for i := n - capacity; i < n; i++ {
		require.True(t, l.Has("k:"+strconv.Itoa(i)), "recent key %d must be resident", i)
	}
	require.False(t, l.Has("k:"+strconv.Itoa(n-capacity-1)))
	_, err := l.Get("k:0")
	require.ErrorIs(t, err, store.ErrNotFound)
}
