package ttl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/collections/container/hashmap"
	"github.com/IvanBrykalov/collections/store"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnixNano() int64  { return f.t }
func (f *fakeClock) add(d time.Duration) { f.t += int64(d) }

func newTTL(t *testing.T, clk *fakeClock, opt Options[string, int]) *Store[string, int] {
	t.Helper()
	if opt.TTL == 0 {
		opt.TTL = 100 * time.Millisecond
	}
	opt.Clock = clk
	// Long interval: tests drive the sweep by hand for determinism.
	opt.CheckInterval = time.Hour
	s := Wrap(hashmap.New[string, int](), opt)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLazyExpiry_Get(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	s := newTTL(t, clk, Options[string, int]{TTL: 100 * time.Millisecond})

	s.Set("x", 1)
	v, err := s.Get("x")
	require.NoError(t, err)
	require.Equal(t, 1, v)

	clk.add(200 * time.Millisecond)
	_, err = s.Get("x")
	require.ErrorIs(t, err, store.ErrExpired)
	require.ErrorIs(t, err, store.ErrNotFound, "ErrExpired must match ErrNotFound")
}

// The deadline is inclusive: at exactly now == expiresAt the entry is
// already gone.
func TestLazyExpiry_DeadlineInclusive(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	s := newTTL(t, clk, Options[string, int]{TTL: 100 * time.Millisecond})

	s.Set("x", 1)
	clk.add(100 * time.Millisecond)
	require.False(t, s.Has("x"))
}

// The lazy check physically deletes before reporting absence, so the
// backing store never serves a stale hit afterwards.
func TestLazyExpiry_PhysicallyDeletes(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	base := hashmap.New[string, int]()
	s := Wrap(base, Options[string, int]{
		TTL:           50 * time.Millisecond,
		CheckInterval: time.Hour,
		Clock:         clk,
	})
	t.Cleanup(func() { _ = s.Close() })

	s.Set("x", 1)
	clk.add(60 * time.Millisecond)
	require.False(t, s.Has("x"))
	require.False(t, base.Has("x"), "expired entry must be removed from the backing store")
}

func TestHasAndGetOrDefault(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	s := newTTL(t, clk, Options[string, int]{TTL: 100 * time.Millisecond})

	s.Set("x", 1)
	require.True(t, s.Has("x"))
	require.Equal(t, 1, s.GetOrDefault("x", -1))

	clk.add(150 * time.Millisecond)
	require.False(t, s.Has("x"))
	require.Equal(t, -1, s.GetOrDefault("x", -1))
}

// Replacing an entry resets its deadline.
func TestSet_ResetsDeadline(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	s := newTTL(t, clk, Options[string, int]{TTL: 100 * time.Millisecond})

	s.Set("x", 1)
	clk.add(80 * time.Millisecond)
	s.Set("x", 2) // fresh TTL from here
	clk.add(80 * time.Millisecond)

	v, err := s.Get("x")
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

// Lazy check and sweep agree on the expiry predicate, and OnExpire fires
// exactly once per key no matter which path gets there first.
func TestLazyActiveAgreement_OnExpireOnce(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	fired := map[string]int{}
	s := newTTL(t, clk, Options[string, int]{
		TTL:      100 * time.Millisecond,
		OnExpire: func(ev ExpireEvent[string, int]) { fired[ev.Key]++ },
	})

	s.Set("lazy", 1)
	s.Set("swept", 2)
	clk.add(200 * time.Millisecond)

	// Lazy path claims one key...
	_, err := s.Get("lazy")
	require.ErrorIs(t, err, store.ErrNotFound)

	// ...the sweep claims the rest, and re-sweeping finds nothing.
	require.Equal(t, 1, s.Sweep())
	require.Zero(t, s.Sweep())

	require.Equal(t, map[string]int{"lazy": 1, "swept": 1}, fired)
	require.Zero(t, s.Len())
}

func TestSweep_EventPayload(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: int64(time.Hour)}
	var events []ExpireEvent[string, int]
	s := newTTL(t, clk, Options[string, int]{
		TTL:      time.Second,
		OnExpire: func(ev ExpireEvent[string, int]) { events = append(events, ev) },
	})

	created := clk.t
	s.Set("x", 42)
	clk.add(2 * time.Second)
	require.Equal(t, 1, s.Sweep())

	require.Len(t, events, 1)
	require.Equal(t, "x", events[0].Key)
	require.Equal(t, 42, events[0].Value)
	require.Equal(t, time.Unix(0, created), events[0].CreatedAt)
	require.Equal(t, time.Unix(0, created+int64(time.Second)), events[0].ExpiredAt)
}

// Range skips expired-but-unswept entries; Len may still count them.
func TestRange_SkipsExpired(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	s := newTTL(t, clk, Options[string, int]{TTL: 100 * time.Millisecond})

	s.Set("old", 1)
	clk.add(60 * time.Millisecond)
	s.Set("fresh", 2)
	clk.add(60 * time.Millisecond) // "old" is past deadline, "fresh" is not

	var keys []string
	s.Range(func(k string, _ int) bool {
		keys = append(keys, k)
		return true
	})
	require.Equal(t, []string{"fresh"}, keys)
}

func TestDeleteAndClear_DropMetadata(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	fired := 0
	s := newTTL(t, clk, Options[string, int]{
		TTL:      100 * time.Millisecond,
		OnExpire: func(ExpireEvent[string, int]) { fired++ },
	})

	s.Set("a", 1)
	s.Set("b", 2)
	s.Delete("a")
	s.Clear()

	clk.add(time.Second)
	require.Zero(t, s.Sweep(), "explicitly removed entries must not expire")
	require.Zero(t, fired)
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	s := Wrap(hashmap.New[string, int](), Options[string, int]{TTL: time.Second})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

// End-to-end with the real timer: a short interval sweep evicts without
// any access. Generous bounds keep this stable under load.
func TestBackgroundSweep_RealTimer(t *testing.T) {
	t.Parallel()

	fired := make(chan string, 1)
	s := Wrap(hashmap.New[string, int](), Options[string, int]{
		TTL:           20 * time.Millisecond,
		CheckInterval: 10 * time.Millisecond,
		OnExpire:      func(ev ExpireEvent[string, int]) { fired <- ev.Key },
	})
	t.Cleanup(func() { _ = s.Close() })

	s.Set("x", 1)
	select {
	case k := <-fired:
		require.Equal(t, "x", k)
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never fired")
	}
	require.Zero(t, s.Len())
}

func TestWrap_PanicsOnBadTTL(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		Wrap(hashmap.New[string, int](), Options[string, int]{})
	})
}
