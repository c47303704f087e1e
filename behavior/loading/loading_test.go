package loading

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/collections/behavior/lock"
	"github.com/IvanBrykalov/collections/container/hashmap"
)

func TestGetOrLoad_MissLoadsAndStores(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	s := Wrap(lock.Mutex[string, int]()(hashmap.New[string, int]()), Options[string, int]{
		Loader: func(_ context.Context, k string) (int, error) {
			calls.Add(1)
			return len(k), nil
		},
	})

	v, err := s.GetOrLoad(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, 5, v)
	require.Equal(t, int32(1), calls.Load())

	// Now cached: no second load.
	v, err = s.GetOrLoad(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, 5, v)
	require.Equal(t, int32(1), calls.Load())
}

func TestGetOrLoad_HitSkipsLoader(t *testing.T) {
	t.Parallel()

	s := Wrap(lock.Mutex[string, int]()(hashmap.New[string, int]()), Options[string, int]{
		Loader: func(context.Context, string) (int, error) {
			t.Error("loader must not run for a present key")
			return 0, nil
		},
	})
	s.Set("k", 42)

	v, err := s.GetOrLoad(context.Background(), "k")
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestGetOrLoad_NoLoader(t *testing.T) {
	t.Parallel()

	s := Wrap(lock.Mutex[string, int]()(hashmap.New[string, int]()), Options[string, int]{})

	_, err := s.GetOrLoad(context.Background(), "k")
	require.ErrorIs(t, err, ErrNoLoader)
}

func TestGetOrLoad_ErrorNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("backend down")
	var fail atomic.Bool
	fail.Store(true)
	s := Wrap(lock.Mutex[string, int]()(hashmap.New[string, int]()), Options[string, int]{
		Loader: func(_ context.Context, k string) (int, error) {
			if fail.Load() {
				return 0, boom
			}
			return len(k), nil
		},
	})

	_, err := s.GetOrLoad(context.Background(), "key")
	require.ErrorIs(t, err, boom)
	require.False(t, s.Has("key"), "failed load must not populate the store")

	fail.Store(false)
	v, err := s.GetOrLoad(context.Background(), "key")
	require.NoError(t, err)
	require.Equal(t, 3, v)
}

// Concurrent misses for one key share a single loader invocation; every
// caller sees the same value.
func TestGetOrLoad_Singleflight(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	gate := make(chan struct{})
	s := Wrap(lock.Mutex[string, int]()(hashmap.New[string, int]()), Options[string, int]{
		Loader: func(_ context.Context, k string) (int, error) {
			calls.Add(1)
			<-gate // hold the flight open until everyone has joined
			return 99, nil
		},
	})

	const n = 16
	var started sync.WaitGroup
	started.Add(n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			started.Done()
			v, err := s.GetOrLoad(context.Background(), "hot")
			if err != nil {
				return err
			}
			if v != 99 {
				return errors.New("wrong value: " + strconv.Itoa(v))
			}
			return nil
		})
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond) // let the followers reach the flight
	close(gate)
	require.NoError(t, g.Wait())

	// The gate guarantees at least the first caller held the flight open,
	// so late arrivals joined instead of loading again.
	require.Equal(t, int32(1), calls.Load())
}

func TestGetOrLoad_DistinctKeysLoadIndependently(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	s := Wrap(lock.Mutex[string, int]()(hashmap.New[string, int]()), Options[string, int]{
		Loader: func(_ context.Context, k string) (int, error) {
			calls.Add(1)
			return len(k), nil
		},
	})

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		k := "key-" + strconv.Itoa(i)
		g.Go(func() error {
			_, err := s.GetOrLoad(context.Background(), k)
			return err
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int32(8), calls.Load())
	require.Equal(t, 8, s.Len())
}

func TestGetOrLoad_FollowerCancellation(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	s := Wrap(lock.Mutex[string, int]()(hashmap.New[string, int]()), Options[string, int]{
		Loader: func(_ context.Context, _ string) (int, error) {
			<-gate
			return 7, nil
		},
	})

	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		v, err := s.GetOrLoad(context.Background(), "slow")
		if err != nil || v != 7 {
			t.Errorf("leader: got (%d, %v)", v, err)
		}
	}()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.GetOrLoad(ctx, "slow")
	require.ErrorIs(t, err, context.Canceled)

	// The leader's flight is unaffected by the follower bailing out.
	close(gate)
	select {
	case <-leaderDone:
	case <-time.After(5 * time.Second):
		t.Fatal("leader never finished")
	}
	v, err := s.Get("slow")
	require.NoError(t, err)
	require.Equal(t, 7, v)
}
