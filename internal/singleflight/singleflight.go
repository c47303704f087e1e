// Package singleflight coalesces concurrent calls for the same key so the
// underlying function runs at most once while a flight is open.
package singleflight

import (
	"context"
	"sync"
)

// Group deduplicates in-flight calls per key. The first caller for a key
// becomes the leader and runs fn; followers wait for the shared result.
// Publishing (val, err) happens-before close(done), so followers reading
// after <-done observe the final values.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed once val/err are published
	val  V
	err  error
}

// Do runs fn once for key; concurrent calls with the same key share the
// result. A follower whose ctx is cancelled returns ctx.Err() and stops
// waiting — the leader's fn keeps running regardless. If the work itself
// must be cancellable, thread ctx into fn.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (V, error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		// A flight is open for this key — join it.
		done := c.done
		g.mu.Unlock()

		select {
		case <-done:
			return c.val, c.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}

	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	// Leader path: run fn outside the lock, publish, wake followers.
	c.val, c.err = fn()
	close(c.done)

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return c.val, c.err
}
