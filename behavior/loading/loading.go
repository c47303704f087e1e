// Package loading adds read-through loading to a wrapped map store:
// GetOrLoad fetches a missing value via a configured Loader, coalescing
// concurrent loads for the same key so the Loader runs at most once per
// miss wave.
package loading

import (
	"context"
	"errors"

	"github.com/IvanBrykalov/collections/behavior"
	"github.com/IvanBrykalov/collections/internal/singleflight"
	"github.com/IvanBrykalov/collections/store"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured.
var ErrNoLoader = errors.New("loading: no Loader configured")

// LoaderFunc fetches the value for a missing key, typically from a slower
// backing source.
type LoaderFunc[K, V any] func(ctx context.Context, k K) (V, error)

// Options configures a loading wrapper.
type Options[K, V any] struct {
	Loader LoaderFunc[K, V]
}

// Store adds GetOrLoad on top of the embedded map. The wrapped store must
// already be safe for concurrent use (compose a lock behavior beneath this
// one): followers of a coalesced load touch it from their own goroutines.
type Store[K comparable, V any] struct {
	store.Map[K, V]

	loader LoaderFunc[K, V]
	sf     singleflight.Group[K, V]
}

// New returns a Behavior that adds read-through loading with opt.
// GetOrLoad is only reachable through the concrete *Store, so most callers
// want Wrap instead; New exists for uniform composition.
func New[K comparable, V any](opt Options[K, V]) behavior.Behavior[K, V] {
	return func(s store.Map[K, V]) store.Map[K, V] { return Wrap(s, opt) }
}

// Wrap adds read-through loading to s.
func Wrap[K comparable, V any](s store.Map[K, V], opt Options[K, V]) *Store[K, V] {
	return &Store[K, V]{Map: s, loader: opt.Loader}
}

// GetOrLoad returns the value for k, loading it on a miss. Concurrent
// calls for the same key share one Loader invocation. A successful load is
// stored before being returned; a failed load stores nothing.
func (l *Store[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	// Fast path.
	if v, err := l.Map.Get(k); err == nil {
		return v, nil
	}
	if l.loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	return l.sf.Do(ctx, k, func() (V, error) {
		// Double-check after winning the flight: a racing Set or an
		// earlier flight may have filled the key already.
		if v, err := l.Map.Get(k); err == nil {
			return v, nil
		}
		v, err := l.loader(ctx, k)
		if err != nil {
			return v, err
		}
		if _, _, serr := l.Map.Set(k, v); serr != nil {
			// A bounded store may refuse the write; the loaded value
			// is still good for this caller.
			return v, nil
		}
		return v, nil
	})
}

// Compile-time check: Store satisfies the map interface.
var _ store.Map[string, int] = (*Store[string, int])(nil)
