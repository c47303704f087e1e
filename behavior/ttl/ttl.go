// Package ttl attaches per-entry expiry metadata to a wrapped map store.
// Entries are removed lazily on access and actively by a periodic
// background sweep; both paths share one expiry predicate, so an entry is
// logically absent the instant its deadline passes, swept or not.
package ttl

import (
	"fmt"
	"sync"
	"time"

	"github.com/IvanBrykalov/collections/behavior"
	"github.com/IvanBrykalov/collections/store"
)

// DefaultCheckInterval is the sweep period when none is configured.
const DefaultCheckInterval = time.Second

// ExpireEvent describes an entry removed because its TTL passed.
type ExpireEvent[K, V any] struct {
	Key       K
	Value     V
	CreatedAt time.Time
	ExpiredAt time.Time
}

// Options configures a TTL wrapper. TTL must be > 0.
//   - CheckInterval <= 0 => DefaultCheckInterval
//   - nil Metrics        => NoopMetrics
//   - nil Clock          => time.Now (the sweep timer always uses real
//     time; the Clock only drives expiry arithmetic, which is what tests
//     need to be deterministic)
type Options[K, V any] struct {
	TTL           time.Duration
	CheckInterval time.Duration

	// OnExpire is called exactly once per expired key, whether the lazy
	// check or the sweep got there first. It runs under the wrapper's
	// lock; keep it lightweight.
	OnExpire func(ExpireEvent[K, V])

	Metrics behavior.Metrics
	Clock   behavior.Clock
}

// meta is the per-key expiry record. The value snapshot feeds OnExpire
// without re-reading the wrapped store.
type meta[V any] struct {
	val       V
	createdAt int64
	expiresAt int64
}

func (m *meta[V]) expired(now int64) bool { return now >= m.expiresAt }

// Store is a TTL map wrapper. Unlike the other behaviors it owns a
// background goroutine, so it carries its own mutex: every intercepted
// call and the sweeper serialize on it. Close must be called to stop the
// sweeper, or the timer goroutine lives forever.
type Store[K comparable, V any] struct {
	store.Map[K, V]

	opt  Options[K, V]
	mu   sync.Mutex
	meta map[K]*meta[V]

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New returns a Behavior that adds TTL expiry with opt.
// The sweeper starts immediately; the caller owns the resulting store's
// Close (assert to *Store or keep the reference from Wrap).
func New[K comparable, V any](opt Options[K, V]) behavior.Behavior[K, V] {
	return func(s store.Map[K, V]) store.Map[K, V] { return Wrap(s, opt) }
}

// Wrap adds TTL expiry to s and starts the background sweep.
// Panics if TTL <= 0.
func Wrap[K comparable, V any](s store.Map[K, V], opt Options[K, V]) *Store[K, V] {
	if opt.TTL <= 0 {
		panic(fmt.Sprintf("ttl: TTL must be > 0, got %v", opt.TTL))
	}
	if opt.CheckInterval <= 0 {
		opt.CheckInterval = DefaultCheckInterval
	}
	if opt.Metrics == nil {
		opt.Metrics = behavior.NoopMetrics{}
	}
	t := &Store[K, V]{
		Map:  s,
		opt:  opt,
		meta: make(map[K]*meta[V]),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	// Entries already in the store get a full TTL from now.
	now := behavior.Now(opt.Clock)
	s.Range(func(k K, v V) bool {
		t.meta[k] = &meta[V]{val: v, createdAt: now, expiresAt: now + int64(opt.TTL)}
		return true
	})
	go t.sweepLoop()
	return t
}

// Close stops the background sweep and waits for it to exit. Idempotent.
func (t *Store[K, V]) Close() error {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
	return nil
}

// Has reports presence, expiring the entry first if its deadline passed.
func (t *Store[K, V]) Has(k K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.expireIfDueLocked(k) {
		return false
	}
	return t.Map.Has(k)
}

// Get returns the value for k. A key whose deadline passed is physically
// deleted first and reported as store.ErrExpired (which matches
// store.ErrNotFound under errors.Is).
func (t *Store[K, V]) Get(k K) (V, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.expireIfDueLocked(k) {
		var zero V
		return zero, store.ErrExpired
	}
	return t.Map.Get(k)
}

// GetOrDefault returns def for absent and expired keys alike.
func (t *Store[K, V]) GetOrDefault(k K, def V) V {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.expireIfDueLocked(k) {
		return def
	}
	return t.Map.GetOrDefault(k, def)
}

// Set forwards the write and stamps fresh expiry metadata on success.
// Replacing an entry resets its deadline.
func (t *Store[K, V]) Set(k K, v V) (V, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, existed, err := t.Map.Set(k, v)
	if err != nil {
		return prev, existed, err
	}
	now := behavior.Now(t.opt.Clock)
	t.meta[k] = &meta[V]{val: v, createdAt: now, expiresAt: now + int64(t.opt.TTL)}
	return prev, existed, nil
}

// Delete forwards the removal and drops the expiry record.
func (t *Store[K, V]) Delete(k K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, existed := t.Map.Delete(k)
	delete(t.meta, k)
	return prev, existed
}

// Clear forwards and drops all expiry records.
func (t *Store[K, V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Map.Clear()
	clear(t.meta)
}

// Len counts resident entries, which may include expired-but-unswept
// ones; they disappear on access or at the next sweep.
func (t *Store[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Map.Len()
}

// IsEmpty mirrors Len's unswept semantics.
func (t *Store[K, V]) IsEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Map.IsEmpty()
}

// Range iterates live entries only: entries past their deadline are
// skipped (not deleted — the sweep reclaims them).
func (t *Store[K, V]) Range(fn func(k K, v V) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := behavior.Now(t.opt.Clock)
	t.Map.Range(func(k K, v V) bool {
		if md, ok := t.meta[k]; ok && md.expired(now) {
			return true
		}
		return fn(k, v)
	})
}

// Sweep runs one active pass immediately, evicting every entry whose
// deadline has passed, and returns the number evicted. The background
// loop calls this on every tick; tests call it directly.
func (t *Store[K, V]) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := behavior.Now(t.opt.Clock)
	evicted := 0
	for k, md := range t.meta {
		if md.expired(now) {
			t.expireLocked(k, md)
			evicted++
		}
	}
	return evicted
}

// ---- internals ----

func (t *Store[K, V]) sweepLoop() {
	defer close(t.done)
	ticker := time.NewTicker(t.opt.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}

// expireIfDueLocked applies the lazy check for k: if its deadline passed
// the entry is physically removed and true is returned.
func (t *Store[K, V]) expireIfDueLocked(k K) bool {
	md, ok := t.meta[k]
	if !ok || !md.expired(behavior.Now(t.opt.Clock)) {
		return false
	}
	t.expireLocked(k, md)
	return true
}

// expireLocked removes k from the wrapped store and the metadata table,
// then reports the expiry. Removing the metadata record is what makes
// OnExpire fire exactly once per key across the lazy and sweep paths.
func (t *Store[K, V]) expireLocked(k K, md *meta[V]) {
	t.Map.Delete(k)
	delete(t.meta, k)
	t.opt.Metrics.Evict(behavior.EvictTTL)
	if cb := t.opt.OnExpire; cb != nil {
		cb(ExpireEvent[K, V]{
			Key:       k,
			Value:     md.val,
			CreatedAt: time.Unix(0, md.createdAt),
			ExpiredAt: time.Unix(0, md.expiresAt),
		})
	}
}

// Compile-time check: Store satisfies the map interface.
var _ store.Map[string, int] = (*Store[string, int])(nil)
