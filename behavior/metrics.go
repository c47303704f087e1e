package behavior

import "time"

// EvictReason explains why a wrapper removed an entry from its store.
type EvictReason int

const (
	// EvictLRU — removed as the least recently used entry on overflow.
	EvictLRU EvictReason = iota
	// EvictTTL — expired by TTL (lazy check or background sweep).
	EvictTTL
	// EvictCapacity — removed by a bounded wrapper's drop-oldest policy.
	EvictCapacity
)

// Metrics exposes wrapper-level observability hooks.
// NoopMetrics is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// Safe for concurrent use.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int)          {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}

// Clock provides time in UnixNano; useful for deterministic tests.
// A nil Clock in behavior options means time.Now.
type Clock interface{ NowUnixNano() int64 }

// Now resolves a possibly-nil Clock.
func Now(c Clock) int64 {
	if c != nil {
		return c.NowUnixNano()
	}
	return time.Now().UnixNano()
}
