package store

import "context"

// Remote is the boundary interface for a network-backed store. This module
// does not implement it; the hybrid local/remote layer consumes it together
// with a local Map. All calls may block on I/O and may fail.
type Remote[K, V any] interface {
	Get(ctx context.Context, k K) (V, error)
	GetAll(ctx context.Context, keys []K) ([]Entry[K, V], error)
	Set(ctx context.Context, k K, v V) error
	Delete(ctx context.Context, k K) error
	SetBatch(ctx context.Context, entries []Entry[K, V]) error
	DeleteBatch(ctx context.Context, keys []K) error
	Len(ctx context.Context) (int, error)
}

// ConflictFunc resolves a divergence between a local and a remote value for
// the same key. Returning ErrMergeConflict (possibly wrapped) aborts the
// synchronization for that key.
type ConflictFunc[V any] func(local, remote V) (V, error)
