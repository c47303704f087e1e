package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the containers and behaviors.
// Match with errors.Is; values may arrive wrapped with extra context.
var (
	// ErrNotFound is returned by Get for an absent key. Absence is a
	// normal condition — use GetOrDefault when a miss is expected.
	ErrNotFound = errors.New("store: key not found")

	// ErrIndexOutOfRange is returned by positional access on the
	// sequential containers (external to this module).
	ErrIndexOutOfRange = errors.New("store: index out of range")

	// ErrCapacityExceeded is returned by a bounded store whose overflow
	// policy fails the write instead of evicting or discarding.
	ErrCapacityExceeded = errors.New("store: capacity exceeded")

	// ErrUnsupported is returned for operations the configuration cannot
	// honor, such as the blocking overflow policy under synchronous
	// admission.
	ErrUnsupported = errors.New("store: unsupported operation")

	// ErrMergeConflict is reserved for the hybrid local/remote store's
	// conflict resolver.
	ErrMergeConflict = errors.New("store: merge conflict")
)

// ErrExpired is returned by a TTL store's Get for a key whose entry has
// expired. It wraps ErrNotFound, so callers that only care about absence
// need a single errors.Is(err, ErrNotFound) check.
var ErrExpired = fmt.Errorf("store: entry expired: %w", ErrNotFound)
