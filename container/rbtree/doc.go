// Package rbtree implements an ordered map as a red-black binary search
// tree with a pluggable comparator.
//
// Beyond the store.Map operations it offers ordered navigation —
// FirstKey/LastKey, Floor/Ceiling/Lower/HigherEntry, PollFirst/PollLast —
// and half-open range views (HeadMap, TailMap, SubMap) that materialize a
// new tree by scanning the bound in sorted order.
//
// Comparator ties are resolved by the comparator alone: Set on an existing
// key replaces the value in place, never inserting a duplicate node.
//
// Not safe for concurrent use — wrap with behavior/lock when shared.
package rbtree
