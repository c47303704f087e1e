// Package hashmap implements a chained hash map with pluggable hashing and
// equality.
//
// Layout: a bucket array whose length is always a power of two, with singly
// linked collision chains. A key lives in exactly one chain, chosen by
// hash(key) & (bucketCount-1). When size exceeds bucketCount * loadFactor
// the bucket count doubles and every chain node is redistributed; memoized
// hashes make the rehash a pointer shuffle.
//
// The map implements store.Map and additionally provides the compute-style
// operations (ComputeIfAbsent, ComputeIfPresent, Compute, Merge, PutAll).
//
// Not safe for concurrent use — wrap with behavior/lock when shared.
package hashmap
