// Package store defines the capability interfaces, entry type, and error
// taxonomy shared by the containers and the behavior wrappers.
//
// The Map interface is the contract everything composes over: the hash map
// and red-black tree implement it, behaviors wrap one Map and return
// another, and callers only ever hold the interface. Collection plays the
// same role for non-map stores, and Remote marks the boundary to the
// network-backed layer that lives outside this module.
package store
