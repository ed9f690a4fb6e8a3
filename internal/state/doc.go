// Package state holds the peaks PathQuest currently has loaded, split into
// two disjoint partitions: unfavorited and favorited.
//
// # Overview
//
// The Store is shared by the loader, which replaces the working set after a
// search or viewport change, and by the favorite coordinator, which moves
// single peaks between partitions. The UI reads snapshots for rendering.
//
// # Partition Invariant
//
// Every loaded peak identifier is in exactly one partition. Replace splits a
// search result by IsFavorited and drops duplicate identifiers. Transfer
// removes, flips and prepends under a single write lock, so a concurrent
// Snapshot never sees a peak in both partitions or in neither.
//
// The lower-level MoveToFavorited, MoveToUnfavorited and Insert operations
// do not keep the invariant on their own: a caller that removes a peak must
// insert it exactly once.
//
// # Ordering
//
// SetOrder installs a comparison that is reapplied after every Replace and
// Transfer. Sorting is stable, and Transfer prepends before sorting, so the
// most recently moved peak comes first among equals and for a nil order.
//
//	store.SetOrder(state.ByAltitudeDesc)
//	store.SetOrder(state.ByDistanceFrom(viewport.Center()))
//
// # Update Semantics
//
// Replace follows the error contract the loader relies on:
//
//	store.Replace(query, peaks, nil)  // swap working set, clear error
//	store.Replace(query, nil, err)    // keep peaks, record error, count failure
//
// # Copying
//
// Snapshot and Partitions clone the peak slices. Peak values carry a pointer
// altitude which is never mutated after decoding, so a shallow clone is
// enough.
package state
