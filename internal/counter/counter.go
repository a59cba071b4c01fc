// Package counter issues monotonically increasing integer identifiers per
// logical record type, backed by a single counter document per type.
package counter

import "context"

// Allocator hands out sequence values and compacts them after deletions.
type Allocator interface {
	// Next atomically increments the sequence for name and returns the new
	// value. A missing counter is created with an implicit starting value of
	// 0 first, so the initial call returns 1. Two concurrent calls never
	// return the same value.
	Next(ctx context.Context, name string) (int, error)

	// Reclaim is called after a successful deletion from the owning
	// collection. If that collection is now empty the counter resets so the
	// next allocation restarts the sequence at 1; otherwise the counter
	// decrements by one. This is a compaction heuristic, not a correctness
	// guarantee: a create racing a delete between its two store calls can
	// observe a stale counter value.
	Reclaim(ctx context.Context, name string) error
}

// Emptier reports whether the collection a counter sequences has no
// documents left. Reclaim consults it to decide between reset and decrement.
type Emptier interface {
	Empty(ctx context.Context) (bool, error)
}
