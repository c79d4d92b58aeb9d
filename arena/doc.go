// Package arena provides the linearly growable memory regions the allocator is
// built on.
//
// # Overview
//
// An arena is a contiguous run of bytes with a movable break, in the spirit of
// sbrk(2). It can only grow: Extend moves the break up by n bytes and returns the
// old break, which is where the new space starts. Addresses are byte offsets
// into Bytes(), so Low is always 0 and High is the current break.
//
// # Implementations
//
// Mem: a heap-backed byte slice that is reallocated as it grows. Slices taken
// from Bytes() before an Extend call may be stale afterwards; callers must
// re-fetch Bytes() after growth.
//
// Mapped: an anonymous memory mapping reserved up front at its maximum size.
// Growth never moves the bytes. On platforms without mmap support it falls back
// to the same behavior as Mem.
//
// # Exhaustion
//
// Both implementations enforce a maximum size. An Extend call that would cross
// it fails with ErrExhausted and leaves the break where it was.
//
//	p := arena.NewMem(arena.DefaultMaxSize)
//	old, err := p.Extend(4096)
//	if errors.Is(err, arena.ErrExhausted) {
//	    // backing store is full
//	}
//	copy(p.Bytes()[old:], payload)
//
// # Thread Safety
//
// Arenas are not thread-safe. The allocator that owns an arena serializes all
// access to it.
package arena
