package alloc

import "github.com/joshuapare/heapkit/internal/format"

// coalesce merges the free block at bp with its free neighbors and returns the
// payload offset of the resulting block. The prologue and epilogue are always
// allocated, so every block has both neighbors.
func (ia *ImplicitAllocator) coalesce(bp int) int {
	data := ia.p.Bytes()
	size := format.BlockSize(data, bp)

	prevAlloc := true
	prevSize := 0
	if prev, ok := ia.prevBlock(data, bp); ok {
		prevAlloc = format.BlockAlloc(data, prev)
		prevSize = bp - prev
	}
	nextAlloc := true
	nextSize := 0
	if next, ok := ia.nextBlock(data, bp); ok {
		nextAlloc = format.BlockAlloc(data, next)
		nextSize = format.BlockSize(data, next)
	}

	start := bp
	switch {
	case prevAlloc && nextAlloc:
		ia.stats.CoalesceNone++
		return bp

	case prevAlloc && !nextAlloc:
		ia.stats.CoalesceNext++
		size += nextSize

	case !prevAlloc && nextAlloc:
		ia.stats.CoalescePrev++
		size += prevSize
		start = bp - prevSize

	default:
		ia.stats.CoalesceBoth++
		size += prevSize + nextSize
		start = bp - prevSize
	}
	format.SetBlock(data, start, size, false)

	// The cursor must stay on a block boundary.
	if ia.rover > start && ia.rover < start+size {
		ia.rover = start
	}
	return start
}
