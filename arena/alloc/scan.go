package alloc

import "github.com/joshuapare/heapkit/internal/format"

// findFit returns the first free block of at least asize bytes, searching
// from the cursor to the epilogue and then from the prologue up to the cursor.
func (ia *ImplicitAllocator) findFit(asize int) (int, bool) {
	data := ia.p.Bytes()

	for bp := ia.rover; ; {
		size, alloc, ok := blockAt(data, bp)
		if !ok || size == 0 {
			break
		}
		ia.stats.ScanSteps++
		if !alloc && size >= asize {
			return bp, true
		}
		bp += size
	}

	ia.stats.ScanWraps++
	for bp := ia.heapStart; bp < ia.rover; {
		size, alloc, ok := blockAt(data, bp)
		if !ok || size == 0 {
			break
		}
		ia.stats.ScanSteps++
		if !alloc && size >= asize {
			return bp, true
		}
		bp += size
	}
	return 0, false
}

// blockAt decodes the header of the block at bp. ok is false when the header
// lies outside data.
func blockAt(data []byte, bp int) (size int, alloc bool, ok bool) {
	w, ok := format.Word(data, format.HeaderOff(bp))
	if !ok {
		return 0, false, false
	}
	return format.SizeOf(w), format.IsAlloc(w), true
}

// nextBlock returns the payload offset of the block after bp. ok is false at
// the epilogue or when the chain leaves the heap.
func (ia *ImplicitAllocator) nextBlock(data []byte, bp int) (int, bool) {
	size, _, ok := blockAt(data, bp)
	if !ok || size == 0 {
		return 0, false
	}
	next := bp + size
	if next < ia.heapStart || next > len(data) {
		return 0, false
	}
	return next, true
}

// prevBlock returns the payload offset of the block before bp, read from its
// footer. ok is false at the prologue.
func (ia *ImplicitAllocator) prevBlock(data []byte, bp int) (int, bool) {
	if bp <= ia.heapStart {
		return 0, false
	}
	w, ok := format.Word(data, format.PrevFooterOff(bp))
	if !ok {
		return 0, false
	}
	prev := bp - format.SizeOf(w)
	if prev < ia.heapStart || prev >= bp {
		return 0, false
	}
	return prev, true
}
