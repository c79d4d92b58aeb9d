// Package alloc implements a general-purpose allocator over a raw arena using
// an implicit free list, next-fit placement and boundary-tag coalescing.
//
// # Overview
//
// The heap is a single gapless chain of blocks inside an arena.Provider. Every
// block records its own size and allocation state in a header word and an
// identical footer word (see internal/format). There is no side index: finding
// a free block means walking the chain, and finding a neighbor means reading the
// adjacent header or footer.
//
//	 begin                                                        end
//	 heap                                                         heap
//	 ---------------------------------------------------------------
//	| pad | hdr(8:a) | ftr(8:a) | zero or more user blocks | hdr(0:a) |
//	 ---------------------------------------------------------------
//	      |       prologue      |                          | epilogue |
//
// The always-allocated prologue and epilogue remove the edge cases from
// coalescing: every user block has a predecessor and a successor.
//
// # Allocator Interface
//
//   - Init(): reset the arena to the sentinel-only form plus one chunk
//   - Alloc(n): return a Handle whose payload holds at least n bytes
//   - Free(h): release a handle and merge it with free neighbors
//   - Realloc(h, n): move a payload into a block of the new size
//   - Check(w, verbose): report structural problems without changing anything
//
// # Placement
//
// Alloc scans for the first free block that is large enough, starting at a
// rotating cursor (next-fit) and wrapping around to the prologue. The cursor
// follows the most recent placement, so repeated requests do not re-scan the
// exhausted low end of the heap. On a miss the arena is extended by
// max(request, ChunkSize) and the new space is merged with any trailing free
// block.
//
// A block larger than the request is split when the remainder can stand on its
// own as a block (format.MinBlockSize); otherwise the whole block is handed out.
//
// # Usage Example
//
//	ia, err := alloc.New(arena.NewMem(arena.DefaultMaxSize), nil)
//	if err != nil {
//	    return err
//	}
//
//	h, err := ia.Alloc(128)
//	if err != nil {
//	    return err
//	}
//	payload, _ := ia.Bytes(h)
//	copy(payload, data)
//
//	h, err = ia.Realloc(h, 256)
//	...
//	err = ia.Free(h)
//
// # Handles
//
// A Handle is the payload offset plus the requested length. Handles are checked
// on Free, Realloc and Bytes: a handle that was never returned, or that has
// already been released, is rejected with an error instead of corrupting the
// heap. Slices returned by Bytes alias the arena and must be re-fetched after
// any call that can grow it.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Each instance owns its arena and
// cursor, so independent instances may be used from different goroutines.
//
// # Logging
//
// Growth, exhaustion and rejected calls are logged through Config.Logger.
// Without a logger, output is discarded unless HEAPKIT_LOG_ALLOC is set, in
// which case debug output goes to stderr.
package alloc
