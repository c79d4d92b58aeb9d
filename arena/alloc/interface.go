package alloc

import (
	"io"

	"github.com/joshuapare/heapkit/arena/verify"
)

// Allocator defines the client-facing surface of a heap allocator.
//
// Implementations:
//   - ImplicitAllocator: implicit free list, next-fit, boundary-tag coalescing
type Allocator interface {
	// Init resets the heap to its minimal valid form.
	Init() error

	// Alloc returns a handle whose payload holds at least n bytes.
	Alloc(n int) (Handle, error)

	// Free releases a live handle.
	Free(h Handle) error

	// Realloc moves the payload of h into a block holding n bytes, preserving
	// the first min(old, n) bytes. On error h stays live and unchanged.
	Realloc(h Handle, n int) (Handle, error)

	// Bytes returns the payload of a live handle, h.Len bytes long.
	Bytes(h Handle) ([]byte, error)

	// HeapSize returns the number of arena bytes currently managed.
	HeapSize() int

	// Check reports structural problems. It never modifies the heap.
	Check(w io.Writer, verbose bool) []*verify.ValidationError
}
