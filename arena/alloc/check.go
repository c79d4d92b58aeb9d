package alloc

import (
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/arena/verify"
)

// Check validates the heap structure and returns every problem found. When
// verbose is set the block listing is written to w first. Problems are also
// written to w. A nil w discards output. Check never modifies the heap.
func (ia *ImplicitAllocator) Check(w io.Writer, verbose bool) []*verify.ValidationError {
	if w == nil {
		w = io.Discard
	}
	if !ia.ready {
		err := &verify.ValidationError{
			Type:    verify.TypePrologue,
			Message: ErrNotInitialized.Error(),
			Offset:  -1,
		}
		fmt.Fprintln(w, err)
		return []*verify.ValidationError{err}
	}

	data := ia.p.Bytes()
	if verbose {
		verify.Print(w, data, ia.heapStart)
	}
	errs := verify.Heap(data, ia.heapStart)
	for _, e := range errs {
		fmt.Fprintln(w, e)
	}
	return errs
}
