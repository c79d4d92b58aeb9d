package trace

import "errors"

var (
	// ErrSyntax indicates a malformed trace file.
	ErrSyntax = errors.New("trace: syntax error")

	// ErrBadTrace indicates a well-formed trace that uses ids inconsistently.
	ErrBadTrace = errors.New("trace: inconsistent trace")

	// ErrMisaligned indicates a payload that is not 8-byte aligned.
	ErrMisaligned = errors.New("trace: payload not aligned")

	// ErrOutOfHeap indicates a payload that is not inside the heap.
	ErrOutOfHeap = errors.New("trace: payload outside heap")

	// ErrOverlap indicates two live payloads sharing bytes.
	ErrOverlap = errors.New("trace: payloads overlap")

	// ErrPayload indicates payload bytes changed while the caller owned them.
	ErrPayload = errors.New("trace: payload corrupted")

	// ErrCorrupt indicates the heap check failed during replay.
	ErrCorrupt = errors.New("trace: heap check failed")
)
