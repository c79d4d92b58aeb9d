package alloc

import "errors"

var (
	// ErrInit indicates the arena could not supply the initial heap.
	ErrInit = errors.New("alloc: heap initialization failed")

	// ErrNotInitialized indicates use of an allocator before a successful Init.
	ErrNotInitialized = errors.New("alloc: heap not initialized")

	// ErrNoMemory indicates no free block fits and the arena cannot grow.
	ErrNoMemory = errors.New("alloc: out of memory")

	// ErrSizeTooSmall indicates a request below the configured minimum payload.
	ErrSizeTooSmall = errors.New("alloc: requested size below minimum payload")

	// ErrBadHandle indicates a handle that does not name a block payload.
	ErrBadHandle = errors.New("alloc: bad handle")

	// ErrDoubleFree indicates a handle that is not live: already released or never allocated.
	ErrDoubleFree = errors.New("alloc: handle is not live")
)
