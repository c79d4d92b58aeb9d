package arena

import "errors"

var (
	// ErrExhausted indicates the backing store cannot supply the requested bytes.
	ErrExhausted = errors.New("arena: out of memory")

	// ErrUnaligned indicates an Extend request that is not a multiple of the word size.
	ErrUnaligned = errors.New("arena: extend size must be a non-negative multiple of the word size")

	// ErrTooLarge indicates a maximum size the 32-bit block metadata cannot describe.
	ErrTooLarge = errors.New("arena: maximum size exceeds block metadata range")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("arena: closed")
)
