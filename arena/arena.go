package arena

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

const (
	// DefaultMaxSize is the default backing store limit (20 MiB).
	DefaultMaxSize = 20 * (1 << 20)

	// MaxSize is the largest arena whose offsets still fit in a metadata word.
	MaxSize = 1<<31 - format.DoubleWordSize
)

// Provider is the raw region the allocator manages.
type Provider interface {
	// Extend grows the region by n bytes and returns the offset where the new
	// space begins (the old break). n must be a multiple of format.WordSize.
	Extend(n int) (int, error)

	// Low returns the offset of the first byte of the region.
	Low() int

	// High returns the offset one past the last byte of the region.
	High() int

	// Bytes returns the region's current contents, len(Bytes()) == High().
	Bytes() []byte

	// Reset moves the break back to Low. Previously returned slices must not be used.
	Reset()
}

// checkExtend validates an Extend request against the current break and limit.
func checkExtend(brk, n, limit int) error {
	if n < 0 || n%format.WordSize != 0 {
		return fmt.Errorf("%w: %d", ErrUnaligned, n)
	}
	if n > limit-brk {
		return fmt.Errorf("%w: break=%d, request=%d, limit=%d", ErrExhausted, brk, n, limit)
	}
	return nil
}

func checkMax(limit int) error {
	if limit < 0 || limit > MaxSize {
		return fmt.Errorf("%w: %d", ErrTooLarge, limit)
	}
	return nil
}
