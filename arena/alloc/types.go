package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/internal/format"
)

// Handle names a live payload. Off is the payload's byte offset in the arena
// and Len is the size the caller asked for. The zero Handle names nothing.
type Handle struct {
	Off int
	Len int
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

func (h Handle) String() string {
	return fmt.Sprintf("handle(off=%d, len=%d)", h.Off, h.Len)
}

// Config tunes an allocator. The zero value of each field selects its default.
type Config struct {
	// ChunkSize is the minimum number of bytes the arena grows by. Rounded up to 8.
	ChunkSize int

	// MinPayload is the smallest request Alloc accepts.
	MinPayload int

	// Logger receives allocator diagnostics. Nil selects the package default.
	Logger *slog.Logger
}

// DefaultConfig is used when New or NewImplicit is given a nil config.
var DefaultConfig = Config{
	ChunkSize:  format.ChunkSize,
	MinPayload: 1,
}

// normalize fills in defaults and rounds ChunkSize to the block granularity.
func (c Config) normalize() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultConfig.ChunkSize
	}
	c.ChunkSize = format.Align8(c.ChunkSize)
	if c.MinPayload <= 0 {
		c.MinPayload = DefaultConfig.MinPayload
	}
	if c.Logger == nil {
		c.Logger = defaultLogger()
	}
	return c
}
