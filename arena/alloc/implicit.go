package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// ImplicitAllocator manages an arena as one chain of boundary-tagged blocks.
type ImplicitAllocator struct {
	p   arena.Provider
	cfg Config
	log *slog.Logger

	heapStart int // payload offset of the prologue
	rover     int // next-fit cursor, always a block payload offset
	ready     bool

	// live maps the payload offset of every outstanding handle to its
	// requested length. Only consulted to reject stale handles.
	live map[int]int

	stats Stats
}

// Compile-time interface check.
var _ Allocator = (*ImplicitAllocator)(nil)

// NewImplicit creates an allocator over p. Init must be called before use.
// A nil cfg selects DefaultConfig.
func NewImplicit(p arena.Provider, cfg *Config) *ImplicitAllocator {
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	c = c.normalize()
	return &ImplicitAllocator{
		p:    p,
		cfg:  c,
		log:  c.Logger,
		live: make(map[int]int),
	}
}

// New creates and initializes an allocator over p.
func New(p arena.Provider, cfg *Config) (*ImplicitAllocator, error) {
	ia := NewImplicit(p, cfg)
	if err := ia.Init(); err != nil {
		return nil, err
	}
	return ia, nil
}

// Init discards all blocks and rebuilds the heap: padding word, prologue,
// epilogue and one free chunk of Config.ChunkSize bytes. Every handle issued
// before Init becomes invalid.
func (ia *ImplicitAllocator) Init() error {
	ia.ready = false
	ia.live = make(map[int]int)
	ia.stats = Stats{}
	ia.p.Reset()

	base, err := ia.p.Extend(format.InitialSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}
	data := ia.p.Bytes()
	format.PutWord(data, base+format.PadOffset, 0)
	format.PutWord(data, base+format.PrologueHeaderOffset, format.Pack(format.PrologueSize, true))
	format.PutWord(data, base+format.PrologueFooterOffset, format.Pack(format.PrologueSize, true))
	format.PutWord(data, base+format.EpilogueHeaderOffset, format.Pack(0, true))

	ia.heapStart = base + format.HeapStart
	ia.rover = ia.heapStart

	if _, err := ia.extendHeap(ia.cfg.ChunkSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}
	ia.ready = true

	ia.log.Debug("heap initialized",
		slog.Int("heap_start", ia.heapStart),
		slog.Int("heap_size", ia.HeapSize()),
		slog.Int("chunk", ia.cfg.ChunkSize))
	return nil
}

// Alloc returns a handle to a payload of at least n bytes, aligned to 8.
func (ia *ImplicitAllocator) Alloc(n int) (Handle, error) {
	if !ia.ready {
		return Handle{}, ErrNotInitialized
	}
	if n < ia.cfg.MinPayload {
		ia.log.Warn("alloc rejected", slog.Int("size", n), slog.Int("min", ia.cfg.MinPayload))
		return Handle{}, fmt.Errorf("%w: %d < %d", ErrSizeTooSmall, n, ia.cfg.MinPayload)
	}
	if n > arena.MaxSize-format.Overhead {
		return Handle{}, fmt.Errorf("%w: request of %d bytes", ErrNoMemory, n)
	}
	ia.stats.AllocCalls++

	asize := format.AdjustedSize(n)
	bp, ok := ia.findFit(asize)
	if !ok {
		ia.stats.AllocSlowPath++
		var err error
		bp, err = ia.extendHeap(max(asize, ia.cfg.ChunkSize))
		if err != nil {
			ia.log.Warn("heap exhausted",
				slog.Int("size", n),
				slog.Int("heap_size", ia.HeapSize()),
				slog.Any("err", err))
			return Handle{}, fmt.Errorf("%w: %w", ErrNoMemory, err)
		}
	}
	ia.place(bp, asize)

	ia.live[bp] = n
	ia.stats.BytesAllocated += int64(n)
	return Handle{Off: bp, Len: n}, nil
}

// place marks asize bytes of the free block at bp allocated. The remainder
// becomes a free block when it is big enough to stand alone.
func (ia *ImplicitAllocator) place(bp, asize int) {
	data := ia.p.Bytes()
	csize := format.BlockSize(data, bp)

	if csize-asize >= format.MinBlockSize {
		format.SetBlock(data, bp, asize, true)
		rest := bp + asize
		format.SetBlock(data, rest, csize-asize, false)
		ia.stats.Splits++
		ia.coalesce(rest)
	} else {
		format.SetBlock(data, bp, csize, true)
	}
	ia.rover = bp
}

// Free releases h. Freeing the zero Handle is a no-op. Handles that are out
// of range, misaligned, never issued or already released are rejected and
// leave the heap untouched.
func (ia *ImplicitAllocator) Free(h Handle) error {
	if h.IsZero() && ia.ready {
		return nil
	}
	if err := ia.checkLive(h); err != nil {
		ia.log.Warn("free rejected", slog.String("handle", h.String()), slog.Any("err", err))
		return err
	}
	ia.stats.FreeCalls++

	data := ia.p.Bytes()
	size := format.BlockSize(data, h.Off)
	format.SetBlock(data, h.Off, size, false)
	delete(ia.live, h.Off)
	ia.stats.BytesFreed += int64(h.Len)

	ia.coalesce(h.Off)
	return nil
}

// Realloc moves h into a fresh block of n bytes. The first min(usable, n)
// bytes are copied and h is released. A zero h behaves like Alloc(n), and
// n == 0 releases h and returns the zero Handle. If the new block cannot be
// obtained, h is left live and unchanged.
func (ia *ImplicitAllocator) Realloc(h Handle, n int) (Handle, error) {
	if h.IsZero() {
		return ia.Alloc(n)
	}
	if err := ia.checkLive(h); err != nil {
		return Handle{}, err
	}
	if n == 0 {
		return Handle{}, ia.Free(h)
	}
	ia.stats.ReallocCalls++

	nh, err := ia.Alloc(n)
	if err != nil {
		return Handle{}, fmt.Errorf("realloc %s to %d bytes: %w", h, n, err)
	}

	// Alloc may have grown the arena.
	data := ia.p.Bytes()
	oldUsable := format.BlockSize(data, h.Off) - format.Overhead
	copy(data[nh.Off:nh.Off+min(oldUsable, n)], data[h.Off:h.Off+oldUsable])

	if err := ia.Free(h); err != nil {
		return Handle{}, err
	}
	return nh, nil
}

// Bytes returns the payload of h. The slice aliases the arena and is only
// valid until the next call that can grow it.
func (ia *ImplicitAllocator) Bytes(h Handle) ([]byte, error) {
	if err := ia.checkLive(h); err != nil {
		return nil, err
	}
	end := h.Off + h.Len
	return ia.p.Bytes()[h.Off:end:end], nil
}

// Usable returns the payload capacity of the block behind h, which is at
// least h.Len.
func (ia *ImplicitAllocator) Usable(h Handle) (int, error) {
	if err := ia.checkLive(h); err != nil {
		return 0, err
	}
	return format.BlockSize(ia.p.Bytes(), h.Off) - format.Overhead, nil
}

// Live returns the number of outstanding handles.
func (ia *ImplicitAllocator) Live() int { return len(ia.live) }

// HeapBytes returns the whole arena, metadata included. Callers must not
// modify it.
func (ia *ImplicitAllocator) HeapBytes() []byte { return ia.p.Bytes() }

// HeapStart returns the payload offset of the prologue.
func (ia *ImplicitAllocator) HeapStart() int { return ia.heapStart }

// HeapSize returns the number of arena bytes in use, sentinels included.
func (ia *ImplicitAllocator) HeapSize() int { return ia.p.High() - ia.p.Low() }

// checkLive validates h against the arena bounds and the live set.
func (ia *ImplicitAllocator) checkLive(h Handle) error {
	if !ia.ready {
		return ErrNotInitialized
	}
	// The first user payload follows the prologue.
	lo := ia.heapStart + format.PrologueSize
	if !buf.Within(h.Off, lo, ia.p.High()) || !format.IsAligned8(h.Off) {
		return fmt.Errorf("%w: %s outside heap", ErrBadHandle, h)
	}
	n, ok := ia.live[h.Off]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDoubleFree, h)
	}
	if n != h.Len {
		return fmt.Errorf("%w: %s, live length is %d", ErrBadHandle, h, n)
	}
	return nil
}

// extendHeap grows the arena by bytes (rounded up to 8), turns the new space
// into a free block and returns it after merging with a trailing free block.
func (ia *ImplicitAllocator) extendHeap(bytes int) (int, error) {
	size := format.Align8(bytes)
	old, err := ia.p.Extend(size)
	if err != nil {
		return 0, err
	}
	ia.stats.GrowCalls++
	ia.stats.GrowBytes += int64(size)

	// The old epilogue header becomes the new block's header.
	data := ia.p.Bytes()
	bp := old
	format.SetBlock(data, bp, size, false)
	format.PutWord(data, format.HeaderOff(bp+size), format.Pack(0, true))

	ia.log.Debug("heap extended",
		slog.Int("bytes", size),
		slog.Int("heap_size", ia.HeapSize()))

	return ia.coalesce(bp), nil
}
