package trace

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/joshuapare/heapkit/arena/alloc"
	"github.com/joshuapare/heapkit/internal/format"
)

// Options control Replay.
type Options struct {
	// Check runs the allocator's heap check after every op.
	Check bool

	// Logger receives a summary line per trace. Nil discards.
	Logger *slog.Logger
}

// Result summarizes a replay.
type Result struct {
	Name     string
	Ops      int
	Allocs   int
	Reallocs int
	Frees    int

	// PeakPayload is the largest total of live requested bytes at any point.
	PeakPayload int

	// HeapSize is the arena size when the trace finished.
	HeapSize int
}

// Utilization is peak live payload over final heap size, in [0, 1].
func (r *Result) Utilization() float64 {
	if r.HeapSize == 0 {
		return 0
	}
	return float64(r.PeakPayload) / float64(r.HeapSize)
}

// span is a live payload as seen by the replayer.
type span struct {
	off, end int
	id       int
}

type replayer struct {
	a     alloc.Allocator
	opts  Options
	live  map[int]alloc.Handle
	spans []span // sorted by off
	total int
	res   *Result
}

// Replay initializes a and runs every op of tr against it. Each payload is
// filled with a pattern derived from its id and verified when it is freed or
// moved. Payloads must be aligned, inside the heap and disjoint from every
// other live payload. The first violation stops the replay.
func Replay(a alloc.Allocator, tr *Trace, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := a.Init(); err != nil {
		return nil, err
	}

	r := &replayer{
		a:    a,
		opts: opts,
		live: make(map[int]alloc.Handle, tr.NumIDs),
		res:  &Result{Name: tr.Name},
	}
	for i, op := range tr.Ops {
		if err := r.step(op); err != nil {
			return r.res, fmt.Errorf("op %d (line %d, %s id %d): %w", i, op.Line, op.Kind, op.ID, err)
		}
		if opts.Check {
			if errs := a.Check(nil, false); len(errs) > 0 {
				return r.res, fmt.Errorf("op %d (line %d): %w: %w", i, op.Line, ErrCorrupt, errs[0])
			}
		}
		r.res.Ops++
	}
	r.res.HeapSize = a.HeapSize()

	opts.Logger.Debug("trace replayed",
		slog.String("trace", tr.Name),
		slog.Int("ops", r.res.Ops),
		slog.Int("heap_size", r.res.HeapSize),
		slog.Float64("util", r.res.Utilization()))
	return r.res, nil
}

func (r *replayer) step(op Op) error {
	switch op.Kind {
	case KindAlloc:
		if _, ok := r.live[op.ID]; ok {
			return fmt.Errorf("%w: id already live", ErrBadTrace)
		}
		h, err := r.a.Alloc(op.Size)
		if err != nil {
			return err
		}
		r.res.Allocs++
		return r.track(op.ID, h)

	case KindRealloc:
		old := r.live[op.ID]
		if !old.IsZero() {
			if err := r.verify(op.ID, old, old.Len); err != nil {
				return err
			}
		}
		h, err := r.a.Realloc(old, op.Size)
		if err != nil {
			return err
		}
		r.res.Reallocs++
		r.untrack(op.ID)
		if h.IsZero() {
			return nil
		}
		if err := r.verify(op.ID, h, min(old.Len, op.Size)); err != nil {
			return err
		}
		return r.track(op.ID, h)

	case KindFree:
		h, ok := r.live[op.ID]
		if !ok {
			return fmt.Errorf("%w: free of id that is not live", ErrBadTrace)
		}
		if err := r.verify(op.ID, h, h.Len); err != nil {
			return err
		}
		if err := r.a.Free(h); err != nil {
			return err
		}
		r.res.Frees++
		r.untrack(op.ID)
		return nil
	}
	return fmt.Errorf("%w: unknown op %s", ErrBadTrace, op.Kind)
}

// track checks a fresh payload against the heap and every live payload, then
// fills it.
func (r *replayer) track(id int, h alloc.Handle) error {
	if h.Off%format.DoubleWordSize != 0 {
		return fmt.Errorf("%w: %s", ErrMisaligned, h)
	}
	if h.Off < 0 || h.Off+h.Len > r.a.HeapSize() {
		return fmt.Errorf("%w: %s, heap size %d", ErrOutOfHeap, h, r.a.HeapSize())
	}

	s := span{off: h.Off, end: h.Off + h.Len, id: id}
	i, _ := slices.BinarySearchFunc(r.spans, s.off, func(e span, off int) int { return e.off - off })
	if i > 0 && r.spans[i-1].end > s.off {
		return fmt.Errorf("%w: %s and id %d", ErrOverlap, h, r.spans[i-1].id)
	}
	if i < len(r.spans) && r.spans[i].off < s.end {
		return fmt.Errorf("%w: %s and id %d", ErrOverlap, h, r.spans[i].id)
	}
	r.spans = slices.Insert(r.spans, i, s)

	// A preserved realloc prefix already holds these bytes.
	p, err := r.a.Bytes(h)
	if err != nil {
		return err
	}
	for j := range p {
		p[j] = pattern(id, j)
	}

	r.live[id] = h
	r.total += h.Len
	r.res.PeakPayload = max(r.res.PeakPayload, r.total)
	return nil
}

func (r *replayer) untrack(id int) {
	h, ok := r.live[id]
	if !ok {
		return
	}
	delete(r.live, id)
	r.total -= h.Len
	r.spans = slices.DeleteFunc(r.spans, func(s span) bool { return s.id == id })
}

// verify checks the first n bytes of h against the fill pattern of id.
func (r *replayer) verify(id int, h alloc.Handle, n int) error {
	p, err := r.a.Bytes(h)
	if err != nil {
		return err
	}
	for j := range min(n, len(p)) {
		if p[j] != pattern(id, j) {
			return fmt.Errorf("%w: id %d at payload byte %d", ErrPayload, id, j)
		}
	}
	return nil
}

func pattern(id, i int) byte {
	return byte(id*31 + i)
}
