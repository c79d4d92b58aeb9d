package main

import (
	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/arena/alloc"
)

// heapOptions are the arena flags shared by replay and check.
type heapOptions struct {
	mapped  bool
	maxHeap int
	chunk   int
}

func (o *heapOptions) register(flags interface {
	BoolVar(p *bool, name string, value bool, usage string)
	IntVar(p *int, name string, value int, usage string)
}) {
	flags.BoolVar(&o.mapped, "mmap", false, "Back the heap with an anonymous memory mapping")
	flags.IntVar(&o.maxHeap, "max-heap", arena.DefaultMaxSize, "Maximum heap size in bytes")
	flags.IntVar(&o.chunk, "chunk", alloc.DefaultConfig.ChunkSize, "Minimum heap extension in bytes")
}

// newAllocator creates an uninitialized allocator and a function that
// releases its arena.
func newAllocator(o heapOptions) (*alloc.ImplicitAllocator, func() error, error) {
	cfg := &alloc.Config{ChunkSize: o.chunk, Logger: logger}

	if o.mapped {
		m, err := arena.NewMapped(o.maxHeap)
		if err != nil {
			return nil, nil, err
		}
		return alloc.NewImplicit(m, cfg), m.Close, nil
	}
	return alloc.NewImplicit(arena.NewMem(o.maxHeap), cfg), func() error { return nil }, nil
}
