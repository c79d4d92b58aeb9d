package alloc

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds allocator counters.
type Stats struct {
	AllocCalls     int   // Total Alloc() calls that reached placement
	AllocSlowPath  int   // Allocations that required extending the arena
	FreeCalls      int   // Total successful Free() calls
	ReallocCalls   int   // Total Realloc() calls that moved a payload
	BytesAllocated int64 // Requested payload bytes handed out
	BytesFreed     int64 // Requested payload bytes released
	GrowCalls      int   // Number of arena extensions
	GrowBytes      int64 // Total bytes added by extensions
	Splits         int   // Blocks split during placement
	CoalesceNone   int   // Both neighbors allocated
	CoalesceNext   int   // Merged with the following block
	CoalescePrev   int   // Merged with the preceding block
	CoalesceBoth   int   // Merged with both neighbors
	ScanSteps      int   // Blocks visited by the fit search
	ScanWraps      int   // Searches that wrapped around to the prologue
}

// Stats returns a snapshot of the allocator counters.
func (ia *ImplicitAllocator) Stats() Stats {
	return ia.stats
}

// PrintStats writes a human-readable summary of the counters to w.
func (ia *ImplicitAllocator) PrintStats(w io.Writer) {
	s := ia.stats
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\n=== ALLOCATOR STATISTICS ===\n")
	p.Fprintf(w, "Heap size:          %d bytes (%d live handles)\n", ia.HeapSize(), len(ia.live))
	p.Fprintf(w, "Grow calls:         %d (%d bytes added)\n", s.GrowCalls, s.GrowBytes)
	p.Fprintf(w, "Alloc calls:        %d (extended: %d)\n", s.AllocCalls, s.AllocSlowPath)
	p.Fprintf(w, "Free calls:         %d\n", s.FreeCalls)
	p.Fprintf(w, "Realloc calls:      %d\n", s.ReallocCalls)
	p.Fprintf(w, "Bytes allocated:    %d\n", s.BytesAllocated)
	p.Fprintf(w, "Bytes freed:        %d\n", s.BytesFreed)
	p.Fprintf(w, "Block splits:       %d\n", s.Splits)
	p.Fprintf(w, "Coalesce:           none %d, next %d, prev %d, both %d\n",
		s.CoalesceNone, s.CoalesceNext, s.CoalescePrev, s.CoalesceBoth)
	if s.AllocCalls > 0 {
		p.Fprintf(w, "Scan steps:         %d (%.1f per alloc, %d wraps)\n",
			s.ScanSteps, float64(s.ScanSteps)/float64(s.AllocCalls), s.ScanWraps)
	}
}
