package alloc

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/arena/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// newTestAllocator returns an initialized allocator over a heap-backed arena.
func newTestAllocator(t testing.TB, limit int) *ImplicitAllocator {
	t.Helper()
	ia, err := New(arena.NewMem(limit), nil)
	require.NoError(t, err, "allocator init should succeed")
	return ia
}

// blocks returns every block between the prologue and the epilogue.
func blocks(ia *ImplicitAllocator) []verify.Block {
	var out []verify.Block
	verify.Walk(ia.p.Bytes(), ia.heapStart, func(b verify.Block) bool {
		if b.Off != ia.heapStart {
			out = append(out, b)
		}
		return true
	})
	return out
}

// freeBlocks returns the free blocks in address order.
func freeBlocks(ia *ImplicitAllocator) []verify.Block {
	var out []verify.Block
	for _, b := range blocks(ia) {
		if !b.Alloc {
			out = append(out, b)
		}
	}
	return out
}

// assertInvariants checks the heap structure and the live handle set:
// a clean Check, every live handle on an allocated block large enough for
// it, and no two live payloads overlapping.
func assertInvariants(t *testing.T, ia *ImplicitAllocator) {
	t.Helper()

	var out bytes.Buffer
	errs := ia.Check(&out, false)
	require.Empty(t, errs, "heap check failed:\n%s", out.String())

	data := ia.p.Bytes()
	offs := make([]int, 0, len(ia.live))
	for off, n := range ia.live {
		require.True(t, format.BlockAlloc(data, off), "live handle at %d must be allocated", off)
		usable := format.BlockSize(data, off) - format.Overhead
		require.GreaterOrEqual(t, usable, n, "live handle at %d must fit its block", off)
		assert.Zero(t, off%format.DoubleWordSize, "payload at %d must be 8-byte aligned", off)
		offs = append(offs, off)
	}

	sort.Ints(offs)
	for i := 1; i < len(offs); i++ {
		prevEnd := offs[i-1] + ia.live[offs[i-1]]
		require.LessOrEqual(t, prevEnd, offs[i], "payloads at %d and %d overlap", offs[i-1], offs[i])
	}

	// The cursor always sits on a block boundary.
	onBoundary := ia.rover == ia.heapStart
	for _, b := range blocks(ia) {
		if b.Off == ia.rover {
			onBoundary = true
		}
	}
	assert.True(t, onBoundary, "cursor %d is not a block start", ia.rover)
}

// fill writes a pattern derived from seed into the payload of h.
func fill(t *testing.T, ia *ImplicitAllocator, h Handle, seed byte) {
	t.Helper()
	p, err := ia.Bytes(h)
	require.NoError(t, err)
	for i := range p {
		p[i] = seed + byte(i)
	}
}

// assertFilled verifies that the first n bytes of h still carry the pattern from fill.
func assertFilled(t *testing.T, ia *ImplicitAllocator, h Handle, seed byte, n int) {
	t.Helper()
	p, err := ia.Bytes(h)
	require.NoError(t, err)
	for i := range min(n, len(p)) {
		if p[i] != seed+byte(i) {
			t.Fatalf("payload %s corrupted at byte %d: got %#x, want %#x", h, i, p[i], seed+byte(i))
		}
	}
}
