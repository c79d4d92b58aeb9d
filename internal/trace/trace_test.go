package trace

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/arena/alloc"
	"github.com/joshuapare/heapkit/arena/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

func TestParse(t *testing.T) {
	tr, err := Parse(strings.NewReader("100\n2\n3\n1\na 0 10\nr 0 20\n\n# done\nf 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 100, tr.SuggestedHeap)
	assert.Equal(t, 2, tr.NumIDs)
	assert.Equal(t, 1, tr.Weight)
	assert.Equal(t, []Op{
		{Kind: KindAlloc, ID: 0, Size: 10, Line: 5},
		{Kind: KindRealloc, ID: 0, Size: 20, Line: 6},
		{Kind: KindFree, ID: 0, Line: 9},
	}, tr.Ops)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "", "truncated header"},
		{"short header", "1\n2\n3\n", "truncated header"},
		{"bad header", "1\nx\n1\n1\n", "bad header value"},
		{"negative header", "1\n-2\n1\n1\n", "bad header value"},
		{"op count", "1\n1\n2\n1\na 0 8\n", "declares 2 ops, found 1"},
		{"unknown op", "1\n1\n1\n1\nx 0 8\n", "unknown op"},
		{"long op", "1\n1\n1\n1\nalloc 0 8\n", "unknown op"},
		{"missing size", "1\n1\n1\n1\na 0\n", "takes 3 fields"},
		{"free with size", "1\n1\n1\n1\nf 0 8\n", "takes 2 fields"},
		{"bad id", "1\n1\n1\n1\nf x\n", "bad id"},
		{"id out of range", "1\n1\n1\n1\nf 1\n", "out of range"},
		{"bad size", "1\n1\n1\n1\na 0 -8\n", "bad size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseFile(t *testing.T) {
	tr, err := ParseFile(filepath.Join("testdata", "short.rep"))
	require.NoError(t, err)
	assert.Equal(t, "short.rep", tr.Name)
	assert.Len(t, tr.Ops, 12)

	_, err = ParseFile(filepath.Join("testdata", "missing.rep"))
	require.Error(t, err)
}

func newAllocator(limit int) *alloc.ImplicitAllocator {
	return alloc.NewImplicit(arena.NewMem(limit), nil)
}

func TestReplay_Short(t *testing.T) {
	tr, err := ParseFile(filepath.Join("testdata", "short.rep"))
	require.NoError(t, err)

	a := newAllocator(arena.DefaultMaxSize)
	res, err := Replay(a, tr, Options{Check: true})
	require.NoError(t, err)

	assert.Equal(t, "short.rep", res.Name)
	assert.Equal(t, 12, res.Ops)
	assert.Equal(t, 6, res.Allocs)
	assert.Equal(t, 6, res.Frees)
	assert.Equal(t, 8144, res.PeakPayload)
	assert.Equal(t, a.HeapSize(), res.HeapSize)
	assert.Greater(t, res.Utilization(), 0.0)
	assert.LessOrEqual(t, res.Utilization(), 1.0)
	assert.Equal(t, 0, a.Live())
}

func TestReplay_Realloc(t *testing.T) {
	tr, err := ParseFile(filepath.Join("testdata", "realloc.rep"))
	require.NoError(t, err)

	a := newAllocator(arena.DefaultMaxSize)
	res, err := Replay(a, tr, Options{Check: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Allocs)
	assert.Equal(t, 5, res.Reallocs)
	assert.Equal(t, 2, res.Frees)
	assert.Equal(t, 5020, res.PeakPayload)
	assert.Empty(t, a.Check(nil, false))
}

func TestReplay_ReinitializesBetweenTraces(t *testing.T) {
	tr, err := ParseFile(filepath.Join("testdata", "short.rep"))
	require.NoError(t, err)

	a := newAllocator(arena.DefaultMaxSize)
	first, err := Replay(a, tr, Options{})
	require.NoError(t, err)
	second, err := Replay(a, tr, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReplay_OutOfMemory(t *testing.T) {
	tr, err := ParseFile(filepath.Join("testdata", "huge.rep"))
	require.NoError(t, err)

	_, err = Replay(newAllocator(1<<20), tr, Options{})
	require.ErrorIs(t, err, alloc.ErrNoMemory)
	assert.Contains(t, err.Error(), "op 0")

	res, err := Replay(newAllocator(arena.DefaultMaxSize), tr, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2<<20, res.PeakPayload)
}

func TestReplay_InconsistentTrace(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"double alloc", "1\n1\n2\n1\na 0 8\na 0 8\n"},
		{"free unknown", "1\n1\n1\n1\nf 0\n"},
		{"double free", "1\n1\n3\n1\na 0 8\nf 0\nf 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			_, err = Replay(newAllocator(arena.DefaultMaxSize), tr, Options{})
			require.ErrorIs(t, err, ErrBadTrace)
		})
	}
}

func TestReplay_ReallocOfUnknownIDAllocates(t *testing.T) {
	tr, err := Parse(strings.NewReader("1\n1\n2\n1\nr 0 24\nf 0\n"))
	require.NoError(t, err)
	res, err := Replay(newAllocator(arena.DefaultMaxSize), tr, Options{Check: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Reallocs)
	assert.Equal(t, 1, res.Frees)
}

// brokenAllocator hands out the same payload for every request.
type brokenAllocator struct {
	*alloc.ImplicitAllocator
	first alloc.Handle
}

func (b *brokenAllocator) Alloc(n int) (alloc.Handle, error) {
	if b.first.IsZero() {
		h, err := b.ImplicitAllocator.Alloc(n)
		b.first = h
		return h, err
	}
	return alloc.Handle{Off: b.first.Off, Len: n}, nil
}

func TestReplay_DetectsOverlap(t *testing.T) {
	tr, err := Parse(strings.NewReader("1\n2\n2\n1\na 0 32\na 1 32\n"))
	require.NoError(t, err)

	b := &brokenAllocator{ImplicitAllocator: newAllocator(arena.DefaultMaxSize)}
	_, err = Replay(b, tr, Options{})
	require.ErrorIs(t, err, ErrOverlap)
}

// scribbler corrupts the heap after the first free.
type scribbler struct {
	*alloc.ImplicitAllocator
	p *arena.Mem
}

func (s *scribbler) Free(h alloc.Handle) error {
	if err := s.ImplicitAllocator.Free(h); err != nil {
		return err
	}
	// Break the freed block's footer.
	data := s.p.Bytes()
	data[format.FooterOff(h.Off, format.BlockSize(data, h.Off))] ^= 0xff
	return nil
}

func TestReplay_CheckCatchesCorruption(t *testing.T) {
	tr, err := Parse(strings.NewReader("1\n2\n3\n1\na 0 24\na 1 24\nf 0\n"))
	require.NoError(t, err)

	p := arena.NewMem(arena.DefaultMaxSize)
	s := &scribbler{ImplicitAllocator: alloc.NewImplicit(p, nil), p: p}

	_, err = Replay(s, tr, Options{})
	require.NoError(t, err, "without checks the damage goes unnoticed")

	_, err = Replay(s, tr, Options{Check: true})
	require.ErrorIs(t, err, ErrCorrupt)
	var ve *verify.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, verify.TypeHeaderFooter, ve.Type)
}

func TestUtilization_EmptyHeap(t *testing.T) {
	assert.Zero(t, (&Result{}).Utilization())
}
