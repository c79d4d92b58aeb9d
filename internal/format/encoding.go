package format

import (
	"encoding/binary"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Metadata words are stored little-endian. binary.LittleEndian is inlined by the
// compiler, so there is nothing to gain from unsafe loads here.

// PutWord writes a metadata word at off.
func PutWord(b []byte, off int, w uint32) {
	binary.LittleEndian.PutUint32(b[off:off+WordSize], w)
}

// ReadWord reads the metadata word at off.
func ReadWord(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+WordSize])
}

// Word reads the metadata word at off, returning ok = false if it is out of bounds.
// Used by code that walks possibly corrupt heaps.
func Word(b []byte, off int) (uint32, bool) {
	s, ok := buf.Slice(b, off, WordSize)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(s), true
}

// HasWord reports whether a full metadata word at off lies within b.
func HasWord(b []byte, off int) bool {
	return buf.Has(b, off, WordSize)
}
