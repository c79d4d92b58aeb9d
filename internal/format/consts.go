// Package format holds the in-band block layout used by the allocator: the
// metadata word encoding, header/footer placement, and the alignment rules.
// It is pure offset arithmetic over a byte slice and never allocates.
package format

const (
	// WordSize is the width of a header or footer word in bytes.
	WordSize = 4

	// DoubleWordSize is the payload alignment and the block size granularity.
	DoubleWordSize = 8

	// Overhead is the metadata cost of one block (header + footer).
	Overhead = 2 * WordSize

	// MinBlockSize is the smallest block that can exist on its own:
	// 8 bytes of metadata plus 8 bytes of usable payload.
	MinBlockSize = 2 * DoubleWordSize

	// PrologueSize is the total size of the prologue sentinel (header + footer, no payload).
	PrologueSize = DoubleWordSize

	// ChunkSize is the default amount the heap grows by when no free block fits.
	ChunkSize = 1 << 12

	// AlignmentMask masks the bits below the block size granularity.
	AlignmentMask = DoubleWordSize - 1

	// AllocBit marks a block as allocated in its metadata word.
	AllocBit = 0x1

	// sizeMask keeps only the size bits of a metadata word.
	sizeMask = ^uint32(AlignmentMask)
)

// Initial heap layout, relative to the arena's low end.
//
//	 0        4          8          12         16
//	| pad    | hdr(8:a) | ftr(8:a) | hdr(0:a) |
//	         |     prologue        | epilogue |
const (
	// PadOffset is the alignment word that keeps payloads 8-byte aligned.
	PadOffset = 0

	// PrologueHeaderOffset is where the prologue header lives.
	PrologueHeaderOffset = PadOffset + WordSize

	// PrologueFooterOffset is where the prologue footer lives.
	PrologueFooterOffset = PrologueHeaderOffset + WordSize

	// EpilogueHeaderOffset is the initial epilogue header position.
	EpilogueHeaderOffset = PrologueFooterOffset + WordSize

	// HeapStart is the payload offset of the prologue; every chain walk starts here.
	HeapStart = PrologueFooterOffset

	// InitialSize is the number of bytes needed for pad, prologue and epilogue.
	InitialSize = 4 * WordSize
)
