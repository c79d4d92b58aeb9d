package format

// Each block has a header and footer of the form:
//
//	 31                     3  2  1  0
//	-----------------------------------
//	| s  s  s  s  ... s  s  s  0  0  a |
//	-----------------------------------
//
// where s are the size bits and a is set iff the block is allocated.
// A block pointer (bp) is the payload offset; the header sits one word before it
// and the footer sits in the last word of the block.

// Pack combines a block size and allocation flag into a metadata word.
// Low size bits are dropped so they can never clobber the flag.
func Pack(size int, allocated bool) uint32 {
	w := uint32(size) & sizeMask
	if allocated {
		w |= AllocBit
	}
	return w
}

// SizeOf extracts the block size from a metadata word.
func SizeOf(w uint32) int {
	return int(w & sizeMask)
}

// IsAlloc reports whether the metadata word marks an allocated block.
func IsAlloc(w uint32) bool {
	return w&AllocBit != 0
}

// HeaderOff returns the header offset of the block whose payload starts at bp.
func HeaderOff(bp int) int {
	return bp - WordSize
}

// FooterOff returns the footer offset of a block of the given size at bp.
func FooterOff(bp, size int) int {
	return bp + size - DoubleWordSize
}

// PrevFooterOff returns the offset of the footer of the block preceding bp.
func PrevFooterOff(bp int) int {
	return bp - DoubleWordSize
}

// BlockSize reads the size recorded in bp's header.
func BlockSize(b []byte, bp int) int {
	return SizeOf(ReadWord(b, HeaderOff(bp)))
}

// BlockAlloc reads the allocation flag recorded in bp's header.
func BlockAlloc(b []byte, bp int) bool {
	return IsAlloc(ReadWord(b, HeaderOff(bp)))
}

// SetBlock writes identical header and footer words for the block at bp.
func SetBlock(b []byte, bp, size int, allocated bool) {
	w := Pack(size, allocated)
	PutWord(b, HeaderOff(bp), w)
	PutWord(b, FooterOff(bp, size), w)
}
