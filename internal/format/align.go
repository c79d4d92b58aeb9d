package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// IsAligned8 reports whether n sits on an 8-byte boundary.
func IsAligned8(n int) bool {
	return n&AlignmentMask == 0
}

// AdjustedSize converts a requested payload size into the total block size:
// payload plus header/footer, rounded up to 8 bytes, never below MinBlockSize.
//
// Example:
//
//	AdjustedSize(1)  = 16
//	AdjustedSize(8)  = 16
//	AdjustedSize(9)  = 24
//	AdjustedSize(32) = 40
func AdjustedSize(payload int) int {
	if payload <= DoubleWordSize {
		return MinBlockSize
	}
	return Align8(payload + Overhead)
}
