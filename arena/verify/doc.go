// Package verify walks an allocator heap image and reports structural problems.
//
// # Overview
//
// The heap is a gapless chain of blocks that starts at the prologue sentinel
// and ends at the epilogue sentinel. Every block carries a header word and a
// footer word (see internal/format). Verification reads the chain and
// never writes to it. A damaged heap is reported, not repaired.
//
// # Checks
//
// Heap runs the following checks and reports every violation it finds:
//
//   - Prologue: the first block is allocated with size 8
//   - Alignment: every payload offset is 8-byte aligned
//   - HeaderFooter: header and footer words are bit-identical
//   - Epilogue: the chain ends in an allocated zero-size header at the break
//   - Bounds: no block runs past the end of the arena
//   - BlockSize: every ordinary block is at least format.MinBlockSize
//   - AdjacentFree: no two free blocks sit next to each other
//
// Example:
//
//	for _, verr := range verify.Heap(data, format.HeapStart) {
//	    fmt.Printf("%s\n", verr)
//	}
//
// # Printing
//
// Print writes one line per block, in the layout
//
//	16: header: [4096:f] footer: [4096:f]
//	4112: EOL
//
// # ValidationError
//
// Each problem is a *ValidationError:
//
//	type ValidationError struct {
//	    Type    string         // check category, e.g. "HeaderFooter"
//	    Message string         // human-readable description
//	    Offset  int            // payload offset of the block (-1 if N/A)
//	    Details map[string]any // additional context
//	}
package verify
