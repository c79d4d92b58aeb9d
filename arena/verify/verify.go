package verify

import (
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/internal/format"
)

// Check categories reported in ValidationError.Type.
const (
	TypePrologue     = "Prologue"
	TypeAlignment    = "Alignment"
	TypeHeaderFooter = "HeaderFooter"
	TypeEpilogue     = "Epilogue"
	TypeBounds       = "Bounds"
	TypeBlockSize    = "BlockSize"
	TypeAdjacentFree = "AdjacentFree"
)

// ValidationError describes one structural problem in a heap image.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Block is one entry of the chain as recorded in its header.
type Block struct {
	Off   int // payload offset
	Size  int // total size including header and footer
	Alloc bool
}

// Walk calls fn for every block from the prologue up to, but excluding, the
// epilogue. It stops early when fn returns false or the chain leaves the arena.
// It returns the payload offset where the walk stopped, which is the epilogue's
// on a well-formed heap.
func Walk(data []byte, heapStart int, fn func(Block) bool) int {
	bp := heapStart
	for {
		w, ok := format.Word(data, format.HeaderOff(bp))
		if !ok {
			return bp
		}
		size := format.SizeOf(w)
		if size == 0 {
			return bp
		}
		if !fn(Block{Off: bp, Size: size, Alloc: format.IsAlloc(w)}) {
			return bp
		}
		bp += size
	}
}

// Heap checks the heap image in data whose prologue payload is at heapStart.
// It returns every violation found, or nil for a consistent heap.
func Heap(data []byte, heapStart int) []*ValidationError {
	var errs []*ValidationError

	w, ok := format.Word(data, format.HeaderOff(heapStart))
	if !ok {
		return append(errs, &ValidationError{
			Type:    TypePrologue,
			Message: fmt.Sprintf("heap too small for a prologue: %d bytes", len(data)),
			Offset:  -1,
		})
	}
	if format.SizeOf(w) != format.PrologueSize || !format.IsAlloc(w) {
		errs = append(errs, &ValidationError{
			Type:    TypePrologue,
			Message: "bad prologue header",
			Offset:  heapStart,
			Details: map[string]any{"size": format.SizeOf(w), "allocated": format.IsAlloc(w)},
		})
	}

	prevFree := false
	end := Walk(data, heapStart, func(b Block) bool {
		errs = append(errs, checkBlock(data, b)...)

		if b.Off != heapStart && b.Size < format.MinBlockSize {
			errs = append(errs, &ValidationError{
				Type:    TypeBlockSize,
				Message: fmt.Sprintf("block size %d below minimum %d", b.Size, format.MinBlockSize),
				Offset:  b.Off,
			})
		}
		if !b.Alloc && prevFree {
			errs = append(errs, &ValidationError{
				Type:    TypeAdjacentFree,
				Message: "free block follows another free block",
				Offset:  b.Off,
			})
		}
		prevFree = !b.Alloc

		if format.HeaderOff(b.Off+b.Size)+format.WordSize > len(data) {
			errs = append(errs, &ValidationError{
				Type:    TypeBounds,
				Message: fmt.Sprintf("block of size %d runs past arena end %d", b.Size, len(data)),
				Offset:  b.Off,
			})
			return false
		}
		return true
	})

	return append(errs, checkEpilogue(data, end)...)
}

func checkBlock(data []byte, b Block) []*ValidationError {
	var errs []*ValidationError

	if !format.IsAligned8(b.Off) {
		errs = append(errs, &ValidationError{
			Type:    TypeAlignment,
			Message: "payload is not doubleword aligned",
			Offset:  b.Off,
		})
	}

	hdr := format.ReadWord(data, format.HeaderOff(b.Off))
	ftr, ok := format.Word(data, format.FooterOff(b.Off, b.Size))
	if !ok {
		// Reported as a bounds problem by the caller.
		return errs
	}
	if hdr != ftr {
		errs = append(errs, &ValidationError{
			Type:    TypeHeaderFooter,
			Message: "header does not match footer",
			Offset:  b.Off,
			Details: map[string]any{"header": hdr, "footer": ftr},
		})
	}
	return errs
}

func checkEpilogue(data []byte, bp int) []*ValidationError {
	w, ok := format.Word(data, format.HeaderOff(bp))
	if !ok {
		return []*ValidationError{{
			Type:    TypeEpilogue,
			Message: "chain ends outside the arena",
			Offset:  bp,
		}}
	}
	if format.SizeOf(w) != 0 || !format.IsAlloc(w) {
		return []*ValidationError{{
			Type:    TypeEpilogue,
			Message: "bad epilogue header",
			Offset:  bp,
			Details: map[string]any{"size": format.SizeOf(w), "allocated": format.IsAlloc(w)},
		}}
	}
	if format.HeaderOff(bp)+format.WordSize != len(data) {
		return []*ValidationError{{
			Type:    TypeEpilogue,
			Message: fmt.Sprintf("epilogue is not the last word of the arena (len=%d)", len(data)),
			Offset:  bp,
		}}
	}
	return nil
}

// Print writes the chain in data, one block per line, ending with the epilogue.
func Print(w io.Writer, data []byte, heapStart int) {
	fmt.Fprintf(w, "Heap (%d):\n", heapStart)
	end := Walk(data, heapStart, func(b Block) bool {
		printBlock(w, data, b)
		return format.HasWord(data, format.FooterOff(b.Off, b.Size))
	})
	fmt.Fprintf(w, "%d: EOL\n", end)
}

func printBlock(w io.Writer, data []byte, b Block) {
	hdr := format.ReadWord(data, format.HeaderOff(b.Off))
	ftr, ok := format.Word(data, format.FooterOff(b.Off, b.Size))
	if !ok {
		fmt.Fprintf(w, "%d: header: [%d:%c] footer: [out of bounds]\n",
			b.Off, format.SizeOf(hdr), flag(hdr))
		return
	}
	fmt.Fprintf(w, "%d: header: [%d:%c] footer: [%d:%c]\n",
		b.Off, format.SizeOf(hdr), flag(hdr), format.SizeOf(ftr), flag(ftr))
}

func flag(w uint32) byte {
	if format.IsAlloc(w) {
		return 'a'
	}
	return 'f'
}
