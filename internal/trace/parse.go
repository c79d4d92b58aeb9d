package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind is the operation of a trace line.
type Kind byte

const (
	KindAlloc   Kind = 'a'
	KindRealloc Kind = 'r'
	KindFree    Kind = 'f'
)

func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "alloc"
	case KindRealloc:
		return "realloc"
	case KindFree:
		return "free"
	default:
		return fmt.Sprintf("Kind(%q)", byte(k))
	}
}

// Op is one trace operation. Size is zero for frees.
type Op struct {
	Kind Kind
	ID   int
	Size int
	Line int
}

// Trace is a parsed trace file.
type Trace struct {
	Name          string
	SuggestedHeap int
	NumIDs        int
	Weight        int
	Ops           []Op
}

// ParseFile reads and parses the trace at path.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open: %w", err)
	}
	defer f.Close()

	tr, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tr.Name = filepath.Base(path)
	return tr, nil
}

// Parse reads a trace. The number of ops must match the header and every id
// must be below the declared id count.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	tr := &Trace{}
	var header []int
	numOps := 0
	line := 0

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if len(header) < 4 {
			n, err := strconv.Atoi(text)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: bad header value %q", ErrSyntax, line, text)
			}
			header = append(header, n)
			if len(header) == 4 {
				tr.SuggestedHeap, tr.NumIDs, numOps, tr.Weight = header[0], header[1], header[2], header[3]
				tr.Ops = make([]Op, 0, numOps)
			}
			continue
		}

		op, err := parseOp(text, line)
		if err != nil {
			return nil, err
		}
		if op.ID >= tr.NumIDs {
			return nil, fmt.Errorf("%w: line %d: id %d out of range [0, %d)", ErrSyntax, line, op.ID, tr.NumIDs)
		}
		tr.Ops = append(tr.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}

	if len(header) < 4 {
		return nil, fmt.Errorf("%w: truncated header", ErrSyntax)
	}
	if len(tr.Ops) != numOps {
		return nil, fmt.Errorf("%w: header declares %d ops, found %d", ErrSyntax, numOps, len(tr.Ops))
	}
	return tr, nil
}

func parseOp(text string, line int) (Op, error) {
	fields := strings.Fields(text)
	op := Op{Kind: Kind(fields[0][0]), Line: line}
	if len(fields[0]) != 1 {
		return op, fmt.Errorf("%w: line %d: unknown op %q", ErrSyntax, line, fields[0])
	}

	want := 3
	switch op.Kind {
	case KindAlloc, KindRealloc:
	case KindFree:
		want = 2
	default:
		return op, fmt.Errorf("%w: line %d: unknown op %q", ErrSyntax, line, fields[0])
	}
	if len(fields) != want {
		return op, fmt.Errorf("%w: line %d: %s takes %d fields, got %d", ErrSyntax, line, op.Kind, want, len(fields))
	}

	var err error
	if op.ID, err = strconv.Atoi(fields[1]); err != nil || op.ID < 0 {
		return op, fmt.Errorf("%w: line %d: bad id %q", ErrSyntax, line, fields[1])
	}
	if want == 3 {
		if op.Size, err = strconv.Atoi(fields[2]); err != nil || op.Size < 0 {
			return op, fmt.Errorf("%w: line %d: bad size %q", ErrSyntax, line, fields[2])
		}
	}
	return op, nil
}
