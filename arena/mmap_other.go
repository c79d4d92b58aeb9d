//go:build !linux && !darwin && !freebsd

package arena

// Mapped falls back to a heap-backed arena where mmap is not available.
type Mapped struct {
	*Mem
	closed bool
}

// NewMapped creates a heap-backed arena with the given limit.
func NewMapped(limit int) (*Mapped, error) {
	if err := checkMax(limit); err != nil {
		return nil, err
	}
	return &Mapped{Mem: NewMem(limit)}, nil
}

// Extend grows the arena by n bytes.
func (m *Mapped) Extend(n int) (int, error) {
	if m.closed {
		return -1, ErrClosed
	}
	return m.Mem.Extend(n)
}

// Close releases the backing buffer.
func (m *Mapped) Close() error {
	m.closed = true
	m.Mem.buf = nil
	return nil
}
