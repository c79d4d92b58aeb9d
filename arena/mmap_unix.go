//go:build linux || darwin || freebsd

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mapped is an arena backed by an anonymous private mapping reserved at its
// full limit, so the bytes never move when the break grows.
type Mapped struct {
	mem   []byte
	brk   int
	limit int
}

// NewMapped reserves limit bytes (rounded up to the page size) of address space.
func NewMapped(limit int) (*Mapped, error) {
	if err := checkMax(limit); err != nil {
		return nil, err
	}
	page := unix.Getpagesize()
	size := (limit + page - 1) &^ (page - 1)
	if size == 0 {
		size = page
	}

	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", size, err)
	}
	return &Mapped{mem: mem, limit: limit}, nil
}

// Extend moves the break up by n bytes. The new bytes are zeroed.
func (m *Mapped) Extend(n int) (int, error) {
	if m.mem == nil {
		return -1, ErrClosed
	}
	old := m.brk
	if err := checkExtend(old, n, m.limit); err != nil {
		return -1, err
	}
	m.brk += n
	clear(m.mem[old:m.brk])
	return old, nil
}

// Low returns 0.
func (m *Mapped) Low() int { return 0 }

// High returns the current break.
func (m *Mapped) High() int { return m.brk }

// Bytes returns the mapped bytes up to the break.
func (m *Mapped) Bytes() []byte {
	if m.mem == nil {
		return nil
	}
	return m.mem[:m.brk]
}

// Limit returns the maximum size of the arena.
func (m *Mapped) Limit() int { return m.limit }

// Reset moves the break back to 0 and hands the touched pages back to the kernel.
func (m *Mapped) Reset() {
	if m.mem == nil {
		return
	}
	if m.brk > 0 {
		page := unix.Getpagesize()
		end := min((m.brk+page-1)&^(page-1), len(m.mem))
		// Advisory only; Extend zeroes reused bytes regardless.
		_ = unix.Madvise(m.mem[:end], unix.MADV_DONTNEED)
	}
	m.brk = 0
}

// Close unmaps the arena. Calling Close twice is a no-op.
func (m *Mapped) Close() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	m.brk = 0
	return err
}
