package arena

// minGrowth is the smallest capacity Mem allocates when it first grows.
const minGrowth = 1 << 12

// Mem is a heap-backed arena.
type Mem struct {
	buf   []byte
	limit int
}

// NewMem creates an empty arena that may grow up to limit bytes.
// Limits above MaxSize are clamped.
func NewMem(limit int) *Mem {
	if checkMax(limit) != nil {
		limit = max(0, min(limit, MaxSize))
	}
	return &Mem{limit: limit}
}

// Extend grows the arena by n bytes. The new bytes are zeroed.
func (m *Mem) Extend(n int) (int, error) {
	old := len(m.buf)
	if err := checkExtend(old, n, m.limit); err != nil {
		return -1, err
	}

	need := old + n
	if need > cap(m.buf) {
		newCap := max(2*cap(m.buf), need, minGrowth)
		newCap = min(newCap, m.limit)
		nb := make([]byte, old, newCap)
		copy(nb, m.buf)
		m.buf = nb
	}

	m.buf = m.buf[:need]
	clear(m.buf[old:need])
	return old, nil
}

// Low returns 0.
func (m *Mem) Low() int { return 0 }

// High returns the current break.
func (m *Mem) High() int { return len(m.buf) }

// Bytes returns the arena contents up to the break.
func (m *Mem) Bytes() []byte { return m.buf }

// Limit returns the maximum size of the arena.
func (m *Mem) Limit() int { return m.limit }

// Reset moves the break back to 0, keeping the allocated capacity.
func (m *Mem) Reset() {
	m.buf = m.buf[:0]
}
