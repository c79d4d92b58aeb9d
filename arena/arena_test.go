package arena

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// providers returns one instance of every Provider implementation, each limited to limit bytes.
func providers(t *testing.T, limit int) map[string]Provider {
	t.Helper()

	mapped, err := NewMapped(limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mapped.Close() })

	return map[string]Provider{
		"mem":    NewMem(limit),
		"mapped": mapped,
	}
}

func TestProvider_ExtendReturnsOldBreak(t *testing.T) {
	for name, p := range providers(t, 1<<16) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0, p.Low())
			assert.Equal(t, 0, p.High())

			old, err := p.Extend(16)
			require.NoError(t, err)
			assert.Equal(t, 0, old)

			old, err = p.Extend(4096)
			require.NoError(t, err)
			assert.Equal(t, 16, old)
			assert.Equal(t, 16+4096, p.High())
			assert.Len(t, p.Bytes(), p.High())
		})
	}
}

func TestProvider_ContentSurvivesGrowth(t *testing.T) {
	for name, p := range providers(t, 1<<20) {
		t.Run(name, func(t *testing.T) {
			_, err := p.Extend(8)
			require.NoError(t, err)
			copy(p.Bytes(), "heapkit!")

			// Force several reallocations of the heap-backed buffer.
			for range 10 {
				_, err = p.Extend(1 << 14)
				require.NoError(t, err)
			}
			assert.Equal(t, "heapkit!", string(p.Bytes()[:8]))
		})
	}
}

func TestProvider_Exhaustion(t *testing.T) {
	for name, p := range providers(t, 64) {
		t.Run(name, func(t *testing.T) {
			_, err := p.Extend(48)
			require.NoError(t, err)

			_, err = p.Extend(24)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrExhausted), "got %v", err)
			assert.Equal(t, 48, p.High(), "failed extend must not move the break")

			_, err = p.Extend(16)
			require.NoError(t, err, "filling up to the limit exactly is allowed")
			assert.Equal(t, 64, p.High())
		})
	}
}

func TestProvider_RejectsUnaligned(t *testing.T) {
	for name, p := range providers(t, 1<<12) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{-4, 1, 6, 4094} {
				_, err := p.Extend(n)
				assert.ErrorIs(t, err, ErrUnaligned, "Extend(%d)", n)
			}
			assert.Equal(t, 0, p.High())
		})
	}
}

func TestProvider_ResetZeroesReusedSpace(t *testing.T) {
	for name, p := range providers(t, 1<<12) {
		t.Run(name, func(t *testing.T) {
			_, err := p.Extend(32)
			require.NoError(t, err)
			for i := range p.Bytes() {
				p.Bytes()[i] = 0xAB
			}

			p.Reset()
			assert.Equal(t, 0, p.High())

			_, err = p.Extend(32)
			require.NoError(t, err)
			assert.Equal(t, make([]byte, 32), p.Bytes())
		})
	}
}

func TestNewMapped_TooLarge(t *testing.T) {
	_, err := NewMapped(MaxSize + 8)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestMapped_Close(t *testing.T) {
	m, err := NewMapped(1 << 12)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "second Close is a no-op")

	_, err = m.Extend(8)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewMem_ClampsLimit(t *testing.T) {
	assert.Equal(t, 0, NewMem(-1).Limit())
	assert.Equal(t, MaxSize, NewMem(MaxSize+1024).Limit())
}
