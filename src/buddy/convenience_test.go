package buddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPoolSizedExactPowerOfTwo(t *testing.T) {
	z, err := NewZone(24, 12, 0)
	require.NoError(t, err)

	pool, err := z.AddPoolSized(0x1_0000_0000, 1<<20, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(20), pool.PoolOrder)
}

func TestAddPoolSizedRoundsDownNonPowerOfTwo(t *testing.T) {
	z, err := NewZone(24, 12, 0)
	require.NoError(t, err)

	pool, err := z.AddPoolSized(0x1_0000_0000, (1<<20)+123, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(20), pool.PoolOrder)
}

func TestAddPoolSizedRejectsZero(t *testing.T) {
	z, err := NewZone(24, 12, 0)
	require.NoError(t, err)

	_, err = z.AddPoolSized(0x1_0000_0000, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}
