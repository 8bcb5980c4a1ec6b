package buddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmapSetClearIsSet(t *testing.T) {
	b := newBitmap(200)
	assert.False(t, b.isSet(0))
	assert.False(t, b.isSet(130))

	b.set(0)
	b.set(130)
	assert.True(t, b.isSet(0))
	assert.True(t, b.isSet(130))
	assert.False(t, b.isSet(1))

	b.clear(0)
	assert.False(t, b.isSet(0))
	assert.True(t, b.isSet(130))
}

func TestIndexRejectsOutOfRange(t *testing.T) {
	assert.Panics(t, func() {
		index(0x1000, 0x0fff, 12, 16)
	}, "address before pool base")

	assert.Panics(t, func() {
		index(0x1000, 0x1000+16*0x1000, 12, 16)
	}, "block index past numBlocks")
}

func TestMempoolMarkAndBuddyAddr(t *testing.T) {
	z, err := NewZone(16, 12, 0)
	require.NoError(t, err)

	pool, err := z.AddPool(0x1_0000_0000, 16, nil)
	require.NoError(t, err)

	// AddPool publishes the whole extent as one free top-order block, so
	// the block at the pool's base starts tagged free.
	assert.True(t, pool.isFree(0x1_0000_0000))

	pool.markAlloc(0x1_0000_0000)
	assert.False(t, pool.isFree(0x1_0000_0000))
	pool.markFree(0x1_0000_0000)
	assert.True(t, pool.isFree(0x1_0000_0000))

	// buddy of the block at relative offset 0 and order 12 is at relative
	// offset 0x1000.
	assert.Equal(t, pool.BaseAddr+0x1000, pool.buddyAddr(pool.BaseAddr, 12))
	// XOR-buddy is its own inverse.
	assert.Equal(t, pool.BaseAddr, pool.buddyAddr(pool.BaseAddr+0x1000, 12))
}
