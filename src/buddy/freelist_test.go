package buddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeListEmptyPushFrontRemove(t *testing.T) {
	var l freeList
	l.init(12)
	assert.True(t, l.empty())
	assert.Nil(t, l.first())

	pool := &Mempool{}
	h1 := &blockHeader{order: 12, pool: pool, idx: 0}
	h2 := &blockHeader{order: 12, pool: pool, idx: 1}

	l.pushFront(h1)
	assert.False(t, l.empty())
	assert.Same(t, h1, l.first())
	assert.Nil(t, l.nextAfter(h1))

	l.pushFront(h2)
	assert.Same(t, h2, l.first(), "pushFront inserts at head")
	assert.Same(t, h1, l.nextAfter(h2))
	assert.Equal(t, 2, l.count())

	h2.remove()
	assert.Same(t, h1, l.first())
	assert.Equal(t, 1, l.count())

	h1.remove()
	assert.True(t, l.empty())
}

func TestAddrOfUsesPoolBaseAndIndex(t *testing.T) {
	pool := &Mempool{BaseAddr: 0x1000, zone: &Zone{MinOrder: 12}}
	h := &blockHeader{pool: pool, idx: 3}
	assert.Equal(t, uint64(0x1000+3*0x1000), addrOf(h))
}
