package buddy

import "unsafe"

// blockHeader is the free-list membership record for one minimum-order
// block's worth of address space within a pool. A classic buddy allocator
// overlays this header in place at the start of the free block itself,
// but a hypervisor's pools are host physical address ranges that aren't
// necessarily mapped into this process's own virtual address space --
// overlaying a Go struct at an arbitrary physical address isn't
// something a hosted Go process can safely do, and it's the riskier
// choice anyway once allocated memory may be DMA'd into by devices. So
// headers live out-of-line instead: Mempool.headers is a side table, one
// entry per minimum-order block, allocated alongside the bitmap in
// AddPool. The split/merge algorithm and free-list semantics are
// unaffected by this choice -- only where a header's bytes physically
// live changes.
type blockHeader struct {
	order uint
	pool  *Mempool
	idx   uint64 // this block's minimum-order block index within pool
	next  *blockHeader
	prev  *blockHeader
}

// headerSize is the number of bytes a free-block header occupies. Under
// the out-of-line side-table design this no longer constrains how small
// a pool's minimum order may be (no header is ever overlaid on pool
// memory), but NewZone still raises too-small min orders as if headers
// were stored in-place, so the allocator's externally observable sizing
// behavior matches a classic in-place implementation.
const headerSize = unsafe.Sizeof(blockHeader{})

func addrOf(h *blockHeader) uint64 {
	return h.pool.BaseAddr + (h.idx << h.pool.zone.MinOrder)
}

// freeList is one doubly linked, circular list of free blocks at a single
// order. The sentinel (head) never holds a real block; an empty list is one
// where head.next == head.
type freeList struct {
	sentinel blockHeader
}

func (l *freeList) init(order uint) {
	l.sentinel.order = order
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
}

func (l *freeList) empty() bool {
	return l.sentinel.next == &l.sentinel
}

// pushFront inserts a free block's header at the head of the list.
func (l *freeList) pushFront(h *blockHeader) {
	h.next = l.sentinel.next
	h.prev = &l.sentinel
	l.sentinel.next.prev = h
	l.sentinel.next = h
}

// remove unlinks h from whatever list it is currently a member of.
func (h *blockHeader) remove() {
	h.prev.next = h.next
	h.next.prev = h.prev
	h.next = nil
	h.prev = nil
}

// first returns the head block of the list, or nil if the list is empty.
func (l *freeList) first() *blockHeader {
	if l.empty() {
		return nil
	}
	return l.sentinel.next
}

// nextAfter returns the block following h in its list, stopping at the
// sentinel (reported as nil to callers iterating a freeList).
func (l *freeList) nextAfter(h *blockHeader) *blockHeader {
	n := h.next
	if n == &l.sentinel {
		return nil
	}
	return n
}

// count returns the number of blocks currently on the list. Used only by
// Stats; never on the alloc/free hot path.
func (l *freeList) count() int {
	n := 0
	for h := l.sentinel.next; h != &l.sentinel; h = h.next {
		n++
	}
	return n
}
