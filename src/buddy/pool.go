package buddy

import "sort"

// Mempool is one physically contiguous region tracked by a single bitmap
// and attached to exactly one Zone. A pool owns its bitmap and identity; it
// does not own any free lists — those live on the owning zone, indexed by
// order.
type Mempool struct {
	zone *Zone

	// BaseAddr is the pool's physical base address, aligned to 2^PoolOrder.
	BaseAddr uint64

	// PoolOrder is this pool's size, expressed as a power of two: the pool
	// covers 2^PoolOrder bytes. MinOrder <= PoolOrder <= MaxOrder.
	PoolOrder uint

	// numBlocks is the number of minimum-order blocks this pool holds:
	// 2^(PoolOrder - zone.MinOrder).
	numBlocks uint64

	bitmap bitmap

	// headers is the out-of-line free-block header side table, one entry
	// per minimum-order block (see freelist.go for why it is out-of-line
	// rather than overlaid on pool memory). Pre-populated with idx/pool
	// back-references at AddPool time; order and list linkage mutate as
	// blocks split, merge, and move between free lists.
	headers []blockHeader

	// NumFreeBlocks counts free space in minimum-order units.
	NumFreeBlocks uint64

	// UserMetadata is opaque caller state handed back verbatim by
	// RemovePool and Deinit's free callback. The allocator never
	// interprets it.
	UserMetadata any
}

// header returns the free-block header for the minimum-order block
// starting at addr within p.
func (p *Mempool) header(addr uint64) *blockHeader {
	return &p.headers[index(p.BaseAddr, addr, p.zone.MinOrder, p.numBlocks)]
}

// endAddr returns the address one past the end of the pool's extent.
func (p *Mempool) endAddr() uint64 {
	return p.BaseAddr + (uint64(1) << p.PoolOrder)
}

// contains reports whether addr falls within [BaseAddr, endAddr).
func (p *Mempool) contains(addr uint64) bool {
	return addr >= p.BaseAddr && addr < p.endAddr()
}

// overlaps reports whether p and q's extents intersect. Adjacent pools
// (p.endAddr() == q.BaseAddr) are legal and do not overlap.
func (p *Mempool) overlaps(q *Mempool) bool {
	return p.BaseAddr < q.endAddr() && q.BaseAddr < p.endAddr()
}

// poolIndex is an address-ordered collection of a zone's pools, keyed by
// the half-open interval [base, base+2^order). It is a sorted slice with
// binary-search lookup: pool add/remove is rare relative to allocation
// traffic, so a balanced tree buys nothing here (see DESIGN.md). All
// mutation happens under the owning zone's lock.
type poolIndex struct {
	pools []*Mempool // kept sorted by BaseAddr
}

// find returns the pool whose interval contains addr, or nil.
func (idx *poolIndex) find(addr uint64) *Mempool {
	i := sort.Search(len(idx.pools), func(i int) bool {
		return idx.pools[i].endAddr() > addr
	})
	if i < len(idx.pools) && idx.pools[i].contains(addr) {
		return idx.pools[i]
	}
	return nil
}

// insert adds pool to the index, failing if it overlaps any existing pool.
func (idx *poolIndex) insert(pool *Mempool) error {
	i := sort.Search(len(idx.pools), func(i int) bool {
		return idx.pools[i].BaseAddr >= pool.BaseAddr
	})
	if i > 0 && idx.pools[i-1].overlaps(pool) {
		return ErrPoolOverlap
	}
	if i < len(idx.pools) && idx.pools[i].overlaps(pool) {
		return ErrPoolOverlap
	}
	idx.pools = append(idx.pools, nil)
	copy(idx.pools[i+1:], idx.pools[i:])
	idx.pools[i] = pool
	return nil
}

// remove deletes pool from the index. It is a no-op if pool is absent.
func (idx *poolIndex) remove(pool *Mempool) {
	for i, p := range idx.pools {
		if p == pool {
			idx.pools = append(idx.pools[:i], idx.pools[i+1:]...)
			return
		}
	}
}

// snapshot returns a copy of the current pool list for iteration without
// holding the zone lock across a possibly-blocking callback.
func (idx *poolIndex) snapshot() []*Mempool {
	out := make([]*Mempool, len(idx.pools))
	copy(out, idx.pools)
	return out
}
