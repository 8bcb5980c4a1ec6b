package buddy

import (
	"math/bits"
	"sync"
)

// Zone is a per-NUMA-node buddy allocator instance. It owns a set of
// disjoint pools and one free list per order in [MinOrder, MaxOrder]. A
// single mutex serializes every mutation to a zone's pools, free lists,
// bitmaps, and counters; operations on different zones are independent
// and never share a lock.
type Zone struct {
	// MinOrder and MaxOrder bound the block orders this zone manages.
	// MinOrder may be larger than requested at NewZone time if the
	// configured value was too small to hold a free-block header.
	MinOrder, MaxOrder uint

	// NodeID is the NUMA node this zone allocates from.
	NodeID int

	mu    sync.Mutex
	avail []freeList // indexed by order - MinOrder
	pools poolIndex

	// NumPools is the number of pools currently attached to this zone.
	NumPools int
}

// NewZone creates a zone with fixed MinOrder/MaxOrder for one NUMA node.
// It holds no pools until AddPool is called.
func NewZone(maxOrder, minOrder uint, nodeID int) (*Zone, error) {
	// A free block's header must fit in the smallest block this zone will
	// ever hand out; silently raise minOrder if it doesn't.
	for (uint64(1) << minOrder) < uint64(headerSize) {
		minOrder++
	}

	if minOrder > maxOrder {
		return nil, ErrInvalidOrder
	}

	z := &Zone{
		MinOrder: minOrder,
		MaxOrder: maxOrder,
		NodeID:   nodeID,
		avail:    make([]freeList, maxOrder-minOrder+1),
	}
	for i := range z.avail {
		z.avail[i].init(minOrder + uint(i))
	}
	return z, nil
}

func (z *Zone) slot(order uint) int {
	return int(order - z.MinOrder)
}

// AddPool attaches a new pool at base, sized 2^poolOrder bytes, to the
// zone. The descriptor and bitmap are allocated before the lock is taken
// (the bitmap may be large); only the index insertion happens under lock.
// The pool is then published as one free block of order poolOrder via
// Free, which reacquires the lock internally.
func (z *Zone) AddPool(base uint64, poolOrder uint, metadata any) (*Mempool, error) {
	if poolOrder < z.MinOrder || poolOrder > z.MaxOrder {
		return nil, ErrInvalidOrder
	}

	pool := &Mempool{
		zone:      z,
		BaseAddr:  base,
		PoolOrder: poolOrder,
		numBlocks: uint64(1) << (poolOrder - z.MinOrder),
	}
	pool.bitmap = newBitmap(pool.numBlocks) // zero-valued: every block starts "allocated"
	pool.headers = make([]blockHeader, pool.numBlocks)
	for i := range pool.headers {
		pool.headers[i].idx = uint64(i)
		pool.headers[i].pool = pool
	}
	pool.UserMetadata = metadata

	z.mu.Lock()
	if err := z.pools.insert(pool); err != nil {
		z.mu.Unlock()
		return nil, err
	}
	z.NumPools++
	z.mu.Unlock()

	// Publish the whole extent as one maximum-order free block for this
	// pool. Since the order is already poolOrder the coalesce loop does
	// not run; Free sets only the base block's bitmap bit (the one bit
	// consulted for a free block) and installs the single top block onto
	// avail[poolOrder].
	if err := z.Free(base, poolOrder); err != nil {
		// Unwind: remove what we just inserted.
		z.mu.Lock()
		z.pools.remove(pool)
		z.NumPools--
		z.mu.Unlock()
		return nil, err
	}

	return pool, nil
}

// RemovePool detaches the pool based at base_addr. Normal removal requires
// the pool's entire extent to be a single free block; force removal
// succeeds regardless, even with outstanding allocations (a last resort:
// the allocator makes no attempt to invalidate addresses already handed
// out from that pool).
func (z *Zone) RemovePool(base uint64, force bool) (any, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	pool := z.pools.find(base)
	if pool == nil || pool.BaseAddr != base {
		return nil, ErrPoolNotFound
	}

	wholeFree := pool.isFree(pool.BaseAddr)
	if wholeFree {
		h := pool.header(pool.BaseAddr)
		wholeFree = h.order == pool.PoolOrder
	}

	if !wholeFree && !force {
		return nil, ErrPoolInUse
	}
	if !wholeFree && force {
		logger.Warnf("zone %d: forcefully removing in-use pool at 0x%x", z.NodeID, base)
	}

	if wholeFree {
		pool.header(pool.BaseAddr).remove()
	}

	meta := pool.UserMetadata
	z.pools.remove(pool)
	z.NumPools--

	return meta, nil
}

// Alloc finds and reserves a free block of the requested order, splitting
// a larger block if necessary, and returns its physical address. If
// order is below MinOrder it is silently raised. constraint restricts
// which candidate blocks are eligible; an unrecognized constraint value
// fails the call outright rather than being ignored.
func (z *Zone) Alloc(order uint, constraint Constraint) (uint64, error) {
	if order > z.MaxOrder {
		return 0, ErrInvalidOrder
	}
	if order < z.MinOrder {
		order = z.MinOrder
	}
	if constraint != ConstraintNone && constraint != ConstraintBelow32Bit {
		return 0, ErrUnknownConstraint
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	for k := order; k <= z.MaxOrder; k++ {
		list := &z.avail[z.slot(k)]
		if list.empty() {
			continue
		}

		var chosen *blockHeader
		for h := list.first(); h != nil; h = list.nextAfter(h) {
			ok, err := constraint.fits(addrOf(h), order)
			if err != nil {
				return 0, err
			}
			if ok {
				chosen = h
				break
			}
		}
		if chosen == nil {
			continue
		}

		chosen.remove()
		pool := chosen.pool
		addr := addrOf(chosen)
		pool.markAlloc(addr)

		for k > order {
			k--
			buddyAddr := addr + (uint64(1) << k)
			buddyHeader := pool.header(buddyAddr)
			buddyHeader.order = k
			pool.markFree(buddyAddr)
			z.avail[z.slot(k)].pushFront(buddyHeader)
		}

		pool.NumFreeBlocks -= uint64(1) << (order - z.MinOrder)
		return addr, nil
	}

	return 0, ErrOutOfMemory
}

// Free returns a previously allocated block to the zone, coalescing with
// its buddy as many times as possible. order below MinOrder is silently
// raised to MinOrder, matching Alloc.
func (z *Zone) Free(addr uint64, order uint) error {
	if order > z.MaxOrder {
		return ErrInvalidOrder
	}
	if order < z.MinOrder {
		order = z.MinOrder
	}
	if addr&((uint64(1)<<z.MinOrder)-1) != 0 {
		return ErrMisalignedAddress
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	pool := z.pools.find(addr)
	if pool == nil {
		return ErrNotInZone
	}
	if order > pool.PoolOrder {
		return ErrInvalidOrder
	}
	if pool.isFree(addr) {
		return ErrDoubleFree
	}

	pool.NumFreeBlocks += uint64(1) << (order - z.MinOrder)

	curAddr := addr
	curOrder := order
	for curOrder < pool.PoolOrder {
		buddyAddr := pool.buddyAddr(curAddr, curOrder)
		if !pool.isFree(buddyAddr) {
			break
		}
		buddyHeader := pool.header(buddyAddr)
		if buddyHeader.order != curOrder {
			break
		}

		buddyHeader.remove()
		if buddyAddr < curAddr {
			curAddr = buddyAddr
		}
		curOrder++
	}

	header := pool.header(curAddr)
	header.order = curOrder
	pool.markFree(curAddr)
	z.avail[z.slot(curOrder)].pushFront(header)

	return nil
}

// Deinit tears down every pool still attached to the zone, invoking
// freeCB with each pool's metadata after it has been force-removed. The
// pool list is snapshotted under the lock and then processed without it
// held, since the callback may block, sleep, or reacquire zone-adjacent
// locks.
func (z *Zone) Deinit(freeCB func(metadata any)) {
	z.mu.Lock()
	pools := z.pools.snapshot()
	z.mu.Unlock()

	for _, pool := range pools {
		meta, err := z.RemovePool(pool.BaseAddr, true)
		if err != nil {
			logger.Warnf("zone %d: could not remove pool at 0x%x during deinit: %v", z.NodeID, pool.BaseAddr, err)
			continue
		}
		if freeCB != nil {
			freeCB(meta)
		}
	}
}

// requiredMinOrder returns the smallest order whose block size can hold a
// blockHeader, used by callers that want to validate a configured
// min_order before calling NewZone.
func requiredMinOrder() uint {
	return uint(bits.Len64(uint64(headerSize) - 1))
}
