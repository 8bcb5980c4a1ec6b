package buddy

// OrderStats reports the number of free blocks currently on a zone's
// free list for one order.
type OrderStats struct {
	Order      uint
	FreeBlocks int
}

// PoolStats summarizes one pool's identity and free space, the field set
// an introspection sink needs to print a per-pool line without reaching
// into the pool's internals directly.
type PoolStats struct {
	BaseAddr  uint64
	PoolOrder uint
	SizeBytes uint64
	FreeBytes uint64
}

// ZoneStats is the result of Zone.Stats: per-order free-block counts plus
// a per-pool summary.
type ZoneStats struct {
	NodeID   int
	MinOrder uint
	MaxOrder uint
	NumPools int
	ByOrder  []OrderStats
	Pools    []PoolStats
}

// Stats takes a point-in-time snapshot of the zone's free-list occupancy
// and pool inventory. It acquires the zone lock for the duration of the
// scan, same as every other zone operation.
func (z *Zone) Stats() ZoneStats {
	z.mu.Lock()
	defer z.mu.Unlock()

	st := ZoneStats{
		NodeID:   z.NodeID,
		MinOrder: z.MinOrder,
		MaxOrder: z.MaxOrder,
		NumPools: z.NumPools,
		ByOrder:  make([]OrderStats, len(z.avail)),
	}
	for i := range z.avail {
		st.ByOrder[i] = OrderStats{
			Order:      z.MinOrder + uint(i),
			FreeBlocks: z.avail[i].count(),
		}
	}

	for _, pool := range z.pools.snapshot() {
		st.Pools = append(st.Pools, PoolStats{
			BaseAddr:  pool.BaseAddr,
			PoolOrder: pool.PoolOrder,
			SizeBytes: uint64(1) << pool.PoolOrder,
			FreeBytes: pool.NumFreeBlocks << z.MinOrder,
		})
	}

	return st
}
