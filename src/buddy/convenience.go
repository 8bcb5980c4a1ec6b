package buddy

import "math/bits"

// AddPoolSized is a convenience wrapper around Zone.AddPool for callers
// that have a byte count rather than an order. If sizeBytes is not a
// power of two it is rounded down to the nearest one and a warning is
// logged.
func (z *Zone) AddPoolSized(base uint64, sizeBytes uint64, metadata any) (*Mempool, error) {
	if sizeBytes == 0 {
		return nil, ErrInvalidOrder
	}

	order := uint(bits.Len64(sizeBytes) - 1)
	rounded := uint64(1) << order
	if rounded != sizeBytes {
		logger.Warnf("zone %d: pool size %d is not a power of two, rounding down to %d", z.NodeID, sizeBytes, rounded)
	}

	return z.AddPool(base, order, metadata)
}
