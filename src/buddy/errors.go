package buddy

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Sentinel errors returned by the allocator core. Callers compare with
// errors.Is rather than inspecting formatted text.
var (
	// ErrOutOfMemory is returned when no free block of the requested order
	// satisfies the constraint in the chosen zone, after fallback.
	ErrOutOfMemory = fmt.Errorf("buddy: no memory available: %w", unix.ENOMEM)

	// ErrInvalidOrder is returned when a requested order exceeds max_order,
	// or a pool_order falls outside [min_order, max_order].
	ErrInvalidOrder = errors.New("buddy: order out of range")

	// ErrMisalignedAddress is returned when Free is called with an address
	// that is not a multiple of 2^min_order.
	ErrMisalignedAddress = errors.New("buddy: misaligned address")

	// ErrNotInZone is returned when an address is not covered by any pool
	// of the zone it was routed to.
	ErrNotInZone = errors.New("buddy: address not in any pool of this zone")

	// ErrDoubleFree is returned when Free is called for a block already
	// marked free in its pool's bitmap.
	ErrDoubleFree = errors.New("buddy: double free")

	// ErrPoolOverlap is returned when AddPool is given a region that
	// intersects an existing pool in the zone.
	ErrPoolOverlap = errors.New("buddy: pool overlaps an existing pool")

	// ErrPoolInUse is returned when RemovePool is called without force on
	// a pool that is not entirely free.
	ErrPoolInUse = errors.New("buddy: pool is not entirely free")

	// ErrPoolNotFound is returned when RemovePool cannot locate a pool at
	// the given base address.
	ErrPoolNotFound = errors.New("buddy: no pool at that base address")

	// ErrUnknownConstraint is returned when Alloc is called with a
	// constraint value outside the recognized set.
	ErrUnknownConstraint = errors.New("buddy: unrecognized allocation constraint")

	// ErrInvalidNode is returned when a caller names a NUMA node id that
	// the zone manager does not have a zone for.
	ErrInvalidNode = errors.New("buddy: invalid NUMA node id")
)
