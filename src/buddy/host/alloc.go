// Package host provides the collaborators the buddy allocator core
// consumes but does not implement itself: acquiring real backing memory
// for a pool, and answering NUMA node-affinity queries.
package host

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Region is a block of host-backed memory handed to the allocator core as
// a pool's extent. Addr is treated as the pool's physical base address;
// in this userspace rendition it is actually the process virtual address
// of an anonymous mmap.
type Region struct {
	Addr  uint64
	Order uint
	data  []byte
}

// Allocator acquires and releases host-backed memory for pool extents.
type Allocator struct{}

// NewAllocator returns a host memory allocator backed by anonymous mmap.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Acquire maps 2^order bytes of anonymous, zero-filled memory and returns
// it as a Region. The mapping is not released until Release is called.
func (a *Allocator) Acquire(order uint) (*Region, error) {
	size := int(uint64(1) << order)

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("host: mmap %d bytes: %w", size, err)
	}

	return &Region{
		Addr:  addrOfSlice(data),
		Order: order,
		data:  data,
	}, nil
}

// AcquireBelow32Bit attempts to map memory reachable within the first
// 4 GiB of address space (MAP_32BIT), falling back to an unrestricted
// mapping if that fails. Callers should warn when the fallback is used,
// since a seed pool that isn't actually below 4 GiB can't satisfy a
// Below32Bit-constrained allocation later.
func (a *Allocator) AcquireBelow32Bit(order uint) (r *Region, usedFallback bool, err error) {
	size := int(uint64(1) << order)

	data, mmapErr := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_32BIT)
	if mmapErr == nil {
		return &Region{Addr: addrOfSlice(data), Order: order, data: data}, false, nil
	}

	region, err := a.Acquire(order)
	if err != nil {
		return nil, true, err
	}
	return region, true, nil
}

// Release unmaps a Region previously returned by Acquire.
func (a *Allocator) Release(r *Region) error {
	if r == nil || r.data == nil {
		return nil
	}
	if err := unix.Munmap(r.data); err != nil {
		return fmt.Errorf("host: munmap 0x%x: %w", r.Addr, err)
	}
	r.data = nil
	return nil
}
