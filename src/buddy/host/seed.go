package host

import (
	"fmt"
	"log"

	"github.com/jlange-hv/numabuddy/src/buddy"
)

// SeedZones builds one Zone per NUMA node and seeds each with a single
// pool of order seedOrder acquired from the host, preferring memory reachable
// under the Below32Bit constraint and falling back to unrestricted
// memory. A node mismatch between the requested and actual placement --
// which cannot occur with anonymous mmap, since there is no real
// NUMA-aware page allocator behind it here -- is left as a documented
// limitation rather than faked.
//
// seedOrder must be within [minOrder, maxOrder]; it becomes the pool
// order of each node's seed pool.
func SeedZones(numNodes int, maxOrder, minOrder, seedOrder uint, alloc *Allocator) (*buddy.ZoneManager, *RangeLocator, error) {
	if numNodes <= 0 {
		return nil, nil, fmt.Errorf("host: numNodes must be positive, got %d", numNodes)
	}

	locator := NewRangeLocator(0)
	zones := make([]*buddy.Zone, numNodes)

	for node := 0; node < numNodes; node++ {
		zone, err := buddy.NewZone(maxOrder, minOrder, node)
		if err != nil {
			return nil, nil, fmt.Errorf("host: init zone for node %d: %w", node, err)
		}

		region, usedFallback, err := alloc.AcquireBelow32Bit(seedOrder)
		if err != nil {
			return nil, nil, fmt.Errorf("host: seed node %d: %w", node, err)
		}
		if usedFallback {
			log.Printf("[WARNING] host: could not seed node %d below the 4GiB boundary, using unrestricted memory", node)
		}

		if _, err := zone.AddPool(region.Addr, seedOrder, region); err != nil {
			_ = alloc.Release(region)
			return nil, nil, fmt.Errorf("host: seed pool for node %d: %w", node, err)
		}

		locator.AddRange(region.Addr, seedOrder, node)
		zones[node] = zone
	}

	return buddy.NewZoneManager(zones, locator), locator, nil
}
