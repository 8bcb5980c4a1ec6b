package buddy

// AnyNode requests that the zone selector pick a zone by NUMA affinity
// rather than a caller-named node.
const AnyNode = -1

// NodeLocator is the minimal collaborator the zone selector consumes to
// make NUMA-aware routing decisions: a way to ask which node the calling
// CPU prefers, and which node owns a given physical address. Concrete
// implementations live in the host package; tests may substitute a fixed
// stub.
type NodeLocator interface {
	// CurrentNode returns the NUMA node the calling CPU prefers.
	CurrentNode() int
	// NodeForAddr returns the NUMA node that owns addr, or -1 if unknown.
	NodeForAddr(addr uint64) int
}

// ZoneManager routes allocation and free requests to the right per-node
// Zone, with cross-zone fallback on allocation failure (only when the
// caller did not pin a node) and on free when the claimed zone cannot
// account for the address.
type ZoneManager struct {
	zones   []*Zone // indexed by node id
	locator NodeLocator
}

// NewZoneManager builds a selector over zones, one per NUMA node, indexed
// by NodeID. zones[i].NodeID must equal i.
func NewZoneManager(zones []*Zone, locator NodeLocator) *ZoneManager {
	return &ZoneManager{zones: zones, locator: locator}
}

// Zone returns the zone for a given node id, or nil if out of range.
func (m *ZoneManager) Zone(nodeID int) *Zone {
	if nodeID < 0 || nodeID >= len(m.zones) {
		return nil
	}
	return m.zones[nodeID]
}

// NumNodes returns the number of zones the selector manages.
func (m *ZoneManager) NumNodes() int {
	return len(m.zones)
}

// Alloc routes an allocation request to the zone for nodeID (or, if
// nodeID is AnyNode, to the calling CPU's preferred zone). On failure,
// fallback across the other zones only happens when the original request
// did not pin a node -- requests that name a node never fall back.
func (m *ZoneManager) Alloc(nodeID int, order uint, constraint Constraint) (uint64, error) {
	any := nodeID == AnyNode
	if any {
		nodeID = m.locator.CurrentNode()
	}
	if nodeID < 0 || nodeID >= len(m.zones) {
		return 0, ErrInvalidNode
	}

	addr, err := m.zones[nodeID].Alloc(order, constraint)
	if err == nil {
		return addr, nil
	}
	if !any {
		return 0, err
	}

	for i, z := range m.zones {
		if i == nodeID {
			continue
		}
		addr, err2 := z.Alloc(order, constraint)
		if err2 == nil {
			return addr, nil
		}
	}

	return 0, err
}

// Free routes a free request to the zone whose node owns addr. If that
// zone reports the address is not in any of its pools, the selector
// tries every other zone in turn; if none accept it, the condition is
// logged (it indicates a caller bug or a race between pool removal and
// free) and the original error is returned.
func (m *ZoneManager) Free(addr uint64, order uint) error {
	nodeID := m.locator.NodeForAddr(addr)

	var primary *Zone
	if nodeID >= 0 && nodeID < len(m.zones) {
		primary = m.zones[nodeID]
		if err := primary.Free(addr, order); err == nil || err != ErrNotInZone {
			return err
		}
	}

	for _, z := range m.zones {
		if z == primary {
			continue
		}
		if err := z.Free(addr, order); err == nil {
			return nil
		}
	}

	logger.Errorf("address 0x%x not accounted for by any zone on free (order=%d)", addr, order)
	return ErrNotInZone
}
