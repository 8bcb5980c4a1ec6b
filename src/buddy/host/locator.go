package host

import "sort"

// SingleNodeLocator is the trivial NodeLocator for a machine (or test)
// with exactly one NUMA node: every CPU and every address belongs to
// node 0. Most development and CI environments fall into this case.
type SingleNodeLocator struct{}

func (SingleNodeLocator) CurrentNode() int       { return 0 }
func (SingleNodeLocator) NodeForAddr(uint64) int { return 0 }

// RangeLocator answers node-affinity queries from an explicit table of
// address ranges, one per node, built up as pools are added. It exists
// for hosts where the real NUMA topology isn't available through a
// portable syscall and must instead be derived from which node's zone a
// region was handed to.
type RangeLocator struct {
	preferred int
	ranges    []addrRange
}

type addrRange struct {
	base, end uint64
	node      int
}

// NewRangeLocator returns a locator that reports preferredNode for
// CurrentNode() until told otherwise, and -1 for any address it has not
// been told about via AddRange.
func NewRangeLocator(preferredNode int) *RangeLocator {
	return &RangeLocator{preferred: preferredNode}
}

// AddRange records that [base, base+2^order) belongs to node. Call this
// whenever a pool is attached to a zone so NodeForAddr can route frees
// for addresses inside it.
func (l *RangeLocator) AddRange(base uint64, order uint, node int) {
	end := base + (uint64(1) << order)
	i := sort.Search(len(l.ranges), func(i int) bool { return l.ranges[i].base >= base })
	l.ranges = append(l.ranges, addrRange{})
	copy(l.ranges[i+1:], l.ranges[i:])
	l.ranges[i] = addrRange{base: base, end: end, node: node}
}

// RemoveRange forgets a previously recorded range starting at base.
func (l *RangeLocator) RemoveRange(base uint64) {
	for i, r := range l.ranges {
		if r.base == base {
			l.ranges = append(l.ranges[:i], l.ranges[i+1:]...)
			return
		}
	}
}

// SetCurrentNode changes which node CurrentNode() reports, e.g. to
// simulate a caller running on a different core.
func (l *RangeLocator) SetCurrentNode(node int) {
	l.preferred = node
}

func (l *RangeLocator) CurrentNode() int {
	return l.preferred
}

func (l *RangeLocator) NodeForAddr(addr uint64) int {
	i := sort.Search(len(l.ranges), func(i int) bool { return l.ranges[i].end > addr })
	if i < len(l.ranges) && addr >= l.ranges[i].base && addr < l.ranges[i].end {
		return l.ranges[i].node
	}
	return -1
}
