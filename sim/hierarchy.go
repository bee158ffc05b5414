// sim/hierarchy.go
package sim

import (
	"fmt"
	"sort"
)

// Hierarchy routes each access through L1 -> L2 -> L3 with an inclusive
// fill-on-miss policy. L2 and L3 are shared singletons; each core id seen
// in the trace owns exactly one private L1, created on first use. Core ids
// are opaque keys: they may be sparse and unbounded, and two distinct ids
// never share an L1.
type Hierarchy struct {
	cfg HierarchyConfig

	l1s map[uint64]*SetAssociativeCache
	l2  *SetAssociativeCache
	l3  *SetAssociativeCache
}

// NewHierarchy validates the full configuration (L1 geometry included,
// even though L1 instances are created lazily) and builds the shared
// levels. All parameters are fixed for the lifetime of the hierarchy.
func NewHierarchy(cfg HierarchyConfig) (*Hierarchy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("hierarchy config: %w", err)
	}
	l2, err := NewSetAssociativeCache(cfg.L2, true)
	if err != nil {
		return nil, fmt.Errorf("l2: %w", err)
	}
	l3, err := NewSetAssociativeCache(cfg.L3, true)
	if err != nil {
		return nil, fmt.Errorf("l3: %w", err)
	}
	return &Hierarchy{
		cfg: cfg,
		l1s: make(map[uint64]*SetAssociativeCache),
		l2:  l2,
		l3:  l3,
	}, nil
}

// l1For returns the private L1 owned by coreID, creating it on first use.
// L1 geometry was validated at hierarchy construction, so creation cannot
// fail here.
func (h *Hierarchy) l1For(coreID uint64) *SetAssociativeCache {
	if l1, ok := h.l1s[coreID]; ok {
		return l1
	}
	l1, err := NewSetAssociativeCache(h.cfg.L1, false)
	if err != nil {
		panic(fmt.Sprintf("l1 geometry invalid after construction-time validation: %v", err))
	}
	h.l1s[coreID] = l1
	return l1
}

// Access replays one memory access on behalf of coreID:
//
//  1. counted L1 probe; done on hit
//  2. counted L2 probe; on hit, silent fill of L1, done
//  3. counted L3 probe; whatever the outcome, silent fill of L2 then L1
//     (backfill from L3 on a hit, from main memory on a miss)
//
// Fills below a hit are silent so each level's counters reflect only its
// own probes. Later L2/L3 evictions do not back-invalidate L1.
func (h *Hierarchy) Access(addr, coreID uint64) {
	l1 := h.l1For(coreID)

	if l1.Access(addr, true) {
		return
	}

	if h.l2.Access(addr, true) {
		l1.Access(addr, false)
		return
	}

	h.l3.Access(addr, true)
	h.l2.Access(addr, false)
	l1.Access(addr, false)
}

// ForEachL1 visits the per-core L1 statistics in ascending core id order.
func (h *Hierarchy) ForEachL1(fn func(coreID, hits, misses uint64)) {
	ids := make([]uint64, 0, len(h.l1s))
	for id := range h.l1s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		hits, misses := h.l1s[id].Stats()
		fn(id, hits, misses)
	}
}

// L1Stats sums hits and misses across every private L1.
func (h *Hierarchy) L1Stats() (hits, misses uint64) {
	for _, l1 := range h.l1s {
		hit, miss := l1.Stats()
		hits += hit
		misses += miss
	}
	return hits, misses
}

// L2Stats returns the shared L2 counters.
func (h *Hierarchy) L2Stats() (hits, misses uint64) {
	return h.l2.Stats()
}

// L3Stats returns the shared L3 counters.
func (h *Hierarchy) L3Stats() (hits, misses uint64) {
	return h.l3.Stats()
}

// CoreCount returns the number of distinct core ids seen so far.
func (h *Hierarchy) CoreCount() int {
	return len(h.l1s)
}
