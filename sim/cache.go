// sim/cache.go
package sim

import "math/bits"

// CacheLine is one tag-store entry. The zero value is an invalid line,
// which doubles as the initial state of every way in every set.
type CacheLine struct {
	Tag        uint64
	Valid      bool
	LastAccess uint64 // logical timestamp of the most recent touch
}

// SetAssociativeCache models a single cache level: a fixed number of sets,
// each holding up to Associativity lines, with strict-LRU replacement
// driven by a logical access clock. It tracks its own hit/miss counters
// but only for accesses the caller asks to count, so a hierarchy can warm
// one level on behalf of another without double-counting.
type SetAssociativeCache struct {
	size     uint64
	lineSize uint64
	assoc    uint64
	shared   bool
	numSets  uint64

	sets  [][]CacheLine
	clock uint64

	hits   uint64
	misses uint64

	// shift/mask decomposition, valid only when fastPath is set
	fastPath   bool
	offsetBits uint
	indexBits  uint
}

// NewSetAssociativeCache builds a cache level from validated geometry.
// Returns ErrBadGeometry if the configuration does not describe a valid
// set layout.
func NewSetAssociativeCache(cfg LevelConfig, shared bool) (*SetAssociativeCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &SetAssociativeCache{
		size:     cfg.Size,
		lineSize: cfg.LineSize,
		assoc:    cfg.Associativity,
		shared:   shared,
		numSets:  cfg.NumSets(),
	}
	c.sets = make([][]CacheLine, c.numSets)
	for i := range c.sets {
		c.sets[i] = make([]CacheLine, c.assoc)
	}
	if cfg.FastPath() {
		c.fastPath = true
		c.offsetBits = uint(bits.TrailingZeros64(c.lineSize))
		c.indexBits = uint(bits.TrailingZeros64(c.numSets))
	}
	return c, nil
}

// decompose splits an address into its set index and tag. The shift/mask
// path is taken when line size and set count are powers of two; otherwise
// the division form is used, which is correct for any geometry.
func (c *SetAssociativeCache) decompose(addr uint64) (setIndex, tag uint64) {
	if c.fastPath {
		setIndex = (addr >> c.offsetBits) & (c.numSets - 1)
		tag = addr >> (c.offsetBits + c.indexBits)
		return setIndex, tag
	}
	setIndex = (addr / c.lineSize) % c.numSets
	tag = addr / (c.lineSize * c.numSets)
	return setIndex, tag
}

// Access looks up addr and, on a miss, installs it over the LRU victim.
// It returns true on a hit. When counted is false the access is a silent
// probe/fill: the full lookup-or-replace mutation still happens (LRU
// stamp refresh included) but the hit/miss counters are untouched.
func (c *SetAssociativeCache) Access(addr uint64, counted bool) bool {
	setIndex, tag := c.decompose(addr)
	set := c.sets[setIndex]

	for i := range set {
		if set[i].Valid && set[i].Tag == tag {
			c.clock++
			set[i].LastAccess = c.clock
			if counted {
				c.hits++
			}
			return true
		}
	}

	if counted {
		c.misses++
	}

	// Victim selection: first invalid way, else strict LRU. Ties on the
	// timestamp keep the lowest way index, so replay is deterministic.
	victim := -1
	for i := range set {
		if !set[i].Valid {
			victim = i
			break
		}
	}
	if victim < 0 {
		oldest := uint64(1<<64 - 1)
		for i := range set {
			if set[i].LastAccess < oldest {
				oldest = set[i].LastAccess
				victim = i
			}
		}
	}

	c.clock++
	set[victim] = CacheLine{Tag: tag, Valid: true, LastAccess: c.clock}
	return false
}

// Stats returns a read-only snapshot of the counted hits and misses.
func (c *SetAssociativeCache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

// NumSets returns the number of sets in this level.
func (c *SetAssociativeCache) NumSets() uint64 {
	return c.numSets
}

// Shared reports whether this level is shared across cores.
func (c *SetAssociativeCache) Shared() bool {
	return c.shared
}
