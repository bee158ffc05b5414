// sim/config.go
package sim

import (
	"errors"
	"fmt"
)

// ErrBadGeometry marks a cache configuration whose size, line size, and
// associativity do not describe a valid set layout. Geometry is checked
// once at hierarchy construction so the access path never divides by zero
// or decomposes addresses against a broken layout.
var ErrBadGeometry = errors.New("invalid cache geometry")

// LevelConfig describes one cache level. All sizes are in bytes.
type LevelConfig struct {
	Size          uint64 `yaml:"size"`
	LineSize      uint64 `yaml:"line_size"`
	Associativity uint64 `yaml:"associativity"`
}

// NumSets returns the set count implied by the geometry. Only meaningful
// after Validate has passed.
func (c LevelConfig) NumSets() uint64 {
	return c.Size / (c.LineSize * c.Associativity)
}

// FastPath reports whether the shift/mask address decomposition applies:
// both the line size and the set count must be powers of two. Levels that
// fail this use the division-based decomposition instead.
func (c LevelConfig) FastPath() bool {
	return isPowerOfTwo(c.LineSize) && isPowerOfTwo(c.NumSets())
}

// Validate checks the level geometry: every parameter nonzero, the size
// evenly divisible by line_size*associativity, and at least one set.
func (c LevelConfig) Validate() error {
	if c.Size == 0 || c.LineSize == 0 || c.Associativity == 0 {
		return fmt.Errorf("%w: size=%d line_size=%d associativity=%d (all must be nonzero)",
			ErrBadGeometry, c.Size, c.LineSize, c.Associativity)
	}
	// Exact division with a nonzero size guarantees at least one set.
	waySize := c.LineSize * c.Associativity
	if c.Size%waySize != 0 {
		return fmt.Errorf("%w: size %d not divisible by line_size*associativity (%d)",
			ErrBadGeometry, c.Size, waySize)
	}
	return nil
}

// HierarchyConfig fixes all hierarchy parameters for a run. NumCores is
// advisory only: private L1 caches are created lazily per core id seen in
// the trace, never capped or aliased by this value.
type HierarchyConfig struct {
	NumCores uint64      `yaml:"num_cores"`
	L1       LevelConfig `yaml:"l1"`
	L2       LevelConfig `yaml:"l2"`
	L3       LevelConfig `yaml:"l3"`
}

// Validate checks the geometry of every level, including L1 even though
// no L1 instance exists yet at construction time.
func (c HierarchyConfig) Validate() error {
	for _, level := range []struct {
		name string
		cfg  LevelConfig
	}{
		{"l1", c.L1},
		{"l2", c.L2},
		{"l3", c.L3},
	} {
		if err := level.cfg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", level.name, err)
		}
	}
	return nil
}

// DefaultHierarchyConfig mirrors the hierarchy of a 78-core server part:
// 5 MiB 8-way L1 per core, 39 MiB 8-way shared L2, 6 MiB 16-way shared
// L3, all with 64-byte lines.
func DefaultHierarchyConfig() HierarchyConfig {
	return HierarchyConfig{
		NumCores: 78,
		L1:       LevelConfig{Size: 5 * 1024 * 1024, LineSize: 64, Associativity: 8},
		L2:       LevelConfig{Size: 39 * 1024 * 1024, LineSize: 64, Associativity: 8},
		L3:       LevelConfig{Size: 6 * 1024 * 1024, LineSize: 64, Associativity: 16},
	}
}

func isPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}
