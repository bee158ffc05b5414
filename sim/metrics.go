// Aggregates per-level hit/miss totals and replay-wide counters for final
// reporting and structured export.

package sim

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LevelStats holds the counted hits and misses of one cache level.
type LevelStats struct {
	Hits   uint64 `yaml:"hits"`
	Misses uint64 `yaml:"misses"`
}

// Accesses returns the number of counted probes at this level.
func (s LevelStats) Accesses() uint64 {
	return s.Hits + s.Misses
}

// HitRatio returns hits over counted probes, or 0 for an unprobed level.
func (s LevelStats) HitRatio() float64 {
	total := s.Accesses()
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// CoreL1Stats pairs a core id with its private L1 counters for the
// per-core breakdown in exported results.
type CoreL1Stats struct {
	CoreID uint64 `yaml:"core_id"`
	Hits   uint64 `yaml:"hits"`
	Misses uint64 `yaml:"misses"`
}

// Metrics is the final snapshot of a replay: aggregated per-level
// statistics plus ingestion counters. L1 sums all private instances;
// PerCoreL1 keeps the breakdown in ascending core id order.
type Metrics struct {
	L1        LevelStats    `yaml:"l1"`
	L2        LevelStats    `yaml:"l2"`
	L3        LevelStats    `yaml:"l3"`
	PerCoreL1 []CoreL1Stats `yaml:"per_core_l1,omitempty"`

	Processed uint64 `yaml:"processed_records"`
	Skipped   uint64 `yaml:"skipped_records"`
	Reads     uint64 `yaml:"reads"`
	Writes    uint64 `yaml:"writes"`
	OtherOps  uint64 `yaml:"other_ops"`
	Cores     int    `yaml:"cores"`

	ElapsedSeconds float64 `yaml:"elapsed_seconds"`
}

// CollectMetrics snapshots a hierarchy's counters into a Metrics value.
// Ingestion counters (Processed, Skipped, per-type counts, elapsed time)
// are owned by the replay loop and filled in by the caller.
func CollectMetrics(h *Hierarchy) *Metrics {
	m := &Metrics{Cores: h.CoreCount()}
	m.L1.Hits, m.L1.Misses = h.L1Stats()
	m.L2.Hits, m.L2.Misses = h.L2Stats()
	m.L3.Hits, m.L3.Misses = h.L3Stats()
	h.ForEachL1(func(coreID, hits, misses uint64) {
		m.PerCoreL1 = append(m.PerCoreL1, CoreL1Stats{CoreID: coreID, Hits: hits, Misses: misses})
	})
	return m
}

// Render writes the final human-readable report. The three-level block
// keeps a fixed shape for downstream scripts; the skipped-record line
// appears only when records were actually skipped.
func (m *Metrics) Render(w io.Writer) {
	fmt.Fprintf(w, "Cache Statistics:\n")
	fmt.Fprintf(w, "L1: %d hits, %d misses\n", m.L1.Hits, m.L1.Misses)
	fmt.Fprintf(w, "L2: %d hits, %d misses\n", m.L2.Hits, m.L2.Misses)
	fmt.Fprintf(w, "L3: %d hits, %d misses\n", m.L3.Hits, m.L3.Misses)
	if m.Skipped > 0 {
		fmt.Fprintf(w, "Skipped records: %d\n", m.Skipped)
	}
}

// WriteYAML exports the full snapshot, per-core breakdown included.
func (m *Metrics) WriteYAML(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
