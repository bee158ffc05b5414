// sim/simulator.go
package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cachetrace/cachetrace/sim/trace"
)

// ProgressInterval is how many records pass between progress log lines.
const ProgressInterval = 10_000

// RecordSource supplies parsed trace records one at a time, returning
// io.EOF when exhausted. Skipped reports malformed lines dropped so far.
type RecordSource interface {
	Next() (trace.Record, error)
	Skipped() uint64
}

// Simulator replays a trace source through a cache hierarchy, strictly
// sequentially and in stream order. Replay is a deterministic fold: the
// same trace through a freshly built hierarchy yields the same Metrics.
type Simulator struct {
	Hierarchy *Hierarchy
	Metrics   *Metrics
}

// NewSimulator builds a simulator around a freshly constructed hierarchy.
func NewSimulator(cfg HierarchyConfig) (*Simulator, error) {
	h, err := NewHierarchy(cfg)
	if err != nil {
		return nil, err
	}
	return &Simulator{Hierarchy: h}, nil
}

// Run drains the source through the hierarchy and leaves the final
// snapshot in s.Metrics. A mid-stream read failure aborts the replay.
func (s *Simulator) Run(src RecordSource) error {
	start := time.Now()

	var processed, reads, writes, other uint64
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("replay aborted after %d records: %w", processed, err)
		}

		s.Hierarchy.Access(rec.Address, rec.ThreadID)

		switch classifyAccess(rec.AccessType) {
		case accessRead:
			reads++
		case accessWrite:
			writes++
		default:
			other++
		}

		processed++
		if processed%ProgressInterval == 0 {
			logrus.Infof("Processed %d records", processed)
		}
	}

	s.Metrics = CollectMetrics(s.Hierarchy)
	s.Metrics.Processed = processed
	s.Metrics.Skipped = src.Skipped()
	s.Metrics.Reads = reads
	s.Metrics.Writes = writes
	s.Metrics.OtherOps = other
	s.Metrics.ElapsedSeconds = time.Since(start).Seconds()

	logrus.Debugf("Access mix: %d reads, %d writes, %d other", reads, writes, other)
	logrus.Infof("Replayed %d records across %d cores in %.2fs (skipped %d)",
		processed, s.Metrics.Cores, s.Metrics.ElapsedSeconds, s.Metrics.Skipped)
	return nil
}

// ReplayFile opens a trace file and runs it to completion. An unopenable
// trace surfaces as trace.ErrTraceUnavailable rather than an empty,
// all-zero replay.
func (s *Simulator) ReplayFile(path string) error {
	r, err := trace.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	return s.Run(r)
}

type accessKind int

const (
	accessRead accessKind = iota
	accessWrite
	accessOther
)

// classifyAccess buckets the free-form access-type field. Trace producers
// disagree on the exact labels, so only the leading letter is examined:
// reads/loads vs writes/stores.
func classifyAccess(accessType string) accessKind {
	if accessType == "" {
		return accessOther
	}
	switch accessType[0] {
	case 'r', 'R', 'l', 'L':
		return accessRead
	case 'w', 'W', 's', 'S':
		return accessWrite
	default:
		return accessOther
	}
}
