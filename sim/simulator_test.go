package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachetrace/cachetrace/sim/trace"
)

func testConfig() HierarchyConfig {
	return HierarchyConfig{
		NumCores: 2,
		L1:       LevelConfig{Size: 512, LineSize: 64, Associativity: 2},
		L2:       LevelConfig{Size: 4096, LineSize: 64, Associativity: 4},
		L3:       LevelConfig{Size: 16384, LineSize: 64, Associativity: 8},
	}
}

func writeTrace(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory_trace.log")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func TestReplayFile_EndToEnd(t *testing.T) {
	// GIVEN a trace where core 0 touches one line twice and core 1
	// touches the same line once
	path := writeTrace(t, strings.Join([]string{
		"R 4096 0 111",
		"R 4096 0 111",
		"W 4096 1 222",
		"",
	}, "\n"))

	s, err := NewSimulator(testConfig())
	require.NoError(t, err)

	// WHEN the trace is replayed
	require.NoError(t, s.ReplayFile(path))

	// THEN: core 0 misses then hits, core 1 misses privately but hits
	// the shared L2
	m := s.Metrics
	require.NotNil(t, m)
	assert.Equal(t, LevelStats{Hits: 1, Misses: 2}, m.L1)
	assert.Equal(t, LevelStats{Hits: 1, Misses: 1}, m.L2)
	assert.Equal(t, LevelStats{Hits: 0, Misses: 1}, m.L3)
	assert.Equal(t, uint64(3), m.Processed)
	assert.Equal(t, uint64(0), m.Skipped)
	assert.Equal(t, uint64(2), m.Reads)
	assert.Equal(t, uint64(1), m.Writes)
	assert.Equal(t, 2, m.Cores)
}

func TestReplayFile_MalformedRecordsSkippedAndCounted(t *testing.T) {
	path := writeTrace(t, strings.Join([]string{
		"R 64 0 1",
		"garbage line",
		"R 64 0",
		"R 64 0 1",
		"",
	}, "\n"))

	s, err := NewSimulator(testConfig())
	require.NoError(t, err)
	require.NoError(t, s.ReplayFile(path))

	assert.Equal(t, uint64(2), s.Metrics.Processed)
	assert.Equal(t, uint64(2), s.Metrics.Skipped)
	// the two good records are the same line: one miss, one hit
	assert.Equal(t, LevelStats{Hits: 1, Misses: 1}, s.Metrics.L1)
}

func TestReplayFile_MissingTrace_Fatal(t *testing.T) {
	s, err := NewSimulator(testConfig())
	require.NoError(t, err)

	err = s.ReplayFile(filepath.Join(t.TempDir(), "absent.log"))
	assert.ErrorIs(t, err, trace.ErrTraceUnavailable)
	// no misleading all-zero metrics on a failed open
	assert.Nil(t, s.Metrics)
}

func TestRun_DeterministicAcrossFreshSimulators(t *testing.T) {
	var lines strings.Builder
	addr := uint64(7)
	for i := 0; i < 3000; i++ {
		addr = addr*6364136223846793005 + 1442695040888963407
		fmt.Fprintf(&lines, "R %d %d 0\n", addr%(1<<20), addr%4)
	}
	path := writeTrace(t, lines.String())

	run := func() *Metrics {
		s, err := NewSimulator(testConfig())
		require.NoError(t, err)
		require.NoError(t, s.ReplayFile(path))
		return s.Metrics
	}

	first, second := run(), run()
	assert.Equal(t, first.L1, second.L1)
	assert.Equal(t, first.L2, second.L2)
	assert.Equal(t, first.L3, second.L3)
	assert.Equal(t, first.Processed, second.Processed)
}

func TestClassifyAccess(t *testing.T) {
	assert.Equal(t, accessRead, classifyAccess("R"))
	assert.Equal(t, accessRead, classifyAccess("load"))
	assert.Equal(t, accessWrite, classifyAccess("W"))
	assert.Equal(t, accessWrite, classifyAccess("store"))
	assert.Equal(t, accessOther, classifyAccess("prefetch"))
	assert.Equal(t, accessOther, classifyAccess(""))
}
