// sim/trace/reader.go
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrTraceUnavailable marks a trace source that cannot be opened at all.
// Unlike malformed records, this is fatal: replaying nothing and reporting
// all-zero statistics would be misleading.
var ErrTraceUnavailable = errors.New("trace unavailable")

// Reader streams trace records from an input source one line at a time.
// Malformed lines are skipped and counted rather than aborting the run;
// blank lines are ignored without counting.
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	lineNo  uint64
	skipped uint64
}

// Open opens a trace file for streaming. A file that cannot be opened is
// reported as ErrTraceUnavailable.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTraceUnavailable, err)
	}
	r := NewReader(file)
	r.closer = file
	return r, nil
}

// NewReader wraps an arbitrary stream. The caller owns the stream's
// lifetime; Close is a no-op for readers created this way.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next well-formed record. It returns io.EOF once the
// stream is exhausted, or a read error if the underlying source fails
// mid-stream.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.lineNo++
		line := r.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			r.skipped++
			logrus.Debugf("skipping trace line %d: %v", r.lineNo, err)
			continue
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("reading trace at line %d: %w", r.lineNo, err)
	}
	return Record{}, io.EOF
}

// Skipped reports how many malformed lines have been skipped so far.
func (r *Reader) Skipped() uint64 {
	return r.skipped
}

// Close releases the underlying file, if the reader owns one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
