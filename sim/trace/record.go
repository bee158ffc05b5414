// Package trace provides memory-access trace ingestion: the record type,
// single-line parsing, and a streaming file reader. It stores pure data
// types and has no dependency on the sim package.
package trace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedRecord marks a trace line that does not parse into four
// whitespace-separated fields with valid unsigned integers. Readers skip
// such lines and keep a count; they never abort the replay.
var ErrMalformedRecord = errors.New("malformed trace record")

// Record is one parsed line of a memory-access trace:
//
//	<access_type> <address> <thread_id> <return_address>
//
// Only Address and ThreadID drive the cache simulation; AccessType and
// ReturnAddress are retained for completeness and per-type accounting.
type Record struct {
	AccessType    string
	Address       uint64
	ThreadID      uint64
	ReturnAddress uint64
}

// ParseLine parses a single trace line. Numeric fields are decimal, or
// hexadecimal with an explicit 0x prefix. A partial parse never yields a
// Record with stale or default fields: either all four fields parse, or
// the line is rejected with ErrMalformedRecord.
func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Record{}, fmt.Errorf("%w: expected 4 fields, got %d", ErrMalformedRecord, len(fields))
	}

	addr, err := parseUintField(fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad address %q", ErrMalformedRecord, fields[1])
	}
	tid, err := parseUintField(fields[2])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad thread id %q", ErrMalformedRecord, fields[2])
	}
	ret, err := parseUintField(fields[3])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad return address %q", ErrMalformedRecord, fields[3])
	}

	return Record{
		AccessType:    fields[0],
		Address:       addr,
		ThreadID:      tid,
		ReturnAddress: ret,
	}, nil
}

// parseUintField parses one numeric trace field. Unprefixed fields are
// always decimal, so a zero-padded value like 010 reads as ten, never
// octal eight; only an explicit 0x/0X prefix selects hexadecimal.
func parseUintField(s string) (uint64, error) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		return strconv.ParseUint(rest, 16, 64)
	}
	if rest, ok := strings.CutPrefix(s, "0X"); ok {
		return strconv.ParseUint(rest, 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}
