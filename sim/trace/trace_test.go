package trace

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_WellFormed_AllFieldsPopulated(t *testing.T) {
	// GIVEN a well-formed four-field trace line
	rec, err := ParseLine("R 4096 3 140723999")

	// THEN every field is parsed, none left at a default value
	require.NoError(t, err)
	assert.Equal(t, Record{
		AccessType:    "R",
		Address:       4096,
		ThreadID:      3,
		ReturnAddress: 140723999,
	}, rec)
}

func TestParseLine_HexAddress_Accepted(t *testing.T) {
	rec, err := ParseLine("W 0x1000 0 0xdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1000), rec.Address)
	assert.Equal(t, uint64(0xdeadbeef), rec.ReturnAddress)

	rec, err = ParseLine("W 0X1000 0 0XDEADBEEF")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1000), rec.Address)
	assert.Equal(t, uint64(0xdeadbeef), rec.ReturnAddress)
}

func TestParseLine_ZeroPaddedDecimal_NotOctal(t *testing.T) {
	// GIVEN numeric fields padded with leading zeros
	rec, err := ParseLine("R 010 007 0064")

	// THEN they read as decimal, never octal
	require.NoError(t, err)
	assert.Equal(t, uint64(10), rec.Address)
	assert.Equal(t, uint64(7), rec.ThreadID)
	assert.Equal(t, uint64(64), rec.ReturnAddress)
}

func TestParseLine_WrongFieldCount_Rejected(t *testing.T) {
	for _, line := range []string{"R 4096 3", "R 4096 3 99 extra", "R"} {
		_, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrMalformedRecord, "line %q", line)
	}
}

func TestParseLine_NonNumericField_RejectedNotDefaulted(t *testing.T) {
	// A partially numeric line must be rejected outright, never returned
	// with the unparsed fields left at zero.
	_, err := ParseLine("R banana 3 99")
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = ParseLine("R 4096 three 99")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestReader_SkipsMalformedAndCounts(t *testing.T) {
	// GIVEN a trace with two good records, one malformed record, and a blank line
	input := "R 64 0 1\nnot a record\nW 128 1 2\n\n"
	r := NewReader(strings.NewReader(input))

	// WHEN the stream is drained
	var got []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, rec)
	}

	// THEN both good records come through in order, the malformed line is
	// counted, and the blank line is ignored without counting
	require.Len(t, got, 2)
	assert.Equal(t, uint64(64), got[0].Address)
	assert.Equal(t, uint64(128), got[1].Address)
	assert.Equal(t, uint64(1), r.Skipped())
}

func TestReader_ExhaustedStream_ReturnsEOF(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, uint64(0), r.Skipped())
}

func TestOpen_MissingFile_TraceUnavailable(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no-such-trace.log"))
	assert.ErrorIs(t, err, ErrTraceUnavailable)
}

func TestOpen_ReadsFileToEOF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.log")
	require.NoError(t, os.WriteFile(path, []byte("R 0 0 0\nR 64 0 0\n"), 0644))

	r, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	n := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		n++
	}
	if n != 2 {
		t.Errorf("read %d records, want 2", n)
	}
	require.NoError(t, r.Close())
}

func TestOpen_MissingFileError_MentionsPath(t *testing.T) {
	_, err := Open("/definitely/not/here.log")
	require.Error(t, err)
	if !errors.Is(err, ErrTraceUnavailable) {
		t.Fatalf("error %v is not ErrTraceUnavailable", err)
	}
	assert.Contains(t, err.Error(), "here.log")
}
