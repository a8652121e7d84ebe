// Package parser provides chunked, memory-bounded parsing of FASTA,
// FASTQ, MHAP and PAF files.
package parser

import (
	"fmt"
	"io"
)

const (
	// bufferSize is the size of one read chunk.
	bufferSize = 64 << 10

	smallStorage  = 1 << 10
	mediumStorage = 8 << 20
	largeStorage  = 512 << 20
)

// Parser reads records of one file format from a seekable stream.
//
// A Parser is not safe for concurrent use. The byte slices handed to
// builder callbacks point into reused storage, so builders must copy
// whatever they keep.
type Parser[T any] interface {
	// Parse appends records to *dst until the stream ends or reading
	// another chunk would push the call past maxBytes read bytes.
	// maxBytes 0 removes the limit. The returned flag reports whether
	// records remain; in that case the stream has been rewound to the
	// first unparsed record and the next call continues from there.
	// A budget too small to reach the first record boundary fails
	// with ErrChunkTooSmall, leaving the stream where the call began
	// so the caller may retry with a larger budget.
	Parse(dst *[]T, maxBytes uint64) (bool, error)

	// ParseShared behaves like Parse but appends shared pointers.
	ParseShared(dst *[]*T, maxBytes uint64) (bool, error)

	// Reset rewinds the stream so the next Parse starts from the
	// beginning. Storage grown by earlier calls is kept.
	Reset() error

	// Close releases the underlying stream when it implements
	// io.Closer.
	Close() error
}

// machine holds the scanning state of one format during a single
// Parse call. State left over from an interrupted call is discarded
// with the machine itself.
type machine interface {
	// scan consumes one chunk, emitting every record completed in it.
	scan(chunk []byte) error
	// finish completes a record left pending at the end of the stream.
	finish() error
}

// base carries the machinery shared by all format parsers.
type base struct {
	cur  *cursor
	st   *storage
	name string
}

func newBase(src io.ReadSeeker, name string, ladders ...[]int) base {
	return base{cur: newCursor(src), st: newStorage(ladders...), name: name}
}

// parse is the common chunk loop. It reads whole chunks, checks the
// byte budget before scanning each one, and rewinds the stream to the
// last record boundary when the budget runs out mid-record.
func (b *base) parse(maxBytes uint64, m machine) (bool, error) {
	if b.cur.eof {
		return false, nil
	}
	b.cur.begin()
	b.st.resetAll()

	for !b.cur.eof {
		n, err := b.cur.fill()
		if err != nil {
			return false, err
		}
		if maxBytes != 0 && b.cur.total > maxBytes {
			if err := b.cur.rewind(n); err != nil {
				return false, err
			}
			if b.cur.produced == 0 {
				// The stream is back where the call started, so the
				// caller may retry with a larger budget.
				return false, fmt.Errorf("%s: %w: no record boundary within %d bytes",
					b.name, ErrChunkTooSmall, maxBytes)
			}
			return true, nil
		}
		if err := m.scan(b.cur.buf[:n]); err != nil {
			return false, err
		}
	}

	return false, m.finish()
}

// Reset rewinds the stream so the next Parse starts from the
// beginning. Storage grown by earlier calls is kept.
func (b *base) Reset() error {
	return b.cur.rewindToStart()
}

// Close releases the underlying stream when it implements io.Closer.
func (b *base) Close() error {
	if c, ok := b.cur.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
