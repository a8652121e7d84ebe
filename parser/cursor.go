package parser

import (
	"errors"
	"fmt"
	"io"
)

// cursor reads a seekable stream in fixed chunks and keeps the byte
// accounting needed to rewind to the last record boundary.
type cursor struct {
	src io.ReadSeeker
	buf []byte
	eof bool

	total         uint64 // bytes read during the current call
	sinceBoundary uint64 // bytes consumed since the last record boundary
	produced      uint64 // records emitted during the current call
}

func newCursor(src io.ReadSeeker) *cursor {
	return &cursor{src: src, buf: make([]byte, bufferSize)}
}

// begin clears the per-call counters.
func (c *cursor) begin() {
	c.total = 0
	c.sinceBoundary = 0
	c.produced = 0
}

// fill reads the next chunk into the buffer. A short read marks the
// end of the stream.
func (c *cursor) fill() (int, error) {
	n, err := io.ReadFull(c.src, c.buf)
	c.total += uint64(n)
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return n, fmt.Errorf("reading input: %w", err)
		}
		c.eof = true
	}
	return n, nil
}

// rewind repositions the stream at the start of the record that was
// being read when the byte budget ran out. justRead is the size of the
// chunk that was read but not scanned.
func (c *cursor) rewind(justRead int) error {
	back := int64(c.sinceBoundary) + int64(justRead)
	if _, err := c.src.Seek(-back, io.SeekCurrent); err != nil {
		return fmt.Errorf("rewinding input: %w", err)
	}
	c.eof = false
	return nil
}

// rewindToStart repositions the stream at its beginning.
func (c *cursor) rewindToStart() error {
	if _, err := c.src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding input: %w", err)
	}
	c.eof = false
	return nil
}
