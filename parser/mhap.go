package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
)

// MhapOverlap is one parsed MHAP overlap line.
type MhapOverlap struct {
	AID           uint32  // identifier of the first read, as written
	BID           uint32  // identifier of the second read, as written
	ErrorRate     float64 // Jaccard distance estimate of the overlap
	SharedMinmers uint32
	ARC           uint32 // 1 when the first read is reverse complemented
	ABegin        uint32
	AEnd          uint32
	ALength       uint32
	BRC           uint32 // 1 when the second read is reverse complemented
	BBegin        uint32
	BEnd          uint32
	BLength       uint32
}

// MhapBuilder constructs a record from one MHAP overlap line.
type MhapBuilder[T any] func(overlap MhapOverlap) T

const mhapLine = 0

const mhapFieldCount = 12

type mhapParser[T any] struct {
	base
	build MhapBuilder[T]
}

// NewMhap returns a parser reading MHAP overlap lines from src.
func NewMhap[T any](src io.ReadSeeker, build MhapBuilder[T]) Parser[T] {
	return &mhapParser[T]{
		base:  newBase(src, "mhap", []int{smallStorage, mediumStorage, largeStorage}),
		build: build,
	}
}

// OpenMhap returns a parser reading MHAP overlap lines from the file
// at path. The parser owns the file and closes it on Close.
func OpenMhap[T any](path string, build MhapBuilder[T]) (Parser[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return NewMhap(f, build), nil
}

func (p *mhapParser[T]) Parse(dst *[]T, maxBytes uint64) (bool, error) {
	return p.parse(maxBytes, &mhapMachine[T]{cur: p.cur, st: p.st, build: p.build, dst: dst})
}

func (p *mhapParser[T]) ParseShared(dst *[]*T, maxBytes uint64) (bool, error) {
	return parseShared[T](p, dst, maxBytes)
}

// mhapMachine accumulates one line at a time and splits it into twelve
// whitespace separated numeric fields.
type mhapMachine[T any] struct {
	cur   *cursor
	st    *storage
	build MhapBuilder[T]
	dst   *[]T
}

func (m *mhapMachine[T]) scan(chunk []byte) error {
	for _, c := range chunk {
		m.cur.sinceBoundary++
		if c == '\n' {
			if err := m.emit(); err != nil {
				return err
			}
			continue
		}
		if err := m.st.appendByte(mhapLine, c); err != nil {
			return fmt.Errorf("mhap: %w", err)
		}
	}
	return nil
}

func (m *mhapMachine[T]) finish() error {
	if m.cur.sinceBoundary == 0 {
		return nil
	}
	return m.emit()
}

func (m *mhapMachine[T]) emit() error {
	m.st.trimSpace(mhapLine)
	fields := bytes.Fields(m.st.view(mhapLine))
	if len(fields) != mhapFieldCount {
		return fmt.Errorf("mhap: %w: expected %d fields, found %d",
			ErrInvalidFormat, mhapFieldCount, len(fields))
	}

	var parseErr error
	u32 := func(i int) uint32 {
		v, err := strconv.ParseUint(string(fields[i]), 10, 32)
		if err != nil && parseErr == nil {
			parseErr = fmt.Errorf("mhap: %w: field %d is not an unsigned integer",
				ErrInvalidFormat, i+1)
		}
		return uint32(v)
	}
	errorRate, err := strconv.ParseFloat(string(fields[2]), 64)
	if err != nil {
		return fmt.Errorf("mhap: %w: field 3 is not a number", ErrInvalidFormat)
	}

	o := MhapOverlap{
		AID:           u32(0),
		BID:           u32(1),
		ErrorRate:     errorRate,
		SharedMinmers: u32(3),
		ARC:           u32(4),
		ABegin:        u32(5),
		AEnd:          u32(6),
		ALength:       u32(7),
		BRC:           u32(8),
		BBegin:        u32(9),
		BEnd:          u32(10),
		BLength:       u32(11),
	}
	if parseErr != nil {
		return parseErr
	}
	*m.dst = append(*m.dst, m.build(o))
	m.cur.produced++

	m.cur.sinceBoundary = 0
	m.st.reset(mhapLine)
	return nil
}
