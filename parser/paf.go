package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
)

// PafOverlap is one parsed PAF overlap line. AName and BName point
// into parser owned storage and are only valid for the duration of the
// builder call.
type PafOverlap struct {
	AName           []byte
	ALength         uint32
	ABegin          uint32
	AEnd            uint32
	Orientation     byte // '+' when both reads are on the same strand
	BName           []byte
	BLength         uint32
	BBegin          uint32
	BEnd            uint32
	MatchingBases   uint32
	AlignmentLength uint32
	MappingQuality  uint32
}

// PafBuilder constructs a record from one PAF overlap line.
type PafBuilder[T any] func(overlap PafOverlap) T

const pafLine = 0

const pafFieldCount = 12

type pafParser[T any] struct {
	base
	build PafBuilder[T]
}

// NewPaf returns a parser reading PAF overlap lines from src.
func NewPaf[T any](src io.ReadSeeker, build PafBuilder[T]) Parser[T] {
	return &pafParser[T]{
		base:  newBase(src, "paf", []int{3 * smallStorage, mediumStorage, largeStorage}),
		build: build,
	}
}

// OpenPaf returns a parser reading PAF overlap lines from the file at
// path. The parser owns the file and closes it on Close.
func OpenPaf[T any](path string, build PafBuilder[T]) (Parser[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return NewPaf(f, build), nil
}

func (p *pafParser[T]) Parse(dst *[]T, maxBytes uint64) (bool, error) {
	return p.parse(maxBytes, &pafMachine[T]{cur: p.cur, st: p.st, build: p.build, dst: dst})
}

func (p *pafParser[T]) ParseShared(dst *[]*T, maxBytes uint64) (bool, error) {
	return parseShared[T](p, dst, maxBytes)
}

// pafMachine accumulates one line at a time and splits it into twelve
// tab separated fields.
type pafMachine[T any] struct {
	cur   *cursor
	st    *storage
	build PafBuilder[T]
	dst   *[]T
}

func (m *pafMachine[T]) scan(chunk []byte) error {
	for _, c := range chunk {
		m.cur.sinceBoundary++
		if c == '\n' {
			if err := m.emit(); err != nil {
				return err
			}
			continue
		}
		if err := m.st.appendByte(pafLine, c); err != nil {
			return fmt.Errorf("paf: %w", err)
		}
	}
	return nil
}

func (m *pafMachine[T]) finish() error {
	if m.cur.sinceBoundary == 0 {
		return nil
	}
	return m.emit()
}

func (m *pafMachine[T]) emit() error {
	m.st.trimSpace(pafLine)
	fields := bytes.Split(m.st.view(pafLine), []byte{'\t'})
	if len(fields) != pafFieldCount {
		return fmt.Errorf("paf: %w: expected %d fields, found %d",
			ErrInvalidFormat, pafFieldCount, len(fields))
	}

	aName := trimName(fields[0])
	bName := trimName(fields[5])
	if len(aName) == 0 || len(bName) == 0 {
		return fmt.Errorf("paf: %w: sequence name is empty", ErrInvalidFormat)
	}
	if len(fields[4]) == 0 {
		return fmt.Errorf("paf: %w: orientation field is empty", ErrInvalidFormat)
	}

	var parseErr error
	u32 := func(i int) uint32 {
		v, err := strconv.ParseUint(string(fields[i]), 10, 32)
		if err != nil && parseErr == nil {
			parseErr = fmt.Errorf("paf: %w: field %d is not an unsigned integer",
				ErrInvalidFormat, i+1)
		}
		return uint32(v)
	}

	o := PafOverlap{
		AName:           aName,
		ALength:         u32(1),
		ABegin:          u32(2),
		AEnd:            u32(3),
		Orientation:     fields[4][0],
		BName:           bName,
		BLength:         u32(6),
		BBegin:          u32(7),
		BEnd:            u32(8),
		MatchingBases:   u32(9),
		AlignmentLength: u32(10),
		MappingQuality:  u32(11),
	}
	if parseErr != nil {
		return parseErr
	}
	*m.dst = append(*m.dst, m.build(o))
	m.cur.produced++

	m.cur.sinceBoundary = 0
	m.st.reset(pafLine)
	return nil
}

// trimName drops trailing whitespace from a name field and caps it at
// the name storage size, mirroring header handling in the sequence
// formats.
func trimName(name []byte) []byte {
	for len(name) > 0 && isSpace(name[len(name)-1]) {
		name = name[:len(name)-1]
	}
	if len(name) > smallStorage {
		name = name[:smallStorage]
	}
	return name
}
