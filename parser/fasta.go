package parser

import (
	"fmt"
	"io"
	"os"
)

// FastaBuilder constructs a record from one FASTA entry. The name and
// data slices point into parser owned storage and are only valid for
// the duration of the call.
type FastaBuilder[T any] func(name, data []byte) T

const (
	fastaName = iota
	fastaData
)

type fastaParser[T any] struct {
	base
	build FastaBuilder[T]
}

// NewFasta returns a parser reading FASTA records from src.
func NewFasta[T any](src io.ReadSeeker, build FastaBuilder[T]) Parser[T] {
	return &fastaParser[T]{
		base:  newBase(src, "fasta", []int{smallStorage}, []int{mediumStorage, largeStorage}),
		build: build,
	}
}

// OpenFasta returns a parser reading FASTA records from the file at
// path. The parser owns the file and closes it on Close.
func OpenFasta[T any](path string, build FastaBuilder[T]) (Parser[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return NewFasta(f, build), nil
}

func (p *fastaParser[T]) Parse(dst *[]T, maxBytes uint64) (bool, error) {
	return p.parse(maxBytes, &fastaMachine[T]{cur: p.cur, st: p.st, build: p.build, dst: dst})
}

func (p *fastaParser[T]) ParseShared(dst *[]*T, maxBytes uint64) (bool, error) {
	return parseShared[T](p, dst, maxBytes)
}

// fastaMachine scans header lines introduced by '>' followed by any
// number of sequence lines. A record ends at the next marker or at the
// end of the stream.
type fastaMachine[T any] struct {
	cur   *cursor
	st    *storage
	build FastaBuilder[T]
	dst   *[]T
	line  uint32 // lines consumed within the current record
}

func (m *fastaMachine[T]) scan(chunk []byte) error {
	for _, c := range chunk {
		m.cur.sinceBoundary++
		valid := false
		switch {
		case c == '\n':
			m.line++
		case c == '>' && m.line != 0:
			valid = true
			m.line = 0
		case m.line == 0:
			// Header bytes beyond the name storage size are dropped.
			if m.st.used(fastaName) > 0 || !isSpace(c) {
				m.st.appendCapped(fastaName, c)
			}
		default:
			if err := m.st.appendByte(fastaData, c); err != nil {
				return fmt.Errorf("fasta: %w", err)
			}
		}
		if valid {
			if err := m.emit(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *fastaMachine[T]) finish() error {
	if m.cur.sinceBoundary == 0 {
		return nil
	}
	return m.emit()
}

func (m *fastaMachine[T]) emit() error {
	m.st.trimSpace(fastaName)
	m.st.trimSpace(fastaData)
	name := m.st.view(fastaName)
	data := m.st.view(fastaData)
	if len(name) == 0 || name[0] != '>' {
		return fmt.Errorf("fasta: %w: header line must start with '>'", ErrInvalidFormat)
	}
	if len(data) == 0 {
		return fmt.Errorf("fasta: %w: sequence data is missing", ErrInvalidFormat)
	}
	*m.dst = append(*m.dst, m.build(name[1:], data))
	m.cur.produced++

	// The marker that completed this record opens the next one, so it
	// stays part of the byte accounting and of the name storage.
	m.cur.sinceBoundary = 1
	m.st.reset(fastaName)
	m.st.appendCapped(fastaName, '>')
	m.st.reset(fastaData)
	return nil
}
