package parser

import (
	"fmt"
	"io"
	"os"
)

// FastqBuilder constructs a record from one FASTQ entry. The name,
// data and quality slices point into parser owned storage and are only
// valid for the duration of the call.
type FastqBuilder[T any] func(name, data, quality []byte) T

const (
	fastqName = iota
	fastqData
	fastqQuality
)

type fastqParser[T any] struct {
	base
	build FastqBuilder[T]
}

// NewFastq returns a parser reading FASTQ records from src.
func NewFastq[T any](src io.ReadSeeker, build FastqBuilder[T]) Parser[T] {
	return &fastqParser[T]{
		base: newBase(src, "fastq",
			[]int{smallStorage},
			[]int{mediumStorage, largeStorage},
			[]int{mediumStorage, largeStorage}),
		build: build,
	}
}

// OpenFastq returns a parser reading FASTQ records from the file at
// path. The parser owns the file and closes it on Close.
func OpenFastq[T any](path string, build FastqBuilder[T]) (Parser[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return NewFastq(f, build), nil
}

func (p *fastqParser[T]) Parse(dst *[]T, maxBytes uint64) (bool, error) {
	return p.parse(maxBytes, &fastqMachine[T]{cur: p.cur, st: p.st, build: p.build, dst: dst})
}

func (p *fastqParser[T]) ParseShared(dst *[]*T, maxBytes uint64) (bool, error) {
	return parseShared[T](p, dst, maxBytes)
}

// fastqMachine scans the fixed four line layout: name, sequence,
// separator, quality. The separator line is discarded.
type fastqMachine[T any] struct {
	cur   *cursor
	st    *storage
	build FastqBuilder[T]
	dst   *[]T
	line  uint32 // current line within the four line record
}

func (m *fastqMachine[T]) scan(chunk []byte) error {
	for _, c := range chunk {
		m.cur.sinceBoundary++
		valid := false
		if c == '\n' {
			m.line = (m.line + 1) % 4
			valid = m.line == 0
		} else {
			switch m.line {
			case 0:
				// Header bytes beyond the name storage size are dropped.
				if m.st.used(fastqName) > 0 || !isSpace(c) {
					m.st.appendCapped(fastqName, c)
				}
			case 1:
				if err := m.st.appendByte(fastqData, c); err != nil {
					return fmt.Errorf("fastq: %w", err)
				}
			case 2:
				// separator line
			case 3:
				if err := m.st.appendByte(fastqQuality, c); err != nil {
					return fmt.Errorf("fastq: %w", err)
				}
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

func (m *fastqMachine[T]) finish() error {
	if m.cur.sinceBoundary == 0 {
		return nil
	}
	return m.emit()
}

func (m *fastqMachine[T]) emit() error {
	m.st.trimSpace(fastqName)
	m.st.trimSpace(fastqData)
	m.st.trimSpace(fastqQuality)
	name := m.st.view(fastqName)
	data := m.st.view(fastqData)
	quality := m.st.view(fastqQuality)
	if len(name) == 0 || name[0] != '@' {
		return fmt.Errorf("fastq: %w: header line must start with '@'", ErrInvalidFormat)
	}
	if len(data) == 0 || len(quality) == 0 {
		return fmt.Errorf("fastq: %w: sequence or quality data is missing", ErrInvalidFormat)
	}
	if len(data) != len(quality) {
		return fmt.Errorf("fastq: %w: sequence and quality lengths must match", ErrInvalidFormat)
	}
	*m.dst = append(*m.dst, m.build(name[1:], data, quality))
	m.cur.produced++

	m.cur.sinceBoundary = 0
	m.st.resetAll()
	return nil
}
