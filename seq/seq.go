// Package seq provides ready to use record types and pre wired parsers
// for the supported file formats, so most callers need no custom
// builder of their own.
package seq

import (
	"bytes"
	"io"

	"bioparse/parser"
)

// Sequence is one read with an optional quality string.
type Sequence struct {
	Name    string
	Data    []byte
	Quality []byte // empty for FASTA input
}

// FromFasta builds a Sequence from FASTA parser views, copying them out
// of parser owned storage.
func FromFasta(name, data []byte) *Sequence {
	return &Sequence{Name: string(name), Data: bytes.Clone(data)}
}

// FromFastq builds a Sequence from FASTQ parser views, copying them out
// of parser owned storage.
func FromFastq(name, data, quality []byte) *Sequence {
	return &Sequence{
		Name:    string(name),
		Data:    bytes.Clone(data),
		Quality: bytes.Clone(quality),
	}
}

// Overlap is a pairwise overlap between two reads, unified over the
// MHAP and PAF sources. MHAP records carry read identifiers, PAF
// records carry read names; the unused half is left zero.
type Overlap struct {
	AID         uint32 // zero based identifier of the first read
	AName       string
	ABegin      uint32
	AEnd        uint32
	ALength     uint32
	BID         uint32 // zero based identifier of the second read
	BName       string
	BBegin      uint32
	BEnd        uint32
	BLength     uint32
	Orientation byte // '+' when both reads are on the same strand
}

// FromMhap builds an Overlap from an MHAP record. The one based read
// identifiers become zero based and the orientation is derived from
// the two strand flags.
func FromMhap(o parser.MhapOverlap) *Overlap {
	orientation := byte('+')
	if o.ARC != o.BRC {
		orientation = '-'
	}
	return &Overlap{
		AID:         o.AID - 1,
		ABegin:      o.ABegin,
		AEnd:        o.AEnd,
		ALength:     o.ALength,
		BID:         o.BID - 1,
		BBegin:      o.BBegin,
		BEnd:        o.BEnd,
		BLength:     o.BLength,
		Orientation: orientation,
	}
}

// FromPaf builds an Overlap from a PAF record, copying the name views
// out of parser owned storage.
func FromPaf(o parser.PafOverlap) *Overlap {
	return &Overlap{
		AName:       string(o.AName),
		ABegin:      o.ABegin,
		AEnd:        o.AEnd,
		ALength:     o.ALength,
		BName:       string(o.BName),
		BBegin:      o.BBegin,
		BEnd:        o.BEnd,
		BLength:     o.BLength,
		Orientation: o.Orientation,
	}
}

// NewFasta returns a Sequence parser reading FASTA records from src.
func NewFasta(src io.ReadSeeker) parser.Parser[*Sequence] {
	return parser.NewFasta(src, FromFasta)
}

// OpenFasta returns a Sequence parser reading FASTA records from the
// file at path.
func OpenFasta(path string) (parser.Parser[*Sequence], error) {
	return parser.OpenFasta(path, FromFasta)
}

// NewFastq returns a Sequence parser reading FASTQ records from src.
func NewFastq(src io.ReadSeeker) parser.Parser[*Sequence] {
	return parser.NewFastq(src, FromFastq)
}

// OpenFastq returns a Sequence parser reading FASTQ records from the
// file at path.
func OpenFastq(path string) (parser.Parser[*Sequence], error) {
	return parser.OpenFastq(path, FromFastq)
}

// NewMhap returns an Overlap parser reading MHAP records from src.
func NewMhap(src io.ReadSeeker) parser.Parser[*Overlap] {
	return parser.NewMhap(src, FromMhap)
}

// OpenMhap returns an Overlap parser reading MHAP records from the
// file at path.
func OpenMhap(path string) (parser.Parser[*Overlap], error) {
	return parser.OpenMhap(path, FromMhap)
}

// NewPaf returns an Overlap parser reading PAF records from src.
func NewPaf(src io.ReadSeeker) parser.Parser[*Overlap] {
	return parser.NewPaf(src, FromPaf)
}

// OpenPaf returns an Overlap parser reading PAF records from the file
// at path.
func OpenPaf(path string) (parser.Parser[*Overlap], error) {
	return parser.OpenPaf(path, FromPaf)
}
