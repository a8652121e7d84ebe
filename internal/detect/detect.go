// Package detect classifies input streams by content so the tools can
// pick the right parser without being told the format.
package detect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Format identifies one of the supported file formats.
type Format int

const (
	Unknown Format = iota
	Fasta
	Fastq
	Mhap
	Paf
)

func (f Format) String() string {
	switch f {
	case Fasta:
		return "fasta"
	case Fastq:
		return "fastq"
	case Mhap:
		return "mhap"
	case Paf:
		return "paf"
	}
	return "unknown"
}

// ParseFormat maps a format flag value to a Format. "auto" and the
// empty string return Unknown with no error, telling the caller to
// sniff the stream instead.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "auto":
		return Unknown, nil
	case "fasta":
		return Fasta, nil
	case "fastq":
		return Fastq, nil
	case "mhap":
		return Mhap, nil
	case "paf":
		return Paf, nil
	}
	return Unknown, fmt.Errorf("unknown format %q", s)
}

// sniffSize bounds how much of the stream Detect examines.
const sniffSize = 32 << 10

// Detect reads up to 32 KiB from rs, classifies the content and seeks
// back to where the stream was before the call.
func Detect(rs io.ReadSeeker) (Format, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return Unknown, fmt.Errorf("detecting format: %w", err)
	}

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(rs, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Unknown, fmt.Errorf("detecting format: %w", err)
	}
	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return Unknown, fmt.Errorf("detecting format: %w", err)
	}
	return classify(buf[:n]), nil
}

// classify inspects the first marker byte, falling back to the field
// shape of the first line for the overlap formats. A tab separated
// 12 column line is PAF; a whitespace separated line of 12 numbers is
// MHAP.
func classify(prefix []byte) Format {
	prefix = bytes.TrimLeft(prefix, " \t\r\n\v\f")
	if len(prefix) == 0 {
		return Unknown
	}
	switch prefix[0] {
	case '>':
		return Fasta
	case '@':
		return Fastq
	}

	line, _, _ := bytes.Cut(prefix, []byte{'\n'})
	line = bytes.TrimRight(line, " \t\r")
	if fields := bytes.Split(line, []byte{'\t'}); len(fields) == 12 {
		return Paf
	}
	fields := bytes.Fields(line)
	if len(fields) != 12 {
		return Unknown
	}
	for _, f := range fields {
		if _, err := strconv.ParseFloat(string(f), 64); err != nil {
			return Unknown
		}
	}
	return Mhap
}
