package seq

import (
	"strconv"

	"bioparse/parser"
)

// AppendFasta appends s as a FASTA entry, wrapping data lines at width
// columns. A width of zero or less writes the data on a single line.
func (s *Sequence) AppendFasta(dst []byte, width int) []byte {
	dst = append(dst, '>')
	dst = append(dst, s.Name...)
	dst = append(dst, '\n')
	if width <= 0 || width >= len(s.Data) {
		dst = append(dst, s.Data...)
		dst = append(dst, '\n')
		return dst
	}
	for off := 0; off < len(s.Data); off += width {
		end := min(off+width, len(s.Data))
		dst = append(dst, s.Data[off:end]...)
		dst = append(dst, '\n')
	}
	return dst
}

// AppendFastq appends s as a four line FASTQ entry. A sequence without
// quality gets a placeholder quality string of '!' bytes.
func (s *Sequence) AppendFastq(dst []byte) []byte {
	dst = append(dst, '@')
	dst = append(dst, s.Name...)
	dst = append(dst, '\n')
	dst = append(dst, s.Data...)
	dst = append(dst, "\n+\n"...)
	if len(s.Quality) == 0 {
		for range s.Data {
			dst = append(dst, '!')
		}
	} else {
		dst = append(dst, s.Quality...)
	}
	dst = append(dst, '\n')
	return dst
}

// AppendMhap appends o as one MHAP overlap line.
func AppendMhap(dst []byte, o parser.MhapOverlap) []byte {
	dst = strconv.AppendUint(dst, uint64(o.AID), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.BID), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, o.ErrorRate, 'f', -1, 64)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.SharedMinmers), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.ARC), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.ABegin), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.AEnd), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.ALength), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.BRC), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.BBegin), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.BEnd), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(o.BLength), 10)
	dst = append(dst, '\n')
	return dst
}

// AppendPaf appends o as one PAF overlap line.
func AppendPaf(dst []byte, o parser.PafOverlap) []byte {
	dst = append(dst, o.AName...)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(o.ALength), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(o.ABegin), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(o.AEnd), 10)
	dst = append(dst, '\t')
	dst = append(dst, o.Orientation)
	dst = append(dst, '\t')
	dst = append(dst, o.BName...)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(o.BLength), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(o.BBegin), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(o.BEnd), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(o.MatchingBases), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(o.AlignmentLength), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(o.MappingQuality), 10)
	dst = append(dst, '\n')
	return dst
}
