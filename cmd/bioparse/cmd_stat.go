package main

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/google/btree"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bioparse/internal/detect"
	"bioparse/internal/spool"
	"bioparse/parser"
	"bioparse/seq"
)

func newStatCmd() *cobra.Command {
	var (
		format  string
		chunk   uint64
		workers int
	)

	cmd := &cobra.Command{
		Use:   "stat <file>...",
		Short: "Summarize record counts and length distributions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want, err := detect.ParseFormat(format)
			if err != nil {
				return err
			}
			if workers < 1 {
				workers = runtime.NumCPU()
			}

			results := make([]*fileStat, len(args))
			var g errgroup.Group
			g.SetLimit(workers)
			for i, path := range args {
				g.Go(func() error {
					st, err := statFile(path, want, chunk)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = st
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			fmt.Println("file\tformat\trecords\tnames\tbases\tqualities\tmin\tmax\tn50\tquality")
			for _, st := range results {
				fmt.Println(st.row())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "input format (auto, fasta, fastq, mhap, paf)")
	cmd.Flags().Uint64Var(&chunk, "chunk", defaultChunkBytes, "parse budget in bytes per batch (0 reads whole files)")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "files to process in parallel")

	return cmd
}

// fileStat is the printable summary of one input file. Sequence
// formats count data bases, overlap formats count spanned bases on
// the first read.
type fileStat struct {
	path         string
	format       detect.Format
	records      uint64
	nameBytes    uint64
	bases        uint64
	qualityBytes uint64
	min          uint32
	max          uint32
	n50          uint32
	quality      string
}

// row renders one tab separated output line. Columns a format does
// not carry (MHAP names, non-FASTQ qualities) print as "-".
func (st *fileStat) row() string {
	names := "-"
	if st.format != detect.Mhap {
		names = strconv.FormatUint(st.nameBytes, 10)
	}
	qualities := "-"
	if st.format == detect.Fastq {
		qualities = strconv.FormatUint(st.qualityBytes, 10)
	}
	return fmt.Sprintf("%s\t%s\t%d\t%s\t%d\t%s\t%d\t%d\t%d\t%s",
		st.path, st.format, st.records, names, st.bases, qualities, st.min, st.max, st.n50, st.quality)
}

func statFile(path string, format detect.Format, chunk uint64) (*fileStat, error) {
	in, err := spool.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	if format == detect.Unknown {
		if format, err = detect.Detect(in); err != nil {
			return nil, err
		}
	}

	st := &fileStat{path: path, format: format, quality: "-"}
	switch format {
	case detect.Fasta:
		err = statSequences(seq.NewFasta(in), chunk, st, false)
	case detect.Fastq:
		err = statSequences(seq.NewFastq(in), chunk, st, true)
	case detect.Mhap:
		err = statOverlaps(seq.NewMhap(in), chunk, st)
	case detect.Paf:
		err = statOverlaps(seq.NewPaf(in), chunk, st)
	default:
		err = errors.New("cannot recognize file format")
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func statSequences(p parser.Parser[*seq.Sequence], chunk uint64, st *fileStat, withQuality bool) error {
	lengths := newLengthStats()
	records := make([]*seq.Sequence, 0, 1024)
	budget := chunk
	sawQuality := false
	for {
		records = records[:0]
		more, err := p.Parse(&records, budget)
		if errors.Is(err, parser.ErrChunkTooSmall) {
			budget *= 2
			continue
		}
		if err != nil {
			return err
		}
		for _, s := range records {
			lengths.add(uint32(len(s.Data)))
			st.nameBytes += uint64(len(s.Name))
			st.qualityBytes += uint64(len(s.Quality))
		}
		if withQuality && !sawQuality && len(records) > 0 {
			qualities := make([][]byte, len(records))
			for i, s := range records {
				qualities[i] = s.Quality
			}
			st.quality = detect.DetectQuality(qualities).String()
			sawQuality = true
		}
		if !more {
			break
		}
	}
	lengths.fill(st)
	return nil
}

func statOverlaps(p parser.Parser[*seq.Overlap], chunk uint64, st *fileStat) error {
	lengths := newLengthStats()
	records := make([]*seq.Overlap, 0, 1024)
	budget := chunk
	for {
		records = records[:0]
		more, err := p.Parse(&records, budget)
		if errors.Is(err, parser.ErrChunkTooSmall) {
			budget *= 2
			continue
		}
		if err != nil {
			return err
		}
		for _, o := range records {
			lengths.add(o.AEnd - o.ABegin)
			st.nameBytes += uint64(len(o.AName) + len(o.BName))
		}
		if !more {
			break
		}
	}
	lengths.fill(st)
	return nil
}

// lengthBucket counts records sharing one length.
type lengthBucket struct {
	length uint32
	count  uint32
}

// lengthStats accumulates a length distribution. Lengths go into an
// ordered multiset so the N50 can be read off by walking buckets from
// the longest down.
type lengthStats struct {
	total   uint64
	count   uint64
	min     uint32
	max     uint32
	buckets *btree.BTreeG[lengthBucket]
}

func newLengthStats() *lengthStats {
	return &lengthStats{
		buckets: btree.NewG[lengthBucket](2, func(a, b lengthBucket) bool {
			return a.length < b.length
		}),
	}
}

func (s *lengthStats) add(n uint32) {
	s.count++
	s.total += uint64(n)
	if s.count == 1 || n < s.min {
		s.min = n
	}
	if n > s.max {
		s.max = n
	}
	bucket := lengthBucket{length: n, count: 1}
	if prev, ok := s.buckets.Get(bucket); ok {
		bucket.count += prev.count
	}
	s.buckets.ReplaceOrInsert(bucket)
}

// n50 returns the length of the shortest record among the longest
// records that together cover at least half of the total bases.
func (s *lengthStats) n50() uint32 {
	if s.count == 0 {
		return 0
	}
	var covered uint64
	var result uint32
	s.buckets.Descend(func(b lengthBucket) bool {
		covered += uint64(b.length) * uint64(b.count)
		result = b.length
		return covered*2 < s.total
	})
	return result
}

func (s *lengthStats) fill(st *fileStat) {
	st.records = s.count
	st.bases = s.total
	st.min = s.min
	st.max = s.max
	st.n50 = s.n50()
}
