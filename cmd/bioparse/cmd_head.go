package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bioparse/internal/detect"
	"bioparse/internal/spool"
	"bioparse/parser"
	"bioparse/seq"
)

const headLineWidth = 80

func newHeadCmd() *cobra.Command {
	var (
		count  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "head <file>",
		Short: "Print the first records of a sequence or overlap file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want, err := detect.ParseFormat(format)
			if err != nil {
				return err
			}

			in, err := spool.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			if want == detect.Unknown {
				if want, err = detect.Detect(in); err != nil {
					return err
				}
			}

			p, err := headParser(in, want)
			if err != nil {
				return err
			}

			bw := bufio.NewWriterSize(os.Stdout, writeBufferSize)
			if err := printHead(p, bw, count); err != nil {
				return err
			}
			return bw.Flush()
		},
	}

	cmd.Flags().IntVarP(&count, "records", "n", 10, "number of records to print")
	cmd.Flags().StringVarP(&format, "format", "f", "auto", "input format (auto, fasta, fastq, mhap, paf)")

	return cmd
}

// headParser renders records to their native text form. The builders
// copy out of the parse buffer right away, before the next parse call
// recycles it.
func headParser(src io.ReadSeeker, format detect.Format) (parser.Parser[[]byte], error) {
	switch format {
	case detect.Fasta:
		return parser.NewFasta(src, func(name, data []byte) []byte {
			s := seq.Sequence{Name: string(name), Data: data}
			return s.AppendFasta(nil, headLineWidth)
		}), nil
	case detect.Fastq:
		return parser.NewFastq(src, func(name, data, quality []byte) []byte {
			s := seq.Sequence{Name: string(name), Data: data, Quality: quality}
			return s.AppendFastq(nil)
		}), nil
	case detect.Mhap:
		return parser.NewMhap(src, func(o parser.MhapOverlap) []byte {
			return seq.AppendMhap(nil, o)
		}), nil
	case detect.Paf:
		return parser.NewPaf(src, func(o parser.PafOverlap) []byte {
			return seq.AppendPaf(nil, o)
		}), nil
	default:
		return nil, errors.New("cannot recognize file format")
	}
}

func printHead(p parser.Parser[[]byte], w io.Writer, count int) error {
	rendered := make([][]byte, 0, 256)
	budget := uint64(defaultChunkBytes)
	for count > 0 {
		rendered = rendered[:0]
		more, err := p.Parse(&rendered, budget)
		if errors.Is(err, parser.ErrChunkTooSmall) {
			budget *= 2
			continue
		}
		if err != nil {
			return err
		}
		for _, record := range rendered {
			if count == 0 {
				break
			}
			if _, err := w.Write(record); err != nil {
				return fmt.Errorf("writing record: %w", err)
			}
			count--
		}
		if !more {
			break
		}
	}
	return nil
}
