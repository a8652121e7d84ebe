package main

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"bioparse/internal/convert"
	"bioparse/internal/detect"
	"bioparse/internal/spool"
	"bioparse/parser"
	"bioparse/seq"
)

func newConvertCmd() *cobra.Command {
	var (
		input   string
		output  string
		to      string
		width   int
		workers int
		chunk   uint64
	)

	cmd := &cobra.Command{
		Use:   "convert --to <format> [-i input] [-o output]",
		Short: "Convert between FASTA and FASTQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := detect.ParseFormat(to)
			if err != nil {
				return err
			}

			in, err := spool.Open(input)
			if err != nil {
				return err
			}
			defer in.Close()

			source, err := detect.Detect(in)
			if err != nil {
				return err
			}

			var p parser.Parser[*seq.Sequence]
			switch source {
			case detect.Fasta:
				p = seq.NewFasta(in)
			case detect.Fastq:
				p = seq.NewFastq(in)
			default:
				return fmt.Errorf("cannot convert %s input", source)
			}

			out, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}

			opts := &convert.Options{
				To:         target,
				Width:      width,
				Workers:    workers,
				ChunkBytes: chunk,
			}
			if err := convert.Convert(p, out, opts); err != nil {
				_ = closeOut()
				return err
			}
			return closeOut()
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input file (default: stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, compressed when named .gz or .zst (default: stdout)")
	cmd.Flags().StringVar(&to, "to", "", "output format (fasta, fastq)")
	cmd.Flags().IntVar(&width, "width", 0, "FASTA line width (0 writes one line per record)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "rendering workers (default: NumCPU)")
	cmd.Flags().Uint64Var(&chunk, "chunk", convert.DefaultChunkBytes, "parse budget in bytes per block")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// openOutput creates the output sink, compressing by file extension.
// The returned close function flushes buffered data and must be
// checked.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		bw := bufio.NewWriterSize(os.Stdout, writeBufferSize)
		return bw, bw.Flush, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output: %w", err)
	}
	bw := bufio.NewWriterSize(f, writeBufferSize)

	switch {
	case strings.HasSuffix(strings.ToLower(path), ".gz"):
		gz := gzip.NewWriter(bw)
		return gz, func() error {
			return closeAll(gz.Close, bw.Flush, f.Close)
		}, nil
	case strings.HasSuffix(strings.ToLower(path), ".zst"):
		zw, err := zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			_ = f.Close()
			return nil, nil, fmt.Errorf("cannot create zstd output: %w", err)
		}
		return zw, func() error {
			return closeAll(zw.Close, bw.Flush, f.Close)
		}, nil
	}

	return bw, func() error {
		return closeAll(bw.Flush, f.Close)
	}, nil
}

// closeAll runs every step so the file descriptor is released even
// when an earlier flush fails, and reports the first error.
func closeAll(steps ...func() error) error {
	var first error
	for _, step := range steps {
		if err := step(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
