// Package convert renders parsed sequence records as FASTA or FASTQ,
// optionally with parallel rendering workers.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bioparse/internal/detect"
	"bioparse/parser"
	"bioparse/seq"
)

// DefaultChunkBytes is the default parse budget per rendered block.
const DefaultChunkBytes = 4 << 20

// Options configures a conversion.
type Options struct {
	To         detect.Format // output format, Fasta or Fastq
	Width      int           // FASTA line width (<= 0 writes one line per record)
	Workers    int           // rendering workers (default: NumCPU)
	ChunkBytes uint64        // parse budget per block (default: DefaultChunkBytes)
}

// renderJob is one block of records to render.
type renderJob struct {
	seqNum  int
	records []*seq.Sequence
}

// renderResult is one rendered block.
type renderResult struct {
	seqNum int
	data   []byte
}

// Convert drains p and writes every record to w in the target format.
// The parser stays on the producing goroutine; only the owned record
// blocks cross into the workers.
func Convert(p parser.Parser[*seq.Sequence], w io.Writer, opts *Options) error {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.ChunkBytes == 0 {
		o.ChunkBytes = DefaultChunkBytes
	}
	switch o.To {
	case detect.Fasta, detect.Fastq:
	default:
		return fmt.Errorf("cannot convert to %s", o.To)
	}

	// Single worker path (simpler, no goroutine overhead)
	if o.Workers == 1 {
		return convertSingleWorker(p, w, &o)
	}
	return convertParallel(p, w, &o)
}

func convertSingleWorker(p parser.Parser[*seq.Sequence], w io.Writer, o *Options) error {
	budget := o.ChunkBytes
	var block []byte
	for {
		records, more, err := nextBatch(p, &budget)
		if err != nil {
			return fmt.Errorf("parsing input: %w", err)
		}

		block = renderBlock(block[:0], records, o)
		if _, err := w.Write(block); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		if !more {
			return nil
		}
	}
}

func convertParallel(p parser.Parser[*seq.Sequence], w io.Writer, o *Options) error {
	jobs := make(chan renderJob, o.Workers*2)
	results := make(chan renderResult, o.Workers*2)

	g, ctx := errgroup.WithContext(context.Background())

	// Start workers
	for range o.Workers {
		g.Go(func() error {
			for job := range jobs {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				results <- renderResult{seqNum: job.seqNum, data: renderBlock(nil, job.records, o)}
			}
			return nil
		})
	}

	// Producer: parse blocks on this goroutine only
	g.Go(func() error {
		defer close(jobs)

		budget := o.ChunkBytes
		seqNum := 0
		for {
			records, more, err := nextBatch(p, &budget)
			if err != nil {
				return fmt.Errorf("parsing input: %w", err)
			}
			if len(records) > 0 {
				select {
				case jobs <- renderJob{seqNum: seqNum, records: records}:
					seqNum++
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if !more {
				return nil
			}
		}
	})

	// Collector: write blocks in order
	var collectorErr error
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		collectorErr = collectBlocks(results, w)
	}()

	workerErr := g.Wait()
	close(results)
	<-collectorDone

	if workerErr != nil {
		return workerErr
	}
	return collectorErr
}

// nextBatch parses records worth one budget. A budget too small for
// even a single record is doubled and the call retried, which the
// parser supports by rewinding failed calls.
func nextBatch(p parser.Parser[*seq.Sequence], budget *uint64) ([]*seq.Sequence, bool, error) {
	for {
		var records []*seq.Sequence
		more, err := p.Parse(&records, *budget)
		if errors.Is(err, parser.ErrChunkTooSmall) {
			*budget *= 2
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return records, more, nil
	}
}

func renderBlock(dst []byte, records []*seq.Sequence, o *Options) []byte {
	for _, s := range records {
		if o.To == detect.Fastq {
			dst = s.AppendFastq(dst)
		} else {
			dst = s.AppendFasta(dst, o.Width)
		}
	}
	return dst
}

func collectBlocks(results <-chan renderResult, w io.Writer) error {
	pending := make(map[int][]byte)
	nextSeqNum := 0
	var writeErr error

	for result := range results {
		if writeErr != nil {
			// Keep draining so no worker blocks on a full channel.
			continue
		}
		pending[result.seqNum] = result.data

		// Write all sequential results available
		for {
			data, ok := pending[nextSeqNum]
			if !ok {
				break
			}
			if _, err := w.Write(data); err != nil {
				writeErr = fmt.Errorf("writing block %d: %w", nextSeqNum, err)
				break
			}
			delete(pending, nextSeqNum)
			nextSeqNum++
		}
	}

	return writeErr
}
