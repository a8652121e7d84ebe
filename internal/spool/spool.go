// Package spool adapts tool inputs to the seekable streams the parser
// engine requires. Plain files are handed out directly; compressed
// files and stdin are copied into a temporary file that is removed on
// Close.
package spool

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const readBufferSize = 1 << 20

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open returns a seekable stream for path. The empty string and "-"
// read stdin. gzip and zstd inputs, recognized by magic bytes or file
// extension, are decompressed while spooling.
func Open(path string) (io.ReadSeekCloser, error) {
	if path == "" || path == "-" {
		return spoolFrom(bufio.NewReaderSize(os.Stdin, readBufferSize), "")
	}

	f, err := os.Open(path) //nolint:gosec // CLI tool needs to open user-specified files
	if err != nil {
		return nil, fmt.Errorf("cannot open input: %w", err)
	}

	br := bufio.NewReaderSize(f, readBufferSize)
	header, err := peekHeader(br)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !isGzip(header, path) && !isZstd(header, path) {
		// Already seekable, just undo the peek.
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cannot rewind input: %w", err)
		}
		return f, nil
	}

	defer f.Close() //nolint:errcheck // read-only file
	return spoolFrom(br, path)
}

// spoolFrom copies br, decompressed when its header or the file name
// calls for it, into a self-removing temporary file.
func spoolFrom(br *bufio.Reader, path string) (io.ReadSeekCloser, error) {
	header, err := peekHeader(br)
	if err != nil {
		return nil, err
	}

	var src io.Reader = br
	switch {
	case isGzip(header, path):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("cannot open gzip input: %w", err)
		}
		defer gz.Close() //nolint:errcheck // fully drained below
		src = gz
	case isZstd(header, path):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("cannot open zstd input: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	tmp, err := os.CreateTemp("", "bioparse-spool-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create spool file: %w", err)
	}
	sf := &spoolFile{File: tmp}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = sf.Close()
		return nil, fmt.Errorf("cannot spool input: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		_ = sf.Close()
		return nil, fmt.Errorf("cannot rewind spool file: %w", err)
	}
	return sf, nil
}

func peekHeader(br *bufio.Reader) ([]byte, error) {
	header, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cannot inspect input: %w", err)
	}
	return header, nil
}

func isGzip(header []byte, path string) bool {
	return bytes.HasPrefix(header, gzipMagic) ||
		strings.HasSuffix(strings.ToLower(path), ".gz")
}

func isZstd(header []byte, path string) bool {
	return bytes.HasPrefix(header, zstdMagic) ||
		strings.HasSuffix(strings.ToLower(path), ".zst")
}

// spoolFile is a temporary file that removes itself on Close.
type spoolFile struct {
	*os.File
}

func (s *spoolFile) Close() error {
	err := s.File.Close()
	if rmErr := os.Remove(s.File.Name()); err == nil {
		err = rmErr
	}
	return err
}
