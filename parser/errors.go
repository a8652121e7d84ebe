package parser

import "errors"

var (
	// ErrInvalidFormat reports input that does not conform to the
	// parser's file format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrChunkTooSmall reports a byte budget too small to cover a
	// single record.
	ErrChunkTooSmall = errors.New("chunk size too small")
)
