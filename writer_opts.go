package filepack

import (
	"go.uber.org/zap"

	"github.com/meigma/filepack/codec"
)

const (
	// DefaultLevel is the block compression level producers use unless they
	// have a reason to pick another.
	DefaultLevel = 5

	// DefaultTableLevel is the compression level used for version 1
	// descriptor tables.
	DefaultTableLevel = 5
)

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithMethod sets the codec used for blocks added with a non-zero level.
// Auto selects the registry default. Defaults to brotli.
func WithMethod(m codec.Method) WriterOption {
	return func(w *Writer) {
		w.method = m
	}
}

// WithVersion sets the descriptor table version. Defaults to Version1.
func WithVersion(v uint16) WriterOption {
	return func(w *Writer) {
		w.version = v
	}
}

// WithTableLevel sets the compression level for version 1 tables.
func WithTableLevel(level int) WriterOption {
	return func(w *Writer) {
		w.tableLevel = level
	}
}

// WithBlockSizeLimit caps the size of blocks added with a non-zero level.
// Larger blocks fail with ErrSizeOverflow instead of producing an archive
// that readers with the same limit cannot decompress. Non-positive values
// select [codec.DefaultMaxSize], the Reader's default limit; raise both
// together with [WithMaxBlockSize].
func WithBlockSizeLimit(n int) WriterOption {
	return func(w *Writer) {
		w.maxBlockSize = n
	}
}

// WithRegistry sets the codec registry. Nil keeps [codec.Default].
func WithRegistry(reg *codec.Registry) WriterOption {
	return func(w *Writer) {
		if reg != nil {
			w.reg = reg
		}
	}
}

// WithLogger sets the logger for archive events. Nil disables logging.
func WithLogger(logger *zap.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}
