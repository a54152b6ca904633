package filepack

import (
	"go.uber.org/zap"

	"github.com/meigma/filepack/codec"
)

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxBlockSize limits the decompressed size of a block and of the
// descriptor table. Non-positive values select [codec.DefaultMaxSize].
func WithMaxBlockSize(n int) ReaderOption {
	return func(r *Reader) {
		r.maxBlockSize = n
	}
}

// WithMaxAttempts limits how often decompression may grow its output buffer
// for codecs that do not record the decompressed size. Non-positive values
// select [codec.DefaultMaxAttempts].
func WithMaxAttempts(n int) ReaderOption {
	return func(r *Reader) {
		r.maxAttempts = n
	}
}

// WithReaderRegistry sets the codec registry. It must contain every codec
// used by the archive and the default codec it was written with. Nil keeps
// [codec.Default].
func WithReaderRegistry(reg *codec.Registry) ReaderOption {
	return func(r *Reader) {
		if reg != nil {
			r.reg = reg
		}
	}
}

// WithReaderLogger sets the logger for archive events. Nil disables logging.
func WithReaderLogger(logger *zap.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}
