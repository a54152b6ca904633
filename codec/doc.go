// Package codec provides a uniform compress/decompress interface over
// interchangeable compression algorithms.
//
// Codecs are registered in a [Registry] keyed by their [Method] tag, the
// string stored next to every compressed block in an archive. The registry
// is immutable once built and may be shared between goroutines.
//
// Decompression with [Auto] inspects the input for codec magic numbers in
// registration order and falls back to the registry's default codec, which
// is the one assumed to carry no reliable magic (brotli in [Default]).
//
// Codecs whose streams record the decompressed length (zstd, lz4 frames,
// minlz) are decoded into an exactly sized buffer. All others are decoded by
// a bounded growth loop: a buffer is sized from a hint, and each time the
// codec reports [ErrShortBuffer] the buffer is enlarged and decoding retried,
// up to a maximum size and attempt count.
package codec
