package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack/internal/packtype"
)

// Method identifies a compression algorithm. Its string form is the tag
// persisted in archive descriptors.
type Method string

// Known methods.
const (
	// Auto resolves the method from magic bytes on decompression and selects
	// the registry default on compression. It is never persisted.
	Auto Method = "auto"

	Brotli   Method = "brotli"
	Zstd     Method = "zstd"
	Deflate  Method = "deflate"
	Zlib     Method = "zlib"
	Gzip     Method = "gzip"
	XZ       Method = "xz"
	Snappy   Method = "snappy"
	LZ4      Method = "lz4"
	LZ4Block Method = "lz4block"
	MinLZ    Method = "minlz"
)

func (m Method) String() string {
	return string(m)
}

// Errors re-exported from internal/packtype.
var (
	// ErrUnsupportedMethod is returned when no codec is registered for a method.
	ErrUnsupportedMethod = packtype.ErrUnsupportedMethod

	// ErrCompression is returned when a codec fails to compress.
	ErrCompression = packtype.ErrCompression

	// ErrDecompression is returned when input is malformed or exceeds limits.
	ErrDecompression = packtype.ErrDecompression
)

// ErrShortBuffer is returned by [Codec.DecompressInto] when the destination
// cannot hold the decompressed output.
var ErrShortBuffer = errors.New("codec: destination buffer too small")

// Codec compresses and decompresses byte slices.
//
// Implementations must be safe for concurrent use.
type Codec interface {
	// Method returns the tag the codec is registered under.
	Method() Method

	// Compress returns the compressed form of src. The meaning of level is
	// codec specific; codecs without levels ignore it.
	Compress(src []byte, level int) ([]byte, error)

	// DecompressInto decodes src into dst and returns the number of bytes
	// written. It returns ErrShortBuffer if dst is too small.
	DecompressInto(dst, src []byte) (int, error)
}

// Sized is implemented by codecs whose streams record the decompressed length.
type Sized interface {
	// DecompressedLen returns the length recorded in src. ok is false when
	// the stream carries no length.
	DecompressedLen(src []byte) (n int, ok bool, err error)
}

// Detector is implemented by codecs with a recognizable magic prefix.
type Detector interface {
	Detect(src []byte) bool
}

// SizeHinter is implemented by codecs that can guess the decompressed length
// of a stream without recording it exactly.
type SizeHinter interface {
	SizeHint(src []byte) int
}
