package codec

import (
	"github.com/golang/snappy"
	"github.com/minio/minlz"

	"github.com/meigma/filepack/internal/sizing"
)

// minlzCodec is the MinLZ block format, which records its decoded length.
type minlzCodec struct{}

var (
	_ Codec = minlzCodec{}
	_ Sized = minlzCodec{}
)

func (minlzCodec) Method() Method { return MinLZ }

func (minlzCodec) Compress(src []byte, level int) ([]byte, error) {
	// MinLZ cannot encode blocks greater than 8MB. Fall back to Snappy in those
	// cases; MinLZ decodes Snappy blocks.
	if len(src) > minlz.MaxBlockSize {
		return snappy.Encode(nil, src), nil
	}
	return minlz.Encode(nil, src, sizing.Clamp(level, minlz.LevelFastest, minlz.LevelSmallest))
}

func (minlzCodec) DecompressedLen(src []byte) (int, bool, error) {
	n, err := minlz.DecodedLen(src)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (minlzCodec) DecompressInto(dst, src []byte) (int, error) {
	result, err := minlz.Decode(dst, src)
	if err != nil {
		return 0, err
	}
	if len(result) > len(dst) || (len(result) > 0 && &result[0] != &dst[0]) {
		return 0, ErrShortBuffer
	}
	return len(result), nil
}
