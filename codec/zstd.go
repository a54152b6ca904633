package codec

import (
	"encoding/binary"

	"github.com/klauspost/compress/zstd"

	"github.com/meigma/filepack/internal/sizing"
)

const (
	zstdMagic = 0xFD2FB528

	// DefaultMaxDecoderMemory is the default memory limit of pure Go zstd
	// decoders (256MB).
	DefaultMaxDecoderMemory = 256 << 20
)

var (
	_ Codec    = (*zstdCodec)(nil)
	_ Detector = (*zstdCodec)(nil)
	_ Sized    = (*zstdCodec)(nil)
)

func (*zstdCodec) Method() Method { return Zstd }

func (*zstdCodec) Detect(src []byte) bool {
	return len(src) > 6 && binary.LittleEndian.Uint32(src) == zstdMagic
}

// DecompressedLen reads the frame content size of the first frame. Frames
// written without one fall through to the growth loop.
func (*zstdCodec) DecompressedLen(src []byte) (int, bool, error) {
	var h zstd.Header
	if err := h.Decode(src); err != nil {
		return 0, false, err
	}
	if !h.HasFCS {
		return 0, false, nil
	}
	n, err := sizing.ToInt(h.FrameContentSize, ErrDecompression)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *zstdCodec) Compress(src []byte, level int) ([]byte, error) {
	return c.compress(src, level)
}

func (c *zstdCodec) DecompressInto(dst, src []byte) (int, error) {
	return c.decompressInto(dst, src)
}
