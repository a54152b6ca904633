//go:build !cgo

package codec

import (
	"github.com/klauspost/compress/zstd"
)

// zstdCodec uses the pure Go zstd port when cgo is unavailable.
type zstdCodec struct {
	pool *decoderPool
}

func newZstdCodec() *zstdCodec {
	return &zstdCodec{pool: newDecoderPool(DefaultMaxDecoderMemory)}
}

func (*zstdCodec) compress(src []byte, level int) ([]byte, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
		zstd.WithLowerEncoderMem(true),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(src, nil), nil
}

func (c *zstdCodec) decompressInto(dst, src []byte) (int, error) {
	dec, release, err := c.pool.Get()
	if err != nil {
		return 0, err
	}
	defer release()

	result, err := dec.DecodeAll(src, dst[:0])
	if err != nil {
		return 0, err
	}
	if len(result) > len(dst) || (len(result) > 0 && &result[0] != &dst[0]) {
		return 0, ErrShortBuffer
	}
	return len(result), nil
}
