//go:build cgo

package codec

import (
	"github.com/DataDog/zstd"
)

// zstdCodec binds the reference zstd library when cgo is available.
type zstdCodec struct{}

func newZstdCodec() *zstdCodec {
	return &zstdCodec{}
}

func (*zstdCodec) compress(src []byte, level int) ([]byte, error) {
	return zstd.CompressLevel(nil, src, level)
}

func (*zstdCodec) decompressInto(dst, src []byte) (int, error) {
	if len(dst) == 0 {
		result, err := zstd.Decompress(nil, src)
		if err != nil {
			return 0, err
		}
		if len(result) > 0 {
			return 0, ErrShortBuffer
		}
		return 0, nil
	}
	n, err := zstd.DecompressInto(dst, src)
	if err != nil {
		if zstd.IsDstSizeTooSmallError(err) {
			return 0, ErrShortBuffer
		}
		return 0, err
	}
	return n, nil
}
