package codec

import (
	"bytes"

	"github.com/andybalholm/brotli"

	"github.com/meigma/filepack/internal/sizing"
)

// brotliCodec has no magic number, which makes it the natural fallback for
// Auto detection.
type brotliCodec struct{}

var _ Codec = brotliCodec{}

func (brotliCodec) Method() Method { return Brotli }

func (brotliCodec) Compress(src []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, sizing.Clamp(level, brotli.BestSpeed, brotli.BestCompression))
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (brotliCodec) DecompressInto(dst, src []byte) (int, error) {
	return readInto(dst, brotli.NewReader(bytes.NewReader(src)))
}
