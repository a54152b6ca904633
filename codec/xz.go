package codec

import (
	"bytes"

	"github.com/ulikunitz/xz"
)

var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// xzCodec is LZMA2 in the xz container.
type xzCodec struct{}

var (
	_ Codec    = xzCodec{}
	_ Detector = xzCodec{}
)

func (xzCodec) Method() Method { return XZ }

func (xzCodec) Detect(src []byte) bool {
	return len(src) > 6 && bytes.HasPrefix(src, xzMagic)
}

// Compress ignores level.
func (xzCodec) Compress(src []byte, _ int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (xzCodec) DecompressInto(dst, src []byte) (int, error) {
	r, err := xz.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, err
	}
	return readInto(dst, r)
}
