package codec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/meigma/filepack/internal/sizing"
)

// flateLevel maps a caller level onto the range the flate family accepts.
func flateLevel(level int) int {
	return sizing.Clamp(level, flate.HuffmanOnly, flate.BestCompression)
}

// compressStream runs src through the writer returned by open.
func compressStream(src []byte, open func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	var buf bytes.Buffer
	w, err := open(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deflateCodec is raw deflate. It has neither magic nor a recorded length.
type deflateCodec struct{}

var _ Codec = deflateCodec{}

func (deflateCodec) Method() Method { return Deflate }

func (deflateCodec) Compress(src []byte, level int) ([]byte, error) {
	return compressStream(src, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flateLevel(level))
	})
}

func (deflateCodec) DecompressInto(dst, src []byte) (int, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()
	return readInto(dst, r)
}

type zlibCodec struct{}

var (
	_ Codec    = zlibCodec{}
	_ Detector = zlibCodec{}
)

func (zlibCodec) Method() Method { return Zlib }

// Detect checks the CMF/FLG pair: deflate method with the header checksum
// divisible by 31.
func (zlibCodec) Detect(src []byte) bool {
	return len(src) > 6 && src[0]&0x8f == 0x08 && (int(src[0])*256+int(src[1]))%31 == 0
}

func (zlibCodec) Compress(src []byte, level int) ([]byte, error) {
	return compressStream(src, func(w io.Writer) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, flateLevel(level))
	})
}

func (zlibCodec) DecompressInto(dst, src []byte) (int, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return readInto(dst, r)
}

type gzipCodec struct{}

var (
	_ Codec      = gzipCodec{}
	_ Detector   = gzipCodec{}
	_ SizeHinter = gzipCodec{}
)

func (gzipCodec) Method() Method { return Gzip }

func (gzipCodec) Detect(src []byte) bool {
	return len(src) > 18 && src[0] == 0x1f && src[1] == 0x8b && src[2] == 0x08
}

// maxDeflateRatio bounds how far deflate can expand its input.
const maxDeflateRatio = 1032

// SizeHint reads ISIZE, the uncompressed length modulo 2^32 stored in the
// last four bytes of a gzip member. Inputs over 4GB wrap, so the value is
// only a starting point. Values deflate could not have produced are ignored.
func (gzipCodec) SizeHint(src []byte) int {
	if len(src) < 18 {
		return 0
	}
	n := int(binary.LittleEndian.Uint32(src[len(src)-4:]))
	if n > sizing.MulInt(len(src), maxDeflateRatio) {
		return 0
	}
	return n
}

func (gzipCodec) Compress(src []byte, level int) ([]byte, error) {
	return compressStream(src, func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, flateLevel(level))
	})
}

func (gzipCodec) DecompressInto(dst, src []byte) (int, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return readInto(dst, r)
}
