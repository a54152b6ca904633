package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/pierrec/lz4/v4"

	"github.com/meigma/filepack/internal/sizing"
)

const (
	lz4FrameMagic = 0x184D2204

	// lz4 frame descriptor: magic(4) FLG(1) BD(1) [content size(8)].
	lz4FlagContentSize = 0x08
	lz4FrameVersion    = 0x40
	lz4ContentSizeOff  = 6
)

var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

func lz4Level(level int) lz4.CompressionLevel {
	return lz4Levels[sizing.Clamp(level, 0, len(lz4Levels)-1)]
}

// lz4Codec is the lz4 frame format. Frames written here record their
// content size.
type lz4Codec struct{}

var (
	_ Codec    = lz4Codec{}
	_ Detector = lz4Codec{}
	_ Sized    = lz4Codec{}
)

func (lz4Codec) Method() Method { return LZ4 }

func (lz4Codec) Detect(src []byte) bool {
	return len(src) > 6 && binary.LittleEndian.Uint32(src) == lz4FrameMagic
}

func (lz4Codec) DecompressedLen(src []byte) (int, bool, error) {
	if len(src) < lz4ContentSizeOff || binary.LittleEndian.Uint32(src) != lz4FrameMagic {
		return 0, false, errors.New("lz4: missing frame header")
	}
	flg := src[4]
	if flg&0xc0 != lz4FrameVersion {
		return 0, false, errors.New("lz4: unsupported frame version")
	}
	if flg&lz4FlagContentSize == 0 {
		return 0, false, nil
	}
	if len(src) < lz4ContentSizeOff+8 {
		return 0, false, errors.New("lz4: truncated frame header")
	}
	n, err := sizing.ToInt(binary.LittleEndian.Uint64(src[lz4ContentSizeOff:]), ErrDecompression)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (lz4Codec) Compress(src []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(
		lz4.CompressionLevelOption(lz4Level(level)),
		lz4.SizeOption(uint64(len(src))),
	); err != nil {
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

func (lz4Codec) DecompressInto(dst, src []byte) (int, error) {
	return readInto(dst, lz4.NewReader(bytes.NewReader(src)))
}

// lz4BlockCodec is the bare lz4 block format: no magic, no recorded length.
type lz4BlockCodec struct{}

var _ Codec = lz4BlockCodec{}

func (lz4BlockCodec) Method() Method { return LZ4Block }

func (lz4BlockCodec) Compress(src []byte, level int) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	var (
		n   int
		err error
	)
	if level <= 0 {
		var c lz4.Compressor
		n, err = c.CompressBlock(src, dst)
	} else {
		c := lz4.CompressorHC{Level: lz4Level(level)}
		n, err = c.CompressBlock(src, dst)
	}
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errors.New("lz4: block not compressible")
	}
	return dst[:n], nil
}

// lz4BlockMaxOutput bounds the output of a valid block: every input byte
// expands to at most 255 output bytes.
func lz4BlockMaxOutput(srcLen int) int {
	return sizing.MulInt(srcLen, 255) + 16
}

func (lz4BlockCodec) DecompressInto(dst, src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		// lz4 reports a short destination and corrupt input the same way;
		// only the former can be fixed by a bigger buffer.
		if len(dst) < lz4BlockMaxOutput(len(src)) {
			return 0, ErrShortBuffer
		}
		return 0, err
	}
	return n, nil
}
