package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/filepack/internal/testutil"
)

func TestCompressionRoundtrip(t *testing.T) {
	t.Parallel()

	for _, m := range Default().Methods() {
		for name, payload := range testutil.Payloads() {
			t.Run(string(m)+"/"+name, func(t *testing.T) {
				t.Parallel()

				compressed, err := Compress(payload, m, 5)
				require.NoError(t, err)

				got, err := Decompress(compressed, m)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(payload, got), "payload mismatch")
			})
		}
	}
}

func TestCompressionLevels(t *testing.T) {
	t.Parallel()

	payload := testutil.TextBytes(8 << 10)
	for _, m := range Default().Methods() {
		for _, level := range []int{-5, 1, 9, 20} {
			compressed, err := Compress(payload, m, level)
			require.NoError(t, err, "%s level %d", m, level)

			got, err := Decompress(compressed, m)
			require.NoError(t, err, "%s level %d", m, level)
			assert.Equal(t, payload, got, "%s level %d", m, level)
		}
	}
}

func TestAutoDetect(t *testing.T) {
	t.Parallel()

	payload := testutil.TextBytes(2 << 10)
	detectable := 0
	for _, m := range Default().Methods() {
		c, _ := Default().Lookup(m)
		if _, ok := c.(Detector); !ok {
			continue
		}
		detectable++
		t.Run(string(m), func(t *testing.T) {
			t.Parallel()

			compressed, err := Compress(payload, m, 5)
			require.NoError(t, err)
			assert.Equal(t, m, Default().Detect(compressed))

			got, err := Decompress(compressed, Auto)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
	assert.Equal(t, 6, detectable)
}

func TestAutoFallsBackToDefault(t *testing.T) {
	t.Parallel()

	payload := testutil.TextBytes(2 << 10)
	compressed, err := Compress(payload, Brotli, 5)
	require.NoError(t, err)
	assert.Equal(t, Brotli, Default().Detect(compressed))

	got, err := Decompress(compressed, Auto)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestCompressAutoUsesDefault(t *testing.T) {
	t.Parallel()

	payload := testutil.TextBytes(1 << 10)
	viaAuto, err := Compress(payload, Auto, 5)
	require.NoError(t, err)

	got, err := Decompress(viaAuto, Brotli)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDetectMagic(t *testing.T) {
	t.Parallel()

	pad := make([]byte, 32)
	tests := []struct {
		name   string
		prefix []byte
		want   Method
	}{
		{"zstd", []byte{0x28, 0xb5, 0x2f, 0xfd}, Zstd},
		{"xz", []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, XZ},
		{"snappy", []byte("\xff\x06\x00\x00sNaPpY"), Snappy},
		{"lz4", []byte{0x04, 0x22, 0x4d, 0x18}, LZ4},
		{"zlib", []byte{0x78, 0x9c}, Zlib},
		{"gzip", []byte{0x1f, 0x8b, 0x08}, Gzip},
		{"unknown", []byte{0x0b, 0x02}, Brotli},
		{"short zstd", []byte{0x28, 0xb5, 0x2f, 0xfd}, Brotli},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := append(bytes.Clone(tt.prefix), pad...)
			if tt.name == "short zstd" {
				src = tt.prefix
			}
			assert.Equal(t, tt.want, Default().Detect(src))
		})
	}
}

func TestUnsupportedMethod(t *testing.T) {
	t.Parallel()

	_, err := Compress([]byte("x"), Method("zpaq"), 5)
	require.ErrorIs(t, err, ErrUnsupportedMethod)

	_, err = Decompress([]byte("x"), Method("zpaq"))
	require.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestDecompressionError(t *testing.T) {
	t.Parallel()

	payload := testutil.RandomBytes(7, 4<<10)
	for _, m := range Default().Methods() {
		if m == LZ4Block {
			continue
		}
		t.Run(string(m), func(t *testing.T) {
			t.Parallel()

			compressed, err := Compress(payload, m, 5)
			require.NoError(t, err)

			_, err = Decompress(compressed[:len(compressed)/2], m)
			require.ErrorIs(t, err, ErrDecompression)
		})
	}
}

func TestLZ4BlockCorruptionIsBounded(t *testing.T) {
	t.Parallel()

	// One literal followed by a match reaching far before the block start.
	garbage := []byte{0x1f, 0x41, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}
	_, err := Decompress(garbage, LZ4Block, WithMaxSize(1<<20))
	require.ErrorIs(t, err, ErrDecompression)
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(Brotli, brotliCodec{}, brotliCodec{})
	require.Error(t, err)

	_, err = NewRegistry(Zstd, brotliCodec{})
	require.ErrorIs(t, err, ErrUnsupportedMethod)

	r, err := NewRegistry(Deflate, gzipCodec{}, deflateCodec{})
	require.NoError(t, err)
	assert.Equal(t, []Method{Gzip, Deflate}, r.Methods())
	assert.Equal(t, Deflate, r.DefaultMethod())

	_, err = r.Compress([]byte("x"), Brotli, 5)
	require.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestRegistryDetectFallsBackToItsDefault(t *testing.T) {
	t.Parallel()

	r := MustNewRegistry(Deflate, gzipCodec{}, deflateCodec{})
	payload := testutil.TextBytes(1 << 10)

	compressed, err := r.Compress(payload, Deflate, 6)
	require.NoError(t, err)
	assert.Equal(t, Deflate, r.Detect(compressed))

	got, err := r.Decompress(compressed, Auto)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
