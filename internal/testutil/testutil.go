// Package testutil holds helpers shared by filepack tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// RandomBytes returns n pseudo-random bytes derived from seed.
func RandomBytes(seed uint64, n int) []byte {
	rng := rand.New(rand.NewPCG(0, seed))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rng.Uint32())
	}
	return b
}

// TextBytes returns n bytes of compressible ASCII text.
func TextBytes(n int) []byte {
	const line = "the quick brown fox jumps over the lazy dog 0123456789\n"
	out := bytes.Repeat([]byte(line), n/len(line)+1)
	return out[:n]
}

// Payloads returns named payloads covering the shapes codecs handle
// differently: empty, tiny, compressible and incompressible.
func Payloads() map[string][]byte {
	return map[string][]byte{
		"empty":  {},
		"byte":   {0x2a},
		"text":   TextBytes(4 << 10),
		"zeros":  make([]byte, 64<<10),
		"random": RandomBytes(1, 16<<10),
	}
}

// Float32Bytes encodes values as little-endian float32 records.
func Float32Bytes(values ...float32) []byte {
	out := make([]byte, 0, 4*len(values))
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// Uint32Bytes encodes values as little-endian uint32 records.
func Uint32Bytes(values ...uint32) []byte {
	out := make([]byte, 0, 4*len(values))
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

// WriteAt overwrites bytes of the file at path starting at off.
func WriteAt(t testing.TB, path string, off int64, b []byte) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteAt(b, off)
	require.NoError(t, err)
}

// Truncate cuts the file at path to size bytes.
func Truncate(t testing.TB, path string, size int64) {
	t.Helper()
	require.NoError(t, os.Truncate(path, size))
}

// ReadFile returns the content of path.
func ReadFile(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// WriteFile writes data to path.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
