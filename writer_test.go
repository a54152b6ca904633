package filepack

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/meigma/filepack/codec"
	"github.com/meigma/filepack/internal/header"
	"github.com/meigma/filepack/internal/testutil"
)

var testSig = MustSignature("FNTMSH")

func archivePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.pack")
}

func TestRoundtrip(t *testing.T) {
	t.Parallel()

	payloads := testutil.Payloads()

	for _, version := range []uint16{Version0, Version1} {
		for _, level := range []int{0, 5} {
			path := archivePath(t)
			err := Build(path, ModeWrite, testSig, func(w *Writer) error {
				for name, data := range payloads {
					if err := w.Add(name, data, level, "bytes"); err != nil {
						return err
					}
				}
				return nil
			}, WithVersion(version), WithLogger(zaptest.NewLogger(t)))
			require.NoError(t, err)

			err = View(path, testSig, func(r *Reader) error {
				assert.Equal(t, version, r.Version())
				assert.Equal(t, len(payloads), r.Len())
				for name, want := range payloads {
					got, err := r.Get(name)
					require.NoError(t, err, "block %q", name)
					assert.Equal(t, len(want), len(got), "block %q", name)
					assert.Equal(t, want, got, "block %q", name)
				}
				return nil
			}, WithReaderLogger(zaptest.NewLogger(t)))
			require.NoError(t, err, "version %d level %d", version, level)
		}
	}
}

func TestRoundtripEveryMethod(t *testing.T) {
	t.Parallel()

	data := testutil.TextBytes(32 << 10)
	for _, m := range codec.Default().Methods() {
		t.Run(m.String(), func(t *testing.T) {
			t.Parallel()
			path := archivePath(t)

			err := Build(path, ModeWrite, testSig, func(w *Writer) error {
				return w.Add("text", data, 3, "text")
			}, WithMethod(m))
			require.NoError(t, err)

			r, err := Open(path, testSig)
			require.NoError(t, err)
			defer r.Close()

			d, ok := r.Lookup("text")
			require.True(t, ok)
			assert.Equal(t, m.String(), d.Compression)
			assert.Equal(t, uint64(HeaderSize), d.Offset)

			got, err := r.Get("text")
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestLevelZeroStoresRaw(t *testing.T) {
	t.Parallel()

	path := archivePath(t)
	data := []byte("stored as is")
	require.NoError(t, Build(path, ModeWrite, testSig, func(w *Writer) error {
		return w.Add("raw", data, 0, "")
	}))

	file := testutil.ReadFile(t, path)
	assert.Equal(t, data, file[HeaderSize:HeaderSize+len(data)])

	r, err := Open(path, testSig)
	require.NoError(t, err)
	defer r.Close()

	d, ok := r.Lookup("raw")
	require.True(t, ok)
	assert.False(t, d.Compressed())
	assert.Equal(t, uint64(len(data)), d.Size)
}

func TestBlocksArePackedInOrder(t *testing.T) {
	t.Parallel()

	path := archivePath(t)
	w, err := NewWriter(path, ModeWrite, testSig)
	require.NoError(t, err)

	require.NoError(t, w.Add("a", []byte("aaa"), 0, ""))
	require.NoError(t, w.Add("b", testutil.TextBytes(1000), 9, ""))
	require.NoError(t, w.Add("c", []byte("c"), 0, ""))
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, path, w.Path())

	descs := w.Descriptors()
	require.Len(t, descs, 3)
	assert.Equal(t, uint64(HeaderSize), descs[0].Offset)
	assert.Equal(t, descs[0].End(), descs[1].Offset)
	assert.Equal(t, descs[1].End(), descs[2].Offset)
	require.NoError(t, w.Close())

	file := testutil.ReadFile(t, path)
	h, err := header.Decode(file, testSig)
	require.NoError(t, err)
	assert.Equal(t, descs[2].End(), h.DescriptorOffset)
}

func TestFlushIsIdempotent(t *testing.T) {
	t.Parallel()

	path := archivePath(t)
	w, err := NewWriter(path, ModeWrite, testSig)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Add("vert", testutil.Float32Bytes(0, 0, 1, 0, 0, 1), 5, "float2"))
	require.NoError(t, w.Flush())
	first := testutil.ReadFile(t, path)

	require.NoError(t, w.Flush())
	assert.Equal(t, first, testutil.ReadFile(t, path))

	require.NoError(t, w.Close())
	assert.Equal(t, first, testutil.ReadFile(t, path))
}

func TestFlushAfterMoreBlocksRewritesTable(t *testing.T) {
	t.Parallel()

	path := archivePath(t)
	w, err := NewWriter(path, ModeWrite, testSig, WithVersion(Version0))
	require.NoError(t, err)

	require.NoError(t, w.Add("a", testutil.TextBytes(100), 0, "text"))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Add("b", []byte("b"), 0, "text"))
	require.NoError(t, w.Close())

	file := testutil.ReadFile(t, path)
	h, err := header.Decode(file, testSig)
	require.NoError(t, err)
	assert.Equal(t, "text;;100;a\ntext;;1;b", string(file[h.DescriptorOffset:]))

	r, err := Open(path, testSig)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 2, r.Len())
}

func TestEmptyArchive(t *testing.T) {
	t.Parallel()

	for _, version := range []uint16{Version0, Version1} {
		path := archivePath(t)
		w, err := NewWriter(path, ModeWrite, testSig, WithVersion(version))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		r, err := Open(path, testSig)
		require.NoError(t, err)
		assert.Zero(t, r.Len())
		assert.Equal(t, uint64(HeaderSize), r.header.DescriptorOffset)
		require.NoError(t, r.Close())
	}
}

func TestDuplicateName(t *testing.T) {
	t.Parallel()

	path := archivePath(t)
	w, err := NewWriter(path, ModeWrite, testSig)
	require.NoError(t, err)

	require.NoError(t, w.Add("a", []byte("first"), 5, ""))
	err = w.Add("a", []byte("second"), 5, "")
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 1, w.Len())
	require.NoError(t, w.Close())

	r, err := Open(path, testSig)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}

func TestInvalidNames(t *testing.T) {
	t.Parallel()

	w, err := NewWriter(archivePath(t), ModeWrite, testSig)
	require.NoError(t, err)
	defer w.Close()

	require.ErrorIs(t, w.Add("", nil, 0, ""), ErrInvalidName)
	require.ErrorIs(t, w.Add("a\nb", nil, 0, ""), ErrInvalidName)
	require.ErrorIs(t, w.Add("a", nil, 0, "x;y"), ErrInvalidName)
	require.NoError(t, w.Add("semi;colon", []byte("ok"), 0, ""))
	assert.Equal(t, 1, w.Len())
}

func TestWriterModes(t *testing.T) {
	t.Parallel()

	t.Run("write truncates", func(t *testing.T) {
		t.Parallel()
		path := archivePath(t)
		testutil.WriteFile(t, path, testutil.TextBytes(4096))

		require.NoError(t, Build(path, ModeWrite, testSig, func(w *Writer) error { return nil }))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Less(t, info.Size(), int64(4096))
	})

	t.Run("exclusive on existing", func(t *testing.T) {
		t.Parallel()
		path := archivePath(t)
		testutil.WriteFile(t, path, []byte("x"))

		_, err := NewWriter(path, ModeExclusive, testSig)
		require.ErrorIs(t, err, ErrAlreadyExists)
		require.ErrorIs(t, err, fs.ErrExist)
		assert.Equal(t, []byte("x"), testutil.ReadFile(t, path))
	})

	t.Run("exclusive on missing", func(t *testing.T) {
		t.Parallel()
		path := archivePath(t)
		require.NoError(t, Build(path, ModeExclusive, testSig, func(w *Writer) error {
			return w.Add("a", []byte("a"), 0, "")
		}))
	})

	t.Run("append on empty", func(t *testing.T) {
		t.Parallel()
		path := archivePath(t)
		testutil.WriteFile(t, path, nil)

		require.NoError(t, Build(path, ModeAppend, testSig, func(w *Writer) error {
			return w.Add("a", []byte("a"), 5, "")
		}))
		got := mustGet(t, path, "a")
		assert.Equal(t, []byte("a"), got)
	})

	t.Run("append on non-empty", func(t *testing.T) {
		t.Parallel()
		path := archivePath(t)
		testutil.WriteFile(t, path, []byte("existing"))

		_, err := NewWriter(path, ModeAppend, testSig)
		require.ErrorIs(t, err, ErrAlreadyExists)
		assert.Equal(t, []byte("existing"), testutil.ReadFile(t, path))
	})

	t.Run("unwritable path", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "missing", "dir", "a.pack")

		_, err := NewWriter(path, ModeWrite, testSig)
		require.ErrorIs(t, err, ErrIO)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestBlockSizeLimit(t *testing.T) {
	t.Parallel()

	data := testutil.TextBytes(8192)
	path := archivePath(t)
	w, err := NewWriter(path, ModeWrite, testSig, WithBlockSizeLimit(4096))
	require.NoError(t, err)

	err = w.Add("big", data, 5, "")
	require.ErrorIs(t, err, ErrSizeOverflow)
	require.NoError(t, w.Add("fits", data[:4096], 5, ""))
	require.NoError(t, w.Add("raw", data, 0, ""))
	require.NoError(t, w.Close())

	r, err := Open(path, testSig)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 2, r.Len())
	_, err = r.Get("big")
	require.ErrorIs(t, err, ErrBlockNotFound)
	got, err := r.Get("raw")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestBlockSizeLimitMatchesReader(t *testing.T) {
	t.Parallel()

	w, err := NewWriter(archivePath(t), ModeWrite, testSig, WithBlockSizeLimit(-1))
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, codec.DefaultMaxSize, w.maxBlockSize)

	// A block the writer accepts at a raised limit is readable once the
	// reader's limit is raised to match.
	path := archivePath(t)
	data := make([]byte, 1<<20)
	require.NoError(t, Build(path, ModeWrite, testSig, func(w *Writer) error {
		return w.Add("zeros", data, 5, "")
	}, WithBlockSizeLimit(len(data))))

	r, err := Open(path, testSig, WithMaxBlockSize(len(data)))
	require.NoError(t, err)
	defer r.Close()
	got, err := r.Get("zeros")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCursorOverflow(t *testing.T) {
	t.Parallel()

	t.Run("offset past int64", func(t *testing.T) {
		t.Parallel()
		w, err := NewWriter(archivePath(t), ModeWrite, testSig)
		require.NoError(t, err)
		defer w.Close()
		require.NoError(t, w.Add("a", []byte("a"), 0, ""))

		saved := w.cursor
		w.cursor = math.MaxInt64 + 1
		err = w.Add("b", []byte("b"), 0, "")
		require.ErrorIs(t, err, ErrSizeOverflow)
		require.NotErrorIs(t, err, ErrTruncatedFile)
		err = w.Flush()
		require.ErrorIs(t, err, ErrSizeOverflow)
		require.NotErrorIs(t, err, ErrTruncatedFile)
		w.cursor = saved
	})

	t.Run("end past int64", func(t *testing.T) {
		t.Parallel()
		w, err := NewWriter(archivePath(t), ModeWrite, testSig)
		require.NoError(t, err)
		defer w.Close()

		saved := w.cursor
		w.cursor = math.MaxInt64 - 1
		err = w.Add("b", []byte("bytes"), 0, "")
		require.ErrorIs(t, err, ErrSizeOverflow)
		err = w.Flush()
		require.ErrorIs(t, err, ErrSizeOverflow)
		w.cursor = saved
	})

	t.Run("uint64 wrap", func(t *testing.T) {
		t.Parallel()
		w, err := NewWriter(archivePath(t), ModeWrite, testSig)
		require.NoError(t, err)
		defer w.Close()

		saved := w.cursor
		w.cursor = math.MaxUint64
		err = w.Add("b", []byte("b"), 0, "")
		require.ErrorIs(t, err, ErrSizeOverflow)
		w.cursor = saved
	})
}

func TestWriterOptionValidation(t *testing.T) {
	t.Parallel()

	_, err := NewWriter(archivePath(t), ModeWrite, testSig, WithVersion(7))
	require.ErrorIs(t, err, ErrInvalidVersion)

	_, err = NewWriter(archivePath(t), ModeWrite, testSig, WithMethod("rot13"))
	require.ErrorIs(t, err, ErrUnsupportedMethod)

	w, err := NewWriter(archivePath(t), ModeWrite, testSig, WithMethod(codec.Auto))
	require.NoError(t, err)
	require.NoError(t, w.Add("a", []byte("aaaa"), 1, ""))
	d := w.Descriptors()[0]
	assert.Equal(t, codec.Default().DefaultMethod().String(), d.Compression)
	require.NoError(t, w.Close())
}

func TestCustomRegistry(t *testing.T) {
	t.Parallel()

	zstd, ok := codec.Default().Lookup(codec.Zstd)
	require.True(t, ok)
	reg := codec.MustNewRegistry(codec.Zstd, zstd)

	path := archivePath(t)
	require.NoError(t, Build(path, ModeWrite, testSig, func(w *Writer) error {
		return w.Add("a", testutil.TextBytes(500), 3, "")
	}, WithRegistry(reg), WithMethod(codec.Zstd)))

	// The table is compressed with zstd, which the standard registry would
	// try to read as brotli.
	_, err := Open(path, testSig)
	require.Error(t, err)

	r, err := Open(path, testSig, WithReaderRegistry(reg))
	require.NoError(t, err)
	defer r.Close()
	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, testutil.TextBytes(500), got)
}

func TestWriterUseAfterClose(t *testing.T) {
	t.Parallel()

	w, err := NewWriter(archivePath(t), ModeWrite, testSig)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	require.ErrorIs(t, w.Add("a", nil, 0, ""), ErrClosed)
	require.ErrorIs(t, w.Flush(), ErrClosed)
}

func TestBuildClosesOnError(t *testing.T) {
	t.Parallel()

	path := archivePath(t)
	errBoom := errors.New("boom")
	err := Build(path, ModeWrite, testSig, func(w *Writer) error {
		if err := w.Add("a", []byte("kept"), 0, ""); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, []byte("kept"), mustGet(t, path, "a"))
}

func TestParseSignature(t *testing.T) {
	t.Parallel()

	sig, err := ParseSignature("FNTMSH")
	require.NoError(t, err)
	assert.Equal(t, "FNTMSH", sig.String())

	_, err = ParseSignature("SHORT")
	require.ErrorIs(t, err, ErrInvalidSignature)
	assert.Panics(t, func() { MustSignature("toolong") })
}

func mustGet(t *testing.T, path, name string) []byte {
	t.Helper()
	r, err := Open(path, testSig)
	require.NoError(t, err)
	defer r.Close()
	got, err := r.Get(name)
	require.NoError(t, err)
	return got
}
