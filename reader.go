package filepack

import (
	"io"
	"iter"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/meigma/filepack/codec"
	"github.com/meigma/filepack/internal/descriptor"
	"github.com/meigma/filepack/internal/header"
	"github.com/meigma/filepack/internal/sizing"
)

// Reader provides random access to the blocks of an archive.
//
// The descriptor table is loaded once by Open. Get and ReadRaw use
// positional reads and may be called concurrently; Close must not race with
// them.
type Reader struct {
	f      *os.File
	path   string
	header header.Header
	table  *descriptor.Table

	reg          *codec.Registry
	maxBlockSize int
	maxAttempts  int
	logger       *zap.Logger

	closed bool
}

// Open opens the archive at path and loads its descriptor table. The header
// signature must equal sig.
func Open(path string, sig Signature, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{
		path: path,
		reg:  codec.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(err, "open %s", path)
	}
	r.f = f
	if err := r.load(sig); err != nil {
		return nil, multierr.Append(err, f.Close())
	}

	r.logger.Debug("archive opened",
		zap.String("path", path),
		zap.Uint16("version", r.header.Version),
		zap.Uint64("table_offset", r.header.DescriptorOffset),
		zap.Int("blocks", r.table.Len()))
	return r, nil
}

func (r *Reader) load(sig Signature) error {
	info, err := r.f.Stat()
	if err != nil {
		return ioError(err, "stat %s", r.path)
	}
	size := uint64(info.Size())

	var buf [HeaderSize]byte
	if size < HeaderSize {
		return errors.Wrapf(ErrTruncatedFile, "%s: %d bytes, header needs %d", r.path, size, HeaderSize)
	}
	if err := r.readAt(buf[:], 0); err != nil {
		return err
	}
	h, err := header.Decode(buf[:], sig)
	if err != nil {
		return errors.Wrapf(err, "%s", r.path)
	}
	if h.DescriptorOffset < HeaderSize || h.DescriptorOffset > size {
		return errors.Wrapf(ErrTruncatedFile, "%s: descriptor table offset %d outside file of %d bytes",
			r.path, h.DescriptorOffset, size)
	}
	r.header = h

	n, err := sizing.ToInt(size-h.DescriptorOffset, ErrTruncatedFile)
	if err != nil {
		return err
	}
	raw := make([]byte, n)
	if err := r.readAt(raw, h.DescriptorOffset); err != nil {
		return err
	}
	table, err := descriptor.Decode(raw, h.Version, r.reg, HeaderSize, r.decompressOptions()...)
	if err != nil {
		return errors.Wrapf(err, "%s", r.path)
	}
	if end := table.End(HeaderSize); end > h.DescriptorOffset {
		return errors.Wrapf(ErrTruncatedFile, "%s: blocks end at %d, past descriptor table at %d",
			r.path, end, h.DescriptorOffset)
	}
	r.table = table
	return nil
}

func (r *Reader) decompressOptions() []codec.DecompressOption {
	return []codec.DecompressOption{
		codec.WithMaxSize(r.maxBlockSize),
		codec.WithMaxAttempts(r.maxAttempts),
	}
}

func (r *Reader) readAt(p []byte, off uint64) error {
	pos, err := sizing.ToInt64(off, ErrTruncatedFile)
	if err != nil {
		return err
	}
	n, err := r.f.ReadAt(p, pos)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return errors.Wrapf(ErrTruncatedFile, "%s: read %d of %d bytes at %d", r.path, n, len(p), off)
	}
	return ioError(err, "read %s at %d", r.path, off)
}

// Get returns the contents of the block called name, decompressed with the
// codec recorded for it.
func (r *Reader) Get(name string) ([]byte, error) {
	d, raw, err := r.readBlock(name)
	if err != nil {
		return nil, err
	}
	if !d.Compressed() {
		return raw, nil
	}
	m := codec.Method(d.Compression)
	if m == codec.Auto {
		return nil, errors.Wrapf(ErrUnsupportedMethod, "block %q: stored method %q", name, m)
	}
	out, err := r.reg.Decompress(raw, m, r.decompressOptions()...)
	if err != nil {
		return nil, errors.Wrapf(err, "block %q", name)
	}
	return out, nil
}

// ReadRaw returns the stored bytes of the block called name without
// decompressing them.
func (r *Reader) ReadRaw(name string) ([]byte, error) {
	_, raw, err := r.readBlock(name)
	return raw, err
}

func (r *Reader) readBlock(name string) (Descriptor, []byte, error) {
	if r.closed {
		return Descriptor{}, nil, ErrClosed
	}
	d, ok := r.table.Lookup(name)
	if !ok {
		return Descriptor{}, nil, errors.Wrapf(ErrBlockNotFound, "%q", name)
	}
	n, err := sizing.ToInt(d.Size, ErrTruncatedFile)
	if err != nil {
		return Descriptor{}, nil, err
	}
	raw := make([]byte, n)
	if err := r.readAt(raw, d.Offset); err != nil {
		return Descriptor{}, nil, errors.Wrapf(err, "block %q", name)
	}
	return d, raw, nil
}

// Lookup returns the descriptor of the block called name.
func (r *Reader) Lookup(name string) (Descriptor, bool) {
	return r.table.Lookup(name)
}

// Descriptors returns all descriptors in storage order.
func (r *Reader) Descriptors() []Descriptor {
	return r.table.Descriptors()
}

// All iterates the descriptors in storage order.
func (r *Reader) All() iter.Seq[Descriptor] {
	return r.table.All()
}

// Len returns the number of blocks.
func (r *Reader) Len() int {
	return r.table.Len()
}

// Version returns the descriptor table version.
func (r *Reader) Version() uint16 {
	return r.header.Version
}

// Signature returns the archive signature.
func (r *Reader) Signature() Signature {
	return r.header.Signature
}

// Path returns the archive path.
func (r *Reader) Path() string {
	return r.path
}

// Close releases the file. Calling Close more than once returns nil.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.f.Close(); err != nil {
		return ioError(err, "close %s", r.path)
	}
	return nil
}

// View opens the archive at path and passes the Reader to fn. The Reader is
// closed however fn returns.
func View(path string, sig Signature, fn func(*Reader) error, opts ...ReaderOption) (err error) {
	r, err := Open(path, sig, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()
	return fn(r)
}
