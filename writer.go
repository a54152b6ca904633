package filepack

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/meigma/filepack/codec"
	"github.com/meigma/filepack/internal/descriptor"
	"github.com/meigma/filepack/internal/header"
	"github.com/meigma/filepack/internal/packtype"
	"github.com/meigma/filepack/internal/sizing"
)

// Writer appends blocks to a new archive.
//
// Blocks are written to disk as they are added. The descriptor table and the
// header offset are written by Flush, which Close calls. A Writer is not safe
// for concurrent use.
type Writer struct {
	f    *os.File
	path string
	sig  Signature

	version      uint16
	method       codec.Method
	tableLevel   int
	maxBlockSize int
	reg        *codec.Registry
	logger     *zap.Logger

	table  descriptor.Table
	cursor uint64
	dirty  bool
	closed bool
}

// NewWriter opens path according to mode and writes a provisional header.
//
// The archive starts dirty, so closing it without adding blocks still leaves
// a valid empty archive behind.
func NewWriter(path string, mode Mode, sig Signature, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		path:       path,
		sig:        sig,
		version:    Version1,
		method:     codec.Brotli,
		tableLevel: DefaultTableLevel,
		reg:        codec.Default(),
		cursor:     HeaderSize,
		dirty:      true,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.maxBlockSize <= 0 {
		w.maxBlockSize = codec.DefaultMaxSize
	}
	if !header.KnownVersion(w.version) {
		return nil, errors.Wrapf(ErrInvalidVersion, "version %d", w.version)
	}
	if w.method == codec.Auto {
		w.method = w.reg.DefaultMethod()
	}
	if _, ok := w.reg.Lookup(w.method); !ok {
		return nil, errors.Wrapf(ErrUnsupportedMethod, "%q", w.method)
	}

	f, err := openForWrite(path, mode)
	if err != nil {
		return nil, err
	}
	w.f = f

	if err := w.writeHeader(HeaderSize); err != nil {
		return nil, multierr.Append(err, f.Close())
	}
	w.logger.Debug("archive created",
		zap.String("path", path),
		zap.Stringer("mode", mode),
		zap.Uint16("version", w.version),
		zap.Stringer("method", w.method))
	return w, nil
}

func openForWrite(path string, mode Mode) (*os.File, error) {
	var flag int
	switch mode {
	case ModeWrite:
		flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case ModeExclusive:
		flag = os.O_RDWR | os.O_CREATE | os.O_EXCL
	case ModeAppend:
		flag = os.O_RDWR | os.O_CREATE
	default:
		return nil, errors.Newf("filepack: unknown mode %v", mode)
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		if mode == ModeExclusive && errors.Is(err, fs.ErrExist) {
			return nil, packtype.Mark(errors.Wrapf(err, "create %s", path), ErrAlreadyExists)
		}
		return nil, ioError(err, "open %s", path)
	}
	if mode != ModeAppend {
		return f, nil
	}

	info, err := f.Stat()
	if err != nil {
		return nil, multierr.Append(ioError(err, "stat %s", path), f.Close())
	}
	if info.Size() > 0 {
		return nil, multierr.Append(
			errors.Wrapf(ErrAlreadyExists, "append to non-empty %s (%d bytes)", path, info.Size()),
			f.Close())
	}
	return f, nil
}

func (w *Writer) writeHeader(tableOffset uint64) error {
	b := header.Header{
		Signature:        w.sig,
		Version:          w.version,
		DescriptorOffset: tableOffset,
	}.Encode()
	if _, err := w.f.WriteAt(b[:], 0); err != nil {
		return ioError(err, "write header %s", w.path)
	}
	return nil
}

// Add stores data as a block called name.
//
// A level of zero stores data raw. Any other level compresses it with the
// writer's method; the level is interpreted by the codec. typeTag is kept in
// the descriptor for consumers and is otherwise ignored.
func (w *Writer) Add(name string, data []byte, level int, typeTag string) error {
	if w.closed {
		return ErrClosed
	}
	if err := descriptor.ValidateName(name); err != nil {
		return err
	}
	if err := descriptor.ValidateTag(typeTag); err != nil {
		return err
	}
	if w.table.Has(name) {
		return errors.Wrapf(ErrDuplicateName, "%q", name)
	}

	stored := data
	var compression string
	if level != 0 {
		if len(data) > w.maxBlockSize {
			return errors.Wrapf(ErrSizeOverflow, "block %q: %d bytes exceeds compressed block limit %d",
				name, len(data), w.maxBlockSize)
		}
		out, err := w.reg.Compress(data, w.method, level)
		if err != nil {
			return errors.Wrapf(err, "block %q", name)
		}
		stored = out
		compression = w.method.String()
	}

	end, ok := sizing.AddUint64(w.cursor, uint64(len(stored)))
	if !ok {
		return errors.Wrapf(ErrSizeOverflow, "block %q at offset %d", name, w.cursor)
	}
	off, err := sizing.ToInt64(w.cursor, ErrSizeOverflow)
	if err != nil {
		return errors.Wrapf(err, "block %q at offset %d", name, w.cursor)
	}
	if _, err := sizing.ToInt64(end, ErrSizeOverflow); err != nil {
		return errors.Wrapf(err, "block %q ends at %d", name, end)
	}
	// Bytes past the cursor are garbage until Flush rewrites the table, so
	// the archive is dirty even if the write fails midway.
	w.dirty = true
	if _, err := w.f.WriteAt(stored, off); err != nil {
		return ioError(err, "write block %q", name)
	}

	d := Descriptor{
		Name:        name,
		Type:        typeTag,
		Compression: compression,
		Offset:      w.cursor,
		Size:        uint64(len(stored)),
	}
	if err := w.table.Add(d); err != nil {
		return err
	}
	w.cursor = end

	w.logger.Debug("block added",
		zap.String("name", name),
		zap.String("type", typeTag),
		zap.String("compression", compression),
		zap.Int("size", len(data)),
		zap.Int("stored", len(stored)))
	return nil
}

// Flush writes the descriptor table after the last block and points the
// header at it. It does nothing if no block was added since the last Flush.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}
	if !w.dirty {
		return nil
	}

	table, err := descriptor.Encode(w.table.Descriptors(), w.version, w.reg, w.tableLevel)
	if err != nil {
		return err
	}
	tableEnd, ok := sizing.AddUint64(w.cursor, uint64(len(table)))
	if !ok {
		return errors.Wrapf(ErrSizeOverflow, "descriptor table at offset %d", w.cursor)
	}
	off, err := sizing.ToInt64(w.cursor, ErrSizeOverflow)
	if err != nil {
		return errors.Wrapf(err, "descriptor table at offset %d", w.cursor)
	}
	end, err := sizing.ToInt64(tableEnd, ErrSizeOverflow)
	if err != nil {
		return errors.Wrapf(err, "descriptor table ends at %d", tableEnd)
	}
	if _, err := w.f.WriteAt(table, off); err != nil {
		return ioError(err, "write descriptor table %s", w.path)
	}
	if err := w.f.Truncate(end); err != nil {
		return ioError(err, "truncate %s", w.path)
	}
	if err := w.writeHeader(w.cursor); err != nil {
		return err
	}
	w.dirty = false

	w.logger.Debug("descriptor table flushed",
		zap.String("path", w.path),
		zap.Uint64("offset", w.cursor),
		zap.Int("size", len(table)),
		zap.Int("blocks", w.table.Len()))
	return nil
}

// Close flushes pending changes and closes the file. The file is closed even
// if the flush fails. Calling Close more than once returns nil.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	err := w.Flush()
	w.closed = true
	if cerr := w.f.Close(); cerr != nil {
		err = multierr.Append(err, ioError(cerr, "close %s", w.path))
	}
	return err
}

// Len returns the number of blocks added so far.
func (w *Writer) Len() int {
	return w.table.Len()
}

// Descriptors returns the descriptors of the blocks added so far.
func (w *Writer) Descriptors() []Descriptor {
	return w.table.Descriptors()
}

// Path returns the archive path.
func (w *Writer) Path() string {
	return w.path
}

// Build creates an archive at path and passes the Writer to fn. The Writer
// is closed, and therefore flushed, however fn returns.
func Build(path string, mode Mode, sig Signature, fn func(*Writer) error, opts ...WriterOption) (err error) {
	w, err := NewWriter(path, mode, sig, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, w.Close())
	}()
	return fn(w)
}
