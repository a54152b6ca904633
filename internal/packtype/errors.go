package packtype

import "github.com/cockroachdb/errors"

// Sentinel errors for archive and codec operations.
var (
	// ErrIO is returned when the operating system rejects an open, read or write.
	ErrIO = errors.New("filepack: i/o error")

	// ErrInvalidSignature is returned when the 6-byte archive signature does not match.
	ErrInvalidSignature = errors.New("filepack: invalid signature")

	// ErrInvalidVersion is returned when the header names an unknown table encoding.
	ErrInvalidVersion = errors.New("filepack: invalid version")

	// ErrTruncatedFile is returned when the file or its descriptor table is
	// shorter than required, or a table record is malformed.
	ErrTruncatedFile = errors.New("filepack: truncated file")

	// ErrAlreadyExists is returned when exclusive creation finds an existing file.
	ErrAlreadyExists = errors.New("filepack: already exists")

	// ErrDuplicateName is returned when a block name is registered twice.
	ErrDuplicateName = errors.New("filepack: duplicate block name")

	// ErrBlockNotFound is returned when no descriptor matches a name.
	ErrBlockNotFound = errors.New("filepack: block not found")

	// ErrInvalidName is returned for names or tags the descriptor grammar cannot carry.
	ErrInvalidName = errors.New("filepack: invalid block name")

	// ErrSizeOverflow is returned when a block exceeds the writer's block size
	// limit or an archive would grow past the largest file offset.
	ErrSizeOverflow = errors.New("filepack: size overflow")

	// ErrClosed is returned when a closed Writer or Reader is used.
	ErrClosed = errors.New("filepack: archive closed")

	// ErrUnsupportedMethod is returned when no codec is registered for a method.
	ErrUnsupportedMethod = errors.New("filepack: unsupported compression method")

	// ErrCompression is returned when a codec fails to compress.
	ErrCompression = errors.New("filepack: compression failed")

	// ErrDecompression is returned when compressed data is malformed or
	// decodes to more bytes than allowed.
	ErrDecompression = errors.New("filepack: decompression failed")
)
