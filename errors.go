package filepack

import (
	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack/internal/packtype"
)

// Errors re-exported from internal/packtype.
var (
	// ErrIO is returned when the operating system rejects an open, read or write.
	ErrIO = packtype.ErrIO

	// ErrInvalidSignature is returned when the archive signature does not match.
	ErrInvalidSignature = packtype.ErrInvalidSignature

	// ErrInvalidVersion is returned when the header names an unknown table version.
	ErrInvalidVersion = packtype.ErrInvalidVersion

	// ErrTruncatedFile is returned when the file or its descriptor table is
	// shorter than required or malformed.
	ErrTruncatedFile = packtype.ErrTruncatedFile

	// ErrAlreadyExists is returned by ModeExclusive and ModeAppend when the
	// target already exists or has content.
	ErrAlreadyExists = packtype.ErrAlreadyExists

	// ErrDuplicateName is returned when a block name is used twice.
	ErrDuplicateName = packtype.ErrDuplicateName

	// ErrBlockNotFound is returned when no block has the requested name.
	ErrBlockNotFound = packtype.ErrBlockNotFound

	// ErrInvalidName is returned for names or tags the descriptor table cannot store.
	ErrInvalidName = packtype.ErrInvalidName

	// ErrSizeOverflow is returned when a block exceeds the writer's block size
	// limit or an archive would grow past the largest file offset.
	ErrSizeOverflow = packtype.ErrSizeOverflow

	// ErrClosed is returned when a closed Writer or Reader is used.
	ErrClosed = packtype.ErrClosed

	// ErrUnsupportedMethod is returned when no codec is registered for a method.
	ErrUnsupportedMethod = packtype.ErrUnsupportedMethod

	// ErrCompression is returned when a codec fails to compress a block.
	ErrCompression = packtype.ErrCompression

	// ErrDecompression is returned when a block cannot be decompressed.
	ErrDecompression = packtype.ErrDecompression
)

// ioError wraps an operating system failure and marks it with ErrIO. The
// original error stays reachable through errors.Is.
func ioError(err error, format string, args ...any) error {
	return packtype.Mark(errors.Wrapf(err, format, args...), ErrIO)
}
