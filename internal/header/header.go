// Package header encodes and validates the fixed archive header.
//
// The header is the first HeaderSize bytes of every archive, little-endian:
//
//	[0:6]   signature
//	[6:8]   version
//	[8:16]  absolute offset of the descriptor table
package header

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack/internal/packtype"
)

const (
	// Size is the encoded header length in bytes.
	Size = 16

	// SignatureSize is the length of the archive signature.
	SignatureSize = 6

	// Version0 stores the descriptor table as plain text.
	Version0 uint16 = 0

	// Version1 stores the descriptor table compressed with the default codec.
	Version1 uint16 = 1
)

// Signature is the 6-byte tag identifying the archive kind.
type Signature [SignatureSize]byte

// String returns the signature as text.
func (s Signature) String() string {
	return string(s[:])
}

// Header is the decoded fixed header.
type Header struct {
	Signature        Signature
	Version          uint16
	DescriptorOffset uint64
}

// KnownVersion reports whether v names a descriptor table encoding.
func KnownVersion(v uint16) bool {
	return v == Version0 || v == Version1
}

// Encode returns the on-disk form of h.
func (h Header) Encode() [Size]byte {
	var b [Size]byte
	copy(b[0:6], h.Signature[:])
	binary.LittleEndian.PutUint16(b[6:8], h.Version)
	binary.LittleEndian.PutUint64(b[8:16], h.DescriptorOffset)
	return b
}

// Decode parses b and validates it against want. Signature mismatches are
// reported before version mismatches.
func Decode(b []byte, want Signature) (Header, error) {
	if len(b) < Size {
		return Header{}, errors.Wrapf(packtype.ErrTruncatedFile, "header: have %d bytes, need %d", len(b), Size)
	}
	var h Header
	copy(h.Signature[:], b[0:6])
	h.Version = binary.LittleEndian.Uint16(b[6:8])
	h.DescriptorOffset = binary.LittleEndian.Uint64(b[8:16])

	if h.Signature != want {
		return Header{}, errors.Wrapf(packtype.ErrInvalidSignature, "have %q, want %q", h.Signature.String(), want.String())
	}
	if !KnownVersion(h.Version) {
		return Header{}, errors.Wrapf(packtype.ErrInvalidVersion, "version %d", h.Version)
	}
	return h, nil
}
