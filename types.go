package filepack

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack/internal/header"
	"github.com/meigma/filepack/internal/packtype"
)

// HeaderSize is the size of the fixed archive header in bytes. The first
// block starts at this offset.
const HeaderSize = header.Size

// Descriptor table versions.
const (
	// Version0 stores the descriptor table as plain text.
	Version0 = header.Version0

	// Version1 compresses the descriptor table with the registry default codec.
	Version1 = header.Version1
)

// Descriptor describes one stored block.
type Descriptor = packtype.Descriptor

// Signature is the 6-byte tag identifying an archive kind.
type Signature = header.Signature

// ParseSignature converts s to a Signature. s must be exactly 6 bytes.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	if len(s) != len(sig) {
		return sig, errors.Wrapf(ErrInvalidSignature, "%q is %d bytes, want %d", s, len(s), len(sig))
	}
	copy(sig[:], s)
	return sig, nil
}

// MustSignature is like ParseSignature but panics on error.
func MustSignature(s string) Signature {
	sig, err := ParseSignature(s)
	if err != nil {
		panic(err)
	}
	return sig
}

// Mode selects how NewWriter opens its file.
type Mode uint8

const (
	// ModeWrite creates the file or truncates an existing one.
	ModeWrite Mode = iota

	// ModeExclusive creates the file and fails with ErrAlreadyExists if it
	// already exists.
	ModeExclusive

	// ModeAppend opens the file without truncating it. Only empty or missing
	// files are accepted; anything else fails with ErrAlreadyExists.
	ModeAppend
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeExclusive:
		return "exclusive"
	case ModeAppend:
		return "append"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}
