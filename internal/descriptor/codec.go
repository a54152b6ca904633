package descriptor

import (
	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack/codec"
	"github.com/meigma/filepack/internal/header"
	"github.com/meigma/filepack/internal/packtype"
)

// Encode serializes descs for the given table version. Version 1 text is
// compressed with the registry's default codec at level.
func Encode(descs []packtype.Descriptor, version uint16, reg *codec.Registry, level int) ([]byte, error) {
	for _, d := range descs {
		if err := Validate(d); err != nil {
			return nil, err
		}
	}
	switch version {
	case header.Version0:
		return Marshal(descs, false), nil
	case header.Version1:
		text := Marshal(descs, true)
		out, err := reg.Compress(text, reg.DefaultMethod(), level)
		if err != nil {
			return nil, errors.Wrap(err, "encode descriptor table")
		}
		return out, nil
	default:
		return nil, errors.Wrapf(packtype.ErrInvalidVersion, "version %d", version)
	}
}

// Decode parses a stored table of the given version and returns it indexed
// by name. Offsets start at base.
func Decode(data []byte, version uint16, reg *codec.Registry, base uint64, opts ...codec.DecompressOption) (*Table, error) {
	var text []byte
	switch version {
	case header.Version0:
		text = data
	case header.Version1:
		if len(data) == 0 {
			return nil, errors.Wrap(packtype.ErrTruncatedFile, "empty compressed descriptor table")
		}
		var err error
		text, err = reg.Decompress(data, reg.DefaultMethod(), opts...)
		if err != nil {
			return nil, errors.Wrap(err, "decode descriptor table")
		}
	default:
		return nil, errors.Wrapf(packtype.ErrInvalidVersion, "version %d", version)
	}

	descs, err := Parse(text, base)
	if err != nil {
		return nil, err
	}
	return NewTable(descs)
}
