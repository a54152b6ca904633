// Package descriptor implements the descriptor table encodings.
//
// Each block is one record of the form
//
//	type;compression;size;name
//
// terminated by a newline. Offsets are not stored: blocks are packed back to
// back after the header, so a record's offset is the running sum of the sizes
// before it.
package descriptor

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack/internal/packtype"
	"github.com/meigma/filepack/internal/sizing"
)

const (
	fieldSep  = ';'
	recordSep = '\n'
)

// ValidateName reports whether name can be stored in a record.
func ValidateName(name string) error {
	if name == "" {
		return errors.Wrap(packtype.ErrInvalidName, "empty name")
	}
	if strings.IndexByte(name, recordSep) >= 0 {
		return errors.Wrapf(packtype.ErrInvalidName, "name %q contains a newline", name)
	}
	return nil
}

// ValidateTag reports whether a type or compression tag can be stored in a
// record. Tags may be empty.
func ValidateTag(tag string) error {
	if strings.ContainsAny(tag, ";\n") {
		return errors.Wrapf(packtype.ErrInvalidName, "tag %q contains a separator", tag)
	}
	return nil
}

// Validate checks every field of d that ends up in the record text.
func Validate(d packtype.Descriptor) error {
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if err := ValidateTag(d.Type); err != nil {
		return err
	}
	return ValidateTag(d.Compression)
}

// Marshal renders descs as record text. When trailing is false the final
// newline is omitted.
func Marshal(descs []packtype.Descriptor, trailing bool) []byte {
	var buf bytes.Buffer
	for i, d := range descs {
		buf.WriteString(d.Type)
		buf.WriteByte(fieldSep)
		buf.WriteString(d.Compression)
		buf.WriteByte(fieldSep)
		buf.WriteString(strconv.FormatUint(d.Size, 10))
		buf.WriteByte(fieldSep)
		buf.WriteString(d.Name)
		if trailing || i < len(descs)-1 {
			buf.WriteByte(recordSep)
		}
	}
	return buf.Bytes()
}

// Parse decodes record text, assigning offsets from base. A single trailing
// newline is accepted; empty records anywhere else are not.
func Parse(text []byte, base uint64) ([]packtype.Descriptor, error) {
	if len(text) == 0 {
		return nil, nil
	}
	lines := strings.Split(string(text), string(recordSep))
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	descs := make([]packtype.Descriptor, 0, len(lines))
	offset := base
	for i, line := range lines {
		fields := strings.SplitN(line, string(fieldSep), 4)
		if len(fields) != 4 {
			return nil, errors.Wrapf(packtype.ErrTruncatedFile, "record %d: want 4 fields, have %d", i, len(fields))
		}
		size, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, packtype.Mark(errors.Wrapf(err, "record %d: size", i), packtype.ErrTruncatedFile)
		}
		d := packtype.Descriptor{
			Type:        fields[0],
			Compression: fields[1],
			Size:        size,
			Name:        fields[3],
			Offset:      offset,
		}
		if d.Name == "" {
			return nil, errors.Wrapf(packtype.ErrTruncatedFile, "record %d: empty name", i)
		}
		end, ok := sizing.AddUint64(offset, size)
		if !ok {
			return nil, errors.Wrapf(packtype.ErrTruncatedFile, "record %d: size %d overflows", i, size)
		}
		offset = end
		descs = append(descs, d)
	}
	return descs, nil
}
