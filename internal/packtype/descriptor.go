// Package packtype defines shared types used across the filepack packages.
// This avoids circular imports between filepack, codec and internal packages.
package packtype

// Descriptor describes one block stored in an archive.
type Descriptor struct {
	// Name is the unique key of the block.
	Name string

	// Type is a free-form tag supplied by the producer. The container never
	// interprets it.
	Type string

	// Compression is the codec method tag. Empty means stored raw.
	Compression string

	// Offset is the absolute file offset of the stored bytes.
	Offset uint64

	// Size is the stored (possibly compressed) size in bytes.
	Size uint64
}

// Compressed reports whether the block was written through a codec.
func (d Descriptor) Compressed() bool {
	return d.Compression != ""
}

// End returns the offset one past the last stored byte.
func (d Descriptor) End() uint64 {
	return d.Offset + d.Size
}
