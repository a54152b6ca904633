// Package mesh stores triangulated 2D geometry in a filepack archive.
//
// A geometry archive has the signature FNTMSH and three blocks:
//
//	vert  float2     X, Y float32 per vertex
//	idx   uint32     three indices per triangle
//	mesh  Mesh       StartIndex, IndexCount int32
//	      MeshColor  StartIndex, IndexCount int32, Color uint32
//
// All values are little-endian. The type tag of the mesh block selects the
// record layout.
package mesh

import (
	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack"
)

// Block names and type tags.
const (
	VertexBlock = "vert"
	IndexBlock  = "idx"
	MeshBlock   = "mesh"

	VertexType    = "float2"
	IndexType     = "uint32"
	MeshType      = "Mesh"
	MeshColorType = "MeshColor"
)

// Record sizes in bytes.
const (
	vertexSize    = 8
	indexSize     = 4
	meshSize      = 8
	meshColorSize = 12
)

// DefaultLevel is the compression level used by Save.
const DefaultLevel = 20

// Signature identifies geometry archives.
var Signature = filepack.MustSignature("FNTMSH")

var (
	// ErrInvalidGeometry is returned by Validate and Save for inconsistent geometry.
	ErrInvalidGeometry = errors.New("mesh: invalid geometry")

	// ErrLayout is returned when a block has an unknown type tag or a size
	// that is not a whole number of records.
	ErrLayout = errors.New("mesh: unexpected block layout")
)

// Vertex is a 2D point.
type Vertex struct {
	X, Y float32
}

// Mesh is a run of triangles in the index buffer drawn with one color.
type Mesh struct {
	StartIndex int32
	IndexCount int32

	// Color is packed as 0xRRGGBBAA. See PackColor.
	Color uint32
}

// Geometry is the content of a geometry archive.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
	Meshes   []Mesh

	// Colored selects the 12-byte mesh records that carry Color.
	Colored bool
}

// PackColor converts a 0xAABBGGRR color into the 0xRRGGBBAA form stored in
// Mesh.Color, scaling alpha by opacity.
func PackColor(abgr uint32, opacity float32) uint32 {
	r := abgr & 0xff
	g := (abgr >> 8) & 0xff
	b := (abgr >> 16) & 0xff
	a := (abgr >> 24) & 0xff
	alpha := uint32(int32(float32(a)*opacity)) & 0xff
	return r<<24 | g<<16 | b<<8 | alpha
}

// Validate checks that every index refers to a vertex, that the index buffer
// holds whole triangles and that every mesh lies inside it.
func (g *Geometry) Validate() error {
	if len(g.Indices)%3 != 0 {
		return errors.Wrapf(ErrInvalidGeometry, "%d indices is not a whole number of triangles", len(g.Indices))
	}
	for i, idx := range g.Indices {
		if uint64(idx) >= uint64(len(g.Vertices)) {
			return errors.Wrapf(ErrInvalidGeometry, "index %d refers to vertex %d of %d", i, idx, len(g.Vertices))
		}
	}
	for i, m := range g.Meshes {
		if m.StartIndex < 0 || m.IndexCount < 0 {
			return errors.Wrapf(ErrInvalidGeometry, "mesh %d has negative range", i)
		}
		if int64(m.StartIndex)+int64(m.IndexCount) > int64(len(g.Indices)) {
			return errors.Wrapf(ErrInvalidGeometry, "mesh %d ends at %d, past %d indices",
				i, int64(m.StartIndex)+int64(m.IndexCount), len(g.Indices))
		}
	}
	return nil
}

func (g *Geometry) meshType() string {
	if g.Colored {
		return MeshColorType
	}
	return MeshType
}
