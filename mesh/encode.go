package mesh

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

func encodeVertices(vs []Vertex) []byte {
	b := make([]byte, 0, len(vs)*vertexSize)
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v.X))
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v.Y))
	}
	return b
}

func decodeVertices(b []byte) ([]Vertex, error) {
	if len(b)%vertexSize != 0 {
		return nil, errors.Wrapf(ErrLayout, "%s: %d bytes", VertexBlock, len(b))
	}
	vs := make([]Vertex, len(b)/vertexSize)
	for i := range vs {
		rec := b[i*vertexSize:]
		vs[i] = Vertex{
			X: math.Float32frombits(binary.LittleEndian.Uint32(rec[0:4])),
			Y: math.Float32frombits(binary.LittleEndian.Uint32(rec[4:8])),
		}
	}
	return vs, nil
}

func encodeIndices(idx []uint32) []byte {
	b := make([]byte, 0, len(idx)*indexSize)
	for _, v := range idx {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}

func decodeIndices(b []byte) ([]uint32, error) {
	if len(b)%indexSize != 0 {
		return nil, errors.Wrapf(ErrLayout, "%s: %d bytes", IndexBlock, len(b))
	}
	idx := make([]uint32, len(b)/indexSize)
	for i := range idx {
		idx[i] = binary.LittleEndian.Uint32(b[i*indexSize:])
	}
	return idx, nil
}

func encodeMeshes(ms []Mesh, colored bool) []byte {
	stride := meshSize
	if colored {
		stride = meshColorSize
	}
	b := make([]byte, 0, len(ms)*stride)
	for _, m := range ms {
		b = binary.LittleEndian.AppendUint32(b, uint32(m.StartIndex))
		b = binary.LittleEndian.AppendUint32(b, uint32(m.IndexCount))
		if colored {
			b = binary.LittleEndian.AppendUint32(b, m.Color)
		}
	}
	return b
}

func decodeMeshes(b []byte, typeTag string) ([]Mesh, bool, error) {
	var colored bool
	var stride int
	switch typeTag {
	case MeshType:
		stride = meshSize
	case MeshColorType:
		stride, colored = meshColorSize, true
	default:
		return nil, false, errors.Wrapf(ErrLayout, "%s: type %q", MeshBlock, typeTag)
	}
	if len(b)%stride != 0 {
		return nil, false, errors.Wrapf(ErrLayout, "%s: %d bytes is not a multiple of %d", MeshBlock, len(b), stride)
	}
	ms := make([]Mesh, len(b)/stride)
	for i := range ms {
		rec := b[i*stride:]
		ms[i] = Mesh{
			StartIndex: int32(binary.LittleEndian.Uint32(rec[0:4])),
			IndexCount: int32(binary.LittleEndian.Uint32(rec[4:8])),
		}
		if colored {
			ms[i].Color = binary.LittleEndian.Uint32(rec[8:12])
		}
	}
	return ms, colored, nil
}
