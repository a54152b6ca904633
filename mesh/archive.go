package mesh

import (
	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack"
)

// Save validates g and writes it to a new archive at path, replacing any
// existing file. Blocks are compressed at DefaultLevel.
func (g *Geometry) Save(path string, opts ...filepack.WriterOption) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return filepack.Build(path, filepack.ModeWrite, Signature, func(w *filepack.Writer) error {
		if err := w.Add(VertexBlock, encodeVertices(g.Vertices), DefaultLevel, VertexType); err != nil {
			return err
		}
		if err := w.Add(IndexBlock, encodeIndices(g.Indices), DefaultLevel, IndexType); err != nil {
			return err
		}
		return w.Add(MeshBlock, encodeMeshes(g.Meshes, g.Colored), DefaultLevel, g.meshType())
	}, opts...)
}

// Load reads the geometry archive at path.
func Load(path string, opts ...filepack.ReaderOption) (*Geometry, error) {
	var g Geometry
	err := filepack.View(path, Signature, func(r *filepack.Reader) error {
		vert, err := r.Get(VertexBlock)
		if err != nil {
			return err
		}
		if g.Vertices, err = decodeVertices(vert); err != nil {
			return err
		}

		idx, err := r.Get(IndexBlock)
		if err != nil {
			return err
		}
		if g.Indices, err = decodeIndices(idx); err != nil {
			return err
		}

		d, ok := r.Lookup(MeshBlock)
		if !ok {
			return errors.Wrapf(filepack.ErrBlockNotFound, "%q", MeshBlock)
		}
		meshes, err := r.Get(MeshBlock)
		if err != nil {
			return err
		}
		g.Meshes, g.Colored, err = decodeMeshes(meshes, d.Type)
		return err
	}, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return &g, nil
}
