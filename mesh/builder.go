package mesh

// Builder accumulates geometry one mesh at a time.
//
// Each mesh covers the triangles added between its AddMesh call and the
// next one.
type Builder struct {
	g       Geometry
	current int
}

// NewBuilder returns an empty Builder producing colored meshes.
func NewBuilder() *Builder {
	return &Builder{
		g:       Geometry{Colored: true},
		current: -1,
	}
}

// AddMesh closes the current mesh and starts a new one. color is 0xAABBGGRR
// and is packed with PackColor.
func (b *Builder) AddMesh(color uint32, opacity float32) {
	b.finish()
	b.g.Meshes = append(b.g.Meshes, Mesh{
		StartIndex: int32(len(b.g.Indices)),
		Color:      PackColor(color, opacity),
	})
	b.current = len(b.g.Meshes) - 1
}

// AddPoint appends a vertex and returns its index.
func (b *Builder) AddPoint(x, y float32) uint32 {
	b.g.Vertices = append(b.g.Vertices, Vertex{X: x, Y: y})
	return uint32(len(b.g.Vertices) - 1)
}

// AddTriangle appends a triangle to the current mesh, starting an opaque
// black mesh if none is open.
func (b *Builder) AddTriangle(i0, i1, i2 uint32) {
	if b.current < 0 {
		b.AddMesh(0xff000000, 1)
	}
	b.g.Indices = append(b.g.Indices, i0, i1, i2)
}

// Geometry closes the current mesh and returns the result. The Builder must
// not be used afterwards.
func (b *Builder) Geometry() *Geometry {
	b.finish()
	return &b.g
}

func (b *Builder) finish() {
	if b.current < 0 {
		return
	}
	m := &b.g.Meshes[b.current]
	m.IndexCount = int32(len(b.g.Indices)) - m.StartIndex
}
