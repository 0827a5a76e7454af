package renderer

import (
	"fmt"

	"github.com/richinsley/glrenderer/buffers"
	"github.com/richinsley/glrenderer/graphics"
)

// Mesh is indexed geometry uploaded into one vertex buffer, one index
// buffer and the vertex array tying them together.
type Mesh struct {
	VertexArray *buffers.VertexArray
	vertices    *buffers.VertexBuffer
	indices     *buffers.IndexBuffer
}

var quadVertices = []float32{
	// position    texcoord
	-1.0, -1.0, 0.0, 0.0,
	1.0, -1.0, 1.0, 0.0,
	1.0, 1.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 1.0,
}

var quadIndices = []uint32{0, 1, 2, 2, 3, 0}

// QuadLayout is the vertex layout of the mesh built by NewQuad. It matches
// the built-in textured program.
func QuadLayout() *buffers.Layout {
	layout, _ := buffers.NewLayout(
		buffers.Element{Name: "in_position", Type: graphics.Float2},
		buffers.Element{Name: "in_texcoord", Type: graphics.Float2},
	)
	return layout
}

// NewQuad uploads a quad covering [-1, 1] in both axes.
func NewQuad(ctx *graphics.Context) (*Mesh, error) {
	return newMesh(ctx, QuadLayout(), quadVertices, quadIndices)
}

func newMesh(ctx *graphics.Context, layout *buffers.Layout, vertices []float32, indices []uint32) (*Mesh, error) {
	vb, err := buffers.NewVertexBuffer(ctx, layout, graphics.Static, vertices)
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh vertices: %w", err)
	}
	ib, err := buffers.NewIndexBuffer(ctx, graphics.Static, indices)
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("failed to create mesh indices: %w", err)
	}

	va := buffers.NewVertexArray(ctx)
	if err := va.AddVertexBuffer(vb); err != nil {
		va.Release()
		vb.Release()
		ib.Release()
		return nil, err
	}
	va.SetIndexBuffer(ib)
	return &Mesh{VertexArray: va, vertices: vb, indices: ib}, nil
}

// Release frees the vertex array and both buffers.
func (m *Mesh) Release() {
	m.VertexArray.Release()
	m.vertices.Release()
	m.indices.Release()
}
