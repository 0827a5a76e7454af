package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faceNormal is the normal of triangle t by counter-clockwise winding.
func faceNormal(g Geometry, t int) mgl32.Vec3 {
	a := g.Position(int(g.Indices[t*3]))
	b := g.Position(int(g.Indices[t*3+1]))
	c := g.Position(int(g.Indices[t*3+2]))
	return b.Sub(a).Cross(c.Sub(a))
}

func TestPlaneGeometry(t *testing.T) {
	g := PlaneGeometry(2, 1, 2, 1)
	require.Equal(t, 6, g.VertexCount())
	require.Len(t, g.Indices, 12)
	assert.Equal(t, []uint32{0, 3, 1, 3, 4, 1}, g.Indices[:6])

	assert.Equal(t, mgl32.Vec3{-1, 0.5, 0}, g.Position(0))
	assert.Equal(t, mgl32.Vec3{1, -0.5, 0}, g.Position(5))
	// texcoords of the first and last vertex
	assert.Equal(t, []float32{0, 1}, g.Vertices[6:8])
	assert.Equal(t, []float32{1, 0}, g.Vertices[5*meshStride+6:5*meshStride+8])

	for i := 0; i < g.VertexCount(); i++ {
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, g.Normal(i))
	}
	for tri := 0; tri < len(g.Indices)/3; tri++ {
		assert.Greater(t, faceNormal(g, tri).Z(), float32(0), "triangle %d faces +Z", tri)
	}
}

func TestPlaneGeometryClampsSegments(t *testing.T) {
	g := PlaneGeometry(1, 1, 0, -3)
	assert.Equal(t, 4, g.VertexCount())
	assert.Len(t, g.Indices, 6)
}

func TestBoxGeometry(t *testing.T) {
	half := mgl32.Vec3{1, 2, 3}
	g := BoxGeometry(2, 4, 6)
	require.Equal(t, 24, g.VertexCount())
	require.Len(t, g.Indices, 36)

	for i := 0; i < g.VertexCount(); i++ {
		n, p := g.Normal(i), g.Position(i)
		for axis := 0; axis < 3; axis++ {
			assert.InDelta(t, half[axis], abs(p[axis]), 1e-6, "vertex %d sits on a corner", i)
		}
		// the vertex lies on the face its normal points out of
		assert.InDelta(t, abs(n.Dot(half)), n.Dot(p), 1e-6, "vertex %d", i)
	}
	for tri := 0; tri < 12; tri++ {
		n := g.Normal(int(g.Indices[tri*3]))
		assert.Greater(t, faceNormal(g, tri).Dot(n), float32(0), "triangle %d winds outward", tri)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestNewMeshUploadsGeometry(t *testing.T) {
	r, b := newTestRenderer(t)
	dev := b.Device()

	plane, err := NewPlane(r.Context(), 2, 2, 4, 4)
	require.NoError(t, err)
	defer plane.Release()
	assert.Equal(t, PlaneGeometry(2, 2, 4, 4).Vertices, dev.BufferFloats(plane.vertices.Handle()))
	assert.Equal(t, 96, plane.VertexArray.ElementCount())
	assert.Equal(t, 32, plane.vertices.Layout().Stride())

	box, err := NewBox(r.Context(), 1, 1, 1)
	require.NoError(t, err)
	defer box.Release()
	assert.Equal(t, 36, box.VertexArray.ElementCount())

	state := dev.VertexArray(box.VertexArray.Handle())
	require.Len(t, state.Attribs, 3)
	assert.Equal(t, uintptr(24), state.Attribs[2].Offset)
}
