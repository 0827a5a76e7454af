package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glrenderer/buffers"
	"github.com/richinsley/glrenderer/graphics"
)

// floats per MeshLayout vertex
const meshStride = 8

// MeshLayout is the vertex layout of Geometry: position, normal, texcoord.
// It matches shader.MeshVertexSource.
func MeshLayout() *buffers.Layout {
	layout, _ := buffers.NewLayout(
		buffers.Element{Name: "in_position", Type: graphics.Float3},
		buffers.Element{Name: "in_normal", Type: graphics.Float3},
		buffers.Element{Name: "in_texcoord", Type: graphics.Float2},
	)
	return layout
}

// Geometry is interleaved MeshLayout vertex data plus triangle indices.
type Geometry struct {
	Vertices []float32
	Indices  []uint32
}

func (g *Geometry) VertexCount() int { return len(g.Vertices) / meshStride }

func (g *Geometry) add(position, normal mgl32.Vec3, u, v float32) {
	g.Vertices = append(g.Vertices,
		position[0], position[1], position[2],
		normal[0], normal[1], normal[2],
		u, v)
}

// Position returns the position of vertex i.
func (g *Geometry) Position(i int) mgl32.Vec3 {
	o := i * meshStride
	return mgl32.Vec3{g.Vertices[o], g.Vertices[o+1], g.Vertices[o+2]}
}

// Normal returns the normal of vertex i.
func (g *Geometry) Normal(i int) mgl32.Vec3 {
	o := i*meshStride + 3
	return mgl32.Vec3{g.Vertices[o], g.Vertices[o+1], g.Vertices[o+2]}
}

// PlaneGeometry is a width x depth grid in the XY plane facing +Z, centered
// on the origin. Segment counts below one are treated as one.
func PlaneGeometry(width, depth float32, widthSegments, depthSegments int) Geometry {
	widthSegments = max(widthSegments, 1)
	depthSegments = max(depthSegments, 1)
	segW := width / float32(widthSegments)
	segD := depth / float32(depthSegments)

	g := Geometry{
		Vertices: make([]float32, 0, (widthSegments+1)*(depthSegments+1)*meshStride),
		Indices:  make([]uint32, 0, widthSegments*depthSegments*6),
	}
	up := mgl32.Vec3{0, 0, 1}
	for iy := 0; iy <= depthSegments; iy++ {
		y := float32(iy)*segD - depth/2
		for ix := 0; ix <= widthSegments; ix++ {
			x := float32(ix)*segW - width/2
			u := float32(ix) / float32(widthSegments)
			v := 1 - float32(iy)/float32(depthSegments)
			g.add(mgl32.Vec3{x, -y, 0}, up, u, v)
		}
	}

	row := uint32(widthSegments + 1)
	for iy := 0; iy < depthSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(ix) + row*uint32(iy)
			b := uint32(ix) + row*uint32(iy+1)
			c := uint32(ix+1) + row*uint32(iy+1)
			d := uint32(ix+1) + row*uint32(iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}

var boxNormals = []mgl32.Vec3{
	{0, 0, 1},
	{0, 0, -1},
	{0, 1, 0},
	{0, -1, 0},
	{1, 0, 0},
	{-1, 0, 0},
}

// BoxGeometry is a box centered on the origin with width along X, depth
// along Y and height along Z. Each face has its own four vertices so
// normals stay flat. Triangles wind counter-clockwise seen from outside.
func BoxGeometry(width, depth, height float32) Geometry {
	half := mgl32.Vec3{width / 2, depth / 2, height / 2}
	g := Geometry{
		Vertices: make([]float32, 0, 24*meshStride),
		Indices:  make([]uint32, 0, 36),
	}
	for _, n := range boxNormals {
		base := uint32(g.VertexCount())
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)

		// s1, s2 and n form a right handed basis of the face
		s1 := mgl32.Vec3{n.Y(), n.Z(), n.X()}
		s2 := n.Cross(s1)
		g.add(scale(n.Sub(s1).Sub(s2), half), n, 0, 0)
		g.add(scale(n.Add(s1).Sub(s2), half), n, 1, 0)
		g.add(scale(n.Add(s1).Add(s2), half), n, 1, 1)
		g.add(scale(n.Sub(s1).Add(s2), half), n, 0, 1)
	}
	return g
}

func scale(v, s mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0] * s[0], v[1] * s[1], v[2] * s[2]}
}

// NewMesh uploads g with MeshLayout.
func NewMesh(ctx *graphics.Context, g Geometry) (*Mesh, error) {
	return newMesh(ctx, MeshLayout(), g.Vertices, g.Indices)
}

func NewPlane(ctx *graphics.Context, width, depth float32, widthSegments, depthSegments int) (*Mesh, error) {
	return NewMesh(ctx, PlaneGeometry(width, depth, widthSegments, depthSegments))
}

func NewBox(ctx *graphics.Context, width, depth, height float32) (*Mesh, error) {
	return NewMesh(ctx, BoxGeometry(width, depth, height))
}
