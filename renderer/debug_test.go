package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glrenderer/graphics"
)

var (
	red   = mgl32.Vec3{1, 0, 0}
	green = mgl32.Vec3{0, 1, 0}
)

func TestDebugDrawerRendersQueuedLines(t *testing.T) {
	r, b := newTestRenderer(t)
	dev := b.Device()

	d, err := r.Debug()
	require.NoError(t, err)
	again, err := r.Debug()
	require.NoError(t, err)
	assert.Same(t, d, again)

	d.DrawLine(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 2, 3}, red)
	d.DrawBox(mgl32.Vec3{2, 2, 2}, mgl32.Translate3D(1, 2, 3), green)
	assert.Equal(t, 13, d.Pending())

	proj := mgl32.Ortho(-1, 1, -1, 1, -10, 10)
	require.NoError(t, d.Render(proj, mgl32.Ident4()))
	assert.Zero(t, d.Pending())
	assert.Equal(t, 13, d.NumLines())
	assert.Equal(t, 1, d.NumDrawCalls())

	draws := dev.Draws()
	require.Len(t, draws, 1)
	assert.EqualValues(t, graphics.Lines, draws[0].Mode)
	assert.EqualValues(t, 26, draws[0].Count)
	assert.Equal(t, d.program.Handle(), draws[0].Program)
	assert.Equal(t, d.va.Handle(), draws[0].VertexArray)
	assert.Zero(t, dev.CurrentProgram(), "program is unbound after rendering")

	data := dev.BufferFloats(d.vertices.Handle())
	assert.Len(t, data, LinesBatchSize*floatsPerLine)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 1, 2, 3, 1, 0, 0}, data[:12])
	// first box corner (1, -1, -1) moved by the pose
	assert.Equal(t, []float32{2, 1, 2, 0, 1, 0}, data[12:18])

	prog := dev.Program(d.program.Handle())
	loc, ok := prog.Uniforms["u_proj_matrix"]
	require.True(t, ok)
	assert.Equal(t, proj[:], prog.Values[loc])

	d.ClearCounters()
	assert.Zero(t, d.NumLines())
	assert.Zero(t, d.NumDrawCalls())
}

func TestDebugDrawerBatches(t *testing.T) {
	r, b := newTestRenderer(t)
	d, err := r.Debug()
	require.NoError(t, err)

	for i := 0; i < LinesBatchSize+5; i++ {
		d.DrawLine(mgl32.Vec3{}, mgl32.Vec3{float32(i), 0, 0}, red)
	}
	require.NoError(t, d.Render(mgl32.Ident4(), mgl32.Ident4()))

	draws := b.Device().Draws()
	require.Len(t, draws, 2)
	assert.EqualValues(t, LinesBatchSize*2, draws[0].Count)
	assert.EqualValues(t, 10, draws[1].Count)
	assert.Equal(t, 2, d.NumDrawCalls())

	// the tail batch overwrote the start of the buffer
	data := b.Device().BufferFloats(d.vertices.Handle())
	assert.Equal(t, float32(LinesBatchSize), data[6])
}

func TestDebugDrawerRenderWithoutLines(t *testing.T) {
	r, b := newTestRenderer(t)
	d, err := r.Debug()
	require.NoError(t, err)

	require.NoError(t, d.Render(mgl32.Ident4(), mgl32.Ident4()))
	assert.Empty(t, b.Device().Draws())
	assert.Zero(t, d.NumDrawCalls())
}
