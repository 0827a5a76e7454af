package buffers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glrenderer/dummy"
	"github.com/richinsley/glrenderer/graphics"
)

func newTestContext() (*graphics.Context, *dummy.Device) {
	dev := dummy.NewDevice()
	return graphics.NewContext(dev), dev
}

func quadLayout(t *testing.T) *Layout {
	l, err := NewLayout(
		Element{Name: "position", Type: graphics.Float2},
		Element{Name: "texcoord", Type: graphics.Float2},
	)
	require.NoError(t, err)
	return l
}

var quad = []float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	1, 1, 1, 1,
	-1, 1, 0, 1,
}

func TestVertexBufferUploadsEagerly(t *testing.T) {
	ctx, dev := newTestContext()
	vb, err := NewVertexBuffer(ctx, quadLayout(t), graphics.Static, quad)
	require.NoError(t, err)

	assert.Equal(t, quad, dev.BufferFloats(vb.Handle()))
	assert.Equal(t, 4, vb.VertexCount())
}

func TestVertexBufferPayloadMultiple(t *testing.T) {
	ctx, _ := newTestContext()
	_, err := NewVertexBuffer(ctx, quadLayout(t), graphics.Static, quad[:6])
	assert.ErrorIs(t, err, graphics.ErrInvalidPayload)
}

func TestStaticBufferIsImmutable(t *testing.T) {
	ctx, dev := newTestContext()
	vb, err := NewVertexBuffer(ctx, quadLayout(t), graphics.Static, quad)
	require.NoError(t, err)

	err = vb.Update(0, []float32{9, 9})
	assert.ErrorIs(t, err, graphics.ErrImmutableBuffer)
	assert.Equal(t, quad, dev.BufferFloats(vb.Handle()))

	ib, err := NewIndexBuffer(ctx, graphics.Static, []uint32{0, 1, 2})
	require.NoError(t, err)
	assert.ErrorIs(t, ib.Update(0, []uint32{2}), graphics.ErrImmutableBuffer)
}

func TestDynamicBufferUpdate(t *testing.T) {
	ctx, dev := newTestContext()
	vb, err := NewVertexBuffer(ctx, quadLayout(t), graphics.Dynamic, quad)
	require.NoError(t, err)

	require.NoError(t, vb.Update(4, []float32{5, 6}))
	got := dev.BufferFloats(vb.Handle())
	assert.Equal(t, []float32{5, 6}, got[4:6])
	assert.Equal(t, quad[6:], got[6:])

	assert.ErrorIs(t, vb.Update(15, []float32{1, 2}), graphics.ErrInvalidPayload)

	require.NoError(t, vb.Resize(quad[:8]))
	assert.Equal(t, 2, vb.VertexCount())

	ib, err := NewIndexBuffer(ctx, graphics.Dynamic, []uint32{0, 1, 2, 2, 3, 0})
	require.NoError(t, err)
	require.NoError(t, ib.Update(3, []uint32{0, 2, 3}))
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, dev.BufferUints(ib.Handle()))
}

func TestAttributeSlotsContinueAcrossBuffers(t *testing.T) {
	ctx, dev := newTestContext()
	positions, err := NewVertexBuffer(ctx, quadLayout(t), graphics.Static, quad)
	require.NoError(t, err)

	colorLayout, err := NewLayout(
		Element{Name: "color", Type: graphics.Float4, Normalized: true},
		Element{Name: "id", Type: graphics.Int1},
	)
	require.NoError(t, err)
	colors, err := NewVertexBuffer(ctx, colorLayout, graphics.Static, make([]float32, 4*5))
	require.NoError(t, err)

	va := NewVertexArray(ctx)
	require.NoError(t, va.AddVertexBuffer(positions))
	require.NoError(t, va.AddVertexBuffer(colors))

	assert.Equal(t, 4, va.NumAttributes())
	assert.Equal(t, 2, va.NumBuffers())

	state := dev.VertexArray(va.Handle())
	require.Len(t, state.Attribs, 4)

	assert.Equal(t, positions.Handle(), state.Attribs[0].Buffer)
	assert.Equal(t, uintptr(0), state.Attribs[0].Offset)
	assert.Equal(t, uintptr(8), state.Attribs[1].Offset)
	assert.Equal(t, int32(16), state.Attribs[1].Stride)

	assert.Equal(t, colors.Handle(), state.Attribs[2].Buffer)
	assert.True(t, state.Attribs[2].Normalized)
	assert.Equal(t, int32(4), state.Attribs[2].Size)
	assert.True(t, state.Attribs[3].Integer)
	assert.Equal(t, uintptr(16), state.Attribs[3].Offset)
	for _, a := range state.Attribs {
		assert.True(t, a.Enabled)
	}

	// building the array leaves nothing bound
	assert.Equal(t, uint32(0), ctx.BoundVertexArray())
}

func TestSetIndexBufferReplaces(t *testing.T) {
	ctx, dev := newTestContext()
	va := NewVertexArray(ctx)

	first, err := NewIndexBuffer(ctx, graphics.Static, []uint32{0, 1, 2})
	require.NoError(t, err)
	second, err := NewIndexBuffer(ctx, graphics.Static, []uint32{0, 1, 2, 2, 3, 0})
	require.NoError(t, err)

	va.SetIndexBuffer(first)
	va.SetIndexBuffer(second)
	assert.Same(t, second, va.IndexBuffer())
	assert.Equal(t, second.Handle(), dev.VertexArray(va.Handle()).ElementBuffer)
	assert.Equal(t, 6, va.ElementCount())
}

func TestIndexUploadDoesNotTouchBoundArray(t *testing.T) {
	ctx, dev := newTestContext()
	va := NewVertexArray(ctx)
	va.Bind()

	_, err := NewIndexBuffer(ctx, graphics.Static, []uint32{0, 1, 2})
	require.NoError(t, err)

	assert.True(t, va.IsBound())
	assert.Equal(t, uint32(0), dev.VertexArray(va.Handle()).ElementBuffer)
}

func TestVertexArrayBindIdempotent(t *testing.T) {
	ctx, dev := newTestContext()
	va := NewVertexArray(ctx)
	dev.ResetCalls()

	va.Bind()
	va.Bind()
	assert.Equal(t, 1, dev.Calls("BindVertexArray"))
	assert.Equal(t, va.Handle(), dev.BoundVertexArray())

	va.Unbind()
	va.Unbind()
	assert.Equal(t, 2, dev.Calls("BindVertexArray"))
	assert.Equal(t, uint32(0), dev.BoundVertexArray())
}

func TestReleaseKeepsSharedBuffers(t *testing.T) {
	ctx, dev := newTestContext()
	vb, err := NewVertexBuffer(ctx, quadLayout(t), graphics.Static, quad)
	require.NoError(t, err)

	a := NewVertexArray(ctx)
	b := NewVertexArray(ctx)
	require.NoError(t, a.AddVertexBuffer(vb))
	require.NoError(t, b.AddVertexBuffer(vb))

	a.Bind()
	a.Release()
	assert.Equal(t, uint32(0), ctx.BoundVertexArray())
	assert.True(t, dev.HasBuffer(vb.Handle()))
	assert.Equal(t, 4, b.ElementCount())

	vb.Release()
	assert.Equal(t, uint32(0), vb.Handle())
	assert.Error(t, b.AddVertexBuffer(vb))
}

func TestVertexBufferLayoutIsACopy(t *testing.T) {
	ctx, dev := newTestContext()
	layout, err := NewLayout(Element{Name: "position", Type: graphics.Float2})
	require.NoError(t, err)
	vb, err := NewVertexBuffer(ctx, layout, graphics.Static, quad)
	require.NoError(t, err)

	require.NoError(t, vb.Layout().AddElement(Element{Name: "extra", Type: graphics.Float4}))
	assert.Equal(t, 1, vb.Layout().Len())
	assert.Equal(t, 8, vb.Layout().Stride())
	assert.Equal(t, 8, vb.VertexCount())

	va := NewVertexArray(ctx)
	require.NoError(t, va.AddVertexBuffer(vb))
	state := dev.VertexArray(va.Handle())
	require.Len(t, state.Attribs, 1)
	assert.Equal(t, int32(8), state.Attribs[0].Stride)
}
