package buffers

import (
	"fmt"
	"log/slog"
	"math"
	"unsafe"

	"github.com/richinsley/glrenderer/graphics"
)

// VertexBuffer is a device-resident copy of interleaved vertex data
// described by a Layout. The payload is uploaded on construction.
//
// Int attributes read the raw bits of their payload slots; use IntBits to
// store integers in the float32 payload.
type VertexBuffer struct {
	ctx    *graphics.Context
	id     uint32
	layout *Layout
	usage  graphics.BufferUsage
	length int
}

// IntBits returns a float32 whose bits equal v, for Int attribute slots.
func IntBits(v int32) float32 {
	return math.Float32frombits(uint32(v))
}

func floatPtr(data []float32) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func uintPtr(data []uint32) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func checkPayload(layout *Layout, data []float32) error {
	per := layout.ComponentCount()
	if per == 0 {
		return fmt.Errorf("vertex buffer: empty layout: %w", graphics.ErrInvalidPayload)
	}
	if len(data)%per != 0 {
		return fmt.Errorf("vertex buffer: %d values is not a multiple of %d per vertex: %w",
			len(data), per, graphics.ErrInvalidPayload)
	}
	return nil
}

// NewVertexBuffer uploads data immediately. len(data) must be a multiple
// of layout.ComponentCount(). The layout is copied, so later changes to it
// do not affect the buffer.
func NewVertexBuffer(ctx *graphics.Context, layout *Layout, usage graphics.BufferUsage, data []float32) (*VertexBuffer, error) {
	if err := checkPayload(layout, data); err != nil {
		return nil, err
	}

	vb := &VertexBuffer{
		ctx:    ctx,
		layout: layout.clone(),
		usage:  usage,
		length: len(data),
	}

	dev := ctx.Device()
	dev.GenBuffers(1, &vb.id)
	dev.BindBuffer(graphics.ArrayBuffer, vb.id)
	dev.BufferData(graphics.ArrayBuffer, len(data)*4, floatPtr(data), usage.GLUsage())
	dev.BindBuffer(graphics.ArrayBuffer, 0)

	graphics.Logger().Debug("vertex buffer created",
		slog.Uint64("id", uint64(vb.id)),
		slog.Int("vertices", vb.VertexCount()),
		slog.String("usage", usage.String()))
	return vb, nil
}

// Update overwrites part of a dynamic buffer starting at offset, counted in
// float32 values. It fails with graphics.ErrImmutableBuffer on static
// buffers.
func (vb *VertexBuffer) Update(offset int, data []float32) error {
	if vb.usage != graphics.Dynamic {
		return fmt.Errorf("vertex buffer %d: update: %w", vb.id, graphics.ErrImmutableBuffer)
	}
	if offset < 0 || offset+len(data) > vb.length {
		return fmt.Errorf("vertex buffer %d: update [%d, %d) outside %d values: %w",
			vb.id, offset, offset+len(data), vb.length, graphics.ErrInvalidPayload)
	}
	if len(data) == 0 {
		return nil
	}
	dev := vb.ctx.Device()
	dev.BindBuffer(graphics.ArrayBuffer, vb.id)
	dev.BufferSubData(graphics.ArrayBuffer, offset*4, len(data)*4, floatPtr(data))
	dev.BindBuffer(graphics.ArrayBuffer, 0)
	return nil
}

// Resize replaces the whole contents of a dynamic buffer, which may change
// its vertex count.
func (vb *VertexBuffer) Resize(data []float32) error {
	if vb.usage != graphics.Dynamic {
		return fmt.Errorf("vertex buffer %d: resize: %w", vb.id, graphics.ErrImmutableBuffer)
	}
	if err := checkPayload(vb.layout, data); err != nil {
		return err
	}
	dev := vb.ctx.Device()
	dev.BindBuffer(graphics.ArrayBuffer, vb.id)
	dev.BufferData(graphics.ArrayBuffer, len(data)*4, floatPtr(data), vb.usage.GLUsage())
	dev.BindBuffer(graphics.ArrayBuffer, 0)
	vb.length = len(data)
	return nil
}

// Release frees the device buffer. Vertex arrays still referencing it must
// not be drawn afterwards.
func (vb *VertexBuffer) Release() {
	if vb.id == 0 {
		return
	}
	vb.ctx.Device().DeleteBuffers(1, &vb.id)
	vb.id = 0
}

func (vb *VertexBuffer) Handle() uint32              { return vb.id }
func (vb *VertexBuffer) Usage() graphics.BufferUsage { return vb.usage }

// Layout returns a copy of the buffer's layout.
func (vb *VertexBuffer) Layout() *Layout { return vb.layout.clone() }

// Len is the number of float32 values stored.
func (vb *VertexBuffer) Len() int { return vb.length }

func (vb *VertexBuffer) VertexCount() int {
	return vb.length / vb.layout.ComponentCount()
}

// IndexBuffer is a device-resident array of uint32 indices.
type IndexBuffer struct {
	ctx   *graphics.Context
	id    uint32
	usage graphics.BufferUsage
	count int
}

// upload binds the element target with no vertex array bound, so the
// binding is not captured by whichever array the caller had bound.
func (ib *IndexBuffer) upload(fn func(dev graphics.Device)) {
	prev := ib.ctx.BoundVertexArray()
	ib.ctx.BindVertexArray(0)
	dev := ib.ctx.Device()
	dev.BindBuffer(graphics.ElementArrayBuffer, ib.id)
	fn(dev)
	dev.BindBuffer(graphics.ElementArrayBuffer, 0)
	ib.ctx.BindVertexArray(prev)
}

func NewIndexBuffer(ctx *graphics.Context, usage graphics.BufferUsage, indices []uint32) (*IndexBuffer, error) {
	ib := &IndexBuffer{ctx: ctx, usage: usage, count: len(indices)}
	ctx.Device().GenBuffers(1, &ib.id)
	ib.upload(func(dev graphics.Device) {
		dev.BufferData(graphics.ElementArrayBuffer, len(indices)*4, uintPtr(indices), usage.GLUsage())
	})
	graphics.Logger().Debug("index buffer created",
		slog.Uint64("id", uint64(ib.id)),
		slog.Int("count", ib.count),
		slog.String("usage", usage.String()))
	return ib, nil
}

// Update overwrites indices starting at offset. Only dynamic buffers can
// be updated.
func (ib *IndexBuffer) Update(offset int, indices []uint32) error {
	if ib.usage != graphics.Dynamic {
		return fmt.Errorf("index buffer %d: update: %w", ib.id, graphics.ErrImmutableBuffer)
	}
	if offset < 0 || offset+len(indices) > ib.count {
		return fmt.Errorf("index buffer %d: update [%d, %d) outside %d indices: %w",
			ib.id, offset, offset+len(indices), ib.count, graphics.ErrInvalidPayload)
	}
	if len(indices) == 0 {
		return nil
	}
	ib.upload(func(dev graphics.Device) {
		dev.BufferSubData(graphics.ElementArrayBuffer, offset*4, len(indices)*4, uintPtr(indices))
	})
	return nil
}

// Resize replaces all indices of a dynamic buffer.
func (ib *IndexBuffer) Resize(indices []uint32) error {
	if ib.usage != graphics.Dynamic {
		return fmt.Errorf("index buffer %d: resize: %w", ib.id, graphics.ErrImmutableBuffer)
	}
	ib.upload(func(dev graphics.Device) {
		dev.BufferData(graphics.ElementArrayBuffer, len(indices)*4, uintPtr(indices), ib.usage.GLUsage())
	})
	ib.count = len(indices)
	return nil
}

func (ib *IndexBuffer) Release() {
	if ib.id == 0 {
		return
	}
	ib.ctx.Device().DeleteBuffers(1, &ib.id)
	ib.id = 0
}

func (ib *IndexBuffer) Handle() uint32              { return ib.id }
func (ib *IndexBuffer) Count() int                  { return ib.count }
func (ib *IndexBuffer) Usage() graphics.BufferUsage { return ib.usage }
