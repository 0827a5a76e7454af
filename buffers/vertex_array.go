package buffers

import (
	"errors"
	"log/slog"

	"github.com/richinsley/glrenderer/graphics"
)

// VertexArray binds a set of vertex buffers and at most one index buffer
// as a unit. It shares its buffers with any other array using them and
// never releases them.
type VertexArray struct {
	ctx      *graphics.Context
	id       uint32
	vbs      []*VertexBuffer
	ib       *IndexBuffer
	nextSlot uint32
}

func NewVertexArray(ctx *graphics.Context) *VertexArray {
	va := &VertexArray{ctx: ctx}
	ctx.Device().GenVertexArrays(1, &va.id)
	graphics.Logger().Debug("vertex array created", slog.Uint64("id", uint64(va.id)))
	return va
}

// withBound runs fn with this array bound and restores the previous
// binding afterwards.
func (va *VertexArray) withBound(fn func(dev graphics.Device)) {
	prev := va.ctx.BoundVertexArray()
	va.ctx.BindVertexArray(va.id)
	fn(va.ctx.Device())
	va.ctx.BindVertexArray(prev)
}

// AddVertexBuffer attaches vb. Its layout elements take the next attribute
// slots, continuing after the slots of previously attached buffers.
func (va *VertexArray) AddVertexBuffer(vb *VertexBuffer) error {
	if vb == nil || vb.Handle() == 0 {
		return errors.New("vertex array: vertex buffer is nil or released")
	}
	layout := vb.layout
	stride := int32(layout.Stride())
	va.withBound(func(dev graphics.Device) {
		dev.BindBuffer(graphics.ArrayBuffer, vb.Handle())
		for i := 0; i < layout.Len(); i++ {
			e := layout.Element(i)
			slot := va.nextSlot
			dev.EnableVertexAttribArray(slot)
			offset := uintptr(layout.Offset(i))
			if e.Type.IsInteger() {
				dev.VertexAttribIPointer(slot, int32(e.Type.Count()), e.Type.GLType(), stride, offset)
			} else {
				dev.VertexAttribPointer(slot, int32(e.Type.Count()), e.Type.GLType(), e.Normalized, stride, offset)
			}
			va.nextSlot++
		}
		dev.BindBuffer(graphics.ArrayBuffer, 0)
	})
	va.vbs = append(va.vbs, vb)
	return nil
}

// SetIndexBuffer replaces the index buffer. Passing nil detaches it.
func (va *VertexArray) SetIndexBuffer(ib *IndexBuffer) {
	var handle uint32
	if ib != nil {
		handle = ib.Handle()
	}
	va.withBound(func(dev graphics.Device) {
		dev.BindBuffer(graphics.ElementArrayBuffer, handle)
	})
	va.ib = ib
}

// Bind makes the array and all its buffers active. Binding an array that
// is already bound does nothing.
func (va *VertexArray) Bind() {
	va.ctx.BindVertexArray(va.id)
}

// Unbind clears the binding if this array is bound.
func (va *VertexArray) Unbind() {
	if va.IsBound() {
		va.ctx.BindVertexArray(0)
	}
}

func (va *VertexArray) IsBound() bool {
	return va.id != 0 && va.ctx.BoundVertexArray() == va.id
}

// Release frees the device vertex array. Attached buffers stay alive.
func (va *VertexArray) Release() {
	if va.id == 0 {
		return
	}
	va.ctx.ForgetVertexArray(va.id)
	va.ctx.Device().DeleteVertexArrays(1, &va.id)
	va.id = 0
}

func (va *VertexArray) Handle() uint32 { return va.id }

// NumAttributes is the number of attribute slots in use.
func (va *VertexArray) NumAttributes() int { return int(va.nextSlot) }

func (va *VertexArray) NumBuffers() int { return len(va.vbs) }

func (va *VertexArray) VertexBuffer(i int) *VertexBuffer { return va.vbs[i] }

func (va *VertexArray) IndexBuffer() *IndexBuffer { return va.ib }

// ElementCount is the number of elements a full draw covers: the index
// count when an index buffer is set, otherwise the smallest vertex count
// among the attached buffers.
func (va *VertexArray) ElementCount() int {
	if va.ib != nil {
		return va.ib.Count()
	}
	n := -1
	for _, vb := range va.vbs {
		if c := vb.VertexCount(); n < 0 || c < n {
			n = c
		}
	}
	if n < 0 {
		return 0
	}
	return n
}
