package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glrenderer/buffers"
	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/shader"
)

const (
	// LinesBatchSize is the number of lines uploaded per draw call.
	LinesBatchSize = 1024

	// two vertices of position + color
	floatsPerLine = 12
)

// Line is a colored segment queued on a DebugDrawer.
type Line struct {
	Start, End, Color mgl32.Vec3
}

// DebugDrawer queues lines during a frame and draws them all on Render,
// streaming them through one dynamic vertex buffer in batches of
// LinesBatchSize.
type DebugDrawer struct {
	ctx      *graphics.Context
	program  *shader.Program
	vertices *buffers.VertexBuffer
	va       *buffers.VertexArray

	lines []Line
	batch []float32

	numLines     int
	numDrawCalls int
}

// LinesLayout is the vertex layout of the debug line buffer.
func LinesLayout() *buffers.Layout {
	layout, _ := buffers.NewLayout(
		buffers.Element{Name: "in_position", Type: graphics.Float3},
		buffers.Element{Name: "in_color", Type: graphics.Float3},
	)
	return layout
}

// NewDebugDrawer builds the line program and allocates the line buffer.
func NewDebugDrawer(ctx *graphics.Context, isGLES bool) (*DebugDrawer, error) {
	program := shader.NewProgram(ctx, shader.LinesVertexSource(isGLES), shader.LinesFragmentSource(isGLES))
	if !program.Build() {
		err := fmt.Errorf("debug lines program: %s: %w", program.ErrorMessage(), graphics.ErrInvalidProgram)
		program.Release()
		return nil, err
	}

	batch := make([]float32, LinesBatchSize*floatsPerLine)
	vb, err := buffers.NewVertexBuffer(ctx, LinesLayout(), graphics.Dynamic, batch)
	if err != nil {
		program.Release()
		return nil, err
	}
	va := buffers.NewVertexArray(ctx)
	if err := va.AddVertexBuffer(vb); err != nil {
		va.Release()
		vb.Release()
		program.Release()
		return nil, err
	}
	return &DebugDrawer{ctx: ctx, program: program, vertices: vb, va: va, batch: batch}, nil
}

// DrawLine queues a segment for the next Render.
func (d *DebugDrawer) DrawLine(start, end, color mgl32.Vec3) {
	d.lines = append(d.lines, Line{Start: start, End: end, Color: color})
	d.numLines++
}

// boxEdges indexes the corners listed in DrawBox.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawBox queues the twelve edges of a box of the given size (width, depth,
// height) centered on the origin and moved by pose.
func (d *DebugDrawer) DrawBox(size mgl32.Vec3, pose mgl32.Mat4, color mgl32.Vec3) {
	hw, hd, hh := size.X()/2, size.Y()/2, size.Z()/2
	corners := [8]mgl32.Vec3{
		{hw, -hd, -hh}, {hw, hd, -hh}, {-hw, hd, -hh}, {-hw, -hd, -hh},
		{hw, -hd, hh}, {hw, hd, hh}, {-hw, hd, hh}, {-hw, -hd, hh},
	}
	for i, c := range corners {
		corners[i] = pose.Mul4x1(c.Vec4(1)).Vec3()
	}
	for _, e := range boxEdges {
		d.DrawLine(corners[e[0]], corners[e[1]], color)
	}
}

// Render draws every queued line with the given projection and view
// matrices, then empties the queue.
func (d *DebugDrawer) Render(proj, view mgl32.Mat4) error {
	if len(d.lines) == 0 {
		return nil
	}
	if err := d.program.Bind(); err != nil {
		return err
	}
	defer d.program.Unbind()
	d.program.SetMat4("u_proj_matrix", proj)
	d.program.SetMat4("u_view_matrix", view)

	for start := 0; start < len(d.lines); start += LinesBatchSize {
		end := min(start+LinesBatchSize, len(d.lines))
		if err := d.renderBatch(d.lines[start:end]); err != nil {
			return err
		}
	}
	d.lines = d.lines[:0]
	return nil
}

func (d *DebugDrawer) renderBatch(lines []Line) error {
	data := d.batch[:len(lines)*floatsPerLine]
	for i, l := range lines {
		o := i * floatsPerLine
		copy(data[o:], l.Start[:])
		copy(data[o+3:], l.Color[:])
		copy(data[o+6:], l.End[:])
		copy(data[o+9:], l.Color[:])
	}
	if err := d.vertices.Update(0, data); err != nil {
		return err
	}
	d.va.Bind()
	d.ctx.Device().DrawArrays(graphics.Lines, 0, int32(len(lines)*2))
	d.numDrawCalls++
	return nil
}

// Pending returns the number of lines queued since the last Render.
func (d *DebugDrawer) Pending() int { return len(d.lines) }

func (d *DebugDrawer) NumLines() int     { return d.numLines }
func (d *DebugDrawer) NumDrawCalls() int { return d.numDrawCalls }

// ClearCounters resets NumLines and NumDrawCalls.
func (d *DebugDrawer) ClearCounters() {
	d.numLines = 0
	d.numDrawCalls = 0
}

func (d *DebugDrawer) Release() {
	d.va.Release()
	d.vertices.Release()
	d.program.Release()
	d.lines = nil
}

func (d *DebugDrawer) String() string {
	return fmt.Sprintf("DebugDrawer{batch: %d, pending: %d}", LinesBatchSize, len(d.lines))
}
