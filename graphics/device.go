package graphics

import "unsafe"

// Device is the subset of OpenGL entry points used by the runtime.
//
// Implementations wrap real driver bindings (see gldevice) or record calls
// in memory (see dummy). Every method operates on the context current on
// the calling thread; callers must not use a Device from more than one
// goroutine.
type Device interface {
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	Enable(cap uint32)
	Disable(cap uint32)
	BlendFunc(sfactor, dfactor uint32)

	// Buffer operations
	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target uint32, buffer uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)
	BufferSubData(target uint32, offset int, size int, data unsafe.Pointer)

	// Vertex array operations
	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)

	// Shader operations
	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	// Program operations
	CreateProgram() uint32
	AttachShader(program uint32, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32, params *int32)
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniform operations
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v0 int32)
	Uniform1f(location int32, v0 float32)
	Uniform2f(location int32, v0, v1 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	UniformMatrix4fv(location int32, count int32, transpose bool, value *float32)

	// Texture operations
	GenTextures(n int32, textures *uint32)
	DeleteTextures(n int32, textures *uint32)
	ActiveTexture(texture uint32)
	BindTexture(target, texture uint32)
	TexImage2D(target uint32, level int32, internalformat int32, width int32, height int32, border int32, format uint32, xtype uint32, pixels unsafe.Pointer)
	TexParameteri(target, pname uint32, param int32)
	TexParameterfv(target, pname uint32, params *float32)
	GenerateMipmap(target uint32)
	PixelStorei(pname uint32, param int32)

	// Drawing
	DrawArrays(mode uint32, first int32, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)

	ReadPixels(x, y, width, height int32, format uint32, xtype uint32, pixels unsafe.Pointer)

	// GetString returns a GL property such as Vendor or Version, or the
	// empty string when the name is not recognized.
	GetString(name uint32) string
}
