// Package gldevice implements graphics.Device on top of go-gl.
package gldevice

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/glrenderer/graphics"
)

var (
	initOnce sync.Once
	initErr  error
)

// Device forwards to the OpenGL context current on the calling thread.
type Device struct{}

var _ graphics.Device = (*Device)(nil)

// New loads the GL entry points. A context must be current.
func New() (*Device, error) {
	initOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("gl.Init failed: %w", initErr)
	}
	return &Device{}, nil
}

func (*Device) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (*Device) Clear(mask uint32)                  { gl.Clear(mask) }
func (*Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (*Device) Enable(cap uint32)                  { gl.Enable(cap) }
func (*Device) Disable(cap uint32)                 { gl.Disable(cap) }
func (*Device) BlendFunc(sfactor, dfactor uint32)  { gl.BlendFunc(sfactor, dfactor) }

// ---------------------------------------------------------------------------
// Buffers and vertex arrays
// ---------------------------------------------------------------------------

func (*Device) GenBuffers(n int32, buffers *uint32)     { gl.GenBuffers(n, buffers) }
func (*Device) DeleteBuffers(n int32, buffers *uint32)  { gl.DeleteBuffers(n, buffers) }
func (*Device) BindBuffer(target uint32, buffer uint32) { gl.BindBuffer(target, buffer) }

func (*Device) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.BufferData(target, size, data, usage)
}

func (*Device) BufferSubData(target uint32, offset int, size int, data unsafe.Pointer) {
	gl.BufferSubData(target, offset, size, data)
}

func (*Device) GenVertexArrays(n int32, arrays *uint32)    { gl.GenVertexArrays(n, arrays) }
func (*Device) DeleteVertexArrays(n int32, arrays *uint32) { gl.DeleteVertexArrays(n, arrays) }
func (*Device) BindVertexArray(array uint32)               { gl.BindVertexArray(array) }

func (*Device) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(int(offset)))
}

func (*Device) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr) {
	gl.VertexAttribIPointer(index, size, xtype, stride, gl.PtrOffset(int(offset)))
}

func (*Device) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (*Device) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

// ---------------------------------------------------------------------------
// Shaders and programs
// ---------------------------------------------------------------------------

func (*Device) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (*Device) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (*Device) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (*Device) GetShaderiv(shader uint32, pname uint32, params *int32) {
	gl.GetShaderiv(shader, pname, params)
}

func (*Device) GetShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (*Device) DeleteShader(shader uint32)                 { gl.DeleteShader(shader) }
func (*Device) CreateProgram() uint32                      { return gl.CreateProgram() }
func (*Device) AttachShader(program uint32, shader uint32) { gl.AttachShader(program, shader) }
func (*Device) LinkProgram(program uint32)                 { gl.LinkProgram(program) }

func (*Device) GetProgramiv(program uint32, pname uint32, params *int32) {
	gl.GetProgramiv(program, pname, params)
}

func (*Device) GetProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Device) UseProgram(program uint32)    { gl.UseProgram(program) }
func (*Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

// ---------------------------------------------------------------------------
// Uniforms
// ---------------------------------------------------------------------------

func (*Device) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Device) Uniform1i(location int32, v0 int32)               { gl.Uniform1i(location, v0) }
func (*Device) Uniform1f(location int32, v0 float32)             { gl.Uniform1f(location, v0) }
func (*Device) Uniform2f(location int32, v0, v1 float32)         { gl.Uniform2f(location, v0, v1) }
func (*Device) Uniform3f(location int32, v0, v1, v2 float32)     { gl.Uniform3f(location, v0, v1, v2) }
func (*Device) Uniform4f(location int32, v0, v1, v2, v3 float32) { gl.Uniform4f(location, v0, v1, v2, v3) }

func (*Device) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	gl.UniformMatrix4fv(location, count, transpose, value)
}

// ---------------------------------------------------------------------------
// Textures
// ---------------------------------------------------------------------------

func (*Device) GenTextures(n int32, textures *uint32)    { gl.GenTextures(n, textures) }
func (*Device) DeleteTextures(n int32, textures *uint32) { gl.DeleteTextures(n, textures) }
func (*Device) ActiveTexture(texture uint32)             { gl.ActiveTexture(texture) }
func (*Device) BindTexture(target, texture uint32)       { gl.BindTexture(target, texture) }

func (*Device) TexImage2D(target uint32, level int32, internalformat int32, width int32, height int32, border int32, format uint32, xtype uint32, pixels unsafe.Pointer) {
	gl.TexImage2D(target, level, internalformat, width, height, border, format, xtype, pixels)
}

func (*Device) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (*Device) TexParameterfv(target, pname uint32, params *float32) {
	gl.TexParameterfv(target, pname, params)
}

func (*Device) GenerateMipmap(target uint32)          { gl.GenerateMipmap(target) }
func (*Device) PixelStorei(pname uint32, param int32) { gl.PixelStorei(pname, param) }

// ---------------------------------------------------------------------------
// Drawing and readback
// ---------------------------------------------------------------------------

func (*Device) DrawArrays(mode uint32, first int32, count int32) {
	gl.DrawArrays(mode, first, count)
}

func (*Device) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(int(offset)))
}

func (*Device) ReadPixels(x, y, width, height int32, format uint32, xtype uint32, pixels unsafe.Pointer) {
	gl.ReadPixels(x, y, width, height, format, xtype, pixels)
}

func (*Device) GetString(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}
