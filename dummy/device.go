package dummy

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/richinsley/glrenderer/graphics"
)

// AttribPointer is a recorded VertexAttribPointer call.
type AttribPointer struct {
	Buffer     uint32
	Size       int32
	Type       uint32
	Normalized bool
	Integer    bool
	Stride     int32
	Offset     uintptr
	Enabled    bool
}

type VertexArrayState struct {
	Attribs       map[uint32]*AttribPointer
	ElementBuffer uint32
}

type ShaderState struct {
	Type     uint32
	Source   string
	Compiled bool
	Log      string
}

type ProgramState struct {
	Shaders  []uint32
	Linked   bool
	Log      string
	Uniforms map[string]int32
	Values   map[int32][]float32
}

type TextureState struct {
	Width, Height  int32
	InternalFormat int32
	Format         uint32
	Pixels         []byte
	Params         map[uint32]int32
	BorderColor    [4]float32
	Mipmaps        bool
	UnpackAlign    int32
}

// DrawCall is a recorded DrawArrays or DrawElements call.
type DrawCall struct {
	Mode        uint32
	First       int32
	Count       int32
	Indexed     bool
	Program     uint32
	VertexArray uint32
}

// Device is an in-memory graphics.Device. It allocates handles, keeps
// buffer and texture contents, tracks bindings and records draw calls.
//
// Shader sources that are blank or contain "#error" fail to compile.
// Uniform locations are assigned to every "uniform <type> <name>;"
// declaration found in a linked program's sources.
type Device struct {
	next uint32

	clearColor [4]float32
	viewport   [4]int32
	enabled    map[uint32]bool

	buffers      map[uint32][]byte
	boundBuffers map[uint32]uint32

	vertexArrays map[uint32]*VertexArrayState
	vertexArray  uint32

	shaders  map[uint32]*ShaderState
	programs map[uint32]*ProgramState
	program  uint32

	textures    map[uint32]*TextureState
	activeUnit  uint32
	unitTexture map[uint32]uint32
	unpackAlign int32

	draws []DrawCall
	calls map[string]int
}

var _ graphics.Device = (*Device)(nil)

func NewDevice() *Device {
	return &Device{
		enabled:      map[uint32]bool{},
		buffers:      map[uint32][]byte{},
		boundBuffers: map[uint32]uint32{},
		vertexArrays: map[uint32]*VertexArrayState{},
		shaders:      map[uint32]*ShaderState{},
		programs:     map[uint32]*ProgramState{},
		textures:     map[uint32]*TextureState{},
		unitTexture:  map[uint32]uint32{},
		unpackAlign:  4,
		calls:        map[string]int{},
	}
}

func (d *Device) alloc() uint32 {
	d.next++
	return d.next
}

func (d *Device) record(name string) {
	d.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (d *Device) Calls(name string) int {
	return d.calls[name]
}

func (d *Device) ResetCalls() {
	clear(d.calls)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.record("ClearColor")
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *Device) Clear(mask uint32) {
	d.record("Clear")
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.record("Viewport")
	d.viewport = [4]int32{x, y, width, height}
}

func (d *Device) Enable(cap uint32) {
	d.record("Enable")
	d.enabled[cap] = true
}

func (d *Device) Disable(cap uint32) {
	d.record("Disable")
	delete(d.enabled, cap)
}

func (d *Device) BlendFunc(sfactor, dfactor uint32) {
	d.record("BlendFunc")
}

func (d *Device) GenBuffers(n int32, buffers *uint32) {
	d.record("GenBuffers")
	out := unsafe.Slice(buffers, n)
	for i := range out {
		id := d.alloc()
		d.buffers[id] = nil
		out[i] = id
	}
}

func (d *Device) DeleteBuffers(n int32, buffers *uint32) {
	d.record("DeleteBuffers")
	for _, id := range unsafe.Slice(buffers, n) {
		delete(d.buffers, id)
		for target, bound := range d.boundBuffers {
			if bound == id {
				delete(d.boundBuffers, target)
			}
		}
	}
}

func (d *Device) BindBuffer(target uint32, buffer uint32) {
	d.record("BindBuffer")
	d.boundBuffers[target] = buffer
	if target == graphics.ElementArrayBuffer {
		if va, ok := d.vertexArrays[d.vertexArray]; ok {
			va.ElementBuffer = buffer
		}
	}
}

func (d *Device) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	d.record("BufferData")
	id := d.boundBuffers[target]
	store := make([]byte, size)
	if data != nil {
		copy(store, unsafe.Slice((*byte)(data), size))
	}
	d.buffers[id] = store
}

func (d *Device) BufferSubData(target uint32, offset int, size int, data unsafe.Pointer) {
	d.record("BufferSubData")
	id := d.boundBuffers[target]
	copy(d.buffers[id][offset:offset+size], unsafe.Slice((*byte)(data), size))
}

func (d *Device) GenVertexArrays(n int32, arrays *uint32) {
	d.record("GenVertexArrays")
	out := unsafe.Slice(arrays, n)
	for i := range out {
		id := d.alloc()
		d.vertexArrays[id] = &VertexArrayState{Attribs: map[uint32]*AttribPointer{}}
		out[i] = id
	}
}

func (d *Device) DeleteVertexArrays(n int32, arrays *uint32) {
	d.record("DeleteVertexArrays")
	for _, id := range unsafe.Slice(arrays, n) {
		delete(d.vertexArrays, id)
		if d.vertexArray == id {
			d.vertexArray = 0
		}
	}
}

func (d *Device) BindVertexArray(array uint32) {
	d.record("BindVertexArray")
	d.vertexArray = array
}

func (d *Device) attrib(index uint32) *AttribPointer {
	va, ok := d.vertexArrays[d.vertexArray]
	if !ok {
		return nil
	}
	a, ok := va.Attribs[index]
	if !ok {
		a = &AttribPointer{}
		va.Attribs[index] = a
	}
	return a
}

func (d *Device) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	d.record("VertexAttribPointer")
	if a := d.attrib(index); a != nil {
		a.Buffer = d.boundBuffers[graphics.ArrayBuffer]
		a.Size, a.Type, a.Normalized, a.Integer = size, xtype, normalized, false
		a.Stride, a.Offset = stride, offset
	}
}

func (d *Device) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr) {
	d.record("VertexAttribIPointer")
	if a := d.attrib(index); a != nil {
		a.Buffer = d.boundBuffers[graphics.ArrayBuffer]
		a.Size, a.Type, a.Normalized, a.Integer = size, xtype, false, true
		a.Stride, a.Offset = stride, offset
	}
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	d.record("EnableVertexAttribArray")
	if a := d.attrib(index); a != nil {
		a.Enabled = true
	}
}

func (d *Device) DisableVertexAttribArray(index uint32) {
	d.record("DisableVertexAttribArray")
	if a := d.attrib(index); a != nil {
		a.Enabled = false
	}
}

func (d *Device) CreateShader(xtype uint32) uint32 {
	d.record("CreateShader")
	id := d.alloc()
	d.shaders[id] = &ShaderState{Type: xtype}
	return id
}

func (d *Device) ShaderSource(shader uint32, source string) {
	d.record("ShaderSource")
	if s, ok := d.shaders[shader]; ok {
		s.Source = source
	}
}

func (d *Device) CompileShader(shader uint32) {
	d.record("CompileShader")
	s, ok := d.shaders[shader]
	if !ok {
		return
	}
	switch {
	case strings.TrimSpace(s.Source) == "":
		s.Compiled, s.Log = false, "ERROR: 0:1: empty shader source"
	case strings.Contains(s.Source, "#error"):
		s.Compiled, s.Log = false, "ERROR: 0:1: '#error' : user error directive"
	default:
		s.Compiled, s.Log = true, ""
	}
}

func (d *Device) GetShaderiv(shader uint32, pname uint32, params *int32) {
	s, ok := d.shaders[shader]
	if !ok {
		*params = 0
		return
	}
	switch pname {
	case graphics.CompileStatus:
		*params = boolInt(s.Compiled)
	case graphics.InfoLogLength:
		*params = int32(len(s.Log))
	}
}

func (d *Device) GetShaderInfoLog(shader uint32) string {
	if s, ok := d.shaders[shader]; ok {
		return s.Log
	}
	return ""
}

func (d *Device) DeleteShader(shader uint32) {
	d.record("DeleteShader")
	delete(d.shaders, shader)
}

func (d *Device) CreateProgram() uint32 {
	d.record("CreateProgram")
	id := d.alloc()
	d.programs[id] = &ProgramState{Uniforms: map[string]int32{}, Values: map[int32][]float32{}}
	return id
}

func (d *Device) AttachShader(program uint32, shader uint32) {
	d.record("AttachShader")
	if p, ok := d.programs[program]; ok {
		p.Shaders = append(p.Shaders, shader)
	}
}

func (d *Device) LinkProgram(program uint32) {
	d.record("LinkProgram")
	p, ok := d.programs[program]
	if !ok {
		return
	}
	stages := map[uint32]bool{}
	var sources []string
	for _, id := range p.Shaders {
		s, ok := d.shaders[id]
		if !ok || !s.Compiled {
			p.Linked, p.Log = false, fmt.Sprintf("error: shader %d is not compiled", id)
			return
		}
		stages[s.Type] = true
		sources = append(sources, s.Source)
	}
	if !stages[graphics.VertexShader] || !stages[graphics.FragmentShader] {
		p.Linked, p.Log = false, "error: program needs a vertex and a fragment shader"
		return
	}
	p.Linked, p.Log = true, ""
	var loc int32
	for _, src := range sources {
		for _, name := range uniformNames(src) {
			if _, ok := p.Uniforms[name]; !ok {
				p.Uniforms[name] = loc
				loc++
			}
		}
	}
}

func uniformNames(src string) []string {
	var names []string
	for _, line := range strings.Split(src, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "uniform" {
			continue
		}
		name := fields[len(fields)-1]
		name = strings.TrimSuffix(name, ";")
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		names = append(names, name)
	}
	return names
}

func (d *Device) GetProgramiv(program uint32, pname uint32, params *int32) {
	p, ok := d.programs[program]
	if !ok {
		*params = 0
		return
	}
	switch pname {
	case graphics.LinkStatus:
		*params = boolInt(p.Linked)
	case graphics.InfoLogLength:
		*params = int32(len(p.Log))
	}
}

func (d *Device) GetProgramInfoLog(program uint32) string {
	if p, ok := d.programs[program]; ok {
		return p.Log
	}
	return ""
}

func (d *Device) UseProgram(program uint32) {
	d.record("UseProgram")
	d.program = program
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram")
	delete(d.programs, program)
	if d.program == program {
		d.program = 0
	}
}

func (d *Device) GetUniformLocation(program uint32, name string) int32 {
	d.record("GetUniformLocation")
	p, ok := d.programs[program]
	if !ok || !p.Linked {
		return -1
	}
	if loc, ok := p.Uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) setUniform(location int32, values ...float32) {
	d.record("Uniform")
	p, ok := d.programs[d.program]
	if !ok || location < 0 {
		return
	}
	p.Values[location] = values
}

func (d *Device) Uniform1i(location int32, v0 int32) {
	d.setUniform(location, float32(v0))
}

func (d *Device) Uniform1f(location int32, v0 float32) {
	d.setUniform(location, v0)
}

func (d *Device) Uniform2f(location int32, v0, v1 float32) {
	d.setUniform(location, v0, v1)
}

func (d *Device) Uniform3f(location int32, v0, v1, v2 float32) {
	d.setUniform(location, v0, v1, v2)
}

func (d *Device) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	d.setUniform(location, v0, v1, v2, v3)
}

func (d *Device) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	d.setUniform(location, append([]float32(nil), unsafe.Slice(value, 16*count)...)...)
}

func (d *Device) GenTextures(n int32, textures *uint32) {
	d.record("GenTextures")
	out := unsafe.Slice(textures, n)
	for i := range out {
		id := d.alloc()
		d.textures[id] = &TextureState{Params: map[uint32]int32{}}
		out[i] = id
	}
}

func (d *Device) DeleteTextures(n int32, textures *uint32) {
	d.record("DeleteTextures")
	for _, id := range unsafe.Slice(textures, n) {
		delete(d.textures, id)
		for unit, t := range d.unitTexture {
			if t == id {
				delete(d.unitTexture, unit)
			}
		}
	}
}

func (d *Device) ActiveTexture(texture uint32) {
	d.record("ActiveTexture")
	d.activeUnit = texture - graphics.Texture0
}

func (d *Device) BindTexture(target, texture uint32) {
	d.record("BindTexture")
	if texture == 0 {
		delete(d.unitTexture, d.activeUnit)
		return
	}
	d.unitTexture[d.activeUnit] = texture
}

func (d *Device) boundTexture() *TextureState {
	return d.textures[d.unitTexture[d.activeUnit]]
}

func (d *Device) TexImage2D(target uint32, level int32, internalformat int32, width int32, height int32, border int32, format uint32, xtype uint32, pixels unsafe.Pointer) {
	d.record("TexImage2D")
	t := d.boundTexture()
	if t == nil || level != 0 {
		return
	}
	channels := int32(4)
	if format == graphics.RGB {
		channels = 3
	}
	size := int(width * height * channels)
	t.Width, t.Height = width, height
	t.InternalFormat, t.Format = internalformat, format
	t.UnpackAlign = d.unpackAlign
	t.Pixels = make([]byte, size)
	if pixels != nil {
		copy(t.Pixels, unsafe.Slice((*byte)(pixels), size))
	}
}

func (d *Device) TexParameteri(target, pname uint32, param int32) {
	d.record("TexParameteri")
	if t := d.boundTexture(); t != nil {
		t.Params[pname] = param
	}
}

func (d *Device) TexParameterfv(target, pname uint32, params *float32) {
	d.record("TexParameterfv")
	if t := d.boundTexture(); t != nil && pname == graphics.TextureBorderColor {
		copy(t.BorderColor[:], unsafe.Slice(params, 4))
	}
}

func (d *Device) GenerateMipmap(target uint32) {
	d.record("GenerateMipmap")
	if t := d.boundTexture(); t != nil {
		t.Mipmaps = true
	}
}

func (d *Device) PixelStorei(pname uint32, param int32) {
	d.record("PixelStorei")
	if pname == graphics.UnpackAlignment {
		d.unpackAlign = param
	}
}

func (d *Device) DrawArrays(mode uint32, first int32, count int32) {
	d.record("DrawArrays")
	d.draws = append(d.draws, DrawCall{Mode: mode, First: first, Count: count, Program: d.program, VertexArray: d.vertexArray})
}

func (d *Device) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	d.record("DrawElements")
	d.draws = append(d.draws, DrawCall{Mode: mode, Count: count, Indexed: true, Program: d.program, VertexArray: d.vertexArray})
}

// ReadPixels fills the destination with the last clear color.
func (d *Device) ReadPixels(x, y, width, height int32, format uint32, xtype uint32, pixels unsafe.Pointer) {
	d.record("ReadPixels")
	channels := 4
	if format == graphics.RGB {
		channels = 3
	}
	out := unsafe.Slice((*byte)(pixels), int(width*height)*channels)
	for i := 0; i < len(out); i += channels {
		for c := 0; c < channels; c++ {
			out[i+c] = byte(d.clearColor[c] * 255)
		}
	}
}

func (d *Device) GetString(name uint32) string {
	switch name {
	case graphics.Vendor:
		return "glrenderer"
	case graphics.Renderer:
		return "dummy"
	case graphics.Version:
		return "3.3 dummy"
	case graphics.ShadingLanguageVersion:
		return "3.30"
	default:
		return ""
	}
}

// Buffer returns the stored contents of a buffer, or nil.
func (d *Device) Buffer(id uint32) []byte {
	return d.buffers[id]
}

// BufferFloats returns the stored contents of a buffer as float32 values.
func (d *Device) BufferFloats(id uint32) []float32 {
	b := d.buffers[id]
	if len(b) < 4 {
		return nil
	}
	return append([]float32(nil), unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)...)
}

// BufferUints returns the stored contents of a buffer as uint32 values.
func (d *Device) BufferUints(id uint32) []uint32 {
	b := d.buffers[id]
	if len(b) < 4 {
		return nil
	}
	return append([]uint32(nil), unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/4)...)
}

func (d *Device) HasBuffer(id uint32) bool {
	_, ok := d.buffers[id]
	return ok
}

func (d *Device) VertexArray(id uint32) *VertexArrayState {
	return d.vertexArrays[id]
}

func (d *Device) BoundVertexArray() uint32 {
	return d.vertexArray
}

func (d *Device) Program(id uint32) *ProgramState {
	return d.programs[id]
}

func (d *Device) CurrentProgram() uint32 {
	return d.program
}

func (d *Device) Texture(id uint32) *TextureState {
	return d.textures[id]
}

// BoundTexture returns the texture bound to the 2D target of unit.
func (d *Device) BoundTexture(unit uint32) uint32 {
	return d.unitTexture[unit]
}

// ActiveUnit is the texture unit selected by the last ActiveTexture call.
func (d *Device) ActiveUnit() uint32 {
	return d.activeUnit
}

func (d *Device) Draws() []DrawCall {
	return d.draws
}

func (d *Device) ClearColorValue() [4]float32 {
	return d.clearColor
}

func (d *Device) ViewportValue() [4]int32 {
	return d.viewport
}

// Live returns the number of live objects of each kind, for leak checks.
func (d *Device) Live() (buffers, vertexArrays, programs, textures int) {
	return len(d.buffers), len(d.vertexArrays), len(d.programs), len(d.textures)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
