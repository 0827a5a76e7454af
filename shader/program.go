// Package shader compiles and links vertex/fragment program pairs and
// provides the built-in program sources.
package shader

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hashicorp/golang-lru/v2"

	"github.com/richinsley/glrenderer/graphics"
)

// DefaultLocationCacheSize bounds the uniform locations kept per program.
const DefaultLocationCacheSize = 64

// Translation is a shader source rewritten for the device's dialect.
// Names maps declared identifiers to the names used in Code.
type Translation struct {
	Code  string
	Names map[string]string
}

// Translator rewrites sources before they are compiled.
type Translator interface {
	Translate(source string, stage graphics.ShaderStage) (Translation, error)
}

// Program is a vertex/fragment pair. Building fails soft: compile and link
// errors clear Valid and are reported by ErrorMessage, so callers can draw
// a fallback instead of aborting the frame loop.
type Program struct {
	ctx *graphics.Context
	id  uint32

	vertexSrc   string
	fragmentSrc string

	valid   bool
	message string

	translator Translator
	names      map[string]string

	cacheSize int
	locations *lru.Cache[string, int32]
}

type Option func(*Program)

// WithTranslator runs every source through t before compiling.
func WithTranslator(t Translator) Option {
	return func(p *Program) {
		p.translator = t
	}
}

func WithLocationCacheSize(n int) Option {
	return func(p *Program) {
		if n > 0 {
			p.cacheSize = n
		}
	}
}

// NewProgram stores the sources. Nothing is compiled until Build.
func NewProgram(ctx *graphics.Context, vertexSrc, fragmentSrc string, opts ...Option) *Program {
	p := &Program{
		ctx:         ctx,
		vertexSrc:   vertexSrc,
		fragmentSrc: fragmentSrc,
		message:     "program not built",
		cacheSize:   DefaultLocationCacheSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.locations, _ = lru.New[string, int32](p.cacheSize)
	return p
}

// Build compiles and links the program and reports whether it is valid.
// Rebuilding replaces the previous device program.
func (p *Program) Build() bool {
	p.releaseDevice()

	id, names, err := p.build()
	if err != nil {
		p.valid = false
		p.message = err.Error()
		graphics.Logger().Warn("shader program build failed", slog.String("error", p.message))
		return false
	}

	p.id = id
	p.names = names
	p.valid = true
	p.message = ""
	graphics.Logger().Debug("shader program built", slog.Uint64("id", uint64(id)))
	return true
}

func (p *Program) build() (uint32, map[string]string, error) {
	vs, fs := p.vertexSrc, p.fragmentSrc
	names := map[string]string{}
	if p.translator != nil {
		vt, err := p.translator.Translate(vs, graphics.StageVertex)
		if err != nil {
			return 0, nil, fmt.Errorf("vertex shader translation failed: %w", err)
		}
		ft, err := p.translator.Translate(fs, graphics.StageFragment)
		if err != nil {
			return 0, nil, fmt.Errorf("fragment shader translation failed: %w", err)
		}
		vs, fs = vt.Code, ft.Code
		for k, v := range vt.Names {
			names[k] = v
		}
		for k, v := range ft.Names {
			names[k] = v
		}
	}

	id, err := newProgram(p.ctx.Device(), vs, fs)
	if err != nil {
		return 0, nil, err
	}
	return id, names, nil
}

func newProgram(dev graphics.Device, vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(dev, vertexShaderSource, graphics.StageVertex)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(dev, fragmentShaderSource, graphics.StageFragment)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(fragmentShader)

	program := dev.CreateProgram()
	dev.AttachShader(program, vertexShader)
	dev.AttachShader(program, fragmentShader)
	dev.LinkProgram(program)

	var status int32
	dev.GetProgramiv(program, graphics.LinkStatus, &status)
	if status == 0 {
		log := dev.GetProgramInfoLog(program)
		dev.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(dev graphics.Device, source string, stage graphics.ShaderStage) (uint32, error) {
	shader := dev.CreateShader(stage.GLType())
	dev.ShaderSource(shader, source)
	dev.CompileShader(shader)

	var status int32
	dev.GetShaderiv(shader, graphics.CompileStatus, &status)
	if status == 0 {
		log := dev.GetShaderInfoLog(shader)
		dev.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile %s shader: %v", stage, log)
	}
	return shader, nil
}

// Bind makes the program current, remembering the program it replaces.
// An invalid program is refused with graphics.ErrInvalidProgram and the
// current program is left as it was.
func (p *Program) Bind() error {
	if !p.valid {
		return fmt.Errorf("bind: %s: %w", p.message, graphics.ErrInvalidProgram)
	}
	p.ctx.PushProgram(p.id)
	return nil
}

// Unbind undoes the most recent Bind, restoring the previously bound
// program. Unbinding a program that is not bound does nothing.
func (p *Program) Unbind() {
	if p.id == 0 {
		return
	}
	p.ctx.PopProgram(p.id)
}

// IsBound reports whether the program is the one in use.
func (p *Program) IsBound() bool {
	return p.id != 0 && p.ctx.CurrentProgram() == p.id
}

// UniformLocation returns the location of a uniform, or -1 if the program
// does not use it. Lookups are cached per name.
func (p *Program) UniformLocation(name string) int32 {
	if !p.valid {
		return -1
	}
	if loc, ok := p.locations.Get(name); ok {
		return loc
	}
	mapped := name
	if v, ok := p.names[name]; ok {
		mapped = v
	}
	loc := p.ctx.Device().GetUniformLocation(p.id, mapped)
	p.locations.Add(name, loc)
	return loc
}

// set runs fn with the program bound, binding it only for the duration
// of the call when another program is current.
func (p *Program) set(name string, fn func(dev graphics.Device, loc int32)) bool {
	loc := p.UniformLocation(name)
	if loc < 0 {
		return false
	}
	if !p.IsBound() {
		if err := p.Bind(); err != nil {
			return false
		}
		defer p.Unbind()
	}
	fn(p.ctx.Device(), loc)
	return true
}

// The setters report false when the uniform is not active in the program.

func (p *Program) SetInt(name string, v int32) bool {
	return p.set(name, func(dev graphics.Device, loc int32) { dev.Uniform1i(loc, v) })
}

func (p *Program) SetFloat(name string, v float32) bool {
	return p.set(name, func(dev graphics.Device, loc int32) { dev.Uniform1f(loc, v) })
}

func (p *Program) SetVec2(name string, x, y float32) bool {
	return p.set(name, func(dev graphics.Device, loc int32) { dev.Uniform2f(loc, x, y) })
}

func (p *Program) SetVec3(name string, x, y, z float32) bool {
	return p.set(name, func(dev graphics.Device, loc int32) { dev.Uniform3f(loc, x, y, z) })
}

func (p *Program) SetVec4(name string, x, y, z, w float32) bool {
	return p.set(name, func(dev graphics.Device, loc int32) { dev.Uniform4f(loc, x, y, z, w) })
}

// SetMat4 uploads a column-major 4x4 matrix.
func (p *Program) SetMat4(name string, m [16]float32) bool {
	return p.set(name, func(dev graphics.Device, loc int32) { dev.UniformMatrix4fv(loc, 1, false, &m[0]) })
}

// SetSources replaces the sources. The program is invalid until the next
// successful Build; the device program in use stays alive until then.
func (p *Program) SetSources(vertexSrc, fragmentSrc string) {
	p.vertexSrc = vertexSrc
	p.fragmentSrc = fragmentSrc
	p.valid = false
	p.message = "sources changed, program not rebuilt"
}

func (p *Program) releaseDevice() {
	p.locations.Purge()
	p.names = nil
	if p.id == 0 {
		return
	}
	p.ctx.ForgetProgram(p.id)
	p.ctx.Device().DeleteProgram(p.id)
	p.id = 0
}

// Release frees the device program. The Program can be rebuilt.
func (p *Program) Release() {
	p.releaseDevice()
	p.valid = false
	p.message = "program released"
}

func (p *Program) Valid() bool            { return p.valid }
func (p *Program) ErrorMessage() string   { return p.message }
func (p *Program) Handle() uint32         { return p.id }
func (p *Program) VertexSource() string   { return p.vertexSrc }
func (p *Program) FragmentSource() string { return p.fragmentSrc }
func (p *Program) Translator() Translator { return p.translator }

// Err returns the build failure as an error, or nil for a valid program.
func (p *Program) Err() error {
	if p.valid {
		return nil
	}
	return errors.New(p.message)
}

// NewFallback builds the checkerboard program used in place of programs
// that failed to build. It pairs with TexturedVertexSource attributes.
func NewFallback(ctx *graphics.Context, isGLES bool) (*Program, error) {
	p := NewProgram(ctx, TexturedVertexSource(isGLES), FallbackFragmentSource(isGLES))
	if !p.Build() {
		return nil, fmt.Errorf("fallback program: %s: %w", p.ErrorMessage(), graphics.ErrInvalidProgram)
	}
	return p, nil
}
