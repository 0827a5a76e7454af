// Package renderer ties a window, an input manager and a resource cache
// into one caller-owned engine context and drives the frame loop.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/richinsley/glrenderer/buffers"
	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/input"
	"github.com/richinsley/glrenderer/resources"
	"github.com/richinsley/glrenderer/shader"
	"github.com/richinsley/glrenderer/texture"
	"github.com/richinsley/glrenderer/window"
)

type Option func(*Renderer)

// WithBackend uses b instead of the backend named by the config.
func WithBackend(b graphics.Backend) Option {
	return func(r *Renderer) { r.backend = b }
}

// WithTranslator routes every program the renderer builds through t.
func WithTranslator(t shader.Translator) Option {
	return func(r *Renderer) { r.translator = t }
}

func WithCodec(c texture.Codec) Option {
	return func(r *Renderer) { r.codec = c }
}

// WithWatch enables rebuilding file-backed programs when their sources
// change on disk.
func WithWatch(enabled bool) Option {
	return func(r *Renderer) { r.watch = enabled }
}

type Renderer struct {
	window    *window.Window
	input     *input.Manager
	resources *resources.Manager
	watcher   *resources.Watcher
	fallback  *shader.Program
	debug     *DebugDrawer
	sink      FrameSink

	backend    graphics.Backend
	translator shader.Translator
	codec      texture.Codec
	watch      bool

	frameCount int64
}

// New opens the window and wires its callbacks into a fresh input manager.
func New(cfg graphics.Config, opts ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}

	var err error
	if r.backend != nil {
		r.window, err = window.NewWithBackend(cfg, r.backend)
	} else {
		r.window, err = window.New(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	var resOpts []resources.Option
	if r.translator != nil {
		resOpts = append(resOpts, resources.WithTranslator(r.translator))
	}
	if r.codec != nil {
		resOpts = append(resOpts, resources.WithCodec(r.codec))
	}
	r.resources = resources.NewManager(r.window.Context(), resOpts...)
	r.input = input.NewManager()
	r.wireCallbacks()

	if r.watch {
		r.watcher, err = r.resources.Watch()
		if err != nil {
			r.Shutdown()
			return nil, fmt.Errorf("failed to watch shader sources: %w", err)
		}
	}
	return r, nil
}

func (r *Renderer) wireCallbacks() {
	w, in := r.window, r.input
	w.RegisterFrameCallback(in.NewFrame)
	w.RegisterKeyboardCallback(func(key input.Key, action input.Action, _ input.ModifierKey) {
		in.CallbackKey(key, action)
	})
	w.RegisterMouseButtonCallback(in.CallbackMouseButton)
	w.RegisterMouseMoveCallback(in.CallbackMouseMove)
	w.RegisterScrollCallback(in.CallbackScroll)
	w.RegisterResizeCallback(func(width, height int) {
		graphics.Logger().Debug("framebuffer resized", slog.Int("width", width), slog.Int("height", height))
	})
}

// Run calls frame once per frame until the window closes or frame returns
// an error. The frame is skipped when Begin observes a close.
func (r *Renderer) Run(frame func(*Renderer) error) error {
	for r.window.Active() {
		if err := r.Frame(frame); err != nil {
			return err
		}
	}
	return nil
}

// Frame runs a single Begin / frame / End cycle.
func (r *Renderer) Frame(frame func(*Renderer) error) error {
	if err := r.window.Begin(); err != nil {
		return err
	}
	if r.watcher != nil {
		if keys := r.watcher.Apply(); len(keys) > 0 {
			graphics.Logger().Info("programs reloaded", slog.Any("keys", keys))
		}
	}

	var frameErr error
	if r.window.Active() {
		frameErr = frame(r)
		if frameErr == nil && r.sink != nil {
			frameErr = r.sink.Capture(r.window.Context())
		}
		r.frameCount++
	}

	return errors.Join(frameErr, r.window.End())
}

// DrawElements draws every index of va as triangles.
func (r *Renderer) DrawElements(va *buffers.VertexArray) error {
	ib := va.IndexBuffer()
	if ib == nil {
		return errors.New("draw elements: vertex array has no index buffer")
	}
	va.Bind()
	r.Device().DrawElements(graphics.Triangles, int32(ib.Count()), graphics.UnsignedInt, 0)
	return nil
}

// DrawArrays draws count vertices of va starting at first as triangles.
func (r *Renderer) DrawArrays(va *buffers.VertexArray, first, count int) {
	va.Bind()
	r.Device().DrawArrays(graphics.Triangles, int32(first), int32(count))
}

// Fallback returns the checkerboard program, building it on first use.
func (r *Renderer) Fallback() (*shader.Program, error) {
	if r.fallback != nil {
		return r.fallback, nil
	}
	p, err := shader.NewFallback(r.window.Context(), r.IsGLES())
	if err != nil {
		return nil, err
	}
	r.fallback = p
	return p, nil
}

// Debug returns the debug line drawer, creating it on first use.
func (r *Renderer) Debug() (*DebugDrawer, error) {
	if r.debug != nil {
		return r.debug, nil
	}
	d, err := NewDebugDrawer(r.window.Context(), r.IsGLES())
	if err != nil {
		return nil, err
	}
	r.debug = d
	return d, nil
}

// IsGLES reports whether programs must be written for OpenGL ES.
func (r *Renderer) IsGLES() bool {
	return r.window.Config().Backend == graphics.BackendHeadless
}

// Shutdown stops recording, releases every cached resource and destroys
// the window.
func (r *Renderer) Shutdown() {
	if r.sink != nil {
		if err := r.sink.Close(); err != nil {
			graphics.Logger().Error("failed to finish recording", slog.Any("error", err))
		}
		r.sink = nil
	}
	if r.fallback != nil {
		r.fallback.Release()
		r.fallback = nil
	}
	if r.debug != nil {
		r.debug.Release()
		r.debug = nil
	}
	r.resources.Release()
	r.watcher = nil
	r.window.Destroy()
}

func (r *Renderer) Window() *window.Window        { return r.window }
func (r *Renderer) Input() *input.Manager         { return r.input }
func (r *Renderer) Resources() *resources.Manager { return r.resources }
func (r *Renderer) Context() *graphics.Context    { return r.window.Context() }
func (r *Renderer) Device() graphics.Device       { return r.window.Device() }
func (r *Renderer) Watcher() *resources.Watcher   { return r.watcher }
func (r *Renderer) Translator() shader.Translator { return r.translator }
func (r *Renderer) Time() float64                 { return r.window.Time() }
func (r *Renderer) FrameCount() int64             { return r.frameCount }
