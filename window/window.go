// Package window owns the native graphics context and the frame loop
// boundary.
//
// A frame is bracketed by Begin and End. Begin observes pending close
// requests, runs the frame callback, polls the backend and dispatches raw
// events synchronously to the registered callbacks, then prepares the
// framebuffer. End presents the frame. Events are never delivered outside
// Begin.
//
// A Window and everything created from its Context must be used from the
// thread that created it.
package window

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/richinsley/glrenderer/dummy"
	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/input"
)

// Factory creates an unopened backend.
type Factory func() graphics.Backend

var (
	factoriesMu sync.RWMutex
	factories   = map[graphics.BackendType]Factory{
		graphics.BackendNone: func() graphics.Backend { return dummy.NewBackend() },
	}
)

// Register makes a backend available to New. Backend packages call it from
// init, so importing glfwcontext or headless is enough to enable them.
func Register(t graphics.BackendType, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[t] = f
}

type (
	KeyboardCallback    func(key input.Key, action input.Action, mods input.ModifierKey)
	MouseButtonCallback func(button input.MouseButton, action input.Action, x, y float64)
	MouseMoveCallback   func(x, y float64)
	ScrollCallback      func(xoff, yoff float64)
	ResizeCallback      func(width, height int)
)

type Window struct {
	cfg     graphics.Config
	backend graphics.Backend
	ctx     *graphics.Context

	active         bool
	closeRequested bool
	inFrame        bool
	destroyed      bool

	width, height int
	clearColor    [4]float32
	start         time.Time

	onKey         KeyboardCallback
	onMouseButton MouseButtonCallback
	onMouseMove   MouseMoveCallback
	onScroll      ScrollCallback
	onResize      ResizeCallback
	onFrame       func()
}

// New creates a window on the backend named by cfg.Backend. The backend
// must have been registered; see Register.
func New(cfg graphics.Config) (*Window, error) {
	factoriesMu.RLock()
	f, ok := factories[cfg.Backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("backend %s is not available in this build: %w", cfg.Backend, graphics.ErrBackendInit)
	}
	return NewWithBackend(cfg, f())
}

// NewWithBackend creates a window on an explicit backend.
func NewWithBackend(cfg graphics.Config, backend graphics.Backend) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("window: %w: %w", graphics.ErrBackendInit, err)
	}

	dev, err := backend.CreateContext(cfg)
	if err != nil {
		if !errors.Is(err, graphics.ErrBackendInit) && !errors.Is(err, graphics.ErrContextCreation) {
			err = fmt.Errorf("%w: %w", graphics.ErrContextCreation, err)
		}
		return nil, fmt.Errorf("window %s: %w", cfg.Backend, err)
	}

	w := &Window{
		cfg:        cfg,
		backend:    backend,
		ctx:        graphics.NewContext(dev),
		active:     true,
		width:      cfg.Width,
		height:     cfg.Height,
		clearColor: cfg.ClearColor,
		start:      time.Now(),
	}
	if fw, fh := backend.FramebufferSize(); fw > 0 && fh > 0 {
		w.width, w.height = fw, fh
	}

	graphics.Logger().Info("window created",
		slog.String("backend", cfg.Backend.String()),
		slog.String("title", cfg.Title),
		slog.Int("width", w.width),
		slog.Int("height", w.height))
	w.ctx.LogInfo()
	return w, nil
}

// Begin starts a frame. It fails with graphics.ErrFrameState when called
// twice without End or after Destroy.
func (w *Window) Begin() error {
	if w.destroyed {
		return fmt.Errorf("begin: window destroyed: %w", graphics.ErrFrameState)
	}
	if w.inFrame {
		return fmt.Errorf("begin: frame already started: %w", graphics.ErrFrameState)
	}

	if w.closeRequested || w.backend.ShouldClose() {
		w.active = false
	}

	if w.onFrame != nil {
		w.onFrame()
	}
	w.backend.PollEvents(w.dispatch)

	dev := w.ctx.Device()
	dev.Viewport(0, 0, int32(w.width), int32(w.height))
	c := w.clearColor
	dev.ClearColor(c[0], c[1], c[2], c[3])
	dev.Clear(graphics.ColorBufferBit | graphics.DepthBufferBit)

	w.inFrame = true
	return nil
}

// End presents the frame started by Begin.
func (w *Window) End() error {
	if !w.inFrame {
		return fmt.Errorf("end: no frame started: %w", graphics.ErrFrameState)
	}
	w.backend.SwapBuffers()
	w.inFrame = false
	return nil
}

func (w *Window) dispatch(ev input.Event) {
	switch ev.Kind {
	case input.EventKey:
		if w.onKey != nil {
			w.onKey(ev.Key, ev.Action, ev.Mods)
		}
	case input.EventMouseButton:
		if w.onMouseButton != nil {
			w.onMouseButton(ev.Button, ev.Action, ev.X, ev.Y)
		}
	case input.EventMouseMove:
		if w.onMouseMove != nil {
			w.onMouseMove(ev.X, ev.Y)
		}
	case input.EventScroll:
		if w.onScroll != nil {
			w.onScroll(ev.X, ev.Y)
		}
	case input.EventResize:
		if ev.Width <= 0 || ev.Height <= 0 {
			return
		}
		w.width, w.height = ev.Width, ev.Height
		if w.onResize != nil {
			w.onResize(ev.Width, ev.Height)
		}
	}
}

// RequestClose marks the window for closing. Active stays true until the
// next Begin, so the current frame can finish.
func (w *Window) RequestClose() {
	w.closeRequested = true
}

func (w *Window) Active() bool {
	return w.active
}

// The Register* methods keep one handler per event kind; registering again
// replaces the previous handler and nil removes it.

func (w *Window) RegisterKeyboardCallback(cb KeyboardCallback) {
	w.onKey = cb
}

func (w *Window) RegisterMouseButtonCallback(cb MouseButtonCallback) {
	w.onMouseButton = cb
}

func (w *Window) RegisterMouseMoveCallback(cb MouseMoveCallback) {
	w.onMouseMove = cb
}

func (w *Window) RegisterScrollCallback(cb ScrollCallback) {
	w.onScroll = cb
}

func (w *Window) RegisterResizeCallback(cb ResizeCallback) {
	w.onResize = cb
}

// RegisterFrameCallback sets a handler run at the start of every Begin,
// before events are polled.
func (w *Window) RegisterFrameCallback(cb func()) {
	w.onFrame = cb
}

func (w *Window) SetClearColor(r, g, b, a float32) {
	w.clearColor = [4]float32{r, g, b, a}
}

func (w *Window) ClearColor() [4]float32 {
	return w.clearColor
}

func (w *Window) EnableCursor() {
	w.setCursor(true)
}

// DisableCursor hides and captures the cursor, for mouse-look controls.
func (w *Window) DisableCursor() {
	w.setCursor(false)
}

func (w *Window) setCursor(enabled bool) {
	if cc, ok := w.backend.(graphics.CursorController); ok {
		cc.SetCursorEnabled(enabled)
	}
}

// Time returns seconds since the window was created.
func (w *Window) Time() float64 {
	if ts, ok := w.backend.(graphics.TimeSource); ok {
		return ts.Time()
	}
	return time.Since(w.start).Seconds()
}

// Destroy releases the native context. GPU objects created from the
// window's Context must be released first.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.backend.Destroy()
	w.destroyed = true
	w.active = false
	graphics.Logger().Info("window destroyed", slog.String("title", w.cfg.Title))
}

func (w *Window) Width() int                 { return w.width }
func (w *Window) Height() int                { return w.height }
func (w *Window) Title() string              { return w.cfg.Title }
func (w *Window) Config() graphics.Config    { return w.cfg }
func (w *Window) Backend() graphics.Backend  { return w.backend }
func (w *Window) Context() *graphics.Context { return w.ctx }
func (w *Window) Device() graphics.Device    { return w.ctx.Device() }

// InFrame reports whether Begin has been called without a matching End.
func (w *Window) InFrame() bool { return w.inFrame }
