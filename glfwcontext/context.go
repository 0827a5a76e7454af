// Package glfwcontext is the windowed backend. Importing it registers the
// "glfw" backend type with the window package.
package glfwcontext

import (
	"fmt"
	"log/slog"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glrenderer/gldevice"
	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/input"
	"github.com/richinsley/glrenderer/window"
)

func init() {
	window.Register(graphics.BackendGLFW, func() graphics.Backend { return New() })
}

// Context owns one GLFW window and its GL context. GLFW is initialized by
// CreateContext and terminated by Destroy.
type Context struct {
	window *glfw.Window
	events []input.Event
}

var (
	_ graphics.Backend          = (*Context)(nil)
	_ graphics.CursorController = (*Context)(nil)
	_ graphics.TimeSource       = (*Context)(nil)
)

func New() *Context {
	return &Context{}
}

// CreateContext must be called from the main thread.
func (c *Context) CreateContext(cfg graphics.Config) (graphics.Device, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w: %w", graphics.ErrBackendInit, err)
	}
	graphics.Logger().Info("GLFW initialized")

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.GLVersionMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.GLVersionMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolHint(cfg.Resizable))
	glfw.WindowHint(glfw.Visible, boolHint(!cfg.Hidden))

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create %d.%d window: %w: %w", cfg.GLVersionMajor, cfg.GLVersionMinor, graphics.ErrContextCreation, err)
	}
	win.MakeContextCurrent()

	dev, err := gldevice.New()
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("%w: %w", graphics.ErrContextCreation, err)
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	c.window = win
	win.SetKeyCallback(c.keyCallback)
	win.SetMouseButtonCallback(c.mouseButtonCallback)
	win.SetCursorPosCallback(c.cursorPosCallback)
	win.SetScrollCallback(c.scrollCallback)
	win.SetFramebufferSizeCallback(c.framebufferSizeCallback)

	return dev, nil
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// GLFW delivers callbacks from inside glfw.PollEvents; they are queued and
// handed out in order once polling returns.

func (c *Context) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	c.events = append(c.events, input.KeyEvent(input.Key(key), input.Action(action), input.ModifierKey(mods)))
}

func (c *Context) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	x, y := w.GetCursorPos()
	c.events = append(c.events, input.MouseButtonEvent(input.MouseButton(button), input.Action(action), input.ModifierKey(mods), x, y))
}

func (c *Context) cursorPosCallback(_ *glfw.Window, x, y float64) {
	c.events = append(c.events, input.MouseMoveEvent(x, y))
}

func (c *Context) scrollCallback(_ *glfw.Window, xoff, yoff float64) {
	c.events = append(c.events, input.ScrollEvent(xoff, yoff))
}

func (c *Context) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	c.events = append(c.events, input.ResizeEvent(width, height))
}

func (c *Context) PollEvents(dispatch func(input.Event)) {
	glfw.PollEvents()
	pending := c.events
	c.events = nil
	for _, ev := range pending {
		dispatch(ev)
	}
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) FramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) SetCursorEnabled(enabled bool) {
	mode := glfw.CursorNormal
	if !enabled {
		mode = glfw.CursorDisabled
	}
	c.window.SetInputMode(glfw.CursorMode, mode)
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// Window returns the underlying *glfw.Window.
func (c *Context) Window() *glfw.Window {
	return c.window
}

func (c *Context) Destroy() {
	if c.window == nil {
		return
	}
	c.window.Destroy()
	c.window = nil
	glfw.Terminate()
	graphics.Logger().Info("GLFW terminated", slog.Int("dropped_events", len(c.events)))
	c.events = nil
}
