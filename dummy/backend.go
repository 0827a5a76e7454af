// Package dummy provides a windowless backend and an in-memory device.
// It backs the "none" backend type and is what the test suites render on.
package dummy

import (
	"fmt"
	"log/slog"

	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/input"
)

// Backend is a graphics.Backend without a native surface. Events queued
// with Queue are delivered by the next PollEvents.
type Backend struct {
	// FailInit and FailContext make CreateContext fail with
	// ErrBackendInit or ErrContextCreation.
	FailInit    bool
	FailContext bool

	device        *Device
	events        []input.Event
	shouldClose   bool
	width, height int
	swaps         int
	polls         int
	destroyed     bool
	cursorEnabled bool
}

var (
	_ graphics.Backend          = (*Backend)(nil)
	_ graphics.CursorController = (*Backend)(nil)
	_ graphics.TimeSource       = (*Backend)(nil)
)

func NewBackend() *Backend {
	return &Backend{cursorEnabled: true}
}

func (b *Backend) CreateContext(cfg graphics.Config) (graphics.Device, error) {
	if b.FailInit {
		return nil, fmt.Errorf("dummy: %w", graphics.ErrBackendInit)
	}
	if b.FailContext {
		return nil, fmt.Errorf("dummy: no %d.%d context: %w", cfg.GLVersionMajor, cfg.GLVersionMinor, graphics.ErrContextCreation)
	}
	b.width, b.height = cfg.Width, cfg.Height
	b.device = NewDevice()
	graphics.Logger().Info("dummy context created", slog.Int("width", cfg.Width), slog.Int("height", cfg.Height))
	return b.device, nil
}

// Queue appends events for the next poll.
func (b *Backend) Queue(events ...input.Event) {
	b.events = append(b.events, events...)
}

// Close simulates the native surface asking to close.
func (b *Backend) Close() {
	b.shouldClose = true
}

// Resize changes the framebuffer size and queues a resize event.
func (b *Backend) Resize(width, height int) {
	b.width, b.height = width, height
	b.Queue(input.ResizeEvent(width, height))
}

func (b *Backend) PollEvents(dispatch func(input.Event)) {
	b.polls++
	pending := b.events
	b.events = nil
	for _, ev := range pending {
		dispatch(ev)
	}
}

func (b *Backend) SwapBuffers() {
	b.swaps++
}

func (b *Backend) ShouldClose() bool {
	return b.shouldClose
}

func (b *Backend) FramebufferSize() (int, int) {
	return b.width, b.height
}

func (b *Backend) Destroy() {
	b.destroyed = true
	b.events = nil
}

func (b *Backend) SetCursorEnabled(enabled bool) {
	b.cursorEnabled = enabled
}

// Time advances one sixtieth of a second per presented frame.
func (b *Backend) Time() float64 {
	return float64(b.swaps) / 60
}

// Device returns the device created by CreateContext, or nil.
func (b *Backend) Device() *Device {
	return b.device
}

func (b *Backend) Swaps() int          { return b.swaps }
func (b *Backend) Polls() int          { return b.polls }
func (b *Backend) Destroyed() bool     { return b.destroyed }
func (b *Backend) CursorEnabled() bool { return b.cursorEnabled }
