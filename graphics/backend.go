package graphics

import "github.com/richinsley/glrenderer/input"

// Backend is the windowing capability a Window drives. A Window holds
// exactly one Backend, picked at construction time.
type Backend interface {
	// CreateContext opens the native surface and a graphics context of the
	// requested version and makes it current on the calling thread. It
	// fails with ErrBackendInit when the platform layer cannot start and
	// with ErrContextCreation when no suitable context is available.
	CreateContext(cfg Config) (Device, error)

	// PollEvents drains pending native events without blocking and hands
	// each to dispatch, in arrival order, before returning.
	PollEvents(dispatch func(input.Event))

	// SwapBuffers presents the back buffer.
	SwapBuffers()

	// ShouldClose reports whether the native surface asked to close.
	ShouldClose() bool

	FramebufferSize() (width, height int)

	// Destroy releases the native context. The Backend is unusable after.
	Destroy()
}

// CursorController is implemented by backends with a visible cursor.
type CursorController interface {
	SetCursorEnabled(enabled bool)
}

// TimeSource is implemented by backends that keep their own clock.
type TimeSource interface {
	Time() float64
}
