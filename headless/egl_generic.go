//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/input"
	"github.com/richinsley/glrenderer/window"
)

func init() {
	window.Register(graphics.BackendHeadless, func() graphics.Backend { return New() })
}

// Headless is unavailable off Linux; CreateContext always fails.
type Headless struct{}

func New() *Headless { return &Headless{} }

func (*Headless) CreateContext(graphics.Config) (graphics.Device, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform: %w", graphics.ErrBackendInit)
}

func (*Headless) PollEvents(func(input.Event)) {}
func (*Headless) SwapBuffers()                 {}
func (*Headless) ShouldClose() bool            { return true }
func (*Headless) FramebufferSize() (int, int)  { return 0, 0 }
func (*Headless) Destroy()                     {}
