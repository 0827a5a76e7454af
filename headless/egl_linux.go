//go:build linux

// Package headless is an offscreen backend rendering into an EGL pbuffer
// with an OpenGL ES 3 context. Importing it registers the "headless"
// backend type with the window package.
package headless

import (
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/richinsley/glrenderer/gldevice"
	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/input"
	"github.com/richinsley/glrenderer/window"
)

/*
#cgo LDFLAGS: -lEGL -lGLESv2
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC eglQueryDevicesEXT_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC eglGetPlatformDisplayEXT_ptr = NULL;

static void initialize_egl_extension_pointers() {
    eglQueryDevicesEXT_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    eglGetPlatformDisplayEXT_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay get_platform_display(EGLenum platform, void *native_display, const EGLint *attrib_list) {
    if (eglGetPlatformDisplayEXT_ptr) {
        return eglGetPlatformDisplayEXT_ptr(platform, native_display, attrib_list);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (eglQueryDevicesEXT_ptr) {
        return eglQueryDevicesEXT_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}
*/
import "C"

func init() {
	window.Register(graphics.BackendHeadless, func() graphics.Backend { return New() })
}

// Headless has no event source: PollEvents only delivers the initial
// framebuffer size, and the surface never asks to close.
type Headless struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface

	width, height int
	start         time.Time
	announced     bool
}

var (
	_ graphics.Backend    = (*Headless)(nil)
	_ graphics.TimeSource = (*Headless)(nil)
)

func New() *Headless {
	return &Headless{
		display: C.EGLDisplay(C.EGL_NO_DISPLAY),
		context: C.EGLContext(C.EGL_NO_CONTEXT),
		surface: C.EGLSurface(C.EGL_NO_SURFACE),
	}
}

// getEGLDisplay prefers enumerating devices, which works in GPU containers
// without a display server, and falls back to the default display.
func getEGLDisplay() (C.EGLDisplay, error) {
	C.initialize_egl_extension_pointers()

	var numDevices C.EGLint
	if C.query_devices(0, nil, &numDevices) == C.EGL_FALSE || numDevices == 0 {
		graphics.Logger().Warn("EGL_EXT_device_query unavailable, using EGL_DEFAULT_DISPLAY")
		display := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return display, fmt.Errorf("eglGetDisplay(EGL_DEFAULT_DISPLAY) failed")
		}
		return display, nil
	}

	graphics.Logger().Info("EGL devices found", slog.Int("count", int(numDevices)))
	devices := make([]C.EGLDeviceEXT, numDevices)
	if C.query_devices(numDevices, &devices[0], &numDevices) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to query EGL devices")
	}

	for i := 0; i < int(numDevices); i++ {
		display := C.get_platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if display != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			graphics.Logger().Info("EGL display selected", slog.Int("device", i))
			return display, nil
		}
	}
	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("no EGL device provided a display")
}

func (h *Headless) CreateContext(cfg graphics.Config) (graphics.Device, error) {
	display, err := getEGLDisplay()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", graphics.ErrBackendInit, err)
	}

	var major, minor C.EGLint
	if C.eglInitialize(display, &major, &minor) == C.EGL_FALSE {
		return nil, fmt.Errorf("eglInitialize failed: %w", graphics.ErrBackendInit)
	}
	h.display = display
	graphics.Logger().Info("EGL initialized", slog.Int("major", int(major)), slog.Int("minor", int(minor)))

	if err := h.createSurface(cfg); err != nil {
		h.Destroy()
		return nil, fmt.Errorf("%w: %w", graphics.ErrContextCreation, err)
	}

	dev, err := gldevice.New()
	if err != nil {
		h.Destroy()
		return nil, fmt.Errorf("%w: %w", graphics.ErrContextCreation, err)
	}

	h.width, h.height = cfg.Width, cfg.Height
	h.start = time.Now()
	return dev, nil
}

func (h *Headless) createSurface(cfg graphics.Config) error {
	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES3_BIT,
		C.EGL_NONE,
	}

	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(h.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		return fmt.Errorf("failed to choose EGL config")
	}

	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(cfg.Width),
		C.EGL_HEIGHT, C.EGLint(cfg.Height),
		C.EGL_NONE,
	}
	h.surface = C.eglCreatePbufferSurface(h.display, config, &pbufferAttribs[0])
	if h.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		return fmt.Errorf("failed to create %dx%d pbuffer surface", cfg.Width, cfg.Height)
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_CLIENT_VERSION, 3,
		C.EGL_NONE,
	}
	h.context = C.eglCreateContext(h.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if h.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		return fmt.Errorf("failed to create OpenGL ES 3 context")
	}

	if C.eglMakeCurrent(h.display, h.surface, h.surface, h.context) == C.EGL_FALSE {
		return fmt.Errorf("failed to make EGL context current")
	}
	return nil
}

func (h *Headless) PollEvents(dispatch func(input.Event)) {
	if !h.announced {
		h.announced = true
		dispatch(input.ResizeEvent(h.width, h.height))
	}
}

func (h *Headless) SwapBuffers() {
	C.eglSwapBuffers(h.display, h.surface)
}

func (h *Headless) ShouldClose() bool { return false }

func (h *Headless) FramebufferSize() (int, int) {
	return h.width, h.height
}

func (h *Headless) Time() float64 {
	return time.Since(h.start).Seconds()
}

func (h *Headless) Destroy() {
	if h.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	C.eglMakeCurrent(h.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
	if h.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(h.display, h.context)
		h.context = C.EGLContext(C.EGL_NO_CONTEXT)
	}
	if h.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
		C.eglDestroySurface(h.display, h.surface)
		h.surface = C.EGLSurface(C.EGL_NO_SURFACE)
	}
	C.eglTerminate(h.display)
	h.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
	graphics.Logger().Info("EGL terminated")
}
