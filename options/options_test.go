package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glrenderer/graphics"
)

func writeOptions(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	opts, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), opts)
	assert.Equal(t, graphics.BackendGLFW, opts.Window.Backend)
	assert.Equal(t, 1024, opts.Window.Width)
	assert.Equal(t, 768, opts.Window.Height)
	assert.Equal(t, 3, opts.Window.GLVersionMajor)
	assert.Equal(t, 3, opts.Window.GLVersionMinor)
}

func TestLoadYAML(t *testing.T) {
	path := writeOptions(t, "demo.yaml", `
window:
  backend: headless
  width: 640
  height: 360
  title: quad
  clear_color: [0, 0.5, 1, 1]
vertex_shader: shaders/quad.vert
fragment_shader: shaders/quad.frag
frames: 120
shape: box
outline: true
record:
  output: out.mp4
  fps: 30
`)
	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, graphics.BackendHeadless, opts.Window.Backend)
	assert.Equal(t, 640, opts.Window.Width)
	assert.Equal(t, 360, opts.Window.Height)
	assert.Equal(t, "quad", opts.Window.Title)
	assert.Equal(t, [4]float32{0, 0.5, 1, 1}, opts.Window.ClearColor)
	assert.Equal(t, 3, opts.Window.GLVersionMajor, "unset keys keep defaults")
	assert.True(t, opts.Window.VSync)
	assert.Equal(t, "shaders/quad.frag", opts.FragmentShader)
	assert.Equal(t, 120, opts.Frames)
	assert.Equal(t, ShapeBox, opts.Shape)
	assert.True(t, opts.Outline)
	assert.Equal(t, "out.mp4", opts.Record.Output)
	assert.Equal(t, 30, opts.Record.FPS)
}

func TestLoadTOML(t *testing.T) {
	path := writeOptions(t, "demo.toml", `
texture = "wall.png"
watch = true

[window]
backend = "none"
width = 320
height = 200
vsync = false
`)
	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, graphics.BackendNone, opts.Window.Backend)
	assert.Equal(t, 320, opts.Window.Width)
	assert.Equal(t, 200, opts.Window.Height)
	assert.False(t, opts.Window.VSync)
	assert.Equal(t, "glrenderer", opts.Window.Title)
	assert.Equal(t, "wall.png", opts.Texture)
	assert.True(t, opts.Watch)
	assert.Equal(t, ShapeQuad, opts.Shape)
	assert.False(t, opts.Outline)
	assert.Equal(t, 60, opts.Record.FPS)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeOptions(t, "demo.json", `{}`))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(writeOptions(t, "bad.yaml", "window:\n  backend: vulkan\n"))
	assert.ErrorContains(t, err, "unknown backend")

	_, err = Load(writeOptions(t, "bad.toml", "[window]\nwidth = -1\n"))
	assert.ErrorContains(t, err, "invalid window size")

	_, err = Load(writeOptions(t, "half.yaml", "vertex_shader: a.vert\n"))
	assert.ErrorContains(t, err, "set together")

	_, err = Load(writeOptions(t, "shape.yaml", "shape: sphere\n"))
	assert.ErrorContains(t, err, "unknown shape")

	_, err = Load(writeOptions(t, "unknown.toml", "colour = 1\n"))
	assert.Error(t, err)
}
