package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glrenderer/buffers"
	"github.com/richinsley/glrenderer/dummy"
	"github.com/richinsley/glrenderer/graphics"
	"github.com/richinsley/glrenderer/input"
	"github.com/richinsley/glrenderer/recorder"
)

func testConfig() graphics.Config {
	cfg := graphics.DefaultConfig()
	cfg.Backend = graphics.BackendNone
	cfg.Width, cfg.Height = 64, 48
	return cfg
}

func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *dummy.Backend) {
	b := dummy.NewBackend()
	r, err := New(testConfig(), append([]Option{WithBackend(b)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(r.Shutdown)
	return r, b
}

type countingSink struct {
	captures int
	closed   bool
}

func (s *countingSink) Capture(*graphics.Context) error {
	s.captures++
	return nil
}

func (s *countingSink) Close() error {
	s.closed = true
	return nil
}

func TestNewUsesConfiguredBackend(t *testing.T) {
	r, err := New(testConfig())
	require.NoError(t, err)
	defer r.Shutdown()

	_, ok := r.Window().Backend().(*dummy.Backend)
	assert.True(t, ok)
	assert.False(t, r.IsGLES())
	assert.Nil(t, r.Watcher())
}

func TestNewBackendFailure(t *testing.T) {
	b := dummy.NewBackend()
	b.FailInit = true
	_, err := New(testConfig(), WithBackend(b))
	assert.ErrorIs(t, err, graphics.ErrBackendInit)
}

func TestRunFeedsInputAndStopsOnClose(t *testing.T) {
	r, b := newTestRenderer(t)
	b.Queue(
		input.KeyEvent(input.KeyW, input.Press, 0),
		input.MouseMoveEvent(12, 34),
		input.ScrollEvent(0, 2),
	)

	var pressed, down []bool
	var scroll []float64
	err := r.Run(func(r *Renderer) error {
		in := r.Input()
		pressed = append(pressed, in.IsKeyPressed(input.KeyW))
		down = append(down, in.IsKeyDown(input.KeyW))
		_, y := in.ScrollOffset()
		scroll = append(scroll, y)
		if r.FrameCount() == 2 {
			r.Window().RequestClose()
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false, false}, pressed)
	assert.Equal(t, []bool{true, true, true}, down)
	assert.Equal(t, []float64{2, 0, 0}, scroll)
	x, y := r.Input().CursorPosition()
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 34.0, y)

	assert.EqualValues(t, 3, r.FrameCount())
	assert.Equal(t, 4, b.Swaps(), "the closing frame is still presented")
	assert.False(t, r.Window().Active())
}

func TestRunStopsOnFrameError(t *testing.T) {
	r, b := newTestRenderer(t)
	boom := errors.New("boom")

	err := r.Run(func(*Renderer) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, b.Swaps())
	assert.False(t, r.Window().InFrame())
	assert.True(t, r.Window().Active())
}

func TestRunStopsOnBackendClose(t *testing.T) {
	r, b := newTestRenderer(t)
	b.Close()

	calls := 0
	require.NoError(t, r.Run(func(*Renderer) error {
		calls++
		return nil
	}))
	assert.Zero(t, calls)
	assert.Equal(t, 1, b.Swaps())
}

func TestDrawQuad(t *testing.T) {
	r, b := newTestRenderer(t)
	dev := b.Device()

	quad, err := NewQuad(r.Context())
	require.NoError(t, err)
	assert.Equal(t, 16, quad.VertexArray.VertexBuffer(0).Layout().Stride())
	assert.Equal(t, 6, quad.VertexArray.ElementCount())

	fallback, err := r.Fallback()
	require.NoError(t, err)
	again, err := r.Fallback()
	require.NoError(t, err)
	assert.Same(t, fallback, again)

	require.NoError(t, r.Frame(func(r *Renderer) error {
		if err := fallback.Bind(); err != nil {
			return err
		}
		defer fallback.Unbind()
		if err := r.DrawElements(quad.VertexArray); err != nil {
			return err
		}
		r.DrawArrays(quad.VertexArray, 0, 3)
		return nil
	}))

	draws := dev.Draws()
	require.Len(t, draws, 2)
	assert.True(t, draws[0].Indexed)
	assert.EqualValues(t, 6, draws[0].Count)
	assert.EqualValues(t, graphics.Triangles, draws[0].Mode)
	assert.Equal(t, quad.VertexArray.Handle(), draws[0].VertexArray)
	assert.Equal(t, fallback.Handle(), draws[0].Program)
	assert.False(t, draws[1].Indexed)
	assert.EqualValues(t, 3, draws[1].Count)

	quad.Release()
}

func TestDrawElementsRequiresIndexBuffer(t *testing.T) {
	r, _ := newTestRenderer(t)
	va := buffers.NewVertexArray(r.Context())
	defer va.Release()
	assert.Error(t, r.DrawElements(va))
}

func TestSinkCapturesEveryFrame(t *testing.T) {
	r, _ := newTestRenderer(t)
	sink := &countingSink{}
	require.NoError(t, r.AttachSink(sink))
	assert.Error(t, r.AttachSink(&countingSink{}))
	assert.Error(t, r.Record(recorder.Options{FPS: 30, Output: "out.mp4"}))

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Frame(func(*Renderer) error { return nil }))
	}
	assert.Equal(t, 3, sink.captures)

	require.NoError(t, r.StopRecording())
	assert.True(t, sink.closed)
	require.NoError(t, r.StopRecording())
}

func TestShutdownReleasesEverything(t *testing.T) {
	b := dummy.NewBackend()
	r, err := New(testConfig(), WithBackend(b), WithWatch(true))
	require.NoError(t, err)
	require.NotNil(t, r.Watcher())

	sink := &countingSink{}
	require.NoError(t, r.AttachSink(sink))
	r.Resources().LoadProgramSource("quad", "uniform mat4 u_transform;\nvoid main() {}", "void main() {}")
	_, err = r.Fallback()
	require.NoError(t, err)
	_, err = r.Debug()
	require.NoError(t, err)

	r.Shutdown()
	liveBuffers, liveArrays, programs, _ := b.Device().Live()
	assert.Zero(t, liveBuffers)
	assert.Zero(t, liveArrays)
	assert.Zero(t, programs)
	assert.True(t, sink.closed)
	assert.True(t, b.Destroyed())
	assert.Empty(t, r.Resources().ProgramKeys())
}
