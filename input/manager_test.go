package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyDownLifecycle(t *testing.T) {
	m := NewManager()
	assert.False(t, m.IsKeyDown(KeyW))

	m.CallbackKey(KeyW, Press)
	assert.True(t, m.IsKeyDown(KeyW))
	assert.True(t, m.IsKeyPressed(KeyW))

	m.CallbackKey(KeyW, Repeat)
	assert.True(t, m.IsKeyDown(KeyW))

	m.CallbackKey(KeyW, Release)
	assert.False(t, m.IsKeyDown(KeyW))
	assert.True(t, m.IsKeyReleased(KeyW))

	assert.False(t, m.IsKeyDown(KeyS))
}

func TestEdgesClearedOnNewFrame(t *testing.T) {
	m := NewManager()
	m.CallbackKey(KeySpace, Press)
	m.CallbackMouseButton(MouseButtonLeft, Press, 10, 20)

	m.NewFrame()
	assert.False(t, m.IsKeyPressed(KeySpace))
	assert.False(t, m.IsMousePressed(MouseButtonLeft))
	assert.True(t, m.IsKeyDown(KeySpace))
	assert.True(t, m.IsMouseDown(MouseButtonLeft))

	// a repeat of a held key is not a new press
	m.CallbackKey(KeySpace, Repeat)
	assert.False(t, m.IsKeyPressed(KeySpace))
}

func TestMouseButtonUpdatesCursor(t *testing.T) {
	m := NewManager()
	m.CallbackMouseButton(MouseButtonRight, Press, 3.5, 4.5)

	x, y := m.CursorPosition()
	assert.Equal(t, 3.5, x)
	assert.Equal(t, 4.5, y)
	assert.True(t, m.IsMouseDown(MouseButtonRight))
	assert.False(t, m.IsMouseDown(MouseButtonLeft))

	m.CallbackMouseButton(MouseButtonRight, Release, 3.5, 4.5)
	assert.False(t, m.IsMouseDown(MouseButtonRight))
	assert.True(t, m.IsMouseReleased(MouseButtonRight))

	m.CallbackMouseMove(100, 200)
	x, y = m.CursorPosition()
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 200.0, y)
}

func TestScrollIsOneFrameDelta(t *testing.T) {
	m := NewManager()
	m.CallbackScroll(0, 1)
	m.CallbackScroll(0.5, 2)

	x, y := m.ScrollOffset()
	assert.Equal(t, 0.5, x)
	assert.Equal(t, 3.0, y)

	// still visible until the next frame starts
	x, y = m.ScrollOffset()
	assert.Equal(t, 3.0, y)

	m.NewFrame()
	x, y = m.ScrollOffset()
	assert.Zero(t, x)
	assert.Zero(t, y)

	ax, ay := m.ScrollAccum()
	assert.Equal(t, 0.5, ax)
	assert.Equal(t, 3.0, ay)
}

func TestDispatch(t *testing.T) {
	m := NewManager()
	m.Dispatch(KeyEvent(KeyEscape, Press, ModShift))
	m.Dispatch(MouseButtonEvent(MouseButtonMiddle, Press, 0, 1, 2))
	m.Dispatch(MouseMoveEvent(7, 8))
	m.Dispatch(ScrollEvent(0, -1))
	m.Dispatch(ResizeEvent(640, 480))

	assert.True(t, m.IsKeyDown(KeyEscape))
	assert.True(t, m.IsMouseDown(MouseButtonMiddle))
	x, y := m.CursorPosition()
	assert.Equal(t, 7.0, x)
	assert.Equal(t, 8.0, y)
	_, sy := m.ScrollOffset()
	assert.Equal(t, -1.0, sy)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "A", KeyA.String())
	assert.Equal(t, "7", Key7.String())
	assert.Equal(t, "F11", KeyF11.String())
	assert.Equal(t, "Escape", KeyEscape.String())
	assert.Equal(t, "Key(999)", Key(999).String())
	assert.Equal(t, "Button5", MouseButton(4).String())
	assert.True(t, (ModShift | ModAlt).Has(ModAlt))
	assert.False(t, ModShift.Has(ModControl))
}
