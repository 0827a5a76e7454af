// Package input tracks keyboard, mouse and cursor state fed by the window's
// poll step.
//
// A Manager is mutated only through its Callback* entry points, which the
// window invokes while polling events inside Begin. Queries are pure reads
// and reflect the state as of the most recent poll.
package input

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/richinsley/glrenderer/internal/logger"
)

type buttonState[K comparable] struct {
	// currently held down
	pressed map[K]bool

	// went down since the last call to nextFrame()
	justPressed map[K]bool

	// went up since the last call to nextFrame()
	justReleased map[K]bool
}

func (s *buttonState[K]) press(k K) {
	if !s.pressed[k] {
		setTrue(&s.justPressed, k)
	}
	setTrue(&s.pressed, k)
}

func (s *buttonState[K]) release(k K) {
	if s.pressed[k] {
		setTrue(&s.justReleased, k)
	}
	delete(s.pressed, k)
}

func (s *buttonState[K]) apply(k K, action Action) {
	switch action {
	case Press, Repeat:
		s.press(k)
	case Release:
		s.release(k)
	}
}

func (s *buttonState[K]) nextFrame() {
	clear(s.justPressed)
	clear(s.justReleased)
}

func setTrue[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}
	(*m)[key] = true
}

// Manager is the queryable input state.
type Manager struct {
	keys  buttonState[Key]
	mouse buttonState[MouseButton]

	cursorX, cursorY float64

	// scroll received since the last NewFrame
	scrollX, scrollY float64

	// scroll received over the manager's lifetime
	accumX, accumY float64
}

func NewManager() *Manager {
	return &Manager{}
}

// CallbackKey records a key transition. Repeat keeps the key down.
func (m *Manager) CallbackKey(key Key, action Action) {
	if action == Press {
		logger.Get().Debug("key pressed", slog.String("key", key.String()))
	}
	m.keys.apply(key, action)
}

// CallbackMouseButton records a button transition and the cursor position
// reported with it.
func (m *Manager) CallbackMouseButton(button MouseButton, action Action, x, y float64) {
	m.mouse.apply(button, action)
	m.cursorX, m.cursorY = x, y
}

func (m *Manager) CallbackMouseMove(x, y float64) {
	m.cursorX, m.cursorY = x, y
}

func (m *Manager) CallbackScroll(xoff, yoff float64) {
	m.scrollX += xoff
	m.scrollY += yoff
	m.accumX += xoff
	m.accumY += yoff
}

// Dispatch routes a raw backend event to the matching callback.
// Resize events carry no input state and are ignored.
func (m *Manager) Dispatch(ev Event) {
	switch ev.Kind {
	case EventKey:
		m.CallbackKey(ev.Key, ev.Action)
	case EventMouseButton:
		m.CallbackMouseButton(ev.Button, ev.Action, ev.X, ev.Y)
	case EventMouseMove:
		m.CallbackMouseMove(ev.X, ev.Y)
	case EventScroll:
		m.CallbackScroll(ev.X, ev.Y)
	}
}

// NewFrame clears the per-frame state: the scroll delta and the
// just-pressed / just-released sets. The window runs it at the start of
// every Begin, before events are polled.
func (m *Manager) NewFrame() {
	m.keys.nextFrame()
	m.mouse.nextFrame()
	m.scrollX, m.scrollY = 0, 0
}

func (m *Manager) IsKeyDown(key Key) bool {
	return m.keys.pressed[key]
}

// IsKeyPressed reports whether key went down during the current frame.
func (m *Manager) IsKeyPressed(key Key) bool {
	return m.keys.justPressed[key]
}

// IsKeyReleased reports whether key went up during the current frame.
func (m *Manager) IsKeyReleased(key Key) bool {
	return m.keys.justReleased[key]
}

func (m *Manager) IsMouseDown(button MouseButton) bool {
	return m.mouse.pressed[button]
}

func (m *Manager) IsMousePressed(button MouseButton) bool {
	return m.mouse.justPressed[button]
}

func (m *Manager) IsMouseReleased(button MouseButton) bool {
	return m.mouse.justReleased[button]
}

func (m *Manager) CursorPosition() (x, y float64) {
	return m.cursorX, m.cursorY
}

// ScrollOffset returns the scroll delta of the current frame. It stays
// readable after End and is reset by the next NewFrame.
func (m *Manager) ScrollOffset() (x, y float64) {
	return m.scrollX, m.scrollY
}

// ScrollAccum returns the total scroll since the manager was created.
func (m *Manager) ScrollAccum() (x, y float64) {
	return m.accumX, m.accumY
}

func (m *Manager) String() string {
	var sb strings.Builder
	sb.WriteString("Input{keys=[")
	first := true
	for k, down := range m.keys.pressed {
		if !down {
			continue
		}
		if !first {
			sb.WriteString(" ")
		}
		sb.WriteString(k.String())
		first = false
	}
	sb.WriteString("] buttons=[")
	first = true
	for b, down := range m.mouse.pressed {
		if !down {
			continue
		}
		if !first {
			sb.WriteString(" ")
		}
		sb.WriteString(b.String())
		first = false
	}
	fmt.Fprintf(&sb, "] cursor=(%.1f, %.1f) scroll=(%.2f, %.2f)}", m.cursorX, m.cursorY, m.scrollX, m.scrollY)
	return sb.String()
}
