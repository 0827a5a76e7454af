package input

import "fmt"

// EventKind tags the payload carried by an Event.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouseButton
	EventMouseMove
	EventScroll
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventKey:
		return "Key"
	case EventMouseButton:
		return "MouseButton"
	case EventMouseMove:
		return "MouseMove"
	case EventScroll:
		return "Scroll"
	case EventResize:
		return "Resize"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a raw event as reported by a backend's poll step.
//
// X and Y hold the cursor position for mouse events and the scroll offsets
// for scroll events. Width and Height are only set on resize events.
type Event struct {
	Kind   EventKind
	Key    Key
	Button MouseButton
	Action Action
	Mods   ModifierKey
	X, Y   float64
	Width  int
	Height int
}

func KeyEvent(key Key, action Action, mods ModifierKey) Event {
	return Event{Kind: EventKey, Key: key, Action: action, Mods: mods}
}

func MouseButtonEvent(button MouseButton, action Action, mods ModifierKey, x, y float64) Event {
	return Event{Kind: EventMouseButton, Button: button, Action: action, Mods: mods, X: x, Y: y}
}

func MouseMoveEvent(x, y float64) Event {
	return Event{Kind: EventMouseMove, X: x, Y: y}
}

func ScrollEvent(xoff, yoff float64) Event {
	return Event{Kind: EventScroll, X: xoff, Y: yoff}
}

func ResizeEvent(width, height int) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}

func (e Event) String() string {
	switch e.Kind {
	case EventKey:
		return fmt.Sprintf("Key{%s %s mods=%#x}", e.Key, e.Action, int(e.Mods))
	case EventMouseButton:
		return fmt.Sprintf("MouseButton{%s %s at %.1f,%.1f}", e.Button, e.Action, e.X, e.Y)
	case EventMouseMove:
		return fmt.Sprintf("MouseMove{%.1f,%.1f}", e.X, e.Y)
	case EventScroll:
		return fmt.Sprintf("Scroll{%.2f,%.2f}", e.X, e.Y)
	case EventResize:
		return fmt.Sprintf("Resize{%dx%d}", e.Width, e.Height)
	default:
		return e.Kind.String()
	}
}
