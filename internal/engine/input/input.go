// Package input turns SDL2 events into a per-frame event list plus the set
// of keys and mouse buttons currently held.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event is one SDL event reduced to the fields the editor reads.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool

	Width, Height int // resize

	MouseX, MouseY int
	RelX, RelY     int // motion since the previous move event
	Wheel          int // positive away from the user
	Button         uint8
}

// Input collects the events of one frame.
type Input struct {
	events  []Event
	keys    map[sdl.Scancode]bool
	buttons map[uint8]bool
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		keys:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update drains the SDL event queue. It returns true once the window has
// been asked to close.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := translate(event)
		if !ok {
			continue
		}
		i.record(ev)
		if ev.Type == EventQuit {
			return true
		}
	}
	return false
}

// record appends ev and updates the held state.
func (i *Input) record(ev Event) {
	switch ev.Type {
	case EventKeyDown:
		i.keys[ev.Key] = true
	case EventKeyUp:
		delete(i.keys, ev.Key)
	case EventMouseDown:
		i.buttons[ev.Button] = true
	case EventMouseUp:
		delete(i.buttons, ev.Button)
	}
	i.events = append(i.events, ev)
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
		case sdl.KEYUP:
			ev.Type = EventKeyUp
		default:
			return Event{}, false
		}
		return ev, true

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			RelX:   int(e.XRel),
			RelY:   int(e.YRel),
		}, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, Wheel: int(e.Y)}, true

	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventMouseDown
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventMouseUp
		default:
			return Event{}, false
		}
		return ev, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyDown reports whether a key is held.
func (i *Input) IsKeyDown(key sdl.Scancode) bool {
	return i.keys[key]
}

// IsButtonDown reports whether a mouse button is held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}

// IsKeyPressed reports whether key went down this frame. Auto-repeat does
// not count.
func (i *Input) IsKeyPressed(key sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && !e.Repeat && e.Key == key {
			return true
		}
	}
	return false
}
