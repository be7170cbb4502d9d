package instance

import "github.com/wippyai/gdbind"

// EventType identifies an instance lifecycle event.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventUnregistered
)

func (t EventType) String() string {
	switch t {
	case EventRegistered:
		return "registered"
	case EventUnregistered:
		return "unregistered"
	}
	return "unknown"
}

// Event describes a change to the storage.
type Event struct {
	Payload any
	Class   string
	ID      gdbind.InstanceID
	Type    EventType
}

// Observer receives lifecycle events.
type Observer interface {
	OnInstanceEvent(Event)
}

// Dropper is optionally implemented by payloads that need cleanup when the
// instance goes away.
type Dropper interface {
	Drop()
}

// Entry is a registered instance.
type Entry struct {
	Payload any
	Class   string
	ID      gdbind.InstanceID
}
