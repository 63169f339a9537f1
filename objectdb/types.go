package objectdb

// ID identifies a live host object. ID 0 is reserved and always invalid.
// IDs are never reused within a Table.
type ID uint64

// EventType identifies an object lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventFreed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventFreed:
		return "freed"
	}
	return "unknown"
}

// Event represents an object lifecycle event.
type Event struct {
	Value any
	Class string
	ID    ID
	Type  EventType
}

// Observer receives notifications about object lifecycle events.
type Observer interface {
	OnObjectEvent(Event)
}

// Dropper is optionally implemented by stored values that need cleanup when freed.
type Dropper interface {
	Drop()
}
