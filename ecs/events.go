package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventMoveEnter        = "move_enter"
	EventMoveExit         = "move_exit"
	EventTravelerActivate = "traveler_activate"
	EventTravelerComplete = "traveler_complete"
	EventPathRebuilt      = "path_rebuilt"
)

// MoveEvent is emitted when a transient move starts or ends on an entity.
type MoveEvent struct {
	Entity Entity
	Move   string
	Forced bool
}

// TravelerEvent is emitted when an entity starts or finishes a path.
type TravelerEvent struct {
	Path     Entity
	Traveler Entity
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
