// Package events carries schedule changes to interested parties (websocket
// clients, e-mail) after they are committed.
package events

const (
	BookingCreated      = "booking.created"
	BookingRemoved      = "booking.removed"
	SlotCleared         = "slot.cleared"
	BulkAssigned        = "bulk.assigned"
	AvailabilityAdded   = "availability.added"
	AvailabilityRemoved = "availability.removed"
	AvailabilityCleared = "availability.cleared"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Notifier interface {
	Notify(Event)
}

// Multi fans an event out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(e Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(e)
		}
	}
}

// Recorder keeps every event it receives. Handy in tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Notify(e Event) {
	r.Events = append(r.Events, e)
}

func (r *Recorder) Types() []string {
	types := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}
