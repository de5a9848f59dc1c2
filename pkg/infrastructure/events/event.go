// Package events records the planning lifecycle as append-only event
// streams, one stream per planning cycle. The orchestrator publishes a
// fixed vocabulary of cycle events (see planning_events.go); readers
// replay a cycle's stream to reconstruct what the planner decided and why.
package events

import (
	"time"
)

// Event is one recorded fact about a planning cycle. Events are immutable
// once appended; Version is the 1-based position within the cycle's
// stream, assigned by the store.
type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

// EventHandler consumes published cycle events. Handlers run on their own
// goroutines; a returned error is logged by the store, never retried.
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore is the surface the orchestrator publishes through. Stream IDs
// are cycle IDs; ReadAllEvents crosses streams in global append order.
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// record is the stored event form. Construction goes through newEvent and
// withVersion only; the fields are never mutated after that.
type record struct {
	eventType string
	stream    string
	data      interface{}
	at        time.Time
	version   int
}

func (r record) Type() string         { return r.eventType }
func (r record) StreamID() string     { return r.stream }
func (r record) Data() interface{}    { return r.data }
func (r record) Timestamp() time.Time { return r.at }
func (r record) Version() int         { return r.version }

// newEvent wraps a cycle event payload for publication. The stream
// position is assigned on append, so a fresh event carries version 1.
func newEvent(eventType, streamID string, data interface{}) Event {
	return record{
		eventType: eventType,
		stream:    streamID,
		data:      data,
		at:        time.Now(),
		version:   1,
	}
}

// withVersion rebinds an event to its position in the target stream.
func withVersion(e Event, streamID string, version int) Event {
	return record{
		eventType: e.Type(),
		stream:    streamID,
		data:      e.Data(),
		at:        e.Timestamp(),
		version:   version,
	}
}
