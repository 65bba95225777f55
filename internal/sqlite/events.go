package sqlite

import (
	"context"
	"time"
)

// LibraryEventType names a library mutation.
type LibraryEventType string

// Event types emitted by the library.
const (
	RecordAdded   LibraryEventType = "record.added"
	RecordUpdated LibraryEventType = "record.updated"
	RecordRemoved LibraryEventType = "record.removed"
)

// LibraryEvent describes one successful mutation. Events fire when the
// operation succeeds, before the caller commits; consumers observing
// an event for a mutation that is later rolled back see a phantom, so
// events are observability, never a correctness dependency.
type LibraryEvent struct {
	Type       LibraryEventType
	RecordID   string
	RecordType string
	Timestamp  time.Time
}

// EventCallback consumes library events. Delivery is handled by the
// event bus; returning an error does not affect the mutation that
// produced the event.
type EventCallback func(ctx context.Context, event LibraryEvent) error

// Subscribe registers a callback for one event type and returns its
// unsubscribe function.
func (l *Library) Subscribe(eventType LibraryEventType, callback EventCallback) func() {
	return l.bus.Subscribe(string(eventType), callback)
}

// emit publishes a mutation event. A nil bus (partially constructed
// library, as in tests) drops the event.
func (l *Library) emit(eventType LibraryEventType, recordID, recordType string) {
	if l.bus == nil {
		return
	}
	l.bus.Emit(string(eventType), LibraryEvent{
		Type:       eventType,
		RecordID:   recordID,
		RecordType: recordType,
		Timestamp:  time.Now().UTC(),
	})
}
