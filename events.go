package conflate

import (
	"fmt"
	"sync"
)

// Event names a notification channel a Config emits on. The set is closed:
// only EventConfig and EventDone exist.
type Event string

const (
	// EventConfig fires once per successfully loaded fragment, before the
	// fragment is merged. Payload: the fragment as the provider returned it.
	EventConfig Event = "config"
	// EventDone fires once per successful load, after the merged result is
	// published. Payload: a clone of the new aggregate.
	EventDone Event = "done"
)

// Listener receives event payloads. Listeners run synchronously on the
// goroutine emitting the event, in registration order.
type Listener func(payload map[string]any)

// On registers a listener for event and returns a func that removes it.
// Subscribing to a name outside the supported set fails with ErrUnknownEvent.
func (c *Config) On(event Event, listener Listener) (func(), error) {
	if event == "" {
		return nil, ErrEmptyEvent
	}
	if listener == nil {
		return nil, ErrNilListener
	}
	switch event {
	case EventConfig, EventDone:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	return c.listeners.add(event, listener), nil
}

type listenerEntry struct {
	id int
	fn Listener
}

// listenerSet is the per-Config event registry. The zero value is ready to
// use.
type listenerSet struct {
	mu      sync.Mutex
	nextID  int
	entries map[Event][]listenerEntry
}

func (s *listenerSet) add(event Event, fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[Event][]listenerEntry)
	}
	s.nextID++
	id := s.nextID
	s.entries[event] = append(s.entries[event], listenerEntry{id: id, fn: fn})
	return func() { s.remove(event, id) }
}

func (s *listenerSet) remove(event Event, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.entries[event]
	for i, entry := range entries {
		if entry.id == id {
			s.entries[event] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// emit invokes the listeners registered for event in registration order. The
// list is snapshotted up front, so listeners registered or removed during an
// emission do not affect it.
func (s *listenerSet) emit(event Event, payload map[string]any) {
	s.mu.Lock()
	entries := s.entries[event]
	snapshot := make([]listenerEntry, len(entries))
	copy(snapshot, entries)
	s.mu.Unlock()

	for _, entry := range snapshot {
		entry.fn(payload)
	}
}
