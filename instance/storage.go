package instance

import (
	"fmt"
	"slices"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/internal/guard"
)

// ErrClosed is returned by Register after Close.
var ErrClosed = errors.New(errors.PhaseInstance, errors.KindNotInitialized).
	Detail("instance storage closed").
	Build()

// Storage maps instance ids to native payloads. The zero value is not
// usable; call NewStorage.
type Storage struct {
	entries   map[gdbind.InstanceID]Entry
	observers []Observer
	mu        guard.RWMutex
	obsMu     guard.RWMutex
	closed    bool
}

// NewStorage creates an empty storage.
func NewStorage() *Storage {
	return &Storage{
		entries: make(map[gdbind.InstanceID]Entry, 64),
	}
}

// Register binds payload to id. An id that already has a live entry is
// rejected with already_registered and the existing entry is kept.
func (s *Storage) Register(id gdbind.InstanceID, class string, payload any) error {
	if !id.IsValid() {
		return errors.InvalidInput(errors.PhaseInstance, "cannot register instance id 0")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if prev, ok := s.entries[id]; ok {
		s.mu.Unlock()
		return errors.New(errors.PhaseInstance, errors.KindAlreadyRegistered).
			Class(prev.Class).
			Value(uint64(id)).
			Detail("instance %d already registered", uint64(id)).
			Build()
	}
	e := Entry{ID: id, Class: class, Payload: payload}
	s.entries[id] = e
	s.mu.Unlock()

	s.notify(Event{Type: EventRegistered, ID: id, Class: class, Payload: payload})
	return nil
}

// Lookup returns the entry for id or an unknown_instance error.
func (s *Storage) Lookup(id gdbind.InstanceID) (Entry, error) {
	e, ok := s.Get(id)
	if !ok {
		return Entry{}, errors.UnknownInstance(errors.PhaseInstance, uint64(id))
	}
	return e, nil
}

// Get returns the entry for id.
func (s *Storage) Get(id gdbind.InstanceID) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Has reports whether id has a live entry.
func (s *Storage) Has(id gdbind.InstanceID) bool {
	_, ok := s.Get(id)
	return ok
}

// Unregister removes the entry for id and drops its payload. Removing an id
// that was never registered, or was registered only partially, is a no-op
// that returns false.
func (s *Storage) Unregister(id gdbind.InstanceID) (Entry, bool) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if !ok {
		return Entry{}, false
	}
	if d, ok := e.Payload.(Dropper); ok {
		d.Drop()
	}
	s.notify(Event{Type: EventUnregistered, ID: id, Class: e.Class, Payload: e.Payload})
	return e, true
}

// Len returns the number of live entries.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IDs returns the live ids in ascending order.
func (s *Storage) IDs() []gdbind.InstanceID {
	s.mu.RLock()
	ids := make([]gdbind.InstanceID, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Each calls fn for every live entry in ascending id order until fn returns
// false. Entries registered or removed by fn may or may not be visited.
func (s *Storage) Each(fn func(Entry) bool) {
	for _, id := range s.IDs() {
		e, ok := s.Get(id)
		if !ok {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// CountClass returns the number of live instances of class.
func (s *Storage) CountClass(class string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if e.Class == class {
			n++
		}
	}
	return n
}

// Clear removes every entry.
func (s *Storage) Clear() {
	for _, id := range s.IDs() {
		s.Unregister(id)
	}
}

// Close removes every entry and rejects later registrations.
func (s *Storage) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.Clear()
	return nil
}

// Subscribe adds an observer.
func (s *Storage) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer added with Subscribe.
func (s *Storage) Unsubscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Storage) notify(e Event) {
	s.obsMu.RLock()
	observers := slices.Clone(s.observers)
	s.obsMu.RUnlock()
	for _, o := range observers {
		o.OnInstanceEvent(e)
	}
}

func (s *Storage) String() string {
	return fmt.Sprintf("instance.Storage(%d)", s.Len())
}
