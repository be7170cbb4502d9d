package instance

import (
	"fmt"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/errors"
)

// Typed is a view of a Storage restricted to payloads of type T.
type Typed[T any] struct {
	s *Storage
}

// NewTyped returns a typed view of s.
func NewTyped[T any](s *Storage) Typed[T] {
	return Typed[T]{s: s}
}

// Register binds a T payload to id.
func (t Typed[T]) Register(id gdbind.InstanceID, class string, payload T) error {
	return t.s.Register(id, class, payload)
}

// Lookup returns the payload for id. A payload of another type is a
// type_mismatch error.
func (t Typed[T]) Lookup(id gdbind.InstanceID) (T, error) {
	var zero T
	e, err := t.s.Lookup(id)
	if err != nil {
		return zero, err
	}
	v, ok := e.Payload.(T)
	if !ok {
		return zero, errors.New(errors.PhaseInstance, errors.KindTypeMismatch).
			Class(e.Class).
			GoType(fmt.Sprintf("%T", e.Payload)).
			Value(uint64(id)).
			Detail("payload is not %T", zero).
			Build()
	}
	return v, nil
}

// Get returns the payload for id if it exists and has type T.
func (t Typed[T]) Get(id gdbind.InstanceID) (T, bool) {
	v, err := t.Lookup(id)
	return v, err == nil
}

// Len returns the number of live T payloads.
func (t Typed[T]) Len() int {
	n := 0
	t.Each(func(gdbind.InstanceID, T) bool {
		n++
		return true
	})
	return n
}

// Each calls fn for every live T payload in ascending id order.
func (t Typed[T]) Each(fn func(gdbind.InstanceID, T) bool) {
	t.s.Each(func(e Entry) bool {
		v, ok := e.Payload.(T)
		if !ok {
			return true
		}
		return fn(e.ID, v)
	})
}
