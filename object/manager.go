package object

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/config"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/internal/guard"
	"github.com/wippyai/gdbind/variant"
)

// refCountedBase is the engine class whose descendants are reference counted.
const refCountedBase = "RefCounted"

// shared is the state common to every handle of one manually managed
// instance.
type shared struct {
	handles guard.Counter
	freed   guard.Flag
}

// Manager creates handles and tracks manually managed instances for one
// extension.
type Manager struct {
	host   abi.Host
	manual map[gdbind.InstanceID]*shared
	leaks  []Leak
	mu     guard.RWMutex
}

// NewManager creates a manager over host.
func NewManager(host abi.Host) *Manager {
	return &Manager{
		host:   host,
		manual: make(map[gdbind.InstanceID]*shared),
	}
}

// Host returns the engine the manager talks to.
func (m *Manager) Host() abi.Host {
	return m.host
}

// OwnershipOf returns how instances of class are managed.
func (m *Manager) OwnershipOf(class string) Ownership {
	if m.host.ClassInherits(class, refCountedBase) {
		return RefCounted
	}
	return Manual
}

// New instantiates an engine class and returns the first handle to it.
func (m *Manager) New(class string) (*Handle, error) {
	if !m.host.ClassExists(class) {
		return nil, errors.NotFound(errors.PhaseObject, "class", class)
	}
	ptr, err := m.host.ConstructObject(class)
	if err != nil {
		return nil, errors.New(errors.PhaseObject, errors.KindInvalidData).
			Class(class).
			Cause(err).
			Detail("construct failed").
			Build()
	}
	id := m.host.InstanceID(ptr)
	h, err := m.Wrap(ptr, id, class, m.OwnershipOf(class))
	if err != nil {
		m.host.DestroyObject(ptr)
		return nil, err
	}
	Logger().Debug("object created",
		zap.String("class", class),
		zap.Uint64("id", uint64(id)),
		zap.Stringer("ownership", h.own))
	return h, nil
}

// Wrap returns a handle to a live object. Reference counted objects gain a
// reference that the handle releases on Drop.
func (m *Manager) Wrap(ptr gdbind.ObjectPtr, id gdbind.InstanceID, class string, own Ownership) (*Handle, error) {
	if ptr.IsNil() || !id.IsValid() || m.host.InstanceFromID(id) != ptr {
		return nil, errors.StaleReference(errors.PhaseObject, class, uint64(id))
	}
	h := &Handle{m: m, ptr: ptr, id: id, class: class, own: own}
	switch own {
	case RefCounted:
		if !m.host.Reference(ptr) {
			return nil, errors.New(errors.PhaseObject, errors.KindInvalidInput).
				Class(class).
				Value(uint64(id)).
				Detail("object is not reference counted").
				Build()
		}
	case Manual:
		h.state = m.attach(id)
	case Weak:
	default:
		return nil, errors.InvalidInput(errors.PhaseObject, "unknown ownership "+own.String())
	}
	return h, nil
}

// FromID wraps the live object with id, choosing ownership from class.
func (m *Manager) FromID(id gdbind.InstanceID, class string) (*Handle, error) {
	ptr := m.host.InstanceFromID(id)
	if ptr.IsNil() {
		return nil, errors.StaleReference(errors.PhaseObject, class, uint64(id))
	}
	return m.Wrap(ptr, id, class, m.OwnershipOf(class))
}

// FromVariant turns an Object variant back into an owning handle. A Nil
// variant or a null object yields a nil handle.
func (m *Manager) FromVariant(v variant.Variant) (*Handle, error) {
	if v.IsNil() {
		return nil, nil
	}
	ref, ok := v.AsObject()
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseObject, nil, "*object.Handle", v.Type().String())
	}
	if ref.IsNull() {
		return nil, nil
	}
	class := ref.Class
	if class == "" {
		class = "Object"
	}
	return m.FromID(ref.ID, class)
}

// Weak returns a non-owning handle to a live object.
func (m *Manager) Weak(ptr gdbind.ObjectPtr, id gdbind.InstanceID, class string) (*Handle, error) {
	return m.Wrap(ptr, id, class, Weak)
}

// Borrow is FromVariant for callers that do not take ownership: the handle
// is weak and Clone must be used to keep the object.
func (m *Manager) Borrow(v variant.Variant) (*Handle, error) {
	if v.IsNil() {
		return nil, nil
	}
	ref, ok := v.AsObject()
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseObject, nil, "*object.Handle", v.Type().String())
	}
	if ref.IsNull() {
		return nil, nil
	}
	class := ref.Class
	if class == "" {
		class = "Object"
	}
	ptr := m.host.InstanceFromID(ref.ID)
	if ptr.IsNil() {
		return nil, errors.StaleReference(errors.PhaseObject, class, uint64(ref.ID))
	}
	return m.Weak(ptr, ref.ID, class)
}

func (m *Manager) attach(id gdbind.InstanceID) *shared {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.manual[id]
	if !ok {
		s = &shared{}
		m.manual[id] = s
	}
	s.handles.Add(1)
	return s
}

// retain adds a handle to s.
func (m *Manager) retain(s *shared) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.handles.Add(1)
}

// release removes a handle from s. It reports whether that was the last one,
// in which case s is detached in the same step so no attach can revive it.
func (m *Manager) release(id gdbind.InstanceID, s *shared) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.handles.Add(-1) > 0 {
		return false
	}
	if m.manual[id] == s {
		delete(m.manual, id)
	}
	return true
}

func (m *Manager) detach(id gdbind.InstanceID, s *shared) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.manual[id] == s {
		delete(m.manual, id)
	}
}

func (m *Manager) recordLeak(class string, id gdbind.InstanceID) {
	Logger().Warn("manually managed object leaked: last handle dropped without Free",
		zap.String("class", class),
		zap.Uint64("id", uint64(id)))
	if !config.Debug {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaks = append(m.leaks, Leak{Class: class, ID: uint64(id)})
}

// Leaks returns the recorded leaks. Leaks are only recorded in debug builds.
func (m *Manager) Leaks() []Leak {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.leaks)
}

// LeakCount returns the number of recorded leaks.
func (m *Manager) LeakCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.leaks)
}

// ClearLeaks forgets recorded leaks.
func (m *Manager) ClearLeaks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaks = nil
}

// Tracked returns the number of manually managed instances with live
// handles.
func (m *Manager) Tracked() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.manual)
}
