package enginetest

import (
	"slices"
	"strings"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

// Instantiate creates an instance of an extension class the way the engine
// does when a scene or script asks for one: through the class's Create
// callback, followed by the postinitialize notification.
func (e *Engine) Instantiate(className string) (gdbind.ObjectPtr, gdbind.InstanceID, error) {
	e.mu.Lock()
	c, err := e.extClassLocked(className)
	e.mu.Unlock()
	if err != nil {
		return 0, 0, err
	}
	if c.info.IsAbstract || c.info.IsVirtual {
		return 0, 0, errors.InvalidInput(errors.PhaseABI, className+" cannot be instantiated")
	}
	ptr, err := c.callbacks.Create(className)
	if err != nil {
		return 0, 0, err
	}
	id := e.InstanceID(ptr)
	if id == 0 {
		return 0, 0, errors.New(errors.PhaseABI, errors.KindInvalidData).
			Class(className).
			Detail("create callback returned an unknown object").
			Build()
	}
	c.callbacks.Notification(id, NotificationPostinitialize)
	return ptr, id, nil
}

// Destroy destroys the object with id. It returns false if the object is
// already gone.
func (e *Engine) Destroy(id gdbind.InstanceID) bool {
	ptr := e.InstanceFromID(id)
	if ptr == 0 {
		return false
	}
	e.DestroyObject(ptr)
	return true
}

// CallExtension calls method on the object with id, as a script would.
func (e *Engine) CallExtension(id gdbind.InstanceID, method string, args ...variant.Variant) (variant.Variant, abi.CallError) {
	ptr := e.InstanceFromID(id)
	if ptr == 0 {
		return variant.Nil(), abi.CallError{Code: abi.CallErrorInstanceIsNull}
	}
	return e.ObjectMethodCall(ptr, method, args)
}

// GetVirtual asks the owner of className for the override of name.
func (e *Engine) GetVirtual(className, name string) (abi.VirtualBind, bool) {
	e.mu.Lock()
	c, err := e.extClassLocked(className)
	e.mu.Unlock()
	if err != nil {
		return abi.VirtualBind{}, false
	}
	return c.callbacks.GetVirtual(className, name)
}

// CallVirtual resolves and calls the virtual name on the object with id.
func (e *Engine) CallVirtual(id gdbind.InstanceID, name string, args ...variant.Variant) (variant.Variant, abi.CallError) {
	o, ok := e.objectByID(id)
	if !ok {
		return variant.Nil(), abi.CallError{Code: abi.CallErrorInstanceIsNull}
	}
	bind, ok := e.GetVirtual(e.ClassOf(o.id), name)
	if !ok {
		return variant.Nil(), abi.InvalidMethod()
	}
	return e.CallVirtualBind(bind, id, args...)
}

// CallVirtualBind calls a previously resolved virtual bind. Engines cache
// binds, so bind may be older than the current registration.
func (e *Engine) CallVirtualBind(bind abi.VirtualBind, id gdbind.InstanceID, args ...variant.Variant) (variant.Variant, abi.CallError) {
	cb := e.callbacksFor(bind.Class)
	if cb == nil {
		return variant.Nil(), abi.InvalidMethod()
	}
	return cb.CallVirtual(bind, id, args)
}

// Notify sends notification what to the object with id.
func (e *Engine) Notify(id gdbind.InstanceID, what int32) {
	o, ok := e.objectByID(id)
	if !ok {
		return
	}
	if cb := e.callbacksOf(o); cb != nil {
		cb.Notification(id, what)
	}
}

// GetProperty reads a property through the object's get method.
func (e *Engine) GetProperty(id gdbind.InstanceID, name string) (variant.Variant, abi.CallError) {
	return e.CallExtension(id, "get", variant.NewStringName(variant.StringName(name)))
}

// SetProperty writes a property through the object's set method.
func (e *Engine) SetProperty(id gdbind.InstanceID, name string, value variant.Variant) abi.CallError {
	_, st := e.CallExtension(id, "set", variant.NewStringName(variant.StringName(name)), value)
	return st
}

// ToString returns what the engine prints for the object with id.
func (e *Engine) ToString(id gdbind.InstanceID) string {
	v, st := e.CallExtension(id, "to_string")
	if !st.OK() {
		return "<Object#null>"
	}
	s, _ := v.AsString()
	return s
}

// Alive reports whether id names a live object.
func (e *Engine) Alive(id gdbind.InstanceID) bool {
	return e.InstanceFromID(id) != 0
}

// ObjectCount returns the number of live objects.
func (e *Engine) ObjectCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.byID)
}

// Destroyed returns the ids of destroyed objects in destruction order.
func (e *Engine) Destroyed() []gdbind.InstanceID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.destroyed)
}

// ClassOf returns the most derived class of the object with id.
func (e *Engine) ClassOf(id gdbind.InstanceID) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o, ok := e.byID[id]; ok {
		return o.class
	}
	return ""
}

// RefCountOf returns the reference count of the object with id.
func (e *Engine) RefCountOf(id gdbind.InstanceID) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o, ok := e.byID[id]; ok {
		return o.refcount
	}
	return 0
}

// Emissions returns the signals emitted by the object with id.
func (e *Engine) Emissions(id gdbind.InstanceID) []Emission {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.emissions[id])
}

// ExtensionClasses returns registered extension classes in registration
// order.
func (e *Engine) ExtensionClasses() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, name := range e.classOrder {
		if c := e.classes[name]; c != nil && c.extension {
			out = append(out, name)
		}
	}
	return out
}

// ClassInfo returns the registration of an extension class.
func (e *Engine) ClassInfo(className string) (abi.ClassInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.extClassLocked(className)
	if err != nil {
		return abi.ClassInfo{}, false
	}
	return c.info, true
}

// Methods returns the methods registered on an extension class, by name.
func (e *Engine) Methods(className string) []abi.MethodInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.extClassLocked(className)
	if err != nil {
		return nil
	}
	out := make([]abi.MethodInfo, 0, len(c.extMethods))
	for _, m := range c.extMethods {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b abi.MethodInfo) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Properties returns the properties registered on an extension class, by
// name.
func (e *Engine) Properties(className string) []abi.PropertyBinding {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.extClassLocked(className)
	if err != nil {
		return nil
	}
	out := make([]abi.PropertyBinding, 0, len(c.properties))
	for _, p := range c.properties {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b abi.PropertyBinding) int { return strings.Compare(a.Info.Name, b.Info.Name) })
	return out
}

// Signals returns the signals registered on an extension class, by name.
func (e *Engine) Signals(className string) []abi.SignalInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.extClassLocked(className)
	if err != nil {
		return nil
	}
	out := make([]abi.SignalInfo, 0, len(c.signals))
	for _, s := range c.signals {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b abi.SignalInfo) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (e *Engine) callbacksFor(className string) abi.InstanceCallbacks {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, err := e.extClassLocked(className); err == nil {
		return c.callbacks
	}
	return nil
}
