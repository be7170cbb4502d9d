package dispatch

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/classdb"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/instance"
	"github.com/wippyai/gdbind/internal/guard"
	"github.com/wippyai/gdbind/object"
	"github.com/wippyai/gdbind/variant"
)

// Notifier is implemented by payloads that want engine notifications.
type Notifier interface {
	Notification(what int32)
}

// Dispatcher connects engine callbacks to native instances. It implements
// abi.InstanceCallbacks and is passed to the engine with every class it
// registers.
type Dispatcher struct {
	host     abi.Host
	objects  *object.Manager
	storage  *instance.Storage
	registry *classdb.Registry
	calls    guard.Counter
	failures guard.Counter
	panics   guard.Counter
}

var _ abi.InstanceCallbacks = (*Dispatcher)(nil)

// New creates a dispatcher. objects must talk to the same host.
func New(host abi.Host, objects *object.Manager, storage *instance.Storage, registry *classdb.Registry) *Dispatcher {
	return &Dispatcher{
		host:     host,
		objects:  objects,
		storage:  storage,
		registry: registry,
	}
}

// Registry returns the class registry calls are resolved against.
func (d *Dispatcher) Registry() *classdb.Registry { return d.registry }

// Storage returns the instance table.
func (d *Dispatcher) Storage() *instance.Storage { return d.storage }

// Objects returns the handle manager.
func (d *Dispatcher) Objects() *object.Manager { return d.objects }

// Stats returns the inbound call counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Calls:    d.calls.Load(),
		Failures: d.failures.Load(),
		Panics:   d.panics.Load(),
	}
}

// Instance returns the payload of a live native instance.
func (d *Dispatcher) Instance(id gdbind.InstanceID) (any, error) {
	e, err := d.storage.Lookup(id)
	if err != nil {
		return nil, err
	}
	return e.Payload, nil
}

// InstanceOf returns the payload of instance id as a T.
func InstanceOf[T any](d *Dispatcher, id gdbind.InstanceID) (T, error) {
	return instance.NewTyped[T](d.storage).Lookup(id)
}

// contain runs fn and turns a panic into a native_failure error.
func (d *Dispatcher) contain(class, member string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.panics.Add(1)
			Logger().Warn("recovered panic in native code",
				zap.String("class", class),
				zap.String("member", member),
				zap.Any("panic", r))
			err = errors.NativeFailure(class, member, r, nil)
		}
	}()
	return fn()
}

func (d *Dispatcher) record(res Result, what string) Result {
	if res.Err != nil {
		d.failures.Add(1)
		Logger().Debug("inbound call failed",
			zap.String("call", what),
			zap.Stringer("stage", res.Stage),
			zap.Stringer("status", res.Status),
			zap.Error(res.Err))
	}
	return res
}

// Call runs the method registered under bind on instance id.
func (d *Dispatcher) Call(bind gdbind.MethodBindID, id gdbind.InstanceID, args []variant.Variant) (res Result) {
	d.calls.Add(1)
	what := fmt.Sprintf("bind %d", uint32(bind))
	err := d.contain("", what, func() error {
		b, err := d.registry.Bind(bind)
		if err != nil {
			res = failed(StageUnmarshalArgs, abi.InvalidMethod(), err)
			return nil
		}
		what = b.Class + "::" + b.Method.Name
		res = d.run(b, id, args)
		return nil
	})
	if err != nil {
		res = failed(StageInvoke, abi.InvalidMethod(), err)
	}
	return d.record(res, what)
}

// CallMethod implements abi.InstanceCallbacks.
func (d *Dispatcher) CallMethod(bind gdbind.MethodBindID, id gdbind.InstanceID, args []variant.Variant) (variant.Variant, abi.CallError) {
	res := d.Call(bind, id, args)
	return res.Value, res.Status
}

// GetVirtual implements abi.InstanceCallbacks.
func (d *Dispatcher) GetVirtual(class, name string) (abi.VirtualBind, bool) {
	return d.registry.Virtual(class, name)
}

// CallVirtualBind runs a virtual override through a bind handed out by
// GetVirtual. Binds issued before the class was re-registered fail with
// stale_metadata.
func (d *Dispatcher) CallVirtualBind(bind abi.VirtualBind, id gdbind.InstanceID, args []variant.Variant) (res Result) {
	d.calls.Add(1)
	what := bind.Class + "::" + bind.Name
	err := d.contain(bind.Class, bind.Name, func() error {
		b, err := d.registry.ResolveVirtual(bind)
		if err != nil {
			res = failed(StageUnmarshalArgs, abi.InvalidMethod(), err)
			return nil
		}
		res = d.run(b, id, args)
		return nil
	})
	if err != nil {
		res = failed(StageInvoke, abi.InvalidMethod(), err)
	}
	return d.record(res, what)
}

// CallVirtual implements abi.InstanceCallbacks.
func (d *Dispatcher) CallVirtual(bind abi.VirtualBind, id gdbind.InstanceID, args []variant.Variant) (variant.Variant, abi.CallError) {
	res := d.CallVirtualBind(bind, id, args)
	return res.Value, res.Status
}

// Virtual calls the override of virtual name for the concrete class of
// instance id. A class without an override fails with stale_metadata.
func (d *Dispatcher) Virtual(id gdbind.InstanceID, name string, args ...variant.Variant) Result {
	e, err := d.storage.Lookup(id)
	if err != nil {
		d.calls.Add(1)
		return d.record(failed(StageLookupInstance, abi.CallError{Code: abi.CallErrorInstanceIsNull}, err), name)
	}
	bind, ok := d.registry.Virtual(e.Class, name)
	if !ok {
		d.calls.Add(1)
		return d.record(failed(StageUnmarshalArgs, abi.InvalidMethod(),
			errors.StaleMetadata(e.Class, name, "no override")), e.Class+"::"+name)
	}
	return d.CallVirtualBind(bind, id, args)
}

// Get implements abi.InstanceCallbacks. It reports false for names that are
// not native properties so the engine can fall back to its own.
func (d *Dispatcher) Get(id gdbind.InstanceID, name string) (variant.Variant, bool) {
	v, err := d.GetProperty(id, name)
	if err != nil {
		if !errors.IsKind(err, errors.KindNotFound) {
			d.failures.Add(1)
			Logger().Debug("property read failed", zap.String("property", name), zap.Error(err))
		}
		return variant.Nil(), false
	}
	return v, true
}

// Set implements abi.InstanceCallbacks.
func (d *Dispatcher) Set(id gdbind.InstanceID, name string, value variant.Variant) bool {
	if err := d.SetProperty(id, name, value); err != nil {
		if !errors.IsKind(err, errors.KindNotFound) {
			d.failures.Add(1)
			Logger().Debug("property write failed", zap.String("property", name), zap.Error(err))
		}
		return false
	}
	return true
}

// GetProperty reads property name of instance id through its getter.
func (d *Dispatcher) GetProperty(id gdbind.InstanceID, name string) (variant.Variant, error) {
	e, err := d.storage.Lookup(id)
	if err != nil {
		return variant.Nil(), err
	}
	p, owner, ok := d.registry.Property(e.Class, name)
	if !ok {
		return variant.Nil(), errors.New(errors.PhaseDispatch, errors.KindNotFound).
			Class(e.Class).
			Member(name).
			Detail("no such property").
			Build()
	}
	m, _, ok := d.registry.Method(owner, p.Getter)
	if !ok {
		return variant.Nil(), errors.StaleMetadata(owner, p.Getter, "getter is not registered")
	}
	res := d.run(classdb.Binding{Class: owner, Method: m}, id, nil)
	return res.Value, res.Err
}

// SetProperty writes property name of instance id through its setter.
// Read-only properties reject writes.
func (d *Dispatcher) SetProperty(id gdbind.InstanceID, name string, value variant.Variant) error {
	e, err := d.storage.Lookup(id)
	if err != nil {
		return err
	}
	p, owner, ok := d.registry.Property(e.Class, name)
	if !ok {
		return errors.New(errors.PhaseDispatch, errors.KindNotFound).
			Class(e.Class).
			Member(name).
			Detail("no such property").
			Build()
	}
	if p.Setter == "" {
		return errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
			Class(owner).
			Member(name).
			Detail("property is read-only").
			Build()
	}
	m, _, ok := d.registry.Method(owner, p.Setter)
	if !ok {
		return errors.StaleMetadata(owner, p.Setter, "setter is not registered")
	}
	return d.run(classdb.Binding{Class: owner, Method: m}, id, []variant.Variant{value}).Err
}

// Notification implements abi.InstanceCallbacks.
func (d *Dispatcher) Notification(id gdbind.InstanceID, what int32) {
	e, ok := d.storage.Get(id)
	if !ok {
		return
	}
	n, ok := e.Payload.(Notifier)
	if !ok {
		return
	}
	err := d.contain(e.Class, "notification", func() error {
		n.Notification(what)
		return nil
	})
	if err != nil {
		d.failures.Add(1)
	}
}

// ToString implements abi.InstanceCallbacks.
func (d *Dispatcher) ToString(id gdbind.InstanceID) (string, bool) {
	e, ok := d.storage.Get(id)
	if !ok {
		return "", false
	}
	s, ok := e.Payload.(fmt.Stringer)
	if !ok {
		return "", false
	}
	var out string
	err := d.contain(e.Class, "to_string", func() error {
		out = s.String()
		return nil
	})
	if err != nil {
		d.failures.Add(1)
		return "", false
	}
	return out, true
}
