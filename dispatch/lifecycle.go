package dispatch

import (
	"go.uber.org/zap"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/instance"
	"github.com/wippyai/gdbind/object"
)

// Attacher is implemented by payloads that want a handle to their own
// engine object. Attach runs once, after the instance is registered.
type Attacher interface {
	Attach(self *object.Handle)
}

// Base can be embedded in a payload to receive its engine object. The
// handle is weak; Clone it to hand out an owning reference.
type Base struct {
	self *object.Handle
}

// Attach implements Attacher.
func (b *Base) Attach(self *object.Handle) { b.self = self }

// Object returns the instance's own engine object.
func (b *Base) Object() *object.Handle { return b.self }

// Create implements abi.InstanceCallbacks. It constructs the engine base
// object, builds the payload, binds the two and registers the instance. If
// any step fails the instance is unregistered and the base object
// destroyed.
func (d *Dispatcher) Create(class string) (_ gdbind.ObjectPtr, err error) {
	desc, ok := d.registry.Class(class)
	if !ok {
		return 0, errors.NotFound(errors.PhaseInstance, "class", class)
	}
	if desc.Abstract {
		return 0, errors.New(errors.PhaseInstance, errors.KindInvalidInput).
			Class(class).
			Detail("abstract classes cannot be instantiated").
			Build()
	}

	base := d.registry.EngineBase(class)
	ptr, err := d.host.ConstructObject(base)
	if err != nil {
		return 0, errors.New(errors.PhaseInstance, errors.KindOf(err)).
			Class(class).
			Cause(err).
			Detail("construct base object %s", base).
			Build()
	}
	id := d.host.InstanceID(ptr)

	var payload any
	registered := false
	defer func() {
		if err == nil {
			return
		}
		if registered {
			d.storage.Unregister(id)
		}
		d.host.DestroyObject(ptr)
		Logger().Warn("instance construction rolled back",
			zap.String("class", class),
			zap.Uint64("id", uint64(id)),
			zap.Error(err))
	}()

	err = d.contain(class, "new", func() error {
		payload = desc.NewInstance()
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err = d.storage.Register(id, class, payload); err != nil {
		return 0, err
	}
	registered = true
	if err = d.host.SetInstance(ptr, class); err != nil {
		return 0, errors.New(errors.PhaseInstance, errors.KindOf(err)).
			Class(class).
			Value(uint64(id)).
			Cause(err).
			Detail("bind instance").
			Build()
	}

	if a, ok := payload.(Attacher); ok {
		var self *object.Handle
		if self, err = d.objects.Weak(ptr, id, class); err != nil {
			return 0, err
		}
		if err = d.contain(class, "attach", func() error {
			a.Attach(self)
			return nil
		}); err != nil {
			return 0, err
		}
	}

	Logger().Debug("instance created",
		zap.String("class", class),
		zap.String("base", base),
		zap.Uint64("id", uint64(id)))
	return ptr, nil
}

// Construct instantiates a native class from Go and returns an owning
// handle to it.
func (d *Dispatcher) Construct(class string) (*object.Handle, error) {
	ptr, err := d.Create(class)
	if err != nil {
		return nil, err
	}
	id := d.host.InstanceID(ptr)
	h, err := d.objects.Wrap(ptr, id, class, d.objects.OwnershipOf(class))
	if err != nil {
		d.host.DestroyObject(ptr)
		return nil, err
	}
	return h, nil
}

// Free implements abi.InstanceCallbacks. The payload is removed from the
// instance table; payloads implementing instance.Dropper are dropped.
func (d *Dispatcher) Free(id gdbind.InstanceID) {
	var (
		e  instance.Entry
		ok bool
	)
	err := d.contain("", "free", func() error {
		e, ok = d.storage.Unregister(id)
		return nil
	})
	if err != nil {
		d.failures.Add(1)
		return
	}
	if !ok {
		Logger().Debug("free of unknown instance", zap.Uint64("id", uint64(id)))
		return
	}
	Logger().Debug("instance freed",
		zap.String("class", e.Class),
		zap.Uint64("id", uint64(id)))
}
