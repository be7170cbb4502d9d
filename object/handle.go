package object

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/internal/guard"
	"github.com/wippyai/gdbind/variant"
)

// Handle is a reference to an engine object. Handles are not copied by
// value; use Clone.
type Handle struct {
	m        *Manager
	state    *shared
	class    string
	ptr      gdbind.ObjectPtr
	id       gdbind.InstanceID
	released guard.Flag
	own      Ownership
}

var _ variant.Object = (*Handle)(nil)

// InstanceID returns the engine identity of the object.
func (h *Handle) InstanceID() gdbind.InstanceID { return h.id }

// ClassName returns the class the handle was created with.
func (h *Handle) ClassName() string { return h.class }

// Ptr returns the engine pointer. It is only meaningful while IsValid.
func (h *Handle) Ptr() gdbind.ObjectPtr { return h.ptr }

// Ownership returns the handle's ownership tag.
func (h *Handle) Ownership() Ownership { return h.own }

// Manager returns the manager that created the handle.
func (h *Handle) Manager() *Manager { return h.m }

// ObjectRef returns the non-owning identity record of the object.
func (h *Handle) ObjectRef() variant.ObjectRef {
	if h == nil {
		return variant.ObjectRef{}
	}
	return variant.ObjectRef{ID: h.id, Ptr: h.ptr, Class: h.class}
}

// Variant returns an Object variant referring to the same object. The
// variant does not keep the object alive.
func (h *Handle) Variant() variant.Variant {
	return variant.NewObject(h.ObjectRef())
}

// IsValid reports whether the object is still alive and this handle has not
// been released. It never dereferences the pointer.
func (h *Handle) IsValid() bool {
	return h.check() == nil
}

func (h *Handle) check() error {
	if h == nil {
		return errors.New(errors.PhaseObject, errors.KindStaleReference).
			Detail("nil handle").
			Build()
	}
	if h.released.IsSet() {
		return errors.New(errors.PhaseObject, errors.KindStaleReference).
			Class(h.class).
			Value(uint64(h.id)).
			Detail("handle already released").
			Build()
	}
	if h.state != nil && h.state.freed.IsSet() {
		return errors.StaleReference(errors.PhaseObject, h.class, uint64(h.id))
	}
	if h.m.host.InstanceFromID(h.id) != h.ptr {
		return errors.StaleReference(errors.PhaseObject, h.class, uint64(h.id))
	}
	return nil
}

// Clone returns a second handle to the same object. For reference counted
// objects the engine count is incremented. The clone of a weak handle owns
// the object like a handle from Manager.New would.
func (h *Handle) Clone() (*Handle, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	if h.own == Weak {
		return h.m.Wrap(h.ptr, h.id, h.class, h.m.OwnershipOf(h.class))
	}
	c := &Handle{m: h.m, ptr: h.ptr, id: h.id, class: h.class, own: h.own}
	switch h.own {
	case RefCounted:
		h.m.host.Reference(h.ptr)
	case Manual:
		h.m.retain(h.state)
		c.state = h.state
	}
	return c, nil
}

// Equal reports whether both handles refer to the same instance.
func (h *Handle) Equal(o *Handle) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.id == o.id
}

// RefCount returns the engine reference count of a reference counted
// object.
func (h *Handle) RefCount() (int64, error) {
	if h.own != RefCounted {
		return 0, errors.InvalidInput(errors.PhaseObject, h.class+" is not reference counted")
	}
	if err := h.check(); err != nil {
		return 0, err
	}
	return h.m.host.RefCount(h.ptr), nil
}

// Free destroys a manually managed object. Freeing an instance a second
// time, through any handle, is a double_free error.
func (h *Handle) Free() error {
	if h == nil {
		return errors.InvalidInput(errors.PhaseObject, "free of nil handle")
	}
	if h.own != Manual {
		return errors.New(errors.PhaseObject, errors.KindInvalidInput).
			Class(h.class).
			Value(uint64(h.id)).
			Detail("%s handles are released with Drop", h.own).
			Build()
	}
	if h.state.freed.IsSet() {
		return errors.DoubleFree(h.class, uint64(h.id))
	}
	if h.released.IsSet() {
		return h.check()
	}
	if !h.state.freed.Set() {
		return errors.DoubleFree(h.class, uint64(h.id))
	}
	h.released.Set()
	h.m.detach(h.id, h.state)

	if h.m.host.InstanceFromID(h.id) != h.ptr {
		return errors.StaleReference(errors.PhaseObject, h.class, uint64(h.id))
	}
	h.m.host.DestroyObject(h.ptr)
	Logger().Debug("object freed",
		zap.String("class", h.class),
		zap.Uint64("id", uint64(h.id)))
	return nil
}

// Drop releases this handle. For reference counted objects the engine count
// is decremented and the object destroyed at zero. Dropping a handle twice
// is a no-op.
func (h *Handle) Drop() {
	if h == nil || !h.released.Set() {
		return
	}
	alive := h.m.host.InstanceFromID(h.id) == h.ptr

	switch h.own {
	case RefCounted:
		if alive && h.m.host.Unreference(h.ptr) {
			h.m.host.DestroyObject(h.ptr)
			Logger().Debug("object released",
				zap.String("class", h.class),
				zap.Uint64("id", uint64(h.id)))
		}
	case Weak:
	case Manual:
		if !h.m.release(h.id, h.state) {
			return
		}
		if alive && !h.state.freed.IsSet() {
			h.m.recordLeak(h.class, h.id)
		}
	}
}

// Call invokes method on the object through the engine.
func (h *Handle) Call(method string, args ...variant.Variant) (variant.Variant, error) {
	if err := h.check(); err != nil {
		return variant.Nil(), err
	}
	ret, st := h.m.host.ObjectMethodCall(h.ptr, method, args)
	if err := h.m.callStatus(h.class, method, st); err != nil {
		return variant.Nil(), err
	}
	return ret, nil
}

// HasMethod asks the object whether it has method.
func (h *Handle) HasMethod(method string) bool {
	ret, err := h.Call("has_method", variant.NewStringName(variant.StringName(method)))
	if err != nil {
		return false
	}
	ok, _ := ret.AsBool()
	return ok
}

// IsClass reports whether the object is an instance of class.
func (h *Handle) IsClass(class string) bool {
	ret, err := h.Call("is_class", variant.NewString(class))
	if err != nil {
		return false
	}
	ok, _ := ret.AsBool()
	return ok
}

// Get reads a property.
func (h *Handle) Get(property string) (variant.Variant, error) {
	return h.Call("get", variant.NewStringName(variant.StringName(property)))
}

// Set writes a property.
func (h *Handle) Set(property string, value variant.Variant) error {
	_, err := h.Call("set", variant.NewStringName(variant.StringName(property)), value)
	return err
}

// Emit emits signal with args.
func (h *Handle) Emit(signal string, args ...variant.Variant) error {
	all := make([]variant.Variant, 0, len(args)+1)
	all = append(all, variant.NewStringName(variant.StringName(signal)))
	all = append(all, args...)
	ret, err := h.Call("emit_signal", all...)
	if err != nil {
		return err
	}
	if code, _ := ret.AsInt(); code != 0 {
		return errors.New(errors.PhaseObject, errors.KindNotFound).
			Class(h.class).
			Member(signal).
			Detail("emit_signal returned error %d", code).
			Build()
	}
	return nil
}

// Connect connects signal to target.
func (h *Handle) Connect(signal string, target variant.Callable) error {
	ret, err := h.Call("connect", variant.NewStringName(variant.StringName(signal)), variant.NewCallable(target))
	if err != nil {
		return err
	}
	if code, _ := ret.AsInt(); code != 0 {
		return errors.New(errors.PhaseObject, errors.KindNotFound).
			Class(h.class).
			Member(signal).
			Detail("connect returned error %d", code).
			Build()
	}
	return nil
}

// Callable returns a callable targeting method on this object.
func (h *Handle) Callable(method string) variant.Callable {
	return variant.MethodCallable(h.ObjectRef(), variant.StringName(method))
}

func (h *Handle) String() string {
	if h == nil {
		return "<Object#null>"
	}
	return fmt.Sprintf("<%s#%d %s>", h.class, h.id, h.own)
}
