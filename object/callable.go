package object

import (
	"go.uber.org/zap"

	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

// CallableIsValid reports whether c can be called: a custom callable with a
// function, or a method callable whose object is alive and has the method.
func (m *Manager) CallableIsValid(c variant.Callable) bool {
	if c.IsNull() {
		return false
	}
	if c.IsCustom() {
		return true
	}
	ref, _ := c.Object()
	method, _ := c.MethodName()
	ptr := m.host.InstanceFromID(ref.ID)
	if ptr.IsNil() {
		return false
	}
	ret, st := m.host.ObjectMethodCall(ptr, "has_method", []variant.Variant{variant.NewStringName(method)})
	if !st.OK() {
		return false
	}
	ok, _ := ret.AsBool()
	return ok
}

// CallCallable calls c with args.
func (m *Manager) CallCallable(c variant.Callable, args ...variant.Variant) (variant.Variant, error) {
	if c.IsNull() {
		return variant.Nil(), errors.InvalidInput(errors.PhaseObject, "call of null callable")
	}
	if c.IsCustom() {
		return c.CallCustom(args...)
	}
	ref, _ := c.Object()
	method, _ := c.MethodName()
	ptr := m.host.InstanceFromID(ref.ID)
	if ptr.IsNil() {
		return variant.Nil(), errors.StaleReference(errors.PhaseObject, ref.Class, uint64(ref.ID))
	}
	ret, st := m.host.ObjectMethodCall(ptr, string(method), args)
	if err := m.callStatus(ref.Class, string(method), st); err != nil {
		return variant.Nil(), err
	}
	return ret, nil
}

// Callv calls c with the elements of args and returns Nil on any failure.
func (m *Manager) Callv(c variant.Callable, args *variant.Array) variant.Variant {
	ret, err := m.CallCallable(c, args.Values()...)
	if err != nil {
		Logger().Debug("callv failed", zap.Stringer("callable", c), zap.Error(err))
		return variant.Nil()
	}
	return ret
}
