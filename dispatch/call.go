package dispatch

import (
	"fmt"

	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/object"
	"github.com/wippyai/gdbind/variant"
)

// Call calls method on the engine object behind h and converts the result
// to T. An *object.Handle result is an owning handle.
func Call[T any](h *object.Handle, method string, args ...any) (T, error) {
	var zero T
	vs, err := marshalArgs(args)
	if err != nil {
		return zero, errors.New(errors.PhaseDispatch, errors.KindOf(err)).
			Class(h.ClassName()).
			Member(method).
			Cause(err).
			Detail("marshal arguments").
			Build()
	}
	ret, err := h.Call(method, vs...)
	if err != nil {
		return zero, err
	}
	return unmarshalResult[T](h, method, ret)
}

// CallVoid calls method and discards its result.
func CallVoid(h *object.Handle, method string, args ...any) error {
	_, err := Call[variant.Variant](h, method, args...)
	return err
}

func marshalArgs(args []any) ([]variant.Variant, error) {
	vs := make([]variant.Variant, len(args))
	for i, a := range args {
		v, err := variant.From(a)
		if err != nil {
			return nil, errors.WithPath(err, fmt.Sprintf("[%d]", i))
		}
		vs[i] = v
	}
	return vs, nil
}

func unmarshalResult[T any](h *object.Handle, method string, ret variant.Variant) (T, error) {
	var zero T
	if _, ok := any(zero).(*object.Handle); ok {
		out, err := h.Manager().FromVariant(ret)
		if err != nil {
			return zero, err
		}
		return any(out).(T), nil
	}
	out, err := variant.To[T](ret)
	if err != nil {
		return zero, errors.New(errors.PhaseDispatch, errors.KindOf(err)).
			Class(h.ClassName()).
			Member(method).
			Cause(err).
			Detail("unmarshal result").
			Build()
	}
	return out, nil
}

// Emit emits signal on h. When h is an instance of a native class that
// declares the signal, the arguments are checked against the declaration
// first.
func (d *Dispatcher) Emit(h *object.Handle, signal string, args ...any) error {
	vs, err := marshalArgs(args)
	if err != nil {
		return errors.New(errors.PhaseDispatch, errors.KindOf(err)).
			Class(h.ClassName()).
			Member(signal).
			Cause(err).
			Detail("marshal arguments").
			Build()
	}

	class := h.ClassName()
	if e, ok := d.storage.Get(h.InstanceID()); ok {
		class = e.Class
	}
	if sig, ok := d.registry.Signal(class, signal); ok {
		if len(vs) != len(sig.Params) {
			return errors.ArgumentMismatch(errors.PhaseDispatch, class, signal,
				fmt.Sprintf("signal takes %d arguments, got %d", len(sig.Params), len(vs)))
		}
		for i, p := range sig.Params {
			if p.AcceptsAny() || vs[i].Type() == p.Type {
				continue
			}
			if p.Type == variant.TypeObject && vs[i].IsNil() {
				continue
			}
			return errors.New(errors.PhaseDispatch, errors.KindArgumentMismatch).
				Class(class).
				Member(signal).
				Path(p.Name).
				VariantType(vs[i].Type().String()).
				Detail("want %s", p.Type).
				Build()
		}
	} else if d.registry.Has(class) && !d.engineSignal(class, signal) {
		return errors.New(errors.PhaseDispatch, errors.KindNotFound).
			Class(class).
			Member(signal).
			Detail("no such signal").
			Build()
	}
	return h.Emit(signal, vs...)
}

// engineSignal reports whether an engine ancestor of class declares
// signal. Without metadata every name is accepted and left to the engine.
func (d *Dispatcher) engineSignal(class, signal string) bool {
	ctx := d.registry.API()
	if ctx == nil {
		return true
	}
	for _, base := range d.registry.Bases(class) {
		if c, ok := ctx.Class(base); ok && c.HasSignal(signal) {
			return true
		}
	}
	return false
}
