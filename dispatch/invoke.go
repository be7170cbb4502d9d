package dispatch

import (
	"fmt"
	"reflect"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/classdb"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/object"
	"github.com/wippyai/gdbind/variant"
)

var handleType = reflect.TypeFor[*object.Handle]()

// run takes a resolved method through the inbound stages.
func (d *Dispatcher) run(b classdb.Binding, id gdbind.InstanceID, args []variant.Variant) Result {
	m := &b.Method

	in, st, err := d.unmarshalArgs(b.Class, m, args)
	if err != nil {
		return failed(StageUnmarshalArgs, st, err)
	}

	e, err := d.storage.Lookup(id)
	if err != nil {
		return failed(StageLookupInstance, abi.CallError{Code: abi.CallErrorInstanceIsNull}, err)
	}
	if e.Class != b.Class && !d.registry.IsSubclass(e.Class, b.Class) {
		return failed(StageLookupInstance, abi.InvalidMethod(), errors.New(errors.PhaseDispatch, errors.KindMethodNotFound).
			Class(e.Class).
			Member(m.Name).
			Detail("method belongs to %s", b.Class).
			Build())
	}

	out, err := d.invoke(e.Class, m, e.Payload, in)
	if err != nil {
		return failed(StageInvoke, abi.InvalidMethod(), err)
	}

	v, err := marshalResult(e.Class, m, out)
	if err != nil {
		return failed(StageMarshalResult, abi.InvalidMethod(), err)
	}
	return Result{Value: v}
}

func (d *Dispatcher) unmarshalArgs(class string, m *classdb.MethodDescriptor, args []variant.Variant) ([]reflect.Value, abi.CallError, error) {
	want := len(m.Params)
	if len(args) < want || (len(args) > want && !m.Vararg()) {
		return nil, abi.ArgumentCount(len(args), want), errors.ArgumentMismatch(errors.PhaseDispatch, class, m.Name,
			fmt.Sprintf("%s called with %d arguments", m.Signature(), len(args)))
	}
	in := make([]reflect.Value, 0, len(args))
	for i, a := range args {
		p := m.VarargElem
		if i < want {
			p = &m.Params[i]
		}
		v, err := d.argValue(a, p.GoType)
		if err != nil {
			return nil, abi.InvalidArgument(i, int32(p.Type)), errors.New(errors.PhaseDispatch, errors.KindArgumentMismatch).
				Class(class).
				Member(m.Name).
				Path(p.Name).
				Cause(err).
				Detail("argument %d", i).
				Build()
		}
		in = append(in, v)
	}
	return in, abi.CallError{}, nil
}

// argValue converts one engine argument. Object arguments arrive as weak
// handles; a method that keeps one must Clone it.
func (d *Dispatcher) argValue(v variant.Variant, t reflect.Type) (reflect.Value, error) {
	if t == handleType {
		h, err := d.objects.Borrow(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(h), nil
	}
	return variant.ToValue(v, t)
}

// invoke calls m on payload. Methods promoted from an embedded type are
// called through the payload's own method set.
func (d *Dispatcher) invoke(class string, m *classdb.MethodDescriptor, payload any, in []reflect.Value) (out []reflect.Value, err error) {
	recv := reflect.ValueOf(payload)
	fn := m.Func
	if fn.IsValid() && recv.Type() == fn.Type().In(0) {
		in = append([]reflect.Value{recv}, in...)
	} else {
		fn = recv.MethodByName(m.GoName)
		if !fn.IsValid() {
			return nil, errors.New(errors.PhaseDispatch, errors.KindMethodNotFound).
				Class(class).
				Member(m.Name).
				GoType(recv.Type().String()).
				Detail("payload has no method %s", m.GoName).
				Build()
		}
	}

	err = d.contain(class, m.Name, func() error {
		out = fn.Call(in)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if m.ReturnsError {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			cause := last.Interface().(error)
			return nil, errors.NativeFailure(class, m.Name, nil, cause)
		}
	}
	return out, nil
}

func marshalResult(class string, m *classdb.MethodDescriptor, out []reflect.Value) (variant.Variant, error) {
	if m.Return == nil || len(out) == 0 {
		return variant.Nil(), nil
	}
	v, err := variant.FromValue(out[0])
	if err != nil {
		return variant.Nil(), errors.New(errors.PhaseDispatch, errors.KindOf(err)).
			Class(class).
			Member(m.Name).
			Cause(err).
			Detail("return value").
			Build()
	}
	return v, nil
}
