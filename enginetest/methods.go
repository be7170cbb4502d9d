package enginetest

import (
	"fmt"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/variant"
)

// errUnavailable is the engine Error value returned by emit_signal for an
// undeclared signal.
const errUnavailable = 2

var nativeSignals = map[string][]string{
	"Object":   {"script_changed", "property_list_changed"},
	"Resource": {"changed"},
	"Node":     {"ready", "renamed", "tree_entered", "tree_exiting"},
}

func objectMethods() map[string]methodFunc {
	return map[string]methodFunc{
		"get_class": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			if st := arity(args, 0); !st.OK() {
				return variant.Nil(), st
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			return variant.NewString(o.class), abi.CallError{}
		},
		"is_class": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			name, st := stringArg(args, 0, 1)
			if !st.OK() {
				return variant.Nil(), st
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			return variant.NewBool(e.inheritsLocked(o.class, name)), abi.CallError{}
		},
		"has_method": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			name, st := stringArg(args, 0, 1)
			if !st.OK() {
				return variant.Nil(), st
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			_, _, ok := e.resolveLocked(o.class, name)
			return variant.NewBool(ok), abi.CallError{}
		},
		"has_signal": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			name, st := stringArg(args, 0, 1)
			if !st.OK() {
				return variant.Nil(), st
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			return variant.NewBool(e.hasSignalLocked(o.class, name)), abi.CallError{}
		},
		"get_instance_id": func(_ *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			if st := arity(args, 0); !st.OK() {
				return variant.Nil(), st
			}
			return variant.NewInt(int64(o.id)), abi.CallError{}
		},
		"get": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			name, st := stringArg(args, 0, 1)
			if !st.OK() {
				return variant.Nil(), st
			}
			if cb := e.callbacksOf(o); cb != nil {
				if v, ok := cb.Get(o.id, name); ok {
					return v, abi.CallError{}
				}
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			return o.props[name], abi.CallError{}
		},
		"set": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			if st := arity(args, 2); !st.OK() {
				return variant.Nil(), st
			}
			name, st := stringArg(args[:1], 0, 1)
			if !st.OK() {
				return variant.Nil(), st
			}
			if cb := e.callbacksOf(o); cb != nil && cb.Set(o.id, name, args[1]) {
				return variant.Nil(), abi.CallError{}
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			o.props[name] = args[1]
			return variant.Nil(), abi.CallError{}
		},
		"connect": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			if st := arity(args, 2); !st.OK() {
				return variant.Nil(), st
			}
			name, st := stringArg(args[:1], 0, 1)
			if !st.OK() {
				return variant.Nil(), st
			}
			target, ok := args[1].AsCallable()
			if !ok || target.IsNull() {
				return variant.Nil(), abi.InvalidArgument(1, int32(variant.TypeCallable))
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			if !e.hasSignalLocked(o.class, name) {
				return variant.NewInt(errUnavailable), abi.CallError{}
			}
			o.connections[name] = append(o.connections[name], target)
			return variant.NewInt(0), abi.CallError{}
		},
		"emit_signal": emitSignal,
		"to_string": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			if st := arity(args, 0); !st.OK() {
				return variant.Nil(), st
			}
			if cb := e.callbacksOf(o); cb != nil {
				if s, ok := cb.ToString(o.id); ok {
					return variant.NewString(s), abi.CallError{}
				}
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			return variant.NewString(fmt.Sprintf("<%s#%d>", o.class, o.id)), abi.CallError{}
		},
		"notification": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			if st := arity(args, 1); !st.OK() {
				return variant.Nil(), st
			}
			what, ok := args[0].AsInt()
			if !ok {
				return variant.Nil(), abi.InvalidArgument(0, int32(variant.TypeInt))
			}
			if cb := e.callbacksOf(o); cb != nil {
				cb.Notification(o.id, int32(what))
			}
			return variant.Nil(), abi.CallError{}
		},
		"call": func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
			if len(args) == 0 {
				return variant.Nil(), abi.ArgumentCount(0, 1)
			}
			name, st := stringArg(args[:1], 0, 1)
			if !st.OK() {
				return variant.Nil(), st
			}
			return e.ObjectMethodCall(o.ptr, name, args[1:])
		},
	}
}

// emitSignal delivers args to every connection of the signal. Method
// callables whose target is gone are skipped.
func emitSignal(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
	if len(args) == 0 {
		return variant.Nil(), abi.ArgumentCount(0, 1)
	}
	name, st := stringArg(args[:1], 0, 1)
	if !st.OK() {
		return variant.Nil(), st
	}
	payload := append([]variant.Variant(nil), args[1:]...)

	e.mu.Lock()
	if !e.hasSignalLocked(o.class, name) {
		e.mu.Unlock()
		return variant.NewInt(errUnavailable), abi.CallError{}
	}
	e.emissions[o.id] = append(e.emissions[o.id], Emission{Signal: name, Args: payload})
	targets := append([]variant.Callable(nil), o.connections[name]...)
	e.mu.Unlock()

	for _, c := range targets {
		if c.IsCustom() {
			_, _ = c.CallCustom(payload...)
			continue
		}
		ref, _ := c.Object()
		method, _ := c.MethodName()
		ptr := e.InstanceFromID(ref.ID)
		if ptr == 0 {
			continue
		}
		e.ObjectMethodCall(ptr, string(method), payload)
	}
	return variant.NewInt(0), abi.CallError{}
}

func (e *Engine) hasSignalLocked(className, signal string) bool {
	for name := className; name != ""; {
		c, ok := e.classes[name]
		if !ok {
			return false
		}
		if c.extension {
			if _, ok := c.signals[signal]; ok {
				return true
			}
		}
		for _, s := range nativeSignals[name] {
			if s == signal {
				return true
			}
		}
		name = c.parent
	}
	return false
}

func (e *Engine) callbacksOf(o *object) abi.InstanceCallbacks {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !o.extension {
		return nil
	}
	if c := e.classes[o.class]; c != nil {
		return c.callbacks
	}
	return nil
}

func propGetter(name string, def variant.Variant) methodFunc {
	return func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
		if st := arity(args, 0); !st.OK() {
			return variant.Nil(), st
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		if v, ok := o.props[name]; ok {
			return v, abi.CallError{}
		}
		return def, abi.CallError{}
	}
}

func propSetter(name string) methodFunc {
	return func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError) {
		if st := arity(args, 1); !st.OK() {
			return variant.Nil(), st
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		o.props[name] = args[0]
		return variant.Nil(), abi.CallError{}
	}
}

func arity(args []variant.Variant, want int) abi.CallError {
	if len(args) != want {
		return abi.ArgumentCount(len(args), want)
	}
	return abi.CallError{}
}

func stringArg(args []variant.Variant, i, want int) (string, abi.CallError) {
	if st := arity(args, want); !st.OK() {
		return "", st
	}
	if s, ok := args[i].AsString(); ok {
		return s, abi.CallError{}
	}
	if s, ok := args[i].AsStringName(); ok {
		return string(s), abi.CallError{}
	}
	return "", abi.InvalidArgument(i, int32(variant.TypeStringName))
}

// objectByID returns the live object with id.
func (e *Engine) objectByID(id gdbind.InstanceID) (*object, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.byID[id]
	return o, ok
}
