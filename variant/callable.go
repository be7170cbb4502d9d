package variant

import (
	"fmt"
	"hash/fnv"
	"sync/atomic"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/errors"
)

// CustomFunc is the body of a custom callable.
type CustomFunc func(args ...Variant) (Variant, error)

type customCallable struct {
	fn   CustomFunc
	name string
	id   uint64
}

var customIDs atomic.Uint64

// Callable references either a method on an engine object or a Go function.
// The zero Callable is the invalid callable.
type Callable struct {
	custom *customCallable
	object ObjectRef
	method StringName
}

// InvalidCallable is the null callable.
var InvalidCallable = Callable{}

// MethodCallable returns a callable that invokes method on obj.
func MethodCallable(obj ObjectRef, method StringName) Callable {
	return Callable{object: obj, method: method}
}

// CustomCallable wraps fn. Two custom callables are equal only if they come
// from the same CustomCallable call.
func CustomCallable(name string, fn CustomFunc) Callable {
	return Callable{custom: &customCallable{fn: fn, name: name, id: customIDs.Add(1)}}
}

// IsNull reports whether the callable has neither a target object and method
// nor a custom function.
func (c Callable) IsNull() bool {
	if c.custom != nil {
		return c.custom.fn == nil
	}
	return c.object.IsNull() || c.method == ""
}

// IsCustom reports whether the callable wraps a Go function.
func (c Callable) IsCustom() bool { return c.custom != nil }

// IsStandard reports whether the callable targets an object method.
func (c Callable) IsStandard() bool { return c.custom == nil && !c.IsNull() }

// Object returns the target object of a method callable.
func (c Callable) Object() (ObjectRef, bool) {
	if c.custom != nil || c.object.IsNull() {
		return ObjectRef{}, false
	}
	return c.object, true
}

// ObjectID returns the target instance id, or zero.
func (c Callable) ObjectID() gdbind.InstanceID {
	if c.custom != nil {
		return 0
	}
	return c.object.ID
}

// MethodName returns the method of a method callable.
func (c Callable) MethodName() (StringName, bool) {
	if c.custom != nil || c.method == "" {
		return "", false
	}
	return c.method, true
}

// CallCustom invokes a custom callable directly.
func (c Callable) CallCustom(args ...Variant) (Variant, error) {
	if c.custom == nil || c.custom.fn == nil {
		return Variant{}, errors.InvalidInput(errors.PhaseConvert, fmt.Sprintf("callable %s is not a custom callable", c))
	}
	return c.custom.fn(args...)
}

// Equal compares target and method, or custom identity.
func (c Callable) Equal(o Callable) bool {
	if c.custom != nil || o.custom != nil {
		return c.custom == o.custom
	}
	return c.object.ID == o.object.ID && c.method == o.method
}

// Hash is stable for equal callables and differs between methods of the same
// object.
func (c Callable) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	if c.custom != nil {
		h.Write([]byte{1})
		putUint64(buf[:], c.custom.id)
		h.Write(buf[:])
		return h.Sum64()
	}
	h.Write([]byte{0})
	putUint64(buf[:], uint64(c.object.ID))
	h.Write(buf[:])
	h.Write([]byte(c.method))
	return h.Sum64()
}

func (c Callable) String() string {
	if c.custom != nil {
		if c.custom.name != "" {
			return c.custom.name
		}
		return "<CustomCallable>"
	}
	if c.IsNull() {
		return "null::null"
	}
	class := c.object.Class
	if class == "" {
		class = "Object"
	}
	return fmt.Sprintf("%s::%s", class, c.method)
}

// Signal references a signal on an engine object.
type Signal struct {
	Object ObjectRef
	Name   StringName
}

func (s Signal) IsNull() bool {
	return s.Object.IsNull() || s.Name == ""
}

func (s Signal) String() string {
	if s.IsNull() {
		return "null::null"
	}
	return fmt.Sprintf("%s::[signal]%s", s.Object, s.Name)
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
