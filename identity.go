package gdbind

import "strconv"

// InstanceID is the engine-assigned identity of an object instance.
// Zero is never a valid instance.
type InstanceID uint64

// IsValid reports whether id could refer to a live instance.
func (id InstanceID) IsValid() bool {
	return id != 0
}

func (id InstanceID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ObjectPtr is an opaque engine object pointer. It is only ever passed back to
// the engine and never dereferenced on the Go side.
type ObjectPtr uintptr

// IsNil reports whether p is the null pointer.
func (p ObjectPtr) IsNil() bool {
	return p == 0
}

// MethodBindID identifies a registered native method on the engine side.
// Zero is reserved.
type MethodBindID uint32
