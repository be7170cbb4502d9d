package abi

import (
	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/variant"
)

// PropertyHint narrows how the editor presents a value.
type PropertyHint int32

const (
	HintNone PropertyHint = iota
	HintRange
	HintEnum
)

// PropertyUsage flags.
type PropertyUsage uint32

const (
	UsageStorage PropertyUsage = 1 << 1
	UsageEditor  PropertyUsage = 1 << 2

	// UsageNilIsVariant marks a Nil-typed slot that accepts any Variant.
	UsageNilIsVariant PropertyUsage = 1 << 17

	UsageDefault = UsageStorage | UsageEditor
)

// PropertyInfo describes a property, argument or return value.
type PropertyInfo struct {
	Name      string
	ClassName string
	HintText  string
	Type      variant.Type
	Hint      PropertyHint
	Usage     PropertyUsage
}

// MethodFlags describe a registered method.
type MethodFlags uint32

const (
	MethodNormal  MethodFlags = 1 << 0
	MethodEditor  MethodFlags = 1 << 1
	MethodConst   MethodFlags = 1 << 2
	MethodVirtual MethodFlags = 1 << 3
	MethodVararg  MethodFlags = 1 << 4
	MethodStatic  MethodFlags = 1 << 5

	MethodDefault = MethodNormal
)

// MethodInfo describes a method registered on an extension class. Calls to it
// come back through InstanceCallbacks.CallMethod with Bind.
type MethodInfo struct {
	Return      *PropertyInfo
	Name        string
	Args        []PropertyInfo
	DefaultArgs []variant.Variant
	Bind        gdbind.MethodBindID
	Flags       MethodFlags
}

// SignalInfo describes a signal.
type SignalInfo struct {
	Name string
	Args []PropertyInfo
}

// PropertyBinding registers a property through named accessor methods.
type PropertyBinding struct {
	Info   PropertyInfo
	Setter string
	Getter string
}

// ClassInfo is what the engine needs to register an extension class.
type ClassInfo struct {
	Callbacks  InstanceCallbacks
	Name       string
	Parent     string
	IsVirtual  bool
	IsAbstract bool
	IsExposed  bool
}

// VirtualBind is the engine's handle on a virtual override. Generation pins
// it to the registry state it was issued from.
type VirtualBind struct {
	Class      string
	Name       string
	Generation uint64
}

// InstanceCallbacks is implemented by the extension and invoked by the engine.
// Implementations must not panic.
type InstanceCallbacks interface {
	// Create instantiates class for the engine and returns the base object.
	Create(class string) (gdbind.ObjectPtr, error)
	// Free is the destruction notification for an instance.
	Free(id gdbind.InstanceID)
	CallMethod(bind gdbind.MethodBindID, id gdbind.InstanceID, args []variant.Variant) (variant.Variant, CallError)
	GetVirtual(class, name string) (VirtualBind, bool)
	CallVirtual(bind VirtualBind, id gdbind.InstanceID, args []variant.Variant) (variant.Variant, CallError)
	Get(id gdbind.InstanceID, name string) (variant.Variant, bool)
	Set(id gdbind.InstanceID, name string, value variant.Variant) bool
	Notification(id gdbind.InstanceID, what int32)
	ToString(id gdbind.InstanceID) (string, bool)
}
