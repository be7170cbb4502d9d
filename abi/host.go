package abi

import (
	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/variant"
)

// Host is the engine side of the boundary.
//
// Object pointers are opaque: Host implementations are the only code that
// dereferences them. InstanceFromID returns zero for an id that no longer
// names a live object.
type Host interface {
	// ConstructObject creates an engine object of a native engine class.
	ConstructObject(class string) (gdbind.ObjectPtr, error)
	DestroyObject(ptr gdbind.ObjectPtr)
	InstanceFromID(id gdbind.InstanceID) gdbind.ObjectPtr
	InstanceID(ptr gdbind.ObjectPtr) gdbind.InstanceID

	// ClassInherits reports whether class is base or derives from it.
	ClassInherits(class, base string) bool
	ClassExists(class string) bool
	HasMethod(class, method string) bool

	// Reference increments an engine reference count. It returns false for
	// objects that are not reference counted.
	Reference(ptr gdbind.ObjectPtr) bool
	// Unreference decrements the count and reports whether it reached zero.
	// The caller then destroys the object.
	Unreference(ptr gdbind.ObjectPtr) bool
	RefCount(ptr gdbind.ObjectPtr) int64

	// ObjectMethodCall calls a method by name on a live object.
	ObjectMethodCall(ptr gdbind.ObjectPtr, method string, args []variant.Variant) (variant.Variant, CallError)

	RegisterClass(info ClassInfo) error
	RegisterMethod(class string, info MethodInfo) error
	RegisterProperty(class string, binding PropertyBinding) error
	RegisterSignal(class string, info SignalInfo) error
	UnregisterClass(class string) error

	// SetInstance attaches an extension instance of class to a base object.
	SetInstance(ptr gdbind.ObjectPtr, class string) error
}

// Names of the engine entry points resolved through get_proc_address.
const (
	ProcGetGodotVersion          = "get_godot_version"
	ProcMemAlloc                 = "mem_alloc"
	ProcMemFree                  = "mem_free"
	ProcVariantNewCopy           = "variant_new_copy"
	ProcVariantNewNil            = "variant_new_nil"
	ProcVariantDestroy           = "variant_destroy"
	ProcVariantGetType           = "variant_get_type"
	ProcStringNewWithUTF8Chars   = "string_new_with_utf8_chars_and_len"
	ProcStringToUTF8Chars        = "string_to_utf8_chars"
	ProcStringNameNewWithUTF8    = "string_name_new_with_utf8_chars_and_len"
	ProcObjectMethodBindCall     = "object_method_bind_call"
	ProcObjectDestroy            = "object_destroy"
	ProcObjectGetInstanceFromID  = "object_get_instance_from_id"
	ProcObjectGetInstanceID      = "object_get_instance_id"
	ProcObjectSetInstance        = "object_set_instance"
	ProcClassdbConstructObject   = "classdb_construct_object"
	ProcClassdbGetMethodBind     = "classdb_get_method_bind"
	ProcClassdbGetClassTag       = "classdb_get_class_tag"
	ProcClassdbUnregisterClass   = "classdb_unregister_extension_class"
	ProcGetVariantFromTypeConstr = "get_variant_from_type_constructor"
	ProcGetVariantToTypeConstr   = "get_variant_to_type_constructor"
)
