package enginetest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

// Notification constants delivered by the engine.
const (
	NotificationPostinitialize int32 = 0
	NotificationPredelete      int32 = 1
)

const (
	ptrBase   = 0x10000
	ptrStride = 0x100
)

type methodFunc func(e *Engine, o *object, args []variant.Variant) (variant.Variant, abi.CallError)

type class struct {
	callbacks  abi.InstanceCallbacks
	methods    map[string]methodFunc
	extMethods map[string]abi.MethodInfo
	properties map[string]abi.PropertyBinding
	signals    map[string]abi.SignalInfo
	name       string
	parent     string
	refcounted bool
	extension  bool
	info       abi.ClassInfo
}

type object struct {
	props       map[string]variant.Variant
	connections map[string][]variant.Callable
	class       string
	ptr         gdbind.ObjectPtr
	id          gdbind.InstanceID
	refcount    int64
	refcounted  bool
	extension   bool
}

// Emission records one emit_signal call.
type Emission struct {
	Signal string
	Args   []variant.Variant
}

// Engine is an in-memory abi.Host.
type Engine struct {
	classes       map[string]*class
	byPtr         map[gdbind.ObjectPtr]*object
	byID          map[gdbind.InstanceID]*object
	failConstruct map[string]bool
	emissions     map[gdbind.InstanceID][]Emission
	freePtrs      []gdbind.ObjectPtr
	destroyed     []gdbind.InstanceID
	classOrder    []string
	mu            sync.Mutex
	nextSlot      uint64
	nextID        uint64
}

var _ abi.Host = (*Engine)(nil)

// New returns an engine with the builtin classes registered.
func New() *Engine {
	e := &Engine{
		classes:       make(map[string]*class),
		byPtr:         make(map[gdbind.ObjectPtr]*object),
		byID:          make(map[gdbind.InstanceID]*object),
		failConstruct: make(map[string]bool),
		emissions:     make(map[gdbind.InstanceID][]Emission),
		nextID:        1000,
	}
	e.addNative("Object", "", false, objectMethods())
	e.addNative("RefCounted", "Object", true, map[string]methodFunc{
		"get_reference_count": func(e *Engine, o *object, _ []variant.Variant) (variant.Variant, abi.CallError) {
			return variant.NewInt(o.refcount), abi.CallError{}
		},
	})
	e.addNative("Resource", "RefCounted", true, map[string]methodFunc{
		"get_path": propGetter("resource_path", variant.NewString("")),
		"set_path": propSetter("resource_path"),
	})
	e.addNative("Node", "Object", false, map[string]methodFunc{
		"get_name": propGetter("name", variant.NewStringName("")),
		"set_name": propSetter("name"),
	})
	e.addNative("CanvasItem", "Node", false, nil)
	e.addNative("Node2D", "CanvasItem", false, map[string]methodFunc{
		"get_position": propGetter("position", variant.NewVector2(variant.Vector2{})),
		"set_position": propSetter("position"),
	})
	return e
}

func (e *Engine) addNative(name, parent string, refcounted bool, methods map[string]methodFunc) {
	e.classes[name] = &class{
		name:       name,
		parent:     parent,
		refcounted: refcounted,
		methods:    methods,
	}
	e.classOrder = append(e.classOrder, name)
}

// FailConstruct makes ConstructObject fail for class until reset with false.
func (e *Engine) FailConstruct(class string, fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failConstruct[class] = fail
}

// ConstructObject implements abi.Host.
func (e *Engine) ConstructObject(className string) (gdbind.ObjectPtr, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.classes[className]
	if !ok {
		return 0, errors.NotFound(errors.PhaseABI, "class", className)
	}
	if c.extension {
		return 0, errors.InvalidInput(errors.PhaseABI, fmt.Sprintf("%s is an extension class; instantiate it through its callbacks", className))
	}
	if e.failConstruct[className] {
		return 0, errors.New(errors.PhaseABI, errors.KindInvalidData).
			Class(className).
			Detail("construction failed").
			Build()
	}

	var ptr gdbind.ObjectPtr
	if n := len(e.freePtrs); n > 0 {
		ptr = e.freePtrs[n-1]
		e.freePtrs = e.freePtrs[:n-1]
	} else {
		ptr = gdbind.ObjectPtr(ptrBase + e.nextSlot*ptrStride)
		e.nextSlot++
	}
	e.nextID++
	o := &object{
		ptr:         ptr,
		id:          gdbind.InstanceID(e.nextID),
		class:       className,
		refcounted:  e.inheritsLocked(className, "RefCounted"),
		props:       make(map[string]variant.Variant),
		connections: make(map[string][]variant.Callable),
	}
	e.byPtr[ptr] = o
	e.byID[o.id] = o
	return ptr, nil
}

// DestroyObject implements abi.Host. Extension instances receive the
// predelete notification and then their destruction notification.
func (e *Engine) DestroyObject(ptr gdbind.ObjectPtr) {
	e.mu.Lock()
	o, ok := e.byPtr[ptr]
	if !ok {
		e.mu.Unlock()
		return
	}
	var cb abi.InstanceCallbacks
	if o.extension {
		if c := e.classes[o.class]; c != nil {
			cb = c.callbacks
		}
	}
	e.mu.Unlock()

	if cb != nil {
		cb.Notification(o.id, NotificationPredelete)
		cb.Free(o.id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.byPtr[ptr] != o {
		return
	}
	delete(e.byPtr, ptr)
	delete(e.byID, o.id)
	e.freePtrs = append(e.freePtrs, ptr)
	e.destroyed = append(e.destroyed, o.id)
}

// InstanceFromID implements abi.Host.
func (e *Engine) InstanceFromID(id gdbind.InstanceID) gdbind.ObjectPtr {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o, ok := e.byID[id]; ok {
		return o.ptr
	}
	return 0
}

// InstanceID implements abi.Host.
func (e *Engine) InstanceID(ptr gdbind.ObjectPtr) gdbind.InstanceID {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o, ok := e.byPtr[ptr]; ok {
		return o.id
	}
	return 0
}

// ClassInherits implements abi.Host.
func (e *Engine) ClassInherits(className, base string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inheritsLocked(className, base)
}

func (e *Engine) inheritsLocked(className, base string) bool {
	for name := className; name != ""; {
		if name == base {
			return true
		}
		c, ok := e.classes[name]
		if !ok {
			return false
		}
		name = c.parent
	}
	return false
}

// ClassExists implements abi.Host.
func (e *Engine) ClassExists(className string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.classes[className]
	return ok
}

// HasMethod implements abi.Host.
func (e *Engine) HasMethod(className, method string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _, ok := e.resolveLocked(className, method)
	return ok
}

// resolveLocked finds method on className or a base. Extension methods are
// returned as info, native ones as fn.
func (e *Engine) resolveLocked(className, method string) (methodFunc, *class, bool) {
	for name := className; name != ""; {
		c, ok := e.classes[name]
		if !ok {
			return nil, nil, false
		}
		if c.extension {
			if _, ok := c.extMethods[method]; ok {
				return nil, c, true
			}
		} else if fn, ok := c.methods[method]; ok {
			return fn, c, true
		}
		name = c.parent
	}
	return nil, nil, false
}

// Reference implements abi.Host.
func (e *Engine) Reference(ptr gdbind.ObjectPtr) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.byPtr[ptr]
	if !ok || !o.refcounted {
		return false
	}
	o.refcount++
	return true
}

// Unreference implements abi.Host.
func (e *Engine) Unreference(ptr gdbind.ObjectPtr) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.byPtr[ptr]
	if !ok || !o.refcounted || o.refcount <= 0 {
		return false
	}
	o.refcount--
	return o.refcount == 0
}

// RefCount implements abi.Host.
func (e *Engine) RefCount(ptr gdbind.ObjectPtr) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o, ok := e.byPtr[ptr]; ok {
		return o.refcount
	}
	return 0
}

// ObjectMethodCall implements abi.Host.
func (e *Engine) ObjectMethodCall(ptr gdbind.ObjectPtr, method string, args []variant.Variant) (variant.Variant, abi.CallError) {
	e.mu.Lock()
	o, ok := e.byPtr[ptr]
	if !ok {
		e.mu.Unlock()
		return variant.Nil(), abi.CallError{Code: abi.CallErrorInstanceIsNull}
	}
	fn, owner, ok := e.resolveLocked(o.class, method)
	e.mu.Unlock()

	if !ok {
		return variant.Nil(), abi.InvalidMethod()
	}
	if fn != nil {
		return fn(e, o, args)
	}
	info := owner.extMethods[method]
	return owner.callbacks.CallMethod(info.Bind, o.id, args)
}

// RegisterClass implements abi.Host.
func (e *Engine) RegisterClass(info abi.ClassInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.classes[info.Name]; ok {
		return errors.AlreadyRegistered(errors.PhaseABI, "class "+info.Name)
	}
	if _, ok := e.classes[info.Parent]; !ok {
		return errors.NotFound(errors.PhaseABI, "parent class", info.Parent)
	}
	if info.Callbacks == nil {
		return errors.InvalidInput(errors.PhaseABI, "class "+info.Name+" has no instance callbacks")
	}
	e.classes[info.Name] = &class{
		name:       info.Name,
		parent:     info.Parent,
		refcounted: e.inheritsLocked(info.Parent, "RefCounted"),
		extension:  true,
		callbacks:  info.Callbacks,
		info:       info,
		extMethods: make(map[string]abi.MethodInfo),
		properties: make(map[string]abi.PropertyBinding),
		signals:    make(map[string]abi.SignalInfo),
	}
	e.classOrder = append(e.classOrder, info.Name)
	return nil
}

func (e *Engine) extClassLocked(name string) (*class, error) {
	c, ok := e.classes[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseABI, "class", name)
	}
	if !c.extension {
		return nil, errors.InvalidInput(errors.PhaseABI, name+" is not an extension class")
	}
	return c, nil
}

// RegisterMethod implements abi.Host.
func (e *Engine) RegisterMethod(className string, info abi.MethodInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.extClassLocked(className)
	if err != nil {
		return err
	}
	if _, ok := c.extMethods[info.Name]; ok {
		return errors.DuplicateMember(className, info.Name, "method already registered with the engine")
	}
	c.extMethods[info.Name] = info
	return nil
}

// RegisterProperty implements abi.Host.
func (e *Engine) RegisterProperty(className string, binding abi.PropertyBinding) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.extClassLocked(className)
	if err != nil {
		return err
	}
	if _, ok := c.properties[binding.Info.Name]; ok {
		return errors.DuplicateMember(className, binding.Info.Name, "property already registered with the engine")
	}
	c.properties[binding.Info.Name] = binding
	return nil
}

// RegisterSignal implements abi.Host.
func (e *Engine) RegisterSignal(className string, info abi.SignalInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.extClassLocked(className)
	if err != nil {
		return err
	}
	if _, ok := c.signals[info.Name]; ok {
		return errors.DuplicateMember(className, info.Name, "signal already registered with the engine")
	}
	c.signals[info.Name] = info
	return nil
}

// UnregisterClass implements abi.Host.
func (e *Engine) UnregisterClass(className string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.extClassLocked(className); err != nil {
		return err
	}
	for _, c := range e.classes {
		if c.parent == className {
			return errors.InvalidInput(errors.PhaseABI, fmt.Sprintf("class %s still has subclass %s", className, c.name))
		}
	}
	delete(e.classes, className)
	e.classOrder = slices.DeleteFunc(e.classOrder, func(n string) bool { return n == className })
	return nil
}

// SetInstance implements abi.Host.
func (e *Engine) SetInstance(ptr gdbind.ObjectPtr, className string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.byPtr[ptr]
	if !ok {
		return errors.New(errors.PhaseABI, errors.KindStaleReference).
			Class(className).
			Detail("object %#x not alive", uintptr(ptr)).
			Build()
	}
	c, err := e.extClassLocked(className)
	if err != nil {
		return err
	}
	if !e.inheritsLocked(c.parent, o.class) {
		return errors.InvalidInput(errors.PhaseABI, fmt.Sprintf("%s does not derive from %s", className, o.class))
	}
	o.class = className
	o.extension = true
	return nil
}
