package classdb

import (
	"fmt"
	"slices"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/api"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/internal/guard"
)

type entry struct {
	desc       *ClassDescriptor
	generation uint64
}

type bindEntry struct {
	class      string
	method     int
	generation uint64
}

// Binding is a method resolved from a bind id.
type Binding struct {
	Class      string
	Method     MethodDescriptor
	Generation uint64
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithAPI uses engine metadata for parent validation, inheritance queries
// and virtual resolution.
func WithAPI(ctx *api.Context) RegistryOption {
	return func(r *Registry) { r.api = ctx }
}

// WithClassExists sets the fallback that reports engine classes unknown to
// the metadata, typically abi.Host.ClassExists.
func WithClassExists(fn func(class string) bool) RegistryOption {
	return func(r *Registry) { r.classExists = fn }
}

// Registry holds the native classes registered by an extension. Every
// registration and unregistration advances the registry generation; binds
// handed out before an unregistration fail with stale_metadata.
type Registry struct {
	api         *api.Context
	classExists func(string) bool
	classes     map[string]*entry
	binds       map[gdbind.MethodBindID]bindEntry
	order       []string
	mu          guard.RWMutex
	nextBind    gdbind.MethodBindID
	generation  uint64
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		classes: make(map[string]*entry),
		binds:   make(map[gdbind.MethodBindID]bindEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// API returns the engine metadata the registry was configured with.
func (r *Registry) API() *api.Context {
	return r.api
}

func (r *Registry) isEngineClass(name string) bool {
	if name == "Object" {
		return true
	}
	if r.api != nil {
		if _, ok := r.api.Class(name); ok {
			return true
		}
	}
	return r.classExists != nil && r.classExists(name)
}

// Register validates desc and stores a copy with bind ids assigned. A class
// name may be registered once; registering it again fails with
// already_registered until it is unregistered.
func (r *Registry) Register(desc *ClassDescriptor) (*ClassDescriptor, error) {
	if desc == nil {
		return nil, errors.InvalidInput(errors.PhaseRegister, "nil class descriptor")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.classes[desc.Name]; ok {
		return nil, errors.AlreadyRegistered(errors.PhaseRegister, "class "+desc.Name)
	}
	if r.api != nil {
		if _, ok := r.api.Class(desc.Name); ok {
			return nil, errors.New(errors.PhaseRegister, errors.KindAlreadyRegistered).
				Class(desc.Name).
				Detail("an engine class has this name").
				Build()
		}
	}
	if _, native := r.classes[desc.Parent]; !native && !r.isEngineClass(desc.Parent) {
		return nil, errors.New(errors.PhaseRegister, errors.KindNotFound).
			Class(desc.Name).
			Detail("parent class %q is not known", desc.Parent).
			Build()
	}

	d := desc.Clone()
	var src VirtualSource
	if r.api != nil {
		src = r.api
	}
	if err := resolveVirtuals(d, r.engineBaseLocked(d.Parent), src, r.nativeVirtualLocked(d.Parent)); err != nil {
		return nil, err
	}
	if err := r.checkOverridesLocked(d); err != nil {
		return nil, err
	}

	r.generation++
	for i := range d.Methods {
		r.nextBind++
		d.Methods[i].Bind = r.nextBind
		r.binds[r.nextBind] = bindEntry{class: d.Name, method: i, generation: r.generation}
	}
	r.classes[d.Name] = &entry{desc: d, generation: r.generation}
	r.order = append(r.order, d.Name)
	return d.Clone(), nil
}

// checkOverridesLocked rejects non-virtual methods that redefine a method of
// a registered ancestor with a different signature.
func (r *Registry) checkOverridesLocked(d *ClassDescriptor) error {
	for i := range d.Methods {
		m := &d.Methods[i]
		if m.Virtual {
			continue
		}
		pm, owner, ok := r.methodLocked(d.Parent, m.Name)
		if !ok || m.sameShape(pm) {
			continue
		}
		return errors.SignatureConflict(d.Name, m.Name,
			fmt.Sprintf("%s does not match %s declared by %s", m.Signature(), pm.Signature(), owner))
	}
	return nil
}

func (r *Registry) nativeVirtualLocked(parent string) nativeVirtual {
	return func(name string) (*MethodDescriptor, string, bool) {
		for cls := parent; ; {
			e, ok := r.classes[cls]
			if !ok {
				return nil, "", false
			}
			if m, ok := e.desc.Method(name); ok && m.Virtual {
				return m, cls, true
			}
			cls = e.desc.Parent
		}
	}
}

// engineBaseLocked returns the nearest engine class at or above class.
func (r *Registry) engineBaseLocked(class string) string {
	for {
		e, ok := r.classes[class]
		if !ok {
			return class
		}
		class = e.desc.Parent
	}
}

// EngineBase returns the nearest engine class at or above class. Instances
// of a native class are built on an object of this class.
func (r *Registry) EngineBase(class string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engineBaseLocked(class)
}

// Class returns a copy of the descriptor registered as name.
func (r *Registry) Class(name string) (*ClassDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.classes[name]
	if !ok {
		return nil, false
	}
	return e.desc.Clone(), true
}

// Has reports whether name is a registered native class.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classes[name]
	return ok
}

// Classes returns registered class names in registration order.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Method resolves a non-virtual method by engine name on class or a
// registered ancestor and returns the declaring class.
func (r *Registry) Method(class, name string) (MethodDescriptor, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, owner, ok := r.methodLocked(class, name)
	if !ok {
		return MethodDescriptor{}, "", false
	}
	return m.clone(), owner, true
}

func (r *Registry) methodLocked(class, name string) (*MethodDescriptor, string, bool) {
	for cls := class; ; {
		e, ok := r.classes[cls]
		if !ok {
			return nil, "", false
		}
		if m, ok := e.desc.Method(name); ok && !m.Virtual {
			return m, cls, true
		}
		cls = e.desc.Parent
	}
}

// Property resolves a property on class or a registered ancestor and
// returns the declaring class.
func (r *Registry) Property(class, name string) (PropertyDescriptor, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for cls := class; ; {
		e, ok := r.classes[cls]
		if !ok {
			return PropertyDescriptor{}, "", false
		}
		if p, ok := e.desc.Property(name); ok {
			return *p, cls, true
		}
		cls = e.desc.Parent
	}
}

// Signal resolves a signal declared by class or a registered ancestor.
func (r *Registry) Signal(class, name string) (SignalDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for cls := class; ; {
		e, ok := r.classes[cls]
		if !ok {
			return SignalDescriptor{}, false
		}
		if s, ok := e.desc.Signal(name); ok {
			return SignalDescriptor{Name: s.Name, Params: slices.Clone(s.Params)}, true
		}
		cls = e.desc.Parent
	}
}

// Bind returns the method registered under id.
func (r *Registry) Bind(id gdbind.MethodBindID) (Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.binds[id]
	if !ok {
		return Binding{}, errors.New(errors.PhaseDispatch, errors.KindStaleMetadata).
			Value(uint32(id)).
			Detail("method bind %d is not registered", uint32(id)).
			Build()
	}
	e := r.classes[b.class]
	return Binding{Class: b.class, Method: e.desc.Methods[b.method].clone(), Generation: b.generation}, nil
}

// Virtual resolves the override of virtual name for instances of class.
func (r *Registry) Virtual(class, name string) (abi.VirtualBind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.classes[class]
	if !ok {
		return abi.VirtualBind{}, false
	}
	if _, _, ok := r.nativeVirtualLocked(class)(name); !ok {
		return abi.VirtualBind{}, false
	}
	return abi.VirtualBind{Class: class, Name: name, Generation: e.generation}, true
}

// ResolveVirtual checks that bind was issued by the current registration of
// its class and returns the override it names.
func (r *Registry) ResolveVirtual(bind abi.VirtualBind) (Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.classes[bind.Class]
	if !ok {
		return Binding{}, errors.StaleMetadata(bind.Class, bind.Name, "class is not registered")
	}
	if e.generation != bind.Generation {
		return Binding{}, errors.StaleMetadata(bind.Class, bind.Name,
			fmt.Sprintf("bind from generation %d, class registered at %d", bind.Generation, e.generation))
	}
	m, owner, ok := r.nativeVirtualLocked(bind.Class)(bind.Name)
	if !ok {
		return Binding{}, errors.StaleMetadata(bind.Class, bind.Name, "no override")
	}
	return Binding{Class: owner, Method: m.clone(), Generation: e.generation}, nil
}

// Bases returns the ancestors of class, nearest first: registered classes
// followed by engine classes.
func (r *Registry) Bases(class string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	cls := class
	for {
		e, ok := r.classes[cls]
		if !ok {
			break
		}
		cls = e.desc.Parent
		out = append(out, cls)
	}
	if r.api != nil {
		out = append(out, r.api.Bases(cls)...)
	}
	return out
}

// IsSubclass reports whether class is base or derives from it.
func (r *Registry) IsSubclass(class, base string) bool {
	if class == base {
		return true
	}
	return slices.Contains(r.Bases(class), base)
}

// Unregister removes a class. Classes with registered subclasses cannot be
// removed.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.classes[name]
	if !ok {
		return errors.NotFound(errors.PhaseRegister, "class", name)
	}
	for _, other := range r.classes {
		if other.desc.Parent == name {
			return errors.New(errors.PhaseRegister, errors.KindInvalidInput).
				Class(name).
				Detail("subclass %s is still registered", other.desc.Name).
				Build()
		}
	}
	for _, m := range e.desc.Methods {
		delete(r.binds, m.Bind)
	}
	delete(r.classes, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	r.generation++
	return nil
}

// Generation returns the registry generation.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}
