package classdb

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

var errorType = reflect.TypeFor[error]()

// DescribeClass describes *T.
func DescribeClass[T any](opts ...Option) (*ClassDescriptor, error) {
	return Describe(new(T), opts...)
}

// Describe builds the descriptor of the class backed by proto, which must be
// a pointer to a struct.
func Describe(proto any, opts ...Option) (*ClassDescriptor, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if proto == nil {
		return nil, errors.InvalidInput(errors.PhaseRegister, "nil class prototype")
	}
	rt := reflect.TypeOf(proto)
	if rt.Kind() != reflect.Pointer || rt.Elem().Kind() != reflect.Struct {
		return nil, errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			GoType(rt.String()).
			Detail("class prototype must be a pointer to a struct").
			Build()
	}

	desc := &ClassDescriptor{
		goType:   rt,
		factory:  o.factory,
		Name:     rt.Elem().Name(),
		Parent:   "Object",
		Abstract: o.abstract,
	}
	if n, ok := proto.(ClassNamer); ok {
		desc.Name = n.ClassName()
	}
	if o.name != "" {
		desc.Name = o.name
	}
	if p, ok := proto.(ParentNamer); ok {
		desc.Parent = p.ParentClass()
	}
	if o.parent != "" {
		desc.Parent = o.parent
	}
	if desc.Name == "" {
		return nil, errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			GoType(rt.String()).
			Detail("class has no name").
			Build()
	}
	if desc.Parent == "" || desc.Parent == desc.Name {
		return nil, errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Class(desc.Name).
			Detail("invalid parent class %q", desc.Parent).
			Build()
	}

	var renames map[string]string
	if r, ok := proto.(MethodRenamer); ok {
		renames = r.MethodNames()
	}
	if err := describeMethods(desc, rt, renames, o.skip); err != nil {
		return nil, err
	}
	if o.virtuals != nil {
		if err := resolveVirtuals(desc, desc.Parent, o.virtuals, nil); err != nil {
			return nil, err
		}
	}
	if l, ok := proto.(PropertyLister); ok {
		if err := describeProperties(desc, l.Properties()); err != nil {
			return nil, err
		}
	}
	if l, ok := proto.(SignalLister); ok {
		if err := describeSignals(desc, l.Signals()); err != nil {
			return nil, err
		}
	}
	return desc, nil
}

func describeMethods(desc *ClassDescriptor, rt reflect.Type, renames map[string]string, skip map[string]bool) error {
	goNames := make(map[string]string)
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !m.IsExported() || skipped[m.Name] || skip[m.Name] {
			continue
		}

		name := toSnakeCase(m.Name)
		if r, ok := renames[m.Name]; ok {
			name = r
		}
		if prev, ok := goNames[name]; ok {
			return errors.DuplicateMember(desc.Name, name,
				fmt.Sprintf("methods %s and %s both map to %q", prev, m.Name, name))
		}
		goNames[name] = m.Name

		md, err := describeMethod(desc.Name, name, m)
		if err != nil {
			return err
		}
		desc.Methods = append(desc.Methods, md)
	}
	return nil
}

func describeMethod(class, name string, m reflect.Method) (MethodDescriptor, error) {
	mt := m.Type
	md := MethodDescriptor{
		Func:    m.Func,
		Name:    name,
		GoName:  m.Name,
		Virtual: strings.HasPrefix(name, "_"),
	}

	numIn := mt.NumIn()
	for i := 1; i < numIn; i++ {
		pt := mt.In(i)
		last := i == numIn-1
		if last && mt.IsVariadic() {
			p, err := describeParam(class, name, fmt.Sprintf("arg%d", i-1), pt.Elem())
			if err != nil {
				return md, err
			}
			md.VarargElem = &p
			continue
		}
		p, err := describeParam(class, name, fmt.Sprintf("arg%d", i-1), pt)
		if err != nil {
			return md, err
		}
		md.Params = append(md.Params, p)
	}

	switch mt.NumOut() {
	case 0:
	case 1:
		if mt.Out(0) == errorType {
			md.ReturnsError = true
			break
		}
		r, err := describeParam(class, name, "", mt.Out(0))
		if err != nil {
			return md, err
		}
		md.Return = &r
	case 2:
		if mt.Out(1) != errorType {
			return md, errors.New(errors.PhaseRegister, errors.KindUnsupported).
				Class(class).
				Member(name).
				GoType(mt.String()).
				Detail("second result must be error").
				Build()
		}
		r, err := describeParam(class, name, "", mt.Out(0))
		if err != nil {
			return md, err
		}
		md.Return = &r
		md.ReturnsError = true
	default:
		return md, errors.New(errors.PhaseRegister, errors.KindUnsupported).
			Class(class).
			Member(name).
			GoType(mt.String()).
			Detail("methods return at most a value and an error").
			Build()
	}
	return md, nil
}

func describeParam(class, method, name string, t reflect.Type) (ParamDescriptor, error) {
	vt, ok := variant.TypeOf(t)
	if !ok {
		slot := name
		if slot == "" {
			slot = "return value"
		}
		return ParamDescriptor{}, errors.New(errors.PhaseRegister, errors.KindUnsupported).
			Class(class).
			Member(method).
			GoType(t.String()).
			Detail("%s has no Variant representation", slot).
			Build()
	}
	p := ParamDescriptor{GoType: t, Name: name, Type: vt}
	if vt == variant.TypeObject {
		p.Class = "Object"
	}
	return p, nil
}

// findMethod resolves a method by engine or Go name.
func (c *ClassDescriptor) findMethod(ref string) (*MethodDescriptor, bool) {
	if m, ok := c.Method(ref); ok {
		return m, true
	}
	for i := range c.Methods {
		if c.Methods[i].GoName == ref {
			return &c.Methods[i], true
		}
	}
	return nil, false
}

func describeProperties(desc *ClassDescriptor, specs []PropertySpec) error {
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return errors.New(errors.PhaseRegister, errors.KindInvalidInput).
				Class(desc.Name).
				Detail("property without a name").
				Build()
		}
		if seen[spec.Name] {
			return errors.DuplicateMember(desc.Name, spec.Name, "property declared twice")
		}
		seen[spec.Name] = true

		p, err := describeProperty(desc, spec)
		if err != nil {
			return err
		}
		desc.Properties = append(desc.Properties, p)
	}
	return nil
}

func describeProperty(desc *ClassDescriptor, spec PropertySpec) (PropertyDescriptor, error) {
	getterRef := spec.Getter
	if getterRef == "" {
		getterRef = "get_" + spec.Name
	}
	getter, ok := desc.findMethod(getterRef)
	if !ok {
		return PropertyDescriptor{}, errors.SignatureConflict(desc.Name, spec.Name,
			fmt.Sprintf("getter %q not found", getterRef))
	}
	if len(getter.Params) != 0 || getter.Vararg() || getter.Return == nil || getter.Virtual {
		return PropertyDescriptor{}, errors.SignatureConflict(desc.Name, spec.Name,
			fmt.Sprintf("getter %s must take no arguments and return a value", getter.Signature()))
	}

	p := PropertyDescriptor{
		Name:     spec.Name,
		Type:     getter.Return.Type,
		Class:    getter.Return.Class,
		Getter:   getter.Name,
		Hint:     spec.Hint,
		HintText: spec.HintText,
		Usage:    spec.Usage,
	}

	setterRef := spec.Setter
	explicit := setterRef != ""
	if !explicit {
		setterRef = "set_" + spec.Name
	}
	setter, ok := desc.findMethod(setterRef)
	if !ok {
		if explicit {
			return PropertyDescriptor{}, errors.SignatureConflict(desc.Name, spec.Name,
				fmt.Sprintf("setter %q not found", setterRef))
		}
		return p, nil
	}
	if len(setter.Params) != 1 || setter.Vararg() || setter.Return != nil || setter.Virtual {
		return PropertyDescriptor{}, errors.SignatureConflict(desc.Name, spec.Name,
			fmt.Sprintf("setter %s must take one argument and return nothing", setter.Signature()))
	}
	if setter.Params[0].GoType != getter.Return.GoType {
		return PropertyDescriptor{}, errors.SignatureConflict(desc.Name, spec.Name,
			fmt.Sprintf("getter returns %s but setter takes %s", getter.Return.GoType, setter.Params[0].GoType))
	}
	p.Setter = setter.Name
	return p, nil
}

func describeSignals(desc *ClassDescriptor, specs []SignalSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return errors.New(errors.PhaseRegister, errors.KindInvalidInput).
				Class(desc.Name).
				Detail("signal without a name").
				Build()
		}
		if seen[spec.Name] {
			return errors.DuplicateMember(desc.Name, spec.Name, "signal declared twice")
		}
		if _, ok := desc.Method(spec.Name); ok {
			return errors.DuplicateMember(desc.Name, spec.Name, "signal has the name of a method")
		}
		seen[spec.Name] = true

		s := SignalDescriptor{Name: spec.Name}
		for i, ps := range spec.Params {
			if !ps.Type.Valid() {
				return errors.New(errors.PhaseRegister, errors.KindUnsupported).
					Class(desc.Name).
					Member(spec.Name).
					Detail("argument %d has invalid type %d", i, ps.Type).
					Build()
			}
			name := ps.Name
			if name == "" {
				name = fmt.Sprintf("arg%d", i)
			}
			s.Params = append(s.Params, ParamDescriptor{Name: name, Class: ps.Class, Type: ps.Type})
		}
		desc.Signals = append(desc.Signals, s)
	}
	return nil
}
