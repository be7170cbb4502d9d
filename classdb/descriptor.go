package classdb

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/variant"
)

// ParamDescriptor describes a parameter, return value or signal argument.
// GoType is nil for signal arguments.
type ParamDescriptor struct {
	GoType reflect.Type
	Name   string
	Class  string
	Type   variant.Type
}

// AcceptsAny reports whether the slot takes any Variant.
func (p ParamDescriptor) AcceptsAny() bool {
	return p.Type == variant.TypeNil
}

func (p ParamDescriptor) info() abi.PropertyInfo {
	info := abi.PropertyInfo{Name: p.Name, Type: p.Type, ClassName: p.Class, Usage: abi.UsageDefault}
	if p.AcceptsAny() {
		info.Usage |= abi.UsageNilIsVariant
	}
	return info
}

func (p ParamDescriptor) typeName() string {
	if p.AcceptsAny() {
		return "Variant"
	}
	if p.Class != "" {
		return p.Class
	}
	return p.Type.String()
}

// MethodDescriptor describes one engine-visible method.
type MethodDescriptor struct {
	// Func is the method expression; its first argument is the receiver.
	Func   reflect.Value
	Return *ParamDescriptor
	// VarargElem is set when the method takes a trailing variadic parameter.
	VarargElem   *ParamDescriptor
	Name         string
	GoName       string
	Params       []ParamDescriptor
	Bind         gdbind.MethodBindID
	ReturnsError bool
	Virtual      bool
}

// Vararg reports whether the method accepts extra arguments.
func (m *MethodDescriptor) Vararg() bool {
	return m.VarargElem != nil
}

// Signature renders the method as name(type, ...) -> type.
func (m *MethodDescriptor) Signature() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.typeName())
	}
	if m.VarargElem != nil {
		if len(m.Params) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
		b.WriteString(m.VarargElem.typeName())
	}
	b.WriteByte(')')
	if m.Return != nil {
		b.WriteString(" -> ")
		b.WriteString(m.Return.typeName())
	}
	return b.String()
}

// sameShape reports whether m and o take and return the same Variant types.
func (m *MethodDescriptor) sameShape(o *MethodDescriptor) bool {
	if len(m.Params) != len(o.Params) || m.Vararg() != o.Vararg() {
		return false
	}
	for i := range m.Params {
		if m.Params[i].Type != o.Params[i].Type {
			return false
		}
	}
	if (m.Return == nil) != (o.Return == nil) {
		return false
	}
	return m.Return == nil || m.Return.Type == o.Return.Type
}

// Info returns the engine registration record of the method.
func (m *MethodDescriptor) Info() abi.MethodInfo {
	info := abi.MethodInfo{
		Name:  m.Name,
		Bind:  m.Bind,
		Flags: abi.MethodDefault,
	}
	for _, p := range m.Params {
		info.Args = append(info.Args, p.info())
	}
	if m.Return != nil {
		r := m.Return.info()
		info.Return = &r
	}
	if m.Vararg() {
		info.Flags |= abi.MethodVararg
	}
	if m.Virtual {
		info.Flags |= abi.MethodVirtual
	}
	return info
}

func (m MethodDescriptor) clone() MethodDescriptor {
	m.Params = slices.Clone(m.Params)
	if m.Return != nil {
		r := *m.Return
		m.Return = &r
	}
	if m.VarargElem != nil {
		v := *m.VarargElem
		m.VarargElem = &v
	}
	return m
}

// PropertyDescriptor describes a property backed by getter and setter
// methods. Setter is empty for read-only properties.
type PropertyDescriptor struct {
	Name     string
	Class    string
	Getter   string
	Setter   string
	HintText string
	Type     variant.Type
	Hint     abi.PropertyHint
	Usage    abi.PropertyUsage
}

// Binding returns the engine registration record of the property.
func (p PropertyDescriptor) Binding() abi.PropertyBinding {
	usage := p.Usage
	if usage == 0 {
		usage = abi.UsageDefault
	}
	return abi.PropertyBinding{
		Info: abi.PropertyInfo{
			Name:      p.Name,
			ClassName: p.Class,
			HintText:  p.HintText,
			Type:      p.Type,
			Hint:      p.Hint,
			Usage:     usage,
		},
		Getter: p.Getter,
		Setter: p.Setter,
	}
}

// SignalDescriptor describes a signal.
type SignalDescriptor struct {
	Name   string
	Params []ParamDescriptor
}

// Info returns the engine registration record of the signal.
func (s SignalDescriptor) Info() abi.SignalInfo {
	info := abi.SignalInfo{Name: s.Name}
	for _, p := range s.Params {
		info.Args = append(info.Args, p.info())
	}
	return info
}

// ClassDescriptor is the registration-time description of a native class.
type ClassDescriptor struct {
	goType     reflect.Type
	factory    func() any
	Name       string
	Parent     string
	Methods    []MethodDescriptor
	Properties []PropertyDescriptor
	Signals    []SignalDescriptor
	Abstract   bool
}

// GoType returns the pointer type instances are created as.
func (c *ClassDescriptor) GoType() reflect.Type {
	return c.goType
}

// NewInstance returns a fresh payload for an instance of the class.
func (c *ClassDescriptor) NewInstance() any {
	if c.factory != nil {
		return c.factory()
	}
	return reflect.New(c.goType.Elem()).Interface()
}

// Method returns the method registered under engine name name.
func (c *ClassDescriptor) Method(name string) (*MethodDescriptor, bool) {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i], true
		}
	}
	return nil, false
}

// Signal returns the signal called name.
func (c *ClassDescriptor) Signal(name string) (*SignalDescriptor, bool) {
	for i := range c.Signals {
		if c.Signals[i].Name == name {
			return &c.Signals[i], true
		}
	}
	return nil, false
}

// Property returns the property called name.
func (c *ClassDescriptor) Property(name string) (*PropertyDescriptor, bool) {
	for i := range c.Properties {
		if c.Properties[i].Name == name {
			return &c.Properties[i], true
		}
	}
	return nil, false
}

// Virtuals returns the virtual overrides of the class.
func (c *ClassDescriptor) Virtuals() []MethodDescriptor {
	var out []MethodDescriptor
	for _, m := range c.Methods {
		if m.Virtual {
			out = append(out, m.clone())
		}
	}
	return out
}

// Info returns the engine registration record of the class.
func (c *ClassDescriptor) Info(callbacks abi.InstanceCallbacks) abi.ClassInfo {
	return abi.ClassInfo{
		Callbacks:  callbacks,
		Name:       c.Name,
		Parent:     c.Parent,
		IsAbstract: c.Abstract,
		IsExposed:  true,
	}
}

// MethodInfos returns the registration records of the non-virtual methods.
func (c *ClassDescriptor) MethodInfos() []abi.MethodInfo {
	var out []abi.MethodInfo
	for i := range c.Methods {
		if !c.Methods[i].Virtual {
			out = append(out, c.Methods[i].Info())
		}
	}
	return out
}

// PropertyBindings returns the registration records of the properties.
func (c *ClassDescriptor) PropertyBindings() []abi.PropertyBinding {
	out := make([]abi.PropertyBinding, 0, len(c.Properties))
	for _, p := range c.Properties {
		out = append(out, p.Binding())
	}
	return out
}

// SignalInfos returns the registration records of the signals.
func (c *ClassDescriptor) SignalInfos() []abi.SignalInfo {
	out := make([]abi.SignalInfo, 0, len(c.Signals))
	for _, s := range c.Signals {
		out = append(out, s.Info())
	}
	return out
}

// Clone returns a deep copy of c.
func (c *ClassDescriptor) Clone() *ClassDescriptor {
	cp := *c
	cp.Methods = make([]MethodDescriptor, len(c.Methods))
	for i, m := range c.Methods {
		cp.Methods[i] = m.clone()
	}
	cp.Properties = slices.Clone(c.Properties)
	cp.Signals = make([]SignalDescriptor, len(c.Signals))
	for i, s := range c.Signals {
		cp.Signals[i] = SignalDescriptor{Name: s.Name, Params: slices.Clone(s.Params)}
	}
	return &cp
}

func (c *ClassDescriptor) String() string {
	return fmt.Sprintf("%s(%s): %d methods, %d properties, %d signals",
		c.Name, c.Parent, len(c.Methods), len(c.Properties), len(c.Signals))
}
