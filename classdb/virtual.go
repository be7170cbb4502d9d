package classdb

import (
	"fmt"

	"github.com/wippyai/gdbind/api"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

// VirtualSource reports virtual methods declared by engine classes.
// *api.Context implements it.
type VirtualSource interface {
	Virtual(class, name string) (*api.Method, string, bool)
	VariantType(apiType string) (variant.Type, bool)
}

// nativeVirtual finds a virtual declared by a registered ancestor.
type nativeVirtual func(name string) (*MethodDescriptor, string, bool)

// resolveVirtuals turns methods that override a virtual of an ancestor into
// virtual overrides named _<name>, checking their signatures. engineBase is
// the nearest engine class in the parent chain.
func resolveVirtuals(desc *ClassDescriptor, engineBase string, src VirtualSource, native nativeVirtual) error {
	taken := make(map[string]bool, len(desc.Methods))
	for _, m := range desc.Methods {
		taken[m.Name] = true
	}

	for i := range desc.Methods {
		m := &desc.Methods[i]
		name := m.Name
		if !m.Virtual {
			name = "_" + m.Name
		}

		if native != nil {
			if nm, owner, ok := native(name); ok {
				if !m.sameShape(nm) {
					return errors.SignatureConflict(desc.Name, name,
						fmt.Sprintf("override %s does not match %s declared by %s", m.Signature(), nm.Signature(), owner))
				}
				if err := markVirtual(desc, m, name, taken); err != nil {
					return err
				}
				continue
			}
		}

		if src == nil {
			continue
		}
		am, owner, ok := src.Virtual(engineBase, name)
		if !ok {
			continue
		}
		if err := checkEngineSignature(desc.Name, m, am, owner, src); err != nil {
			return err
		}
		if err := markVirtual(desc, m, name, taken); err != nil {
			return err
		}
	}
	return nil
}

func markVirtual(desc *ClassDescriptor, m *MethodDescriptor, name string, taken map[string]bool) error {
	if m.Name == name {
		m.Virtual = true
		return nil
	}
	if taken[name] {
		return errors.DuplicateMember(desc.Name, name,
			fmt.Sprintf("%s overrides %s which is already defined", m.GoName, name))
	}
	delete(taken, m.Name)
	taken[name] = true
	m.Name = name
	m.Virtual = true
	return nil
}

func checkEngineSignature(class string, m *MethodDescriptor, am *api.Method, owner string, src VirtualSource) error {
	conflict := func(format string, args ...any) error {
		return errors.SignatureConflict(class, am.Name,
			fmt.Sprintf("%s.%s: ", owner, am.Name)+fmt.Sprintf(format, args...))
	}

	if m.Vararg() {
		return conflict("virtual methods cannot be variadic")
	}
	if len(m.Params) != len(am.Arguments) {
		return conflict("engine declares %d arguments, %s takes %d", len(am.Arguments), m.GoName, len(m.Params))
	}
	for i, arg := range am.Arguments {
		want, ok := src.VariantType(arg.Type)
		if !ok || want == variant.TypeNil || m.Params[i].AcceptsAny() {
			continue
		}
		if got := m.Params[i].Type; got != want {
			return conflict("argument %d (%s) is %s, engine passes %s", i, arg.Name, got, want)
		}
	}

	ret := am.Return()
	switch {
	case ret == "" && m.Return != nil:
		return conflict("engine expects no return value, %s returns %s", m.GoName, m.Return.Type)
	case ret != "" && m.Return == nil:
		return conflict("engine expects a %s return value", ret)
	case ret != "":
		want, ok := src.VariantType(ret)
		if ok && want != variant.TypeNil && !m.Return.AcceptsAny() && m.Return.Type != want {
			return conflict("returns %s, engine expects %s", m.Return.Type, want)
		}
	}
	return nil
}
