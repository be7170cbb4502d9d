package api

import (
	"strings"

	"github.com/wippyai/gdbind/variant"
)

// VariantType maps a type name as written in the interface description to a
// Variant type. Enums and bitfields are ints and typed arrays are arrays.
// "Variant" maps to TypeNil, meaning any value. Class names are not known
// here; use Context.VariantType for those.
func VariantType(apiType string) (variant.Type, bool) {
	switch {
	case apiType == "Variant":
		return variant.TypeNil, true
	case strings.HasPrefix(apiType, "enum::"), strings.HasPrefix(apiType, "bitfield::"):
		return variant.TypeInt, true
	case strings.HasPrefix(apiType, "typedarray::"):
		return variant.TypeArray, true
	}
	t, ok := variant.ParseType(apiType)
	if !ok || t == variant.TypeNil {
		return variant.TypeNil, false
	}
	return t, true
}

// VariantType is like the package function but also maps engine classes to
// TypeObject.
func (c *Context) VariantType(apiType string) (variant.Type, bool) {
	if t, ok := VariantType(apiType); ok {
		return t, true
	}
	if _, ok := c.classes[apiType]; ok {
		return variant.TypeObject, true
	}
	return variant.TypeNil, false
}

// TypedArrayElem returns the element type name of "typedarray::T".
func TypedArrayElem(apiType string) (string, bool) {
	return strings.CutPrefix(apiType, "typedarray::")
}
