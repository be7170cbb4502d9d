package variant

import "strconv"

// Type is a Variant type tag. Values follow the engine's type numbering.
type Type uint8

const (
	TypeNil Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeVector2
	TypeVector2i
	TypeRect2
	TypeRect2i
	TypeVector3
	TypeVector3i
	TypeTransform2D
	TypeVector4
	TypeVector4i
	TypePlane
	TypeQuaternion
	TypeAABB
	TypeBasis
	TypeTransform3D
	TypeProjection
	TypeColor
	TypeStringName
	TypeNodePath
	TypeRID
	TypeObject
	TypeCallable
	TypeSignal
	TypeDictionary
	TypeArray
	TypePackedByteArray
	TypePackedInt32Array
	TypePackedInt64Array
	TypePackedFloat32Array
	TypePackedFloat64Array
	TypePackedStringArray
	TypePackedVector2Array
	TypePackedVector3Array
	TypePackedColorArray

	typeCount
)

var typeNames = [typeCount]string{
	TypeNil:                "Nil",
	TypeBool:               "bool",
	TypeInt:                "int",
	TypeFloat:              "float",
	TypeString:             "String",
	TypeVector2:            "Vector2",
	TypeVector2i:           "Vector2i",
	TypeRect2:              "Rect2",
	TypeRect2i:             "Rect2i",
	TypeVector3:            "Vector3",
	TypeVector3i:           "Vector3i",
	TypeTransform2D:        "Transform2D",
	TypeVector4:            "Vector4",
	TypeVector4i:           "Vector4i",
	TypePlane:              "Plane",
	TypeQuaternion:         "Quaternion",
	TypeAABB:               "AABB",
	TypeBasis:              "Basis",
	TypeTransform3D:        "Transform3D",
	TypeProjection:         "Projection",
	TypeColor:              "Color",
	TypeStringName:         "StringName",
	TypeNodePath:           "NodePath",
	TypeRID:                "RID",
	TypeObject:             "Object",
	TypeCallable:           "Callable",
	TypeSignal:             "Signal",
	TypeDictionary:         "Dictionary",
	TypeArray:              "Array",
	TypePackedByteArray:    "PackedByteArray",
	TypePackedInt32Array:   "PackedInt32Array",
	TypePackedInt64Array:   "PackedInt64Array",
	TypePackedFloat32Array: "PackedFloat32Array",
	TypePackedFloat64Array: "PackedFloat64Array",
	TypePackedStringArray:  "PackedStringArray",
	TypePackedVector2Array: "PackedVector2Array",
	TypePackedVector3Array: "PackedVector3Array",
	TypePackedColorArray:   "PackedColorArray",
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, typeCount)
	for i, n := range typeNames {
		m[n] = Type(i)
	}
	return m
}()

// String returns the engine's name for the type.
func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is a known type tag.
func (t Type) Valid() bool {
	return t < typeCount
}

// IsPacked reports whether t is one of the packed array types.
func (t Type) IsPacked() bool {
	return t >= TypePackedByteArray && t < typeCount
}

// IsShared reports whether values of type t share storage between copies.
func (t Type) IsShared() bool {
	return t == TypeArray || t == TypeDictionary
}

// ParseType returns the type with the given engine name.
func ParseType(name string) (Type, bool) {
	t, ok := typeByName[name]
	return t, ok
}

// TypeCount is the number of builtin Variant types.
const TypeCount = int(typeCount)
