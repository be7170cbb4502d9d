package variant

import (
	"math"
	"slices"
)

// Variant is the engine's universal value. The zero Variant is Nil.
//
// Copying a Variant is a plain value copy. Arrays and dictionaries are shared
// between copies; every other payload is immutable or copied on access.
type Variant struct {
	ref any
	num uint64
	typ Type
}

// Nil returns the nil Variant.
func Nil() Variant { return Variant{} }

func NewBool(b bool) Variant {
	var n uint64
	if b {
		n = 1
	}
	return Variant{typ: TypeBool, num: n}
}

func NewInt(i int64) Variant     { return Variant{typ: TypeInt, num: uint64(i)} }
func NewFloat(f float64) Variant { return Variant{typ: TypeFloat, num: math.Float64bits(f)} }
func NewString(s string) Variant { return Variant{typ: TypeString, ref: s} }
func NewRID(r RID) Variant       { return Variant{typ: TypeRID, num: uint64(r)} }

func NewStringName(s StringName) Variant { return Variant{typ: TypeStringName, ref: s} }
func NewNodePath(p NodePath) Variant     { return Variant{typ: TypeNodePath, ref: p} }

func NewVector2(v Vector2) Variant         { return Variant{typ: TypeVector2, ref: v} }
func NewVector2i(v Vector2i) Variant       { return Variant{typ: TypeVector2i, ref: v} }
func NewRect2(v Rect2) Variant             { return Variant{typ: TypeRect2, ref: v} }
func NewRect2i(v Rect2i) Variant           { return Variant{typ: TypeRect2i, ref: v} }
func NewVector3(v Vector3) Variant         { return Variant{typ: TypeVector3, ref: v} }
func NewVector3i(v Vector3i) Variant       { return Variant{typ: TypeVector3i, ref: v} }
func NewTransform2D(v Transform2D) Variant { return Variant{typ: TypeTransform2D, ref: v} }
func NewVector4(v Vector4) Variant         { return Variant{typ: TypeVector4, ref: v} }
func NewVector4i(v Vector4i) Variant       { return Variant{typ: TypeVector4i, ref: v} }
func NewPlane(v Plane) Variant             { return Variant{typ: TypePlane, ref: v} }
func NewQuaternion(v Quaternion) Variant   { return Variant{typ: TypeQuaternion, ref: v} }
func NewAABB(v AABB) Variant               { return Variant{typ: TypeAABB, ref: v} }
func NewBasis(v Basis) Variant             { return Variant{typ: TypeBasis, ref: v} }
func NewTransform3D(v Transform3D) Variant { return Variant{typ: TypeTransform3D, ref: v} }
func NewProjection(v Projection) Variant   { return Variant{typ: TypeProjection, ref: v} }
func NewColor(v Color) Variant             { return Variant{typ: TypeColor, ref: v} }

// NewObject returns an Object Variant. A null ref yields an Object Variant
// holding no object, which is distinct from Nil.
func NewObject(r ObjectRef) Variant { return Variant{typ: TypeObject, ref: r} }

func NewCallable(c Callable) Variant { return Variant{typ: TypeCallable, ref: c} }
func NewSignal(s Signal) Variant     { return Variant{typ: TypeSignal, ref: s} }

// NewArrayVariant wraps a. The Variant shares a's storage; a nil a is replaced
// with a new empty array.
func NewArrayVariant(a *Array) Variant {
	if a == nil {
		a = NewArray()
	}
	return Variant{typ: TypeArray, ref: a}
}

// NewDictionaryVariant wraps d. The Variant shares d's storage; a nil d is
// replaced with a new empty dictionary.
func NewDictionaryVariant(d *Dictionary) Variant {
	if d == nil {
		d = NewDictionary()
	}
	return Variant{typ: TypeDictionary, ref: d}
}

// Packed array constructors copy their input.

func NewPackedByteArray(b []byte) Variant {
	return Variant{typ: TypePackedByteArray, ref: slices.Clone(b)}
}
func NewPackedInt32Array(s []int32) Variant {
	return Variant{typ: TypePackedInt32Array, ref: slices.Clone(s)}
}
func NewPackedInt64Array(s []int64) Variant {
	return Variant{typ: TypePackedInt64Array, ref: slices.Clone(s)}
}
func NewPackedFloat32Array(s []float32) Variant {
	return Variant{typ: TypePackedFloat32Array, ref: slices.Clone(s)}
}
func NewPackedFloat64Array(s []float64) Variant {
	return Variant{typ: TypePackedFloat64Array, ref: slices.Clone(s)}
}
func NewPackedStringArray(s []string) Variant {
	return Variant{typ: TypePackedStringArray, ref: slices.Clone(s)}
}
func NewPackedVector2Array(s []Vector2) Variant {
	return Variant{typ: TypePackedVector2Array, ref: slices.Clone(s)}
}
func NewPackedVector3Array(s []Vector3) Variant {
	return Variant{typ: TypePackedVector3Array, ref: slices.Clone(s)}
}
func NewPackedColorArray(s []Color) Variant {
	return Variant{typ: TypePackedColorArray, ref: slices.Clone(s)}
}

// Type returns the runtime type tag.
func (v Variant) Type() Type { return v.typ }

// IsNil reports whether v is the nil Variant.
func (v Variant) IsNil() bool { return v.typ == TypeNil }

func (v Variant) AsBool() (bool, bool) {
	return v.num != 0, v.typ == TypeBool
}

func (v Variant) AsInt() (int64, bool) {
	return int64(v.num), v.typ == TypeInt
}

func (v Variant) AsFloat() (float64, bool) {
	if v.typ != TypeFloat {
		return 0, false
	}
	return math.Float64frombits(v.num), true
}

func (v Variant) AsRID() (RID, bool) {
	return RID(v.num), v.typ == TypeRID
}

// AsString returns the payload of a String Variant.
func (v Variant) AsString() (string, bool) {
	s, ok := v.ref.(string)
	return s, ok && v.typ == TypeString
}

func (v Variant) AsStringName() (StringName, bool) { return as[StringName](v, TypeStringName) }
func (v Variant) AsNodePath() (NodePath, bool)     { return as[NodePath](v, TypeNodePath) }
func (v Variant) AsVector2() (Vector2, bool)       { return as[Vector2](v, TypeVector2) }
func (v Variant) AsVector2i() (Vector2i, bool)     { return as[Vector2i](v, TypeVector2i) }
func (v Variant) AsRect2() (Rect2, bool)           { return as[Rect2](v, TypeRect2) }
func (v Variant) AsRect2i() (Rect2i, bool)         { return as[Rect2i](v, TypeRect2i) }
func (v Variant) AsVector3() (Vector3, bool)       { return as[Vector3](v, TypeVector3) }
func (v Variant) AsVector3i() (Vector3i, bool)     { return as[Vector3i](v, TypeVector3i) }
func (v Variant) AsTransform2D() (Transform2D, bool) {
	return as[Transform2D](v, TypeTransform2D)
}
func (v Variant) AsVector4() (Vector4, bool)       { return as[Vector4](v, TypeVector4) }
func (v Variant) AsVector4i() (Vector4i, bool)     { return as[Vector4i](v, TypeVector4i) }
func (v Variant) AsPlane() (Plane, bool)           { return as[Plane](v, TypePlane) }
func (v Variant) AsQuaternion() (Quaternion, bool) { return as[Quaternion](v, TypeQuaternion) }
func (v Variant) AsAABB() (AABB, bool)             { return as[AABB](v, TypeAABB) }
func (v Variant) AsBasis() (Basis, bool)           { return as[Basis](v, TypeBasis) }
func (v Variant) AsTransform3D() (Transform3D, bool) {
	return as[Transform3D](v, TypeTransform3D)
}
func (v Variant) AsProjection() (Projection, bool) { return as[Projection](v, TypeProjection) }
func (v Variant) AsColor() (Color, bool)           { return as[Color](v, TypeColor) }
func (v Variant) AsObject() (ObjectRef, bool)      { return as[ObjectRef](v, TypeObject) }
func (v Variant) AsCallable() (Callable, bool)     { return as[Callable](v, TypeCallable) }
func (v Variant) AsSignal() (Signal, bool)         { return as[Signal](v, TypeSignal) }

// AsArray returns the shared array payload.
func (v Variant) AsArray() (*Array, bool) { return as[*Array](v, TypeArray) }

// AsDictionary returns the shared dictionary payload.
func (v Variant) AsDictionary() (*Dictionary, bool) { return as[*Dictionary](v, TypeDictionary) }

// Packed accessors return copies.

func (v Variant) AsPackedByteArray() ([]byte, bool) {
	return asPacked[byte](v, TypePackedByteArray)
}
func (v Variant) AsPackedInt32Array() ([]int32, bool) {
	return asPacked[int32](v, TypePackedInt32Array)
}
func (v Variant) AsPackedInt64Array() ([]int64, bool) {
	return asPacked[int64](v, TypePackedInt64Array)
}
func (v Variant) AsPackedFloat32Array() ([]float32, bool) {
	return asPacked[float32](v, TypePackedFloat32Array)
}
func (v Variant) AsPackedFloat64Array() ([]float64, bool) {
	return asPacked[float64](v, TypePackedFloat64Array)
}
func (v Variant) AsPackedStringArray() ([]string, bool) {
	return asPacked[string](v, TypePackedStringArray)
}
func (v Variant) AsPackedVector2Array() ([]Vector2, bool) {
	return asPacked[Vector2](v, TypePackedVector2Array)
}
func (v Variant) AsPackedVector3Array() ([]Vector3, bool) {
	return asPacked[Vector3](v, TypePackedVector3Array)
}
func (v Variant) AsPackedColorArray() ([]Color, bool) {
	return asPacked[Color](v, TypePackedColorArray)
}

func as[T any](v Variant, t Type) (T, bool) {
	if v.typ != t {
		var zero T
		return zero, false
	}
	x, ok := v.ref.(T)
	return x, ok
}

func asPacked[T any](v Variant, t Type) ([]T, bool) {
	s, ok := as[[]T](v, t)
	if !ok {
		return nil, false
	}
	return slices.Clone(s), true
}

// PackedLen returns the element count of a packed array Variant, or -1.
func (v Variant) PackedLen() int {
	switch s := v.ref.(type) {
	case []byte:
		return len(s)
	case []int32:
		return len(s)
	case []int64:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	case []string:
		return len(s)
	case []Vector2:
		return len(s)
	case []Vector3:
		return len(s)
	case []Color:
		return len(s)
	}
	return -1
}

// PackedElements returns the elements of a packed array Variant as Variants.
func (v Variant) PackedElements() ([]Variant, bool) {
	if !v.typ.IsPacked() {
		return nil, false
	}
	var out []Variant
	switch s := v.ref.(type) {
	case []byte:
		out = mapSlice(s, func(x byte) Variant { return NewInt(int64(x)) })
	case []int32:
		out = mapSlice(s, func(x int32) Variant { return NewInt(int64(x)) })
	case []int64:
		out = mapSlice(s, NewInt)
	case []float32:
		out = mapSlice(s, func(x float32) Variant { return NewFloat(float64(x)) })
	case []float64:
		out = mapSlice(s, NewFloat)
	case []string:
		out = mapSlice(s, NewString)
	case []Vector2:
		out = mapSlice(s, NewVector2)
	case []Vector3:
		out = mapSlice(s, NewVector3)
	case []Color:
		out = mapSlice(s, NewColor)
	}
	return out, true
}

func mapSlice[T any](s []T, f func(T) Variant) []Variant {
	out := make([]Variant, len(s))
	for i, x := range s {
		out[i] = f(x)
	}
	return out
}

// Interface returns the payload as a plain Go value: nil, bool, int64, float64,
// string, one of this package's types, *Array, *Dictionary, or a copy of a
// packed slice.
func (v Variant) Interface() any {
	switch v.typ {
	case TypeNil:
		return nil
	case TypeBool:
		return v.num != 0
	case TypeInt:
		return int64(v.num)
	case TypeFloat:
		return math.Float64frombits(v.num)
	case TypeRID:
		return RID(v.num)
	}
	if v.typ.IsPacked() {
		switch s := v.ref.(type) {
		case []byte:
			return slices.Clone(s)
		case []int32:
			return slices.Clone(s)
		case []int64:
			return slices.Clone(s)
		case []float32:
			return slices.Clone(s)
		case []float64:
			return slices.Clone(s)
		case []string:
			return slices.Clone(s)
		case []Vector2:
			return slices.Clone(s)
		case []Vector3:
			return slices.Clone(s)
		case []Color:
			return slices.Clone(s)
		}
	}
	return v.ref
}

// Booleanize returns the truth value the engine assigns to v: false for Nil,
// zero numbers, empty strings and containers, null objects and zero vectors.
func (v Variant) Booleanize() bool {
	switch v.typ {
	case TypeNil:
		return false
	case TypeBool, TypeInt, TypeRID:
		return v.num != 0
	case TypeFloat:
		return math.Float64frombits(v.num) != 0
	case TypeString:
		return v.ref.(string) != ""
	case TypeStringName:
		return v.ref.(StringName) != ""
	case TypeNodePath:
		return v.ref.(NodePath) != ""
	case TypeObject:
		return !v.ref.(ObjectRef).IsNull()
	case TypeCallable:
		return !v.ref.(Callable).IsNull()
	case TypeSignal:
		return !v.ref.(Signal).IsNull()
	case TypeArray:
		return v.ref.(*Array).Len() > 0
	case TypeDictionary:
		return v.ref.(*Dictionary).Len() > 0
	}
	if v.typ.IsPacked() {
		return v.PackedLen() > 0
	}
	switch v.typ {
	case TypeVector2:
		return v.ref.(Vector2) != Vector2{}
	case TypeVector2i:
		return v.ref.(Vector2i) != Vector2i{}
	case TypeVector3:
		return v.ref.(Vector3) != Vector3{}
	case TypeVector3i:
		return v.ref.(Vector3i) != Vector3i{}
	case TypeVector4:
		return v.ref.(Vector4) != Vector4{}
	case TypeVector4i:
		return v.ref.(Vector4i) != Vector4i{}
	}
	return true
}
