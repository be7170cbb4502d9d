package variant

import (
	"cmp"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/gdbind/errors"
)

var (
	variantType    = reflect.TypeFor[Variant]()
	objectRefType  = reflect.TypeFor[ObjectRef]()
	objectIface    = reflect.TypeFor[Object]()
	callableType   = reflect.TypeFor[Callable]()
	customFuncType = reflect.TypeFor[CustomFunc]()
	signalType     = reflect.TypeFor[Signal]()
	arrayPtrType   = reflect.TypeFor[*Array]()
	dictPtrType    = reflect.TypeFor[*Dictionary]()
	stringNameType = reflect.TypeFor[StringName]()
	nodePathType   = reflect.TypeFor[NodePath]()
	ridType        = reflect.TypeFor[RID]()
)

// mathTypes are the fixed-size builtins stored as comparable values.
var mathTypes = map[reflect.Type]Type{
	reflect.TypeFor[Vector2]():     TypeVector2,
	reflect.TypeFor[Vector2i]():    TypeVector2i,
	reflect.TypeFor[Rect2]():       TypeRect2,
	reflect.TypeFor[Rect2i]():      TypeRect2i,
	reflect.TypeFor[Vector3]():     TypeVector3,
	reflect.TypeFor[Vector3i]():    TypeVector3i,
	reflect.TypeFor[Transform2D](): TypeTransform2D,
	reflect.TypeFor[Vector4]():     TypeVector4,
	reflect.TypeFor[Vector4i]():    TypeVector4i,
	reflect.TypeFor[Plane]():       TypePlane,
	reflect.TypeFor[Quaternion]():  TypeQuaternion,
	reflect.TypeFor[AABB]():        TypeAABB,
	reflect.TypeFor[Basis]():       TypeBasis,
	reflect.TypeFor[Transform3D](): TypeTransform3D,
	reflect.TypeFor[Projection]():  TypeProjection,
	reflect.TypeFor[Color]():       TypeColor,
}

// packedElems maps packed element types to their packed array type.
var packedElems = map[reflect.Type]Type{
	reflect.TypeFor[byte]():    TypePackedByteArray,
	reflect.TypeFor[int32]():   TypePackedInt32Array,
	reflect.TypeFor[int64]():   TypePackedInt64Array,
	reflect.TypeFor[float32](): TypePackedFloat32Array,
	reflect.TypeFor[float64](): TypePackedFloat64Array,
	reflect.TypeFor[string]():  TypePackedStringArray,
	reflect.TypeFor[Vector2](): TypePackedVector2Array,
	reflect.TypeFor[Vector3](): TypePackedVector3Array,
	reflect.TypeFor[Color]():   TypePackedColorArray,
}

// From converts a Go value into a Variant. It fails only for Go types with no
// Variant representation and for unsigned integers above the int64 range.
func From(value any) (Variant, error) {
	switch x := value.(type) {
	case nil:
		return Variant{}, nil
	case Variant:
		return x, nil
	case bool:
		return NewBool(x), nil
	case int:
		return NewInt(int64(x)), nil
	case int8:
		return NewInt(int64(x)), nil
	case int16:
		return NewInt(int64(x)), nil
	case int32:
		return NewInt(int64(x)), nil
	case int64:
		return NewInt(x), nil
	case uint8:
		return NewInt(int64(x)), nil
	case uint16:
		return NewInt(int64(x)), nil
	case uint32:
		return NewInt(int64(x)), nil
	case float32:
		return NewFloat(float64(x)), nil
	case float64:
		return NewFloat(x), nil
	case string:
		return NewString(x), nil
	case StringName:
		return NewStringName(x), nil
	case NodePath:
		return NewNodePath(x), nil
	case RID:
		return NewRID(x), nil
	case ObjectRef:
		return NewObject(x), nil
	case Callable:
		return NewCallable(x), nil
	case CustomFunc:
		return NewCallable(CustomCallable("", x)), nil
	case func(...Variant) (Variant, error):
		return NewCallable(CustomCallable("", x)), nil
	case Signal:
		return NewSignal(x), nil
	case *Array:
		return NewArrayVariant(x), nil
	case *Dictionary:
		return NewDictionaryVariant(x), nil
	case []Variant:
		return NewArrayVariant(NewArray(x...)), nil
	case []byte:
		return NewPackedByteArray(x), nil
	case []int32:
		return NewPackedInt32Array(x), nil
	case []int64:
		return NewPackedInt64Array(x), nil
	case []float32:
		return NewPackedFloat32Array(x), nil
	case []float64:
		return NewPackedFloat64Array(x), nil
	case []string:
		return NewPackedStringArray(x), nil
	case []Vector2:
		return NewPackedVector2Array(x), nil
	case []Vector3:
		return NewPackedVector3Array(x), nil
	case []Color:
		return NewPackedColorArray(x), nil
	}
	return fromValue(reflect.ValueOf(value), nil)
}

// MustFrom is like From but panics on failure. Use it only for values whose
// type is known to convert.
func MustFrom(value any) Variant {
	v, err := From(value)
	if err != nil {
		panic(err)
	}
	return v
}

// FromValue converts a reflected Go value.
func FromValue(rv reflect.Value) (Variant, error) {
	if !rv.IsValid() {
		return Variant{}, nil
	}
	return fromValue(rv, nil)
}

func fromValue(rv reflect.Value, path []string) (Variant, error) {
	if !rv.IsValid() {
		return Variant{}, nil
	}
	t := rv.Type()

	if t == variantType {
		return rv.Interface().(Variant), nil
	}
	if vt, ok := mathTypes[t]; ok {
		return Variant{typ: vt, ref: rv.Interface()}, nil
	}
	if t.Implements(objectIface) {
		if (t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface) && rv.IsNil() {
			return NewObject(ObjectRef{}), nil
		}
		return NewObject(rv.Interface().(Object).ObjectRef()), nil
	}
	switch t {
	case objectRefType, callableType, signalType, arrayPtrType, dictPtrType,
		stringNameType, nodePathType, ridType, customFuncType:
		return From(rv.Interface())
	}

	switch t.Kind() {
	case reflect.Bool:
		return NewBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u >= 1<<63 {
			return Variant{}, errors.Range(errors.PhaseConvert, path, u, "int")
		}
		return NewInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return NewFloat(rv.Float()), nil
	case reflect.String:
		return NewString(rv.String()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Variant{}, nil
		}
		return fromValue(rv.Elem(), path)
	case reflect.Slice:
		if rv.IsNil() {
			if pt, ok := packedElems[t.Elem()]; ok {
				return Variant{typ: pt, ref: reflect.MakeSlice(reflect.SliceOf(t.Elem()), 0, 0).Interface()}, nil
			}
			return NewArrayVariant(NewArray()), nil
		}
		if pt, ok := packedElems[t.Elem()]; ok {
			s := reflect.MakeSlice(reflect.SliceOf(t.Elem()), rv.Len(), rv.Len())
			reflect.Copy(s, rv)
			return Variant{typ: pt, ref: s.Interface()}, nil
		}
		return fromSequence(rv, path)
	case reflect.Array:
		return fromSequence(rv, path)
	case reflect.Map:
		return fromMap(rv, path)
	}
	return Variant{}, errors.New(errors.PhaseConvert, errors.KindUnsupported).
		Path(path...).
		GoType(t.String()).
		Detail("no Variant representation for %s", t).
		Build()
}

func fromSequence(rv reflect.Value, path []string) (Variant, error) {
	a := &Array{elems: make([]Variant, rv.Len())}
	for i := 0; i < rv.Len(); i++ {
		e, err := fromValue(rv.Index(i), appendPath(path, indexSegment(i)))
		if err != nil {
			return Variant{}, err
		}
		a.elems[i] = e
	}
	return NewArrayVariant(a), nil
}

// fromMap builds a dictionary with keys in sorted order so that results do not
// depend on Go map iteration.
func fromMap(rv reflect.Value, path []string) (Variant, error) {
	type entry struct {
		key Variant
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := fromValue(iter.Key(), appendPath(path, "[key]"))
		if err != nil {
			return Variant{}, err
		}
		entries = append(entries, entry{key: k, val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int { return compareKeys(a.key, b.key) })

	d := NewDictionary()
	for _, e := range entries {
		v, err := fromValue(e.val, appendPath(path, keySegment(e.key)))
		if err != nil {
			return Variant{}, err
		}
		if err := d.Set(e.key, v); err != nil {
			return Variant{}, err
		}
	}
	return NewDictionaryVariant(d), nil
}

func compareKeys(a, b Variant) int {
	if a.typ != b.typ {
		return cmp.Compare(a.typ, b.typ)
	}
	switch a.typ {
	case TypeInt:
		return cmp.Compare(int64(a.num), int64(b.num))
	case TypeFloat:
		fa, _ := a.AsFloat()
		fb, _ := b.AsFloat()
		return cmp.Compare(fa, fb)
	case TypeBool, TypeRID:
		return cmp.Compare(a.num, b.num)
	}
	return strings.Compare(a.String(), b.String())
}

// To converts v to T. It fails with a TypeMismatch error when v's type cannot
// produce a T and with a RangeError when the conversion would lose
// information. On failure the zero T is returned.
func To[T any](v Variant) (T, error) {
	var out T
	if err := assign(reflect.ValueOf(&out).Elem(), v, nil); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ToValue converts v to a new value of type t.
func ToValue(v Variant, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if err := assign(out, v, nil); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}

func assign(dst reflect.Value, v Variant, path []string) error {
	t := dst.Type()

	if t == variantType {
		dst.Set(reflect.ValueOf(v))
		return nil
	}
	if vt, ok := mathTypes[t]; ok {
		if v.typ != vt {
			return mismatch(path, t, v)
		}
		dst.Set(reflect.ValueOf(v.ref))
		return nil
	}

	switch t {
	case objectRefType:
		switch v.typ {
		case TypeNil:
			dst.Set(reflect.Zero(t))
		case TypeObject:
			dst.Set(reflect.ValueOf(v.ref))
		default:
			return mismatch(path, t, v)
		}
		return nil
	case callableType, signalType, arrayPtrType, dictPtrType:
		want := map[reflect.Type]Type{
			callableType: TypeCallable,
			signalType:   TypeSignal,
			arrayPtrType: TypeArray,
			dictPtrType:  TypeDictionary,
		}[t]
		if v.typ != want {
			return mismatch(path, t, v)
		}
		dst.Set(reflect.ValueOf(v.ref))
		return nil
	case customFuncType:
		c, ok := v.AsCallable()
		if !ok || !c.IsCustom() {
			return mismatch(path, t, v)
		}
		dst.Set(reflect.ValueOf(CustomFunc(c.custom.fn)))
		return nil
	case ridType:
		if v.typ != TypeRID {
			return mismatch(path, t, v)
		}
		dst.SetUint(v.num)
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		if v.typ != TypeBool {
			return mismatch(path, t, v)
		}
		dst.SetBool(v.num != 0)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		switch v.typ {
		case TypeInt:
			i = int64(v.num)
		case TypeFloat:
			f, _ := v.AsFloat()
			var ok bool
			if i, ok = floatToInt64(f); !ok {
				return errors.Range(errors.PhaseConvert, path, f, t.String())
			}
		default:
			return mismatch(path, t, v)
		}
		if dst.OverflowInt(i) {
			return errors.Range(errors.PhaseConvert, path, i, t.String())
		}
		dst.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var u uint64
		switch v.typ {
		case TypeInt:
			i := int64(v.num)
			if i < 0 {
				return errors.Range(errors.PhaseConvert, path, i, t.String())
			}
			u = uint64(i)
		case TypeFloat:
			f, _ := v.AsFloat()
			var ok bool
			if u, ok = floatToUint64(f); !ok {
				return errors.Range(errors.PhaseConvert, path, f, t.String())
			}
		default:
			return mismatch(path, t, v)
		}
		if dst.OverflowUint(u) {
			return errors.Range(errors.PhaseConvert, path, u, t.String())
		}
		dst.SetUint(u)
		return nil

	case reflect.Float32:
		var f float32
		var ok bool
		switch v.typ {
		case TypeFloat:
			f64, _ := v.AsFloat()
			if f, ok = float64ToFloat32(f64); !ok {
				return errors.Range(errors.PhaseConvert, path, f64, t.String())
			}
		case TypeInt:
			if f, ok = int64ToFloat32(int64(v.num)); !ok {
				return errors.Range(errors.PhaseConvert, path, int64(v.num), t.String())
			}
		default:
			return mismatch(path, t, v)
		}
		dst.SetFloat(float64(f))
		return nil

	case reflect.Float64:
		var f float64
		switch v.typ {
		case TypeFloat:
			f, _ = v.AsFloat()
		case TypeInt:
			var ok bool
			if f, ok = int64ToFloat64(int64(v.num)); !ok {
				return errors.Range(errors.PhaseConvert, path, int64(v.num), t.String())
			}
		default:
			return mismatch(path, t, v)
		}
		dst.SetFloat(f)
		return nil

	case reflect.String:
		switch v.typ {
		case TypeString:
			dst.SetString(v.ref.(string))
		case TypeStringName:
			dst.SetString(string(v.ref.(StringName)))
		case TypeNodePath:
			dst.SetString(string(v.ref.(NodePath)))
		default:
			return mismatch(path, t, v)
		}
		return nil

	case reflect.Slice:
		return assignSlice(dst, v, path)

	case reflect.Array:
		elems, ok := sequenceOf(v)
		if !ok {
			return mismatch(path, t, v)
		}
		if len(elems) != t.Len() {
			return errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
				Path(path...).
				GoType(t.String()).
				VariantType(v.typ.String()).
				Detail("need %d elements, got %d", t.Len(), len(elems)).
				Build()
		}
		for i, e := range elems {
			if err := assign(dst.Index(i), e, appendPath(path, indexSegment(i))); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		d, ok := v.AsDictionary()
		if !ok {
			return mismatch(path, t, v)
		}
		m := reflect.MakeMapWithSize(t, d.Len())
		for i := range d.keys {
			seg := keySegment(d.keys[i])
			k := reflect.New(t.Key()).Elem()
			if err := assign(k, d.keys[i], appendPath(path, seg)); err != nil {
				return err
			}
			val := reflect.New(t.Elem()).Elem()
			if err := assign(val, d.values[i], appendPath(path, seg)); err != nil {
				return err
			}
			m.SetMapIndex(k, val)
		}
		dst.Set(m)
		return nil

	case reflect.Pointer:
		if v.typ == TypeNil {
			dst.Set(reflect.Zero(t))
			return nil
		}
		p := reflect.New(t.Elem())
		if err := assign(p.Elem(), v, path); err != nil {
			return err
		}
		dst.Set(p)
		return nil

	case reflect.Interface:
		if v.typ == TypeNil {
			dst.Set(reflect.Zero(t))
			return nil
		}
		x := reflect.ValueOf(v.Interface())
		if !x.Type().AssignableTo(t) {
			return mismatch(path, t, v)
		}
		dst.Set(x)
		return nil
	}

	return mismatch(path, t, v)
}

func assignSlice(dst reflect.Value, v Variant, path []string) error {
	t := dst.Type()
	if pt, ok := packedElems[t.Elem()]; ok && v.typ == pt {
		src := reflect.ValueOf(v.ref)
		s := reflect.MakeSlice(t, src.Len(), src.Len())
		reflect.Copy(s, src)
		dst.Set(s)
		return nil
	}
	elems, ok := sequenceOf(v)
	if !ok {
		return mismatch(path, t, v)
	}
	s := reflect.MakeSlice(t, len(elems), len(elems))
	for i, e := range elems {
		if err := assign(s.Index(i), e, appendPath(path, indexSegment(i))); err != nil {
			return err
		}
	}
	dst.Set(s)
	return nil
}

// sequenceOf returns the elements of an Array or packed array Variant.
func sequenceOf(v Variant) ([]Variant, bool) {
	if a, ok := v.AsArray(); ok {
		return a.elems, true
	}
	return v.PackedElements()
}

func mismatch(path []string, t reflect.Type, v Variant) error {
	return errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
		Path(path...).
		GoType(t.String()).
		VariantType(v.typ.String()).
		Detail("cannot convert %s to %s", v.typ, t).
		Build()
}

func appendPath(path []string, seg string) []string {
	return append(append([]string{}, path...), seg)
}

func indexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

func keySegment(k Variant) string {
	if s, ok := k.AsString(); ok {
		return "[" + strconv.Quote(s) + "]"
	}
	return "[" + k.String() + "]"
}

// TypeOf reports the Variant type a Go type converts to. Variant and empty
// interfaces report TypeNil, meaning any Variant is accepted.
func TypeOf(t reflect.Type) (Type, bool) {
	if t == variantType {
		return TypeNil, true
	}
	if vt, ok := mathTypes[t]; ok {
		return vt, true
	}
	if t.Implements(objectIface) || t == objectRefType {
		return TypeObject, true
	}
	switch t {
	case callableType, customFuncType:
		return TypeCallable, true
	case signalType:
		return TypeSignal, true
	case arrayPtrType:
		return TypeArray, true
	case dictPtrType:
		return TypeDictionary, true
	case stringNameType:
		return TypeStringName, true
	case nodePathType:
		return TypeNodePath, true
	case ridType:
		return TypeRID, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return TypeBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInt, true
	case reflect.Float32, reflect.Float64:
		return TypeFloat, true
	case reflect.String:
		return TypeString, true
	case reflect.Slice:
		if pt, ok := packedElems[t.Elem()]; ok {
			return pt, true
		}
		if _, ok := TypeOf(t.Elem()); ok {
			return TypeArray, true
		}
	case reflect.Array:
		if _, ok := TypeOf(t.Elem()); ok {
			return TypeArray, true
		}
	case reflect.Map:
		_, kok := TypeOf(t.Key())
		_, vok := TypeOf(t.Elem())
		if kok && vok {
			return TypeDictionary, true
		}
	case reflect.Pointer:
		return TypeOf(t.Elem())
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return TypeNil, true
		}
	}
	return TypeNil, false
}
