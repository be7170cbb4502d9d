package variant

import (
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/wippyai/gdbind/errors"
)

func roundTrip[T comparable](t *testing.T, name string, in T) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		v, err := From(in)
		if err != nil {
			t.Fatalf("From(%v) failed: %v", in, err)
		}
		out, err := To[T](v)
		if err != nil {
			t.Fatalf("To[%T](%v) failed: %v", in, v, err)
		}
		if out != in {
			t.Errorf("round trip mismatch: got %v, want %v", out, in)
		}
	})
}

func roundTripDeep[T any](t *testing.T, name string, in T) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		v, err := From(in)
		if err != nil {
			t.Fatalf("From(%v) failed: %v", in, err)
		}
		out, err := To[T](v)
		if err != nil {
			t.Fatalf("To[%T](%v) failed: %v", in, v, err)
		}
		if !reflect.DeepEqual(out, in) {
			t.Errorf("round trip mismatch: got %#v, want %#v", out, in)
		}
	})
}

func TestRoundTrip_Primitives(t *testing.T) {
	roundTrip(t, "bool", true)
	roundTrip(t, "int", -12345)
	roundTrip(t, "int8", int8(math.MinInt8))
	roundTrip(t, "int16", int16(math.MaxInt16))
	roundTrip(t, "int32", int32(math.MinInt32))
	roundTrip(t, "int64", int64(math.MaxInt64))
	roundTrip(t, "uint", uint(7))
	roundTrip(t, "uint8", uint8(255))
	roundTrip(t, "uint16", uint16(65535))
	roundTrip(t, "uint32", uint32(math.MaxUint32))
	roundTrip(t, "uint64", uint64(math.MaxInt64))
	roundTrip(t, "float32", float32(1.25))
	roundTrip(t, "float64", 3.141592653589793)
	roundTrip(t, "string", "héllo")
	roundTrip(t, "StringName", StringName("ready"))
	roundTrip(t, "NodePath", NodePath("Player/Sprite:modulate"))
	roundTrip(t, "RID", RID(99))
}

func TestRoundTrip_Math(t *testing.T) {
	roundTrip(t, "Vector2", Vector2{1.5, -2})
	roundTrip(t, "Vector2i", Vector2i{3, -4})
	roundTrip(t, "Rect2", Rect2{Vector2{0, 1}, Vector2{2, 3}})
	roundTrip(t, "Rect2i", Rect2i{Vector2i{0, 1}, Vector2i{2, 3}})
	roundTrip(t, "Vector3", Vector3{1, 2, 3})
	roundTrip(t, "Vector3i", Vector3i{-1, 0, 1})
	roundTrip(t, "Transform2D", Transform2DIdentity)
	roundTrip(t, "Vector4", Vector4{1, 2, 3, 4})
	roundTrip(t, "Vector4i", Vector4i{1, 2, 3, 4})
	roundTrip(t, "Plane", Plane{Vector3{0, 1, 0}, 5})
	roundTrip(t, "Quaternion", QuaternionIdentity)
	roundTrip(t, "AABB", AABB{Vector3{0, 0, 0}, Vector3{1, 1, 1}})
	roundTrip(t, "Basis", BasisIdentity)
	roundTrip(t, "Transform3D", Transform3DIdentity)
	roundTrip(t, "Projection", ProjectionIdentity)
	roundTrip(t, "Color", Color{0.5, 0.25, 1, 1})
	roundTrip(t, "ObjectRef", ObjectRef{ID: 7, Ptr: 0x1000, Class: "Node"})
	roundTrip(t, "Signal", Signal{Object: ObjectRef{ID: 7, Ptr: 0x1000}, Name: "hit"})
}

func TestRoundTrip_Collections(t *testing.T) {
	roundTripDeep(t, "bytes", []byte{0, 1, 255})
	roundTripDeep(t, "int32s", []int32{-1, 0, 1})
	roundTripDeep(t, "int64s", []int64{math.MinInt64, math.MaxInt64})
	roundTripDeep(t, "float32s", []float32{0.5, -1})
	roundTripDeep(t, "float64s", []float64{0.1, 1e300})
	roundTripDeep(t, "strings", []string{"a", "", "c"})
	roundTripDeep(t, "vector2s", []Vector2{{1, 2}, {3, 4}})
	roundTripDeep(t, "vector3s", []Vector3{{1, 2, 3}})
	roundTripDeep(t, "colors", []Color{{1, 0, 0, 1}})
	roundTripDeep(t, "ints as Array", []int{1, 2, 3})
	roundTripDeep(t, "nested", [][]int{{1}, {2, 3}})
	roundTripDeep(t, "fixed array", [3]int16{1, 2, 3})
	roundTripDeep(t, "map", map[string]int{"a": 1, "b": 2})
	roundTripDeep(t, "int keys", map[int]string{1: "one", 2: "two"})
	roundTripDeep(t, "map of slices", map[string][]string{"tags": {"x", "y"}})
}

func TestFrom_PackedIsCopied(t *testing.T) {
	b := []byte{1, 2, 3}
	v := MustFrom(b)
	b[0] = 9

	got, _ := v.AsPackedByteArray()
	if got[0] != 1 {
		t.Fatalf("packed array aliases its source: %v", got)
	}
	got[1] = 9
	again, _ := v.AsPackedByteArray()
	if again[1] != 2 {
		t.Fatalf("packed accessor returned shared storage: %v", again)
	}
}

func TestFrom_MapKeysSorted(t *testing.T) {
	v := MustFrom(map[string]int{"b": 2, "c": 3, "a": 1})
	d, ok := v.AsDictionary()
	if !ok {
		t.Fatalf("expected Dictionary, got %s", v.Type())
	}
	var keys []string
	for _, k := range d.Keys() {
		s, _ := k.AsString()
		keys = append(keys, s)
	}
	if !slices.Equal(keys, []string{"a", "b", "c"}) {
		t.Fatalf("keys = %v", keys)
	}
}

func TestFrom_Errors(t *testing.T) {
	tests := []struct {
		input any
		name  string
		kind  errors.Kind
	}{
		{uint64(math.MaxUint64), "uint64 overflow", errors.KindRange},
		{struct{ A int }{1}, "struct", errors.KindUnsupported},
		{make(chan int), "channel", errors.KindUnsupported},
		{[]any{1, make(chan int)}, "nested channel", errors.KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := From(tt.input)
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestFrom_Special(t *testing.T) {
	if v := MustFrom(nil); !v.IsNil() {
		t.Errorf("From(nil) = %s", v.Type())
	}
	var p *int
	if v := MustFrom(p); !v.IsNil() {
		t.Errorf("From(nil pointer) = %s", v.Type())
	}
	n := 5
	if v := MustFrom(&n); v.Type() != TypeInt {
		t.Errorf("From(*int) = %s", v.Type())
	}
	type Score int
	if v := MustFrom(Score(3)); v.Type() != TypeInt {
		t.Errorf("From(named int) = %s", v.Type())
	}
	fn := func(args ...Variant) (Variant, error) { return NewInt(int64(len(args))), nil }
	v := MustFrom(fn)
	c, ok := v.AsCallable()
	if !ok || !c.IsCustom() {
		t.Fatalf("From(func) = %s", v.Type())
	}
	got, err := c.CallCustom(NewInt(1), NewInt(2))
	if err != nil || got.Interface() != int64(2) {
		t.Errorf("CallCustom = %v, %v", got, err)
	}
}

func TestTo_Narrowing(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
		kind errors.Kind
	}{
		{"fractional float to int", func() error { _, err := To[int](NewFloat(2.5)); return err }, errors.KindRange},
		{"NaN to int", func() error { _, err := To[int](NewFloat(math.NaN())); return err }, errors.KindRange},
		{"Inf to int64", func() error { _, err := To[int64](NewFloat(math.Inf(1))); return err }, errors.KindRange},
		{"int overflow int8", func() error { _, err := To[int8](NewInt(200)); return err }, errors.KindRange},
		{"negative to uint", func() error { _, err := To[uint](NewInt(-1)); return err }, errors.KindRange},
		{"overflow uint16", func() error { _, err := To[uint16](NewInt(70000)); return err }, errors.KindRange},
		{"inexact float32", func() error { _, err := To[float32](NewFloat(0.1)); return err }, errors.KindRange},
		{"inexact int to float64", func() error { _, err := To[float64](NewInt(math.MaxInt64)); return err }, errors.KindRange},
		{"int to string", func() error { _, err := To[string](NewInt(1)); return err }, errors.KindTypeMismatch},
		{"bool to int", func() error { _, err := To[int](NewBool(true)); return err }, errors.KindTypeMismatch},
		{"string to Vector2", func() error { _, err := To[Vector2](NewString("x")); return err }, errors.KindTypeMismatch},
		{"int to Array", func() error { _, err := To[*Array](NewInt(1)); return err }, errors.KindTypeMismatch},
		{"Nil to Dictionary", func() error { _, err := To[map[string]int](Nil()); return err }, errors.KindTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestTo_Widening(t *testing.T) {
	if got, err := To[int](NewFloat(3)); err != nil || got != 3 {
		t.Errorf("To[int](3.0) = %v, %v", got, err)
	}
	if got, err := To[float64](NewInt(1 << 40)); err != nil || got != 1<<40 {
		t.Errorf("To[float64](2^40) = %v, %v", got, err)
	}
	if got, err := To[float32](NewFloat(math.Inf(-1))); err != nil || !math.IsInf(float64(got), -1) {
		t.Errorf("To[float32](-Inf) = %v, %v", got, err)
	}
	if got, err := To[string](NewStringName("idle")); err != nil || got != "idle" {
		t.Errorf("To[string](StringName) = %v, %v", got, err)
	}
	if got, err := To[any](NewInt(5)); err != nil || got != int64(5) {
		t.Errorf("To[any](5) = %v, %v", got, err)
	}
	if got, err := To[*int](Nil()); err != nil || got != nil {
		t.Errorf("To[*int](nil) = %v, %v", got, err)
	}
	if got, err := To[*int](NewInt(9)); err != nil || got == nil || *got != 9 {
		t.Errorf("To[*int](9) = %v, %v", got, err)
	}
	if got, err := To[ObjectRef](Nil()); err != nil || !got.IsNull() {
		t.Errorf("To[ObjectRef](nil) = %v, %v", got, err)
	}
	if got, err := To[Variant](NewInt(4)); err != nil || !got.Equal(NewInt(4)) {
		t.Errorf("To[Variant] = %v, %v", got, err)
	}
	packed := NewPackedInt32Array([]int32{1, 2})
	if got, err := To[[]int](packed); err != nil || !slices.Equal(got, []int{1, 2}) {
		t.Errorf("To[[]int](packed) = %v, %v", got, err)
	}
}

func TestTo_FailFastPath(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
		path []string
		kind errors.Kind
	}{
		{
			name: "array element",
			run: func() error {
				_, err := To[[]int](NewArrayVariant(NewArray(NewInt(1), NewInt(2), NewString("x"), NewInt(4))))
				return err
			},
			path: []string{"[2]"},
			kind: errors.KindTypeMismatch,
		},
		{
			name: "dictionary value",
			run: func() error {
				d := NewDictionary()
				d.Set(NewString("a"), NewInt(1))
				d.Set(NewString("b"), NewString("no"))
				_, err := To[map[string]int](NewDictionaryVariant(d))
				return err
			},
			path: []string{`["b"]`},
			kind: errors.KindTypeMismatch,
		},
		{
			name: "nested range",
			run: func() error {
				inner := NewArray(NewInt(2), NewInt(300))
				outer := NewArray(NewArrayVariant(NewArray(NewInt(1))), NewArrayVariant(inner))
				_, err := To[[][]int8](NewArrayVariant(outer))
				return err
			},
			path: []string{"[1]", "[1]"},
			kind: errors.KindRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			e, ok := err.(*errors.Error)
			if !ok {
				t.Fatalf("expected *errors.Error, got %T: %v", err, err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", e.Kind, tt.kind)
			}
			if !slices.Equal(e.Path, tt.path) {
				t.Errorf("path = %v, want %v", e.Path, tt.path)
			}
		})
	}
}

func TestTo_ZeroOnFailure(t *testing.T) {
	got, err := To[[]int](NewArrayVariant(NewArray(NewInt(1), NewString("x"))))
	if err == nil {
		t.Fatal("expected error")
	}
	if got != nil {
		t.Errorf("expected zero value on failure, got %v", got)
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		typ    reflect.Type
		want   Type
		wantOK bool
	}{
		{reflect.TypeFor[bool](), TypeBool, true},
		{reflect.TypeFor[int32](), TypeInt, true},
		{reflect.TypeFor[uint8](), TypeInt, true},
		{reflect.TypeFor[float32](), TypeFloat, true},
		{reflect.TypeFor[string](), TypeString, true},
		{reflect.TypeFor[StringName](), TypeStringName, true},
		{reflect.TypeFor[Vector3](), TypeVector3, true},
		{reflect.TypeFor[[]byte](), TypePackedByteArray, true},
		{reflect.TypeFor[[]Color](), TypePackedColorArray, true},
		{reflect.TypeFor[[]int](), TypeArray, true},
		{reflect.TypeFor[*Array](), TypeArray, true},
		{reflect.TypeFor[map[string]int](), TypeDictionary, true},
		{reflect.TypeFor[ObjectRef](), TypeObject, true},
		{reflect.TypeFor[Callable](), TypeCallable, true},
		{reflect.TypeFor[Variant](), TypeNil, true},
		{reflect.TypeFor[any](), TypeNil, true},
		{reflect.TypeFor[chan int](), TypeNil, false},
		{reflect.TypeFor[struct{}](), TypeNil, false},
		{reflect.TypeFor[[]chan int](), TypeNil, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got, ok := TypeOf(tt.typ)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("TypeOf(%s) = %s, %v; want %s, %v", tt.typ, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
