package variant

import (
	"testing"
)

func TestCallable_Validity(t *testing.T) {
	obj := ObjectRef{ID: 11, Ptr: 0x2000, Class: "RefCounted"}

	tests := []struct {
		name       string
		c          Callable
		wantNull   bool
		wantCustom bool
		wantObject bool
	}{
		{"method", MethodCallable(obj, "foo"), false, false, true},
		{"missing method", MethodCallable(obj, "doesn't_exist"), false, false, true},
		{"invalid", InvalidCallable, true, false, false},
		{"no method name", MethodCallable(obj, ""), true, false, true},
		{"custom", CustomCallable("lambda", func(...Variant) (Variant, error) { return Nil(), nil }), false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsNull(); got != tt.wantNull {
				t.Errorf("IsNull = %v, want %v", got, tt.wantNull)
			}
			if got := tt.c.IsCustom(); got != tt.wantCustom {
				t.Errorf("IsCustom = %v, want %v", got, tt.wantCustom)
			}
			if _, got := tt.c.Object(); got != tt.wantObject {
				t.Errorf("Object ok = %v, want %v", got, tt.wantObject)
			}
		})
	}
}

func TestCallable_Hash(t *testing.T) {
	obj := ObjectRef{ID: 11, Ptr: 0x2000}
	if MethodCallable(obj, "foo").Hash() != MethodCallable(obj, "foo").Hash() {
		t.Errorf("same object and method must hash alike")
	}
	if MethodCallable(obj, "foo").Hash() == MethodCallable(obj, "bar").Hash() {
		t.Errorf("different methods should hash differently")
	}

	fn := func(...Variant) (Variant, error) { return Nil(), nil }
	a, b := CustomCallable("f", fn), CustomCallable("f", fn)
	if a.Equal(b) {
		t.Errorf("distinct custom callables compare equal")
	}
	if !a.Equal(a) || a.Hash() != a.Hash() {
		t.Errorf("custom callable not equal to itself")
	}
}

func TestCallable_ObjectMethod(t *testing.T) {
	obj := ObjectRef{ID: 11, Ptr: 0x2000, Class: "Node2D"}
	c := MethodCallable(obj, "set_position")

	if got, ok := c.Object(); !ok || got != obj {
		t.Errorf("Object = %v, %v", got, ok)
	}
	if c.ObjectID() != 11 {
		t.Errorf("ObjectID = %d", c.ObjectID())
	}
	if m, ok := c.MethodName(); !ok || m != "set_position" {
		t.Errorf("MethodName = %q, %v", m, ok)
	}
	if c.String() != "Node2D::set_position" {
		t.Errorf("String = %q", c.String())
	}

	if _, ok := InvalidCallable.Object(); ok {
		t.Errorf("invalid callable has an object")
	}
	if InvalidCallable.ObjectID() != 0 {
		t.Errorf("invalid callable has an id")
	}
	if _, ok := InvalidCallable.MethodName(); ok {
		t.Errorf("invalid callable has a method")
	}
	if _, err := InvalidCallable.CallCustom(); err == nil {
		t.Errorf("CallCustom on invalid callable should fail")
	}
}

func TestSignal(t *testing.T) {
	s := Signal{Object: ObjectRef{ID: 3, Ptr: 1, Class: "Node"}, Name: "ready"}
	if s.IsNull() {
		t.Fatalf("signal with object and name is null")
	}
	if (Signal{}).String() != "null::null" {
		t.Errorf("null signal String = %q", Signal{}.String())
	}
	v := NewSignal(s)
	if got, ok := v.AsSignal(); !ok || got != s {
		t.Errorf("AsSignal = %v, %v", got, ok)
	}
}
